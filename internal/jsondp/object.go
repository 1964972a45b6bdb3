package jsondp

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/mcncl/jsondp/internal/models"
)

// Object is a JSON object whose key/value pairs carry optional provenance.
// Pairs are kept in groups; all pairs of a group share the group's block.
// The zero value is an empty object ready to use.
type Object struct {
	groups []*fieldGroup
}

// fieldGroup holds pairs sharing one provenance block. The block is
// allocated on the first provenance pair and only ever extended.
type fieldGroup struct {
	pairs      []pair
	provenance *Block
}

type pair struct {
	key   string
	value Value
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{}
}

func (g *fieldGroup) put(key string, value Value) {
	g.pairs = append(g.pairs, pair{key: key, value: value})
}

func (g *fieldGroup) putProvenance(key string, value models.JSON) {
	if g.provenance == nil {
		g.provenance = NewBlock()
	}
	g.provenance.Put(key, value)
}

func (g *fieldGroup) containsKey(key string) bool {
	for _, p := range g.pairs {
		if p.key == key {
			return true
		}
	}
	return false
}

func (g *fieldGroup) values(key string) []Value {
	var out []Value
	for _, p := range g.pairs {
		if p.key == key {
			out = append(out, p.value)
		}
	}
	return out
}

// Put adds a pair without provenance. Every call appends a new group, even
// for a key already present.
func (o *Object) Put(key string, value any) error {
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	g := &fieldGroup{}
	g.put(key, v)
	o.groups = append(o.groups, g)
	return nil
}

// PutWithProvenance adds a pair attributed to provenance. The pair joins the
// first group whose block contains every pair of provenance; otherwise a new
// group is appended with a copy of provenance as its block. A nil or empty
// provenance never joins a group and allocates no block.
func (o *Object) PutWithProvenance(key string, value any, provenance *Block) error {
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	for _, g := range o.groups {
		if g.provenance != nil && g.provenance.Matches(provenance) {
			g.put(key, v)
			return nil
		}
	}
	g := &fieldGroup{}
	g.put(key, v)
	for _, k := range provenance.Keys() {
		pv, _ := provenance.Get(k)
		g.putProvenance(k, pv)
	}
	o.groups = append(o.groups, g)
	return nil
}

// Field is a key/value pair handed to AddGroup.
type Field struct {
	Key   string
	Value any
}

// AddGroup appends one group holding fields, attributed to a copy of
// provenance. Unlike PutWithProvenance it never joins an existing group,
// which lets a decoded document keep its grouping exactly. All values are
// checked before the object is touched.
func (o *Object) AddGroup(provenance *Block, fields ...Field) error {
	g := &fieldGroup{}
	for _, f := range fields {
		v, err := ValueOf(f.Value)
		if err != nil {
			return err
		}
		g.put(f.Key, v)
	}
	for _, k := range provenance.Keys() {
		pv, _ := provenance.Get(k)
		g.putProvenance(k, pv)
	}
	o.groups = append(o.groups, g)
	return nil
}

// Get returns the values stored under key. With a single hit the value is
// returned as is; with several hits they are returned, in insertion order,
// as an array value without provenance. ok is false when key is absent.
func (o *Object) Get(key string) (Value, bool) {
	hits := o.GetAll(key)
	switch len(hits) {
	case 0:
		return Value{}, false
	case 1:
		return hits[0], true
	default:
		return ArrayValue(arrayOf(hits)), true
	}
}

// GetAll returns every value stored under key in insertion order.
func (o *Object) GetAll(key string) []Value {
	var hits []Value
	for _, g := range o.groups {
		hits = append(hits, g.values(key)...)
	}
	return hits
}

// GetWhere returns the value of key from the first group whose provenance
// maps provKey to provValue.
func (o *Object) GetWhere(key, provKey string, provValue models.JSON) (Value, bool) {
	for _, g := range o.groups {
		if !g.containsKey(key) || !g.provenance.ContainsPair(provKey, provValue) {
			continue
		}
		return g.values(key)[0], true
	}
	return Value{}, false
}

// Select collects the values of key from every group whose provenance maps
// provKey to one of provValues. Hits are ordered by group, then by the
// order of provValues.
func (o *Object) Select(key, provKey string, provValues ...models.JSON) Selection {
	sel := Selection{Key: key}
	o.join(key, provKey, provValues, func(v Value, _ models.JSON) {
		sel.Values = append(sel.Values, v)
	})
	return sel
}

// SelectWithProvenance is Select keeping, for every hit, the provenance
// pair that matched.
func (o *Object) SelectWithProvenance(key, provKey string, provValues ...models.JSON) ProvenancedSelection {
	sel := ProvenancedSelection{Key: key}
	o.join(key, provKey, provValues, func(v Value, matched models.JSON) {
		sel.Hits = append(sel.Hits, Hit{
			Key:        key,
			Value:      v,
			Provenance: NewBlock().Put(provKey, matched),
		})
	})
	return sel
}

func (o *Object) join(key, provKey string, provValues []models.JSON, emit func(Value, models.JSON)) {
	for _, g := range o.groups {
		if !g.containsKey(key) {
			continue
		}
		for _, pv := range provValues {
			if !g.provenance.ContainsPair(provKey, pv) {
				continue
			}
			for _, v := range g.values(key) {
				emit(v, pv)
			}
		}
	}
}

// GetWithProvenance returns every value stored under key together with the
// provenance of the group holding it.
func (o *Object) GetWithProvenance(key string) Hits {
	hits := Hits{}
	for _, g := range o.groups {
		for _, v := range g.values(key) {
			hits = append(hits, Hit{Key: key, Value: v, Provenance: g.provenance.Clone()})
		}
	}
	return hits
}

// GetProvenance returns the blocks owned by the object's groups in group
// order, or nil when no group has provenance.
func (o *Object) GetProvenance() Lineage {
	var lineage Lineage
	for _, g := range o.groups {
		if g.provenance != nil {
			lineage = append(lineage, g.provenance.Clone())
		}
	}
	return lineage
}

// ContainsKey reports whether any group holds key.
func (o *Object) ContainsKey(key string) bool {
	for _, g := range o.groups {
		if g.containsKey(key) {
			return true
		}
	}
	return false
}

// Keys returns the distinct keys in order of first insertion.
func (o *Object) Keys() []string {
	keys, _ := o.flatten()
	return keys
}

// Len returns the number of distinct keys.
func (o *Object) Len() int {
	return len(o.Keys())
}

// flatten merges all groups into one mapping; on collisions the last pair
// wins while the key keeps its first position.
func (o *Object) flatten() ([]string, map[string]Value) {
	var keys []string
	latest := make(map[string]Value)
	for _, g := range o.groups {
		for _, p := range g.pairs {
			if _, seen := latest[p.key]; !seen {
				keys = append(keys, p.key)
			}
			latest[p.key] = p.value
		}
	}
	return keys, latest
}

// RenderPlain renders the object as one flat JSON object without
// provenance. Keys stored in several groups keep only their last value.
func (o *Object) RenderPlain() string {
	return render(o.writePlain)
}

// RenderWithProvenance renders the object as a JSON array with one object
// per group, each followed by its "@provenance" member when it has one.
func (o *Object) RenderWithProvenance() string {
	return render(o.writeWithProvenance)
}

// MarshalJSON renders the object without provenance.
func (o *Object) MarshalJSON() ([]byte, error) {
	return []byte(o.RenderPlain()), nil
}

func (o *Object) String() string {
	return o.RenderPlain()
}

func (o *Object) writePlain(stream *jsoniter.Stream) {
	keys, latest := o.flatten()
	stream.WriteObjectStart()
	for i, k := range keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(k)
		writeValue(stream, latest[k], false)
	}
	stream.WriteObjectEnd()
}

func (o *Object) writeWithProvenance(stream *jsoniter.Stream) {
	stream.WriteArrayStart()
	for i, g := range o.groups {
		if i > 0 {
			stream.WriteMore()
		}
		g.write(stream)
	}
	stream.WriteArrayEnd()
}

func (g *fieldGroup) write(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	for i, p := range g.pairs {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(p.key)
		writeValue(stream, p.value, true)
	}
	if g.provenance != nil {
		if len(g.pairs) > 0 {
			stream.WriteMore()
		}
		writeProvenanceMember(stream, g.provenance)
	}
	stream.WriteObjectEnd()
}
