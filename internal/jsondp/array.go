package jsondp

import (
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/models"
)

// Array is a JSON array whose elements carry optional provenance. Elements
// are kept in runs, one per insertion call; runs are never merged, so a
// flattened index always resolves against call order. The zero value is an
// empty array ready to use.
type Array struct {
	runs []*elementRun
}

type elementRun struct {
	items      []Value
	provenance *Block
}

// NewArray returns an empty array.
func NewArray() *Array {
	return &Array{}
}

// arrayOf wraps already admitted values, one unprovenanced run each.
func arrayOf(values []Value) *Array {
	a := &Array{runs: make([]*elementRun, 0, len(values))}
	for _, v := range values {
		a.runs = append(a.runs, &elementRun{items: []Value{v}})
	}
	return a
}

func (r *elementRun) putProvenance(key string, value models.JSON) {
	if r.provenance == nil {
		r.provenance = NewBlock()
	}
	r.provenance.Put(key, value)
}

func (r *elementRun) attach(provenance *Block) {
	for _, k := range provenance.Keys() {
		pv, _ := provenance.Get(k)
		r.putProvenance(k, pv)
	}
}

// Size returns the number of elements across all runs.
func (a *Array) Size() int {
	size := 0
	for _, r := range a.runs {
		size += len(r.items)
	}
	return size
}

// Add appends value as a new run without provenance.
func (a *Array) Add(value any) error {
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	a.runs = append(a.runs, &elementRun{items: []Value{v}})
	return nil
}

// AddWithProvenance appends value as a new run attributed to a copy of
// provenance. The run is never merged with an earlier one, even when both
// carry equal blocks.
func (a *Array) AddWithProvenance(value any, provenance *Block) error {
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	r := &elementRun{items: []Value{v}}
	r.attach(provenance)
	a.runs = append(a.runs, r)
	return nil
}

// AddRun appends values as one run sharing a copy of provenance. All values
// are checked before the array is touched; no values adds nothing.
func (a *Array) AddRun(provenance *Block, values ...any) error {
	items := make([]Value, 0, len(values))
	for _, value := range values {
		v, err := ValueOf(value)
		if err != nil {
			return err
		}
		items = append(items, v)
	}
	if len(items) == 0 {
		return nil
	}
	r := &elementRun{items: items}
	r.attach(provenance)
	a.runs = append(a.runs, r)
	return nil
}

// locate returns the run owning the flattened index and the index of the
// run's first element.
func (a *Array) locate(index int) (int, int, error) {
	if index < 0 {
		return 0, 0, errors.NewIndexError(index, a.Size())
	}
	cursor := 0
	for i, r := range a.runs {
		if index < cursor+len(r.items) {
			return i, cursor, nil
		}
		cursor += len(r.items)
	}
	return 0, 0, errors.NewIndexError(index, cursor)
}

// Get returns the element at the flattened index.
func (a *Array) Get(index int) (Value, error) {
	ri, offset, err := a.locate(index)
	if err != nil {
		return Value{}, err
	}
	return a.runs[ri].items[index-offset], nil
}

// GetWithProvenance returns the element at the flattened index together with
// the provenance of its run.
func (a *Array) GetWithProvenance(index int) (Entry, error) {
	ri, offset, err := a.locate(index)
	if err != nil {
		return Entry{}, err
	}
	r := a.runs[ri]
	return Entry{Value: r.items[index-offset], Provenance: r.provenance.Clone()}, nil
}

// Replace swaps the element at the flattened index for value, which becomes
// a run of its own without provenance. Other elements of the old run keep
// its provenance in runs before and after the replacement.
func (a *Array) Replace(index int, value any) error {
	v, err := ValueOf(value)
	if err != nil {
		return err
	}
	ri, offset, err := a.locate(index)
	if err != nil {
		return err
	}
	old := a.runs[ri]
	pos := index - offset

	var split []*elementRun
	if pos > 0 {
		split = append(split, &elementRun{
			items:      slices.Clone(old.items[:pos]),
			provenance: old.provenance.Clone(),
		})
	}
	split = append(split, &elementRun{items: []Value{v}})
	if pos < len(old.items)-1 {
		split = append(split, &elementRun{
			items:      slices.Clone(old.items[pos+1:]),
			provenance: old.provenance.Clone(),
		})
	}
	a.runs = slices.Concat(a.runs[:ri], split, a.runs[ri+1:])
	return nil
}

// Values returns every element in order, provenance dropped.
func (a *Array) Values() []Value {
	values := make([]Value, 0, a.Size())
	for _, r := range a.runs {
		values = append(values, r.items...)
	}
	return values
}

// GetProvenance returns the blocks owned by the array's runs in run order,
// or nil when no run has provenance.
func (a *Array) GetProvenance() Lineage {
	var lineage Lineage
	for _, r := range a.runs {
		if r.provenance != nil {
			lineage = append(lineage, r.provenance.Clone())
		}
	}
	return lineage
}

// RenderPlainValues renders every element in one flat JSON array without
// provenance.
func (a *Array) RenderPlainValues() string {
	return render(a.writePlain)
}

// RenderPlain is RenderPlainValues.
func (a *Array) RenderPlain() string {
	return a.RenderPlainValues()
}

// RenderWithProvenance renders the array as a JSON array of runs; each run
// lists its elements followed by {"@provenance":{...}} when it has a block.
func (a *Array) RenderWithProvenance() string {
	return render(a.writeWithProvenance)
}

// MarshalJSON renders the array without provenance.
func (a *Array) MarshalJSON() ([]byte, error) {
	return []byte(a.RenderPlainValues()), nil
}

func (a *Array) String() string {
	return a.RenderPlainValues()
}

func (a *Array) writePlain(stream *jsoniter.Stream) {
	stream.WriteArrayStart()
	first := true
	for _, r := range a.runs {
		for _, v := range r.items {
			if !first {
				stream.WriteMore()
			}
			first = false
			writeValue(stream, v, false)
		}
	}
	stream.WriteArrayEnd()
}

func (a *Array) writeWithProvenance(stream *jsoniter.Stream) {
	stream.WriteArrayStart()
	for i, r := range a.runs {
		if i > 0 {
			stream.WriteMore()
		}
		r.write(stream)
	}
	stream.WriteArrayEnd()
}

func (r *elementRun) write(stream *jsoniter.Stream) {
	stream.WriteArrayStart()
	for i, v := range r.items {
		if i > 0 {
			stream.WriteMore()
		}
		writeValue(stream, v, true)
	}
	if r.provenance != nil {
		if len(r.items) > 0 {
			stream.WriteMore()
		}
		writeProvenanceEnvelope(stream, r.provenance)
	}
	stream.WriteArrayEnd()
}

// writeProvenanceEnvelope writes {"@provenance":{...}}.
func writeProvenanceEnvelope(stream *jsoniter.Stream, block *Block) {
	stream.WriteObjectStart()
	writeProvenanceMember(stream, block)
	stream.WriteObjectEnd()
}
