package jsondp

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/mcncl/jsondp/internal/models"
)

// ProvenanceKey is the member name under which lineage is embedded in the
// with-provenance rendering.
const ProvenanceKey = "@provenance"

// Block is an ordered mapping of provenance keys to JSON values describing
// where a group of fields or a run of elements came from.
type Block struct {
	keys   []string
	values map[string]models.JSON
}

// NewBlock returns an empty provenance block.
func NewBlock() *Block {
	return &Block{values: make(map[string]models.JSON)}
}

// StringBlock returns a block holding the single pair key: "value".
func StringBlock(key, value string) *Block {
	return NewBlock().Put(key, models.StringJSON(value))
}

// Put inserts or overwrites a pair. Overwriting keeps the key's position.
func (b *Block) Put(key string, value models.JSON) *Block {
	if b.values == nil {
		b.values = make(map[string]models.JSON)
	}
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return b
}

// Get returns the value stored under key.
func (b *Block) Get(key string) (models.JSON, bool) {
	if b == nil {
		return models.JSON{}, false
	}
	v, ok := b.values[key]
	return v, ok
}

// Keys returns the provenance keys in insertion order.
func (b *Block) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, len(b.keys))
	copy(keys, b.keys)
	return keys
}

// Len returns the number of pairs. A nil block has none.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// ContainsPair reports whether the block maps key to a value structurally
// equal to value. A nil block contains nothing.
func (b *Block) ContainsPair(key string, value models.JSON) bool {
	if b == nil {
		return false
	}
	v, ok := b.values[key]
	return ok && v.Equal(value)
}

// Matches reports whether every pair of candidate is contained in b. An
// empty or nil candidate never matches: an attachment has to name at least
// one pair to share an existing block.
func (b *Block) Matches(candidate *Block) bool {
	if b == nil || candidate.Len() == 0 {
		return false
	}
	for _, k := range candidate.keys {
		if !b.ContainsPair(k, candidate.values[k]) {
			return false
		}
	}
	return true
}

// Equal reports whether both blocks hold the same pairs, ignoring order.
func (b *Block) Equal(other *Block) bool {
	if b.Len() != other.Len() {
		return false
	}
	if b.Len() == 0 {
		return true
	}
	return b.Matches(other)
}

// Clone returns a copy of the block; nil stays nil.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	c := &Block{
		keys:   make([]string, len(b.keys)),
		values: make(map[string]models.JSON, len(b.values)),
	}
	copy(c.keys, b.keys)
	for k, v := range b.values {
		c.values[k] = v
	}
	return c
}

// MarshalJSON renders the block as a JSON object in key order.
func (b *Block) MarshalJSON() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Block) String() string {
	return render(b.write)
}

func (b *Block) write(stream *jsoniter.Stream) {
	if b == nil {
		stream.WriteNil()
		return
	}
	stream.WriteObjectStart()
	for i, k := range b.keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(k)
		writeJSON(stream, b.values[k])
	}
	stream.WriteObjectEnd()
}
