package jsondp

import (
	jsoniter "github.com/json-iterator/go"
)

// Hit is one value found under Key, with the provenance it was found under.
// It renders as {"<Key>":<value>,"@provenance":{...}}, the provenance member
// omitted when Provenance is nil.
type Hit struct {
	Key        string
	Value      Value
	Provenance *Block
}

// MarshalJSON implements json.Marshaler.
func (h Hit) MarshalJSON() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h Hit) String() string {
	return render(h.write)
}

func (h Hit) write(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	stream.WriteObjectField(h.Key)
	writeValue(stream, h.Value, true)
	if h.Provenance != nil {
		stream.WriteMore()
		writeProvenanceMember(stream, h.Provenance)
	}
	stream.WriteObjectEnd()
}

// Hits renders a GetWithProvenance result as a JSON array.
type Hits []Hit

// MarshalJSON implements json.Marshaler.
func (hs Hits) MarshalJSON() ([]byte, error) {
	return []byte(hs.String()), nil
}

func (hs Hits) String() string {
	return render(func(stream *jsoniter.Stream) {
		stream.WriteArrayStart()
		for i, h := range hs {
			if i > 0 {
				stream.WriteMore()
			}
			h.write(stream)
		}
		stream.WriteArrayEnd()
	})
}

// Selection is the result of Object.Select and renders as
// {"<Key>":[<values>...]} without provenance.
type Selection struct {
	Key    string
	Values []Value
}

// MarshalJSON implements json.Marshaler.
func (s Selection) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s Selection) String() string {
	return render(func(stream *jsoniter.Stream) {
		stream.WriteObjectStart()
		stream.WriteObjectField(s.Key)
		stream.WriteArrayStart()
		for i, v := range s.Values {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, v, false)
		}
		stream.WriteArrayEnd()
		stream.WriteObjectEnd()
	})
}

// ProvenancedSelection is the result of Object.SelectWithProvenance and
// renders as {"<Key>":[<hits>...]}.
type ProvenancedSelection struct {
	Key  string
	Hits []Hit
}

// MarshalJSON implements json.Marshaler.
func (s ProvenancedSelection) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s ProvenancedSelection) String() string {
	return render(func(stream *jsoniter.Stream) {
		stream.WriteObjectStart()
		stream.WriteObjectField(s.Key)
		stream.WriteArrayStart()
		for i, h := range s.Hits {
			if i > 0 {
				stream.WriteMore()
			}
			h.write(stream)
		}
		stream.WriteArrayEnd()
		stream.WriteObjectEnd()
	})
}

// Entry is an array element with the provenance of its run. It renders as
// [<value>] or [<value>,{"@provenance":{...}}].
type Entry struct {
	Value      Value
	Provenance *Block
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e Entry) String() string {
	return render(func(stream *jsoniter.Stream) {
		stream.WriteArrayStart()
		writeValue(stream, e.Value, true)
		if e.Provenance != nil {
			stream.WriteMore()
			writeProvenanceEnvelope(stream, e.Provenance)
		}
		stream.WriteArrayEnd()
	})
}

// Lineage is the provenance collected from a container, one block per group
// or run that has one. It renders as null when empty, as the block itself
// when there is exactly one, and as an array of blocks otherwise.
type Lineage []*Block

// Single returns the only block when the lineage holds exactly one.
func (l Lineage) Single() (*Block, bool) {
	if len(l) != 1 {
		return nil, false
	}
	return l[0], true
}

// MarshalJSON implements json.Marshaler.
func (l Lineage) MarshalJSON() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l Lineage) String() string {
	return render(func(stream *jsoniter.Stream) {
		switch len(l) {
		case 0:
			stream.WriteNil()
		case 1:
			l[0].write(stream)
		default:
			stream.WriteArrayStart()
			for i, b := range l {
				if i > 0 {
					stream.WriteMore()
				}
				b.write(stream)
			}
			stream.WriteArrayEnd()
		}
	})
}
