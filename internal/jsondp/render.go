package jsondp

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/mcncl/jsondp/internal/models"
)

// Renderer is implemented by everything that has both a plain and a
// with-provenance JSON form.
type Renderer interface {
	// RenderPlain returns JSON text with every provenance block dropped.
	RenderPlain() string
	// RenderWithProvenance returns JSON text where each group or run is
	// accompanied by its "@provenance" block.
	RenderWithProvenance() string
}

var (
	_ Renderer = (*Object)(nil)
	_ Renderer = (*Array)(nil)
	_ Renderer = Value{}
)

func render(write func(*jsoniter.Stream)) string {
	stream := models.Codec.BorrowStream(nil)
	defer models.Codec.ReturnStream(stream)
	write(stream)
	return string(stream.Buffer())
}

// writeValue writes v, expanding nested containers into the same rendering
// family as the enclosing one.
func writeValue(stream *jsoniter.Stream, v Value, withProvenance bool) {
	switch v.kind {
	case StringKind:
		stream.WriteString(v.str)
	case ObjectKind:
		if withProvenance {
			v.object.writeWithProvenance(stream)
		} else {
			v.object.writePlain(stream)
		}
	case ArrayKind:
		if withProvenance {
			v.array.writeWithProvenance(stream)
		} else {
			v.array.writePlain(stream)
		}
	case JSONKind:
		writeJSON(stream, v.json)
	default:
		stream.WriteNil()
	}
}

func writeJSON(stream *jsoniter.Stream, j models.JSON) {
	if j.IsZero() {
		stream.WriteNil()
		return
	}
	stream.WriteRaw(j.String())
}

// writeProvenanceMember writes the `"@provenance":{...}` member of an
// object already opened on the stream.
func writeProvenanceMember(stream *jsoniter.Stream, block *Block) {
	stream.WriteObjectField(ProvenanceKey)
	block.write(stream)
}
