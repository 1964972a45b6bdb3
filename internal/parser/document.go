package parser

import (
	"github.com/mcncl/jsondp/internal/jsondp"
)

// Document is the root of a JSON-DP document: exactly one of Object and
// Array is set once the document holds data. The zero Document is empty and
// takes the kind of the first data appended to it.
type Document struct {
	Object *jsondp.Object
	Array  *jsondp.Array
}

// IsArray reports whether the root is an array.
func (d *Document) IsArray() bool {
	return d.Array != nil
}

// IsEmpty reports whether the document has no root yet.
func (d *Document) IsEmpty() bool {
	return d.Object == nil && d.Array == nil
}

// Root returns the root container as a Value.
func (d *Document) Root() jsondp.Value {
	switch {
	case d.Object != nil:
		return jsondp.ObjectValue(d.Object)
	case d.Array != nil:
		return jsondp.ArrayValue(d.Array)
	default:
		return jsondp.Value{}
	}
}

// GetProvenance returns the lineage of the root container.
func (d *Document) GetProvenance() jsondp.Lineage {
	switch {
	case d.Object != nil:
		return d.Object.GetProvenance()
	case d.Array != nil:
		return d.Array.GetProvenance()
	default:
		return nil
	}
}

// RenderPlain renders the document without provenance.
func (d *Document) RenderPlain() string {
	return d.Root().RenderPlain()
}

// RenderWithProvenance renders the document with provenance blocks.
func (d *Document) RenderWithProvenance() string {
	return d.Root().RenderWithProvenance()
}

var _ jsondp.Renderer = (*Document)(nil)
