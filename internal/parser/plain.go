package parser

import (
	stderrors "errors"
	"fmt"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/jsondp"
	"github.com/mcncl/jsondp/internal/models"
)

// FromPlain builds a document from ordinary JSON. Every top-level member of
// an object root, or element of an array root, is attributed to provenance
// (nil for none). Strings become string values. Nested arrays whose elements
// are all objects or all arrays become arrays without provenance, since the
// decoder would read their opaque form as a rendered container. Everything
// else is kept as opaque JSON.
func FromPlain(data models.JSON, provenance *jsondp.Block) (*Document, error) {
	doc := &Document{}
	if err := AppendPlain(doc, data, provenance); err != nil {
		return nil, err
	}
	return doc, nil
}

// AppendPlain adds the top-level entries of data to doc, attributed to
// provenance. An empty doc takes the kind of data's root; afterwards the
// roots must agree.
func AppendPlain(doc *Document, data models.JSON, provenance *jsondp.Block) error {
	raw := data.Raw()
	switch data.Kind() {
	case models.ObjectKind:
		if doc.IsArray() {
			return errors.NewInputError("cannot add object members to an array document", errors.ErrMixedRoots)
		}
		if doc.Object == nil {
			doc.Object = jsondp.NewObject()
		}
		members, err := splitObject(raw)
		if err != nil {
			return errors.NewParsingError("failed to read object", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		for _, m := range members {
			v, err := plainValue(m.raw)
			if err != nil {
				return err
			}
			if err := doc.Object.PutWithProvenance(m.key, v, provenance); err != nil {
				return err
			}
		}
		return nil
	case models.ArrayKind:
		if doc.Object != nil {
			return errors.NewInputError("cannot add array elements to an object document", errors.ErrMixedRoots)
		}
		if doc.Array == nil {
			doc.Array = jsondp.NewArray()
		}
		elems, err := splitArray(raw)
		if err != nil {
			return errors.NewParsingError("failed to read array", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		for _, e := range elems {
			v, err := plainValue(e)
			if err != nil {
				return err
			}
			if err := doc.Array.AddWithProvenance(v, provenance); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.NewInputError(
			fmt.Sprintf("cannot attach provenance to a %s root", data.Kind()),
			errors.ErrNotAContainer,
		)
	}
}

func plainValue(raw []byte) (any, error) {
	switch raw[0] {
	case '"':
		return readString(raw)
	case '[':
		elems, err := splitArray(raw)
		if err != nil {
			return nil, errors.NewParsingError("failed to read array value", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		if s := shapeOf(elems); s == objectShape || s == arrayShape {
			return plainArray(elems)
		}
	}
	v, err := models.ParseJSON(raw)
	if err != nil {
		return nil, errors.NewParsingError("invalid JSON value", stderrors.Join(errors.ErrInvalidJSON, err))
	}
	return v, nil
}

func plainArray(elems [][]byte) (*jsondp.Array, error) {
	values := make([]any, 0, len(elems))
	for _, e := range elems {
		v, err := plainValue(e)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	arr := jsondp.NewArray()
	if err := arr.AddRun(nil, values...); err != nil {
		return nil, err
	}
	return arr, nil
}
