package jsondp

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/models"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	InvalidKind Kind = iota
	StringKind
	ObjectKind
	ArrayKind
	JSONKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	case JSONKind:
		return "json"
	default:
		return "invalid"
	}
}

// Value is a value held by an Object field or an Array element: a string, a
// nested Object, a nested Array or an opaque JSON value.
type Value struct {
	kind   Kind
	str    string
	object *Object
	array  *Array
	json   models.JSON
}

// String returns a Value holding s.
func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

// ObjectValue returns a Value holding a nested object.
func ObjectValue(o *Object) Value {
	return Value{kind: ObjectKind, object: o}
}

// ArrayValue returns a Value holding a nested array.
func ArrayValue(a *Array) Value {
	return Value{kind: ArrayKind, array: a}
}

// JSONValue returns a Value holding an opaque JSON value.
func JSONValue(j models.JSON) Value {
	return Value{kind: JSONKind, json: j}
}

// ValueOf admits v into a container. Strings, *Object, *Array, models.JSON
// and already admitted Values are accepted; anything else is rejected with
// an error naming the concrete Go type.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		if x.kind == InvalidKind {
			return Value{}, errors.NewTypeError("zero jsondp.Value")
		}
		return x, nil
	case string:
		return String(x), nil
	case *Object:
		if x == nil {
			return Value{}, errors.NewTypeError("nil *jsondp.Object")
		}
		return ObjectValue(x), nil
	case *Array:
		if x == nil {
			return Value{}, errors.NewTypeError("nil *jsondp.Array")
		}
		return ArrayValue(x), nil
	case models.JSON:
		if x.IsZero() {
			return Value{}, errors.NewTypeError("zero models.JSON")
		}
		return JSONValue(x), nil
	default:
		return Value{}, errors.NewTypeError(fmt.Sprintf("%T", v))
	}
}

// Kind returns the variant held.
func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the string if v holds one.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == StringKind
}

// Object returns the nested object if v holds one.
func (v Value) Object() (*Object, bool) {
	return v.object, v.kind == ObjectKind
}

// Array returns the nested array if v holds one.
func (v Value) Array() (*Array, bool) {
	return v.array, v.kind == ArrayKind
}

// JSON returns the opaque JSON value if v holds one.
func (v Value) JSON() (models.JSON, bool) {
	return v.json, v.kind == JSONKind
}

// Interface returns the held value as string, *Object, *Array or
// models.JSON, or nil for the zero Value.
func (v Value) Interface() any {
	switch v.kind {
	case StringKind:
		return v.str
	case ObjectKind:
		return v.object
	case ArrayKind:
		return v.array
	case JSONKind:
		return v.json
	default:
		return nil
	}
}

// RenderPlain renders the value without provenance.
func (v Value) RenderPlain() string {
	return render(func(stream *jsoniter.Stream) { writeValue(stream, v, false) })
}

// RenderWithProvenance renders the value with nested provenance blocks.
func (v Value) RenderWithProvenance() string {
	return render(func(stream *jsoniter.Stream) { writeValue(stream, v, true) })
}

// MarshalJSON renders the value without provenance.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.RenderPlain()), nil
}

func (v Value) String() string {
	return v.RenderPlain()
}
