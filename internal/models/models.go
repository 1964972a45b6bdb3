package models

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
)

// Codec is the json-iterator configuration shared by every package that reads
// or writes JSON-DP text. HTML characters are written as is and map keys of
// opaque values are sorted so output is deterministic.
var Codec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// JSONKind is the syntactic kind of an opaque JSON value.
type JSONKind int

const (
	InvalidKind JSONKind = iota
	StringKind
	NumberKind
	BoolKind
	NullKind
	ObjectKind
	ArrayKind
)

func (k JSONKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "boolean"
	case NullKind:
		return "null"
	case ObjectKind:
		return "object"
	case ArrayKind:
		return "array"
	default:
		return "invalid"
	}
}

// JSON is an opaque JSON value. It holds the compact textual form of any
// JSON value (string, number, boolean, null, object or array) and is only
// ever compared, copied and written out.
type JSON struct {
	raw []byte
}

// Null is the JSON null literal.
var Null = JSON{raw: []byte("null")}

// ParseJSON validates data as exactly one JSON value and returns it in
// compact form.
func ParseJSON(data []byte) (JSON, error) {
	if !json.Valid(data) {
		return JSON{}, fmt.Errorf("invalid JSON value %q", truncate(data))
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return JSON{}, fmt.Errorf("invalid JSON value %q: %w", truncate(data), err)
	}
	return JSON{raw: buf.Bytes()}, nil
}

// MustParseJSON is like ParseJSON but panics on invalid input. It is meant
// for literals in tests and examples.
func MustParseJSON(s string) JSON {
	j, err := ParseJSON([]byte(s))
	if err != nil {
		panic(err)
	}
	return j
}

// MarshalValue encodes an arbitrary Go value as an opaque JSON value.
func MarshalValue(v any) (JSON, error) {
	data, err := Codec.Marshal(v)
	if err != nil {
		return JSON{}, fmt.Errorf("failed to encode %T as JSON: %w", v, err)
	}
	return ParseJSON(data)
}

// StringJSON returns the JSON string literal for s.
func StringJSON(s string) JSON {
	data, _ := Codec.Marshal(s)
	return JSON{raw: data}
}

// Raw returns the compact JSON text. The slice must not be modified.
func (j JSON) Raw() []byte {
	return j.raw
}

// IsZero reports whether j was never assigned a value.
func (j JSON) IsZero() bool {
	return len(j.raw) == 0
}

// Kind returns the syntactic kind of the value.
func (j JSON) Kind() JSONKind {
	if len(j.raw) == 0 {
		return InvalidKind
	}
	switch j.raw[0] {
	case '"':
		return StringKind
	case '{':
		return ObjectKind
	case '[':
		return ArrayKind
	case 't', 'f':
		return BoolKind
	case 'n':
		return NullKind
	default:
		return NumberKind
	}
}

// Decode unmarshals the value into a generic Go representation.
func (j JSON) Decode() (any, error) {
	if j.IsZero() {
		return nil, nil
	}
	var v any
	if err := Codec.Unmarshal(j.raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Equal reports structural equality: object member order and insignificant
// whitespace are ignored, numbers compare by exact value and duplicate
// object members are kept.
func (j JSON) Equal(other JSON) bool {
	if bytes.Equal(j.raw, other.raw) {
		return true
	}
	if j.Kind() != other.Kind() {
		return false
	}
	a, err := j.canonical()
	if err != nil {
		return false
	}
	b, err := other.canonical()
	if err != nil {
		return false
	}
	return cmp.Equal(a, b, cmp.Comparer(equalNumbers))
}

type canonicalMember struct {
	Key   string
	Value any
}

// canonical reads the value into a tree where objects are member lists
// sorted by key and numbers stay json.Number.
func (j JSON) canonical() (any, error) {
	iter := Codec.BorrowIterator(j.raw)
	defer Codec.ReturnIterator(iter)

	v := readCanonical(iter)
	if iter.Error != nil && !stderrors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}
	return v, nil
}

func readCanonical(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		members := []canonicalMember{}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			members = append(members, canonicalMember{Key: key, Value: readCanonical(it)})
			return it.Error == nil
		})
		slices.SortStableFunc(members, func(a, b canonicalMember) int {
			return strings.Compare(a.Key, b.Key)
		})
		return members
	case jsoniter.ArrayValue:
		elems := []any{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			elems = append(elems, readCanonical(it))
			return it.Error == nil
		})
		return elems
	case jsoniter.NumberValue:
		return iter.ReadNumber()
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.BoolValue:
		return iter.ReadBool()
	default:
		iter.Skip()
		return nil
	}
}

func equalNumbers(a, b json.Number) bool {
	if a == b {
		return true
	}
	x, _, errA := big.ParseFloat(string(a), 10, 512, big.ToNearestEven)
	y, _, errB := big.ParseFloat(string(b), 10, 512, big.ToNearestEven)
	if errA != nil || errB != nil {
		return false
	}
	return x.Cmp(y) == 0
}

// MarshalJSON implements json.Marshaler.
func (j JSON) MarshalJSON() ([]byte, error) {
	if j.IsZero() {
		return []byte("null"), nil
	}
	return j.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *JSON) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSON(data)
	if err != nil {
		return err
	}
	*j = parsed
	return nil
}

func (j JSON) String() string {
	if j.IsZero() {
		return "null"
	}
	return string(j.raw)
}

func truncate(data []byte) string {
	const limit = 64
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
