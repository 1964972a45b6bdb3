package parser

import (
	stderrors "errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/jsondp"
	"github.com/mcncl/jsondp/internal/models"
)

// Decode rebuilds a document from its with-provenance rendering.
//
// A JSON array of objects is an object rendering (one object per group, the
// group's block under "@provenance"); a JSON array of arrays is an array
// rendering (one array per run, the run's block in a trailing
// {"@provenance":{...}} element). The empty array decodes as an empty array.
// Nested array values of either shape are decoded the same way; strings
// become string values and anything else is kept as opaque JSON.
func Decode(data models.JSON) (*Document, error) {
	raw := data.Raw()
	if data.Kind() != models.ArrayKind {
		return nil, errors.NewParsingError(
			fmt.Sprintf("expected a JSON array at the root, found %s", data.Kind()),
			errors.ErrNotJSONDP,
		)
	}
	elems, err := splitArray(raw)
	if err != nil {
		return nil, errors.NewParsingError("failed to read document root", stderrors.Join(errors.ErrInvalidJSON, err))
	}

	switch shapeOf(elems) {
	case objectShape:
		obj, err := decodeObject(elems)
		if err != nil {
			return nil, err
		}
		return &Document{Object: obj}, nil
	case arrayShape, emptyShape:
		arr, err := decodeArray(elems)
		if err != nil {
			return nil, err
		}
		return &Document{Array: arr}, nil
	default:
		return nil, errors.NewParsingError("root array mixes groups and runs", errors.ErrNotJSONDP)
	}
}

// DecodeString validates and decodes a with-provenance document.
func DecodeString(s string) (*Document, error) {
	data, err := ReadString(s)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

type shape int

const (
	mixedShape shape = iota
	emptyShape
	objectShape
	arrayShape
)

func shapeOf(elems [][]byte) shape {
	if len(elems) == 0 {
		return emptyShape
	}
	first := elems[0][0]
	if first != '{' && first != '[' {
		return mixedShape
	}
	for _, e := range elems[1:] {
		if e[0] != first {
			return mixedShape
		}
	}
	if first == '{' {
		return objectShape
	}
	return arrayShape
}

func decodeObject(groups [][]byte) (*jsondp.Object, error) {
	obj := jsondp.NewObject()
	for _, raw := range groups {
		members, err := splitObject(raw)
		if err != nil {
			return nil, errors.NewParsingError("failed to read group", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		var block *jsondp.Block
		fields := make([]jsondp.Field, 0, len(members))
		for _, m := range members {
			if m.key == jsondp.ProvenanceKey {
				if block, err = decodeBlock(m.raw); err != nil {
					return nil, err
				}
				continue
			}
			v, err := decodeValue(m.raw)
			if err != nil {
				return nil, err
			}
			fields = append(fields, jsondp.Field{Key: m.key, Value: v})
		}
		if err := obj.AddGroup(block, fields...); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func decodeArray(runs [][]byte) (*jsondp.Array, error) {
	arr := jsondp.NewArray()
	for _, raw := range runs {
		items, err := splitArray(raw)
		if err != nil {
			return nil, errors.NewParsingError("failed to read run", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		var block *jsondp.Block
		if n := len(items); n > 0 {
			if env, ok, err := provenanceEnvelope(items[n-1]); err != nil {
				return nil, err
			} else if ok {
				block = env
				items = items[:n-1]
			}
		}
		values := make([]any, 0, len(items))
		for _, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if err := arr.AddRun(block, values...); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// provenanceEnvelope recognises the {"@provenance":{...}} element closing a
// run.
func provenanceEnvelope(raw []byte) (*jsondp.Block, bool, error) {
	if raw[0] != '{' {
		return nil, false, nil
	}
	members, err := splitObject(raw)
	if err != nil {
		return nil, false, errors.NewParsingError("failed to read run element", stderrors.Join(errors.ErrInvalidJSON, err))
	}
	if len(members) != 1 || members[0].key != jsondp.ProvenanceKey {
		return nil, false, nil
	}
	block, err := decodeBlock(members[0].raw)
	if err != nil {
		return nil, false, err
	}
	return block, true, nil
}

func decodeBlock(raw []byte) (*jsondp.Block, error) {
	if raw[0] != '{' {
		return nil, errors.NewParsingError(
			fmt.Sprintf("%q must hold a JSON object", jsondp.ProvenanceKey),
			errors.ErrNotJSONDP,
		)
	}
	members, err := splitObject(raw)
	if err != nil {
		return nil, errors.NewParsingError("failed to read provenance", stderrors.Join(errors.ErrInvalidJSON, err))
	}
	block := jsondp.NewBlock()
	for _, m := range members {
		v, err := models.ParseJSON(m.raw)
		if err != nil {
			return nil, errors.NewParsingError("invalid provenance value", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		block.Put(m.key, v)
	}
	return block, nil
}

func decodeValue(raw []byte) (any, error) {
	switch raw[0] {
	case '"':
		return readString(raw)
	case '[':
		elems, err := splitArray(raw)
		if err != nil {
			return nil, errors.NewParsingError("failed to read array value", stderrors.Join(errors.ErrInvalidJSON, err))
		}
		switch shapeOf(elems) {
		case objectShape:
			return decodeObject(elems)
		case arrayShape, emptyShape:
			return decodeArray(elems)
		}
	}
	v, err := models.ParseJSON(raw)
	if err != nil {
		return nil, errors.NewParsingError("invalid JSON value", stderrors.Join(errors.ErrInvalidJSON, err))
	}
	return v, nil
}

type member struct {
	key string
	raw []byte
}

// splitObject returns the members of a compact JSON object in document
// order, duplicates included.
func splitObject(raw []byte) ([]member, error) {
	iter := models.Codec.BorrowIterator(raw)
	defer models.Codec.ReturnIterator(iter)

	var members []member
	iter.ReadObjectCB(func(it *jsoniter.Iterator, field string) bool {
		members = append(members, member{key: field, raw: it.SkipAndReturnBytes()})
		return it.Error == nil
	})
	if iter.Error != nil && !stderrors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}
	return members, nil
}

// splitArray returns the elements of a compact JSON array in order.
func splitArray(raw []byte) ([][]byte, error) {
	iter := models.Codec.BorrowIterator(raw)
	defer models.Codec.ReturnIterator(iter)

	var elems [][]byte
	iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
		elems = append(elems, it.SkipAndReturnBytes())
		return it.Error == nil
	})
	if iter.Error != nil && !stderrors.Is(iter.Error, io.EOF) {
		return nil, iter.Error
	}
	return elems, nil
}

func readString(raw []byte) (string, error) {
	iter := models.Codec.BorrowIterator(raw)
	defer models.Codec.ReturnIterator(iter)

	s := iter.ReadString()
	if iter.Error != nil && !stderrors.Is(iter.Error, io.EOF) {
		return "", errors.NewParsingError("invalid JSON string", stderrors.Join(errors.ErrInvalidJSON, iter.Error))
	}
	return s, nil
}
