package jsondp

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/models"
)

func TestValueOf_Accepted(t *testing.T) {
	obj := NewObject()
	arr := NewArray()
	raw := models.MustParseJSON(`{"a":[1,2]}`)

	tests := []struct {
		name  string
		input any
		kind  Kind
	}{
		{"string", "Paolo", StringKind},
		{"object", obj, ObjectKind},
		{"array", arr, ArrayKind},
		{"opaque json", raw, JSONKind},
		{"admitted value", String("x"), StringKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
		})
	}
}

func TestValueOf_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		input any
		kind  string
	}{
		{"int", 42, "int"},
		{"float", 4.2, "float64"},
		{"bool", true, "bool"},
		{"map", map[string]any{}, "map[string]interface {}"},
		{"nil", nil, "<nil>"},
		{"nil object", (*Object)(nil), "nil *jsondp.Object"},
		{"zero json", models.JSON{}, "zero models.JSON"},
		{"zero value", Value{}, "zero jsondp.Value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValueOf(tt.input)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrUnacceptableValue))

			var kindErr *errors.KindError
			require.True(t, stderrors.As(err, &kindErr))
			assert.Equal(t, tt.kind, kindErr.Kind)
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	s, ok := String("Paolo").Str()
	assert.True(t, ok)
	assert.Equal(t, "Paolo", s)

	_, ok = String("Paolo").Object()
	assert.False(t, ok)

	j, ok := JSONValue(models.MustParseJSON(`true`)).JSON()
	assert.True(t, ok)
	assert.Equal(t, models.BoolKind, j.Kind())

	assert.Nil(t, Value{}.Interface())
	assert.Equal(t, "Paolo", String("Paolo").Interface())
	assert.Equal(t, "json", JSONKind.String())
}

func TestValue_Render(t *testing.T) {
	nested := NewObject()
	require.NoError(t, nested.PutWithProvenance("city", "Boston", StringBlock("importedFrom", "Friend")))
	v := ObjectValue(nested)

	assert.Equal(t, `{"city":"Boston"}`, v.RenderPlain())
	assert.Equal(t, `[{"city":"Boston","@provenance":{"importedFrom":"Friend"}}]`, v.RenderWithProvenance())
	assert.Equal(t, `"a \"b\""`, String(`a "b"`).RenderPlain())
	assert.Equal(t, "null", Value{}.RenderPlain())
}
