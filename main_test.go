package main

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsondp/internal/config"
	"github.com/mcncl/jsondp/internal/errors"
)

const scenarioObject = `[{"firstName":"Paolo","lastName":"Ciccarese","@provenance":{"importedFrom":"Public Record"}},{"firstName":"Paolo Nunzio","@provenance":{"importedFrom":"Friend"}},{"title":"Dr."}]`

func newTestContext(t *testing.T, stdin string) (*Context, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	return &Context{
		Config: config.NewConfig(),
		Logger: log.New(io.Discard),
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
	}, &stdout
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		cmd      RenderCmd
		indent   int
		expected string
	}{
		{
			name:     "with provenance",
			expected: scenarioObject + "\n",
		},
		{
			name:     "plain",
			cmd:      RenderCmd{Plain: true},
			expected: `{"firstName":"Paolo Nunzio","lastName":"Ciccarese","title":"Dr."}` + "\n",
		},
		{
			name:     "indented",
			cmd:      RenderCmd{Plain: true},
			indent:   2,
			expected: "{\n  \"firstName\": \"Paolo Nunzio\",\n  \"lastName\": \"Ciccarese\",\n  \"title\": \"Dr.\"\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout := newTestContext(t, scenarioObject)
			ctx.Config.Output.Indent = tt.indent
			require.NoError(t, tt.cmd.Run(ctx))
			assert.Equal(t, tt.expected, stdout.String())
		})
	}
}

func TestRender_ConfigDisablesProvenance(t *testing.T) {
	ctx, stdout := newTestContext(t, `[["Paolo"],["Nunzio",{"@provenance":{"importedFrom":"Public Record"}}]]`)
	ctx.Config.Output.WithProvenance = false

	cmd := RenderCmd{}
	require.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "[\"Paolo\",\"Nunzio\"]\n", stdout.String())
}

func TestRender_FileInputOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "doc.json", scenarioObject)
	output := filepath.Join(dir, "out.json")

	ctx, stdout := newTestContext(t, "")
	cmd := RenderCmd{InputFlag: InputFlag{Input: input}, OutputFlag: OutputFlag{Output: output}}
	require.NoError(t, cmd.Run(ctx))
	assert.Empty(t, stdout.String())

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, scenarioObject+"\n", string(written))
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		wantErr error
	}{
		{"empty", "", errors.ErrEmptyInput},
		{"invalid", `[{"a":`, errors.ErrInvalidJSON},
		{"plain object", `{"firstName":"Paolo"}`, errors.ErrNotJSONDP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(t, tt.stdin)
			cmd := RenderCmd{}
			err := cmd.Run(ctx)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		cmd      GetCmd
		expected string
	}{
		{
			name:     "single hit",
			cmd:      GetCmd{Key: "lastName"},
			expected: `"Ciccarese"`,
		},
		{
			name:     "multiple hits",
			cmd:      GetCmd{Key: "firstName"},
			expected: `["Paolo","Paolo Nunzio"]`,
		},
		{
			name:     "missing",
			cmd:      GetCmd{Key: "nickname"},
			expected: `null`,
		},
		{
			name:     "with provenance",
			cmd:      GetCmd{Key: "firstName", WithProvenance: true},
			expected: `[{"firstName":"Paolo","@provenance":{"importedFrom":"Public Record"}},{"firstName":"Paolo Nunzio","@provenance":{"importedFrom":"Friend"}}]`,
		},
		{
			name:     "where single value",
			cmd:      GetCmd{Key: "firstName", Where: "importedFrom", Equals: []string{"Friend"}},
			expected: `"Paolo Nunzio"`,
		},
		{
			name:     "where no match",
			cmd:      GetCmd{Key: "title", Where: "importedFrom", Equals: []string{"Friend"}},
			expected: `null`,
		},
		{
			name:     "select several values",
			cmd:      GetCmd{Key: "firstName", Where: "importedFrom", Equals: []string{"Friend", "Public Record"}},
			expected: `{"firstName":["Paolo","Paolo Nunzio"]}`,
		},
		{
			name:     "select with provenance",
			cmd:      GetCmd{Key: "firstName", Where: "importedFrom", Equals: []string{"Friend"}, WithProvenance: true},
			expected: `{"firstName":[{"firstName":"Paolo Nunzio","@provenance":{"importedFrom":"Friend"}}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout := newTestContext(t, scenarioObject)
			require.NoError(t, tt.cmd.Run(ctx))
			assert.Equal(t, tt.expected+"\n", stdout.String())
		})
	}
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		cmd   GetCmd
	}{
		{"equals without where", scenarioObject, GetCmd{Key: "firstName", Equals: []string{"Friend"}}},
		{"where without equals", scenarioObject, GetCmd{Key: "firstName", Where: "importedFrom"}},
		{"array document", `[["Paolo"]]`, GetCmd{Key: "firstName"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout := newTestContext(t, tt.stdin)
			err := tt.cmd.Run(ctx)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeQuery}), "got %v", err)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestProvenance(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		expected string
	}{
		{"several blocks", scenarioObject, `[{"importedFrom":"Public Record"},{"importedFrom":"Friend"}]`},
		{"single block", `[["Paolo"],["Nunzio",{"@provenance":{"importedFrom":"Public Record"}}]]`, `{"importedFrom":"Public Record"}`},
		{"none", `[{"title":"Dr."}]`, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout := newTestContext(t, tt.stdin)
			cmd := ProvenanceCmd{}
			require.NoError(t, cmd.Run(ctx))
			assert.Equal(t, tt.expected+"\n", stdout.String())
		})
	}
}

func TestAnnotate(t *testing.T) {
	ctx, stdout := newTestContext(t, `{"firstName":"Paolo","age":42}`)
	ctx.Config.Provenance.Defaults = map[string]string{"curatedBy": "registry"}

	cmd := AnnotateCmd{Pairs: []string{"importedFrom=Public Record", "year=2010"}}
	require.NoError(t, cmd.Run(ctx))
	assert.Equal(t,
		`[{"firstName":"Paolo","age":42,"@provenance":{"importedFrom":"Public Record","year":2010,"curatedBy":"registry"}}]`+"\n",
		stdout.String())
}

func TestAnnotate_RenderPlainRoundTrip(t *testing.T) {
	tests := []string{
		`{"coords":[["a","b"],["c","d"]]}`,
		`{"items":[{"a":"x"},{"b":"y"}]}`,
		`{"year":2010,"scores":[[1,2],[3]],"tags":["x",1]}`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			ctx, stdout := newTestContext(t, input)
			annotate := AnnotateCmd{Pairs: []string{"importedFrom=Friend"}}
			require.NoError(t, annotate.Run(ctx))

			ctx, plain := newTestContext(t, stdout.String())
			render := RenderCmd{Plain: true}
			require.NoError(t, render.Run(ctx))
			assert.Equal(t, input+"\n", plain.String())
		})
	}
}

func TestGet_NumericProvenance(t *testing.T) {
	document := `[{"population":4,"@provenance":{"year":2010}},{"population":5,"@provenance":{"year":"2020"}}]`
	tests := []struct {
		name     string
		equals   []string
		expected string
	}{
		{"number", []string{"2010"}, `4`},
		{"number with fraction", []string{"2010.0"}, `4`},
		{"quoted string", []string{`"2020"`}, `5`},
		{"bare word string", []string{"2020"}, `null`},
		{"several", []string{"2010", `"2020"`}, `{"population":[4,5]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, stdout := newTestContext(t, document)
			cmd := GetCmd{Key: "population", Where: "year", Equals: tt.equals}
			require.NoError(t, cmd.Run(ctx))
			assert.Equal(t, tt.expected+"\n", stdout.String())
		})
	}
}

func TestAnnotate_NoPairs(t *testing.T) {
	ctx, stdout := newTestContext(t, `["Paolo","Nunzio"]`)
	cmd := AnnotateCmd{}
	require.NoError(t, cmd.Run(ctx))
	assert.Equal(t, `[["Paolo"],["Nunzio"]]`+"\n", stdout.String())
}

func TestAnnotate_Errors(t *testing.T) {
	ctx, _ := newTestContext(t, `{"a":"1"}`)
	cmd := AnnotateCmd{Pairs: []string{"=oops"}}
	err := cmd.Run(ctx)
	assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeInput}), "got %v", err)

	ctx, _ = newTestContext(t, `"just a string"`)
	cmd = AnnotateCmd{Pairs: []string{"importedFrom=Friend"}}
	err = cmd.Run(ctx)
	assert.True(t, stderrors.Is(err, errors.ErrNotAContainer), "got %v", err)
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	record := writeFile(t, dir, "record.json", `{"firstName":"Paolo","lastName":"Ciccarese"}`)
	friend := writeFile(t, dir, "friend.json", `{"firstName":"Paolo Nunzio"}`)

	ctx, stdout := newTestContext(t, "")
	cmd := MergeCmd{Sources: []string{"Public Record=" + record, "Friend=" + friend}}
	require.NoError(t, cmd.Run(ctx))
	assert.Equal(t,
		`[{"firstName":"Paolo","lastName":"Ciccarese","@provenance":{"importedFrom":"Public Record"}},{"firstName":"Paolo Nunzio","@provenance":{"importedFrom":"Friend"}}]`+"\n",
		stdout.String())
}

func TestMerge_Errors(t *testing.T) {
	dir := t.TempDir()
	object := writeFile(t, dir, "object.json", `{"a":"1"}`)
	array := writeFile(t, dir, "array.json", `["b"]`)

	tests := []struct {
		name    string
		sources []string
		wantErr error
	}{
		{"mixed roots", []string{"A=" + object, "B=" + array}, errors.ErrMixedRoots},
		{"missing file", []string{"A=" + filepath.Join(dir, "missing.json")}, errors.ErrFileNotFound},
		{"missing name", []string{object}, &errors.AppError{Type: errors.ErrorTypeInput}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := newTestContext(t, "")
			cmd := MergeCmd{Sources: tt.sources}
			err := cmd.Run(ctx)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNewContext(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "custom.yml", "output:\n  indent: 2\nprovenance:\n  source_key: origin\n")

	indent := 4
	var stderr bytes.Buffer
	ctx, err := newContext(Globals{Config: cfgPath, Indent: &indent, Debug: true}, strings.NewReader(""), io.Discard, &stderr)
	require.NoError(t, err)

	assert.True(t, ctx.Debug)
	assert.Equal(t, 4, ctx.Config.Output.Indent)
	assert.Equal(t, "origin", ctx.Config.Provenance.SourceKey)
	assert.Equal(t, log.DebugLevel, ctx.Logger.GetLevel())
	assert.Contains(t, stderr.String(), "loaded config")
}

func TestNewContext_IndentOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "custom.yml", "output:\n  indent: 2\n")

	tests := []struct {
		name     string
		indent   *int
		expected int
	}{
		{"flag not given", nil, 2},
		{"explicit zero", new(int), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := newContext(Globals{Config: cfgPath, Indent: tt.indent}, strings.NewReader(""), io.Discard, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ctx.Config.Output.Indent)
		})
	}

	negative := -1
	_, err := newContext(Globals{Config: cfgPath, Indent: &negative}, strings.NewReader(""), io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.indent must not be negative")
}

func TestNewContext_DiscoversConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".jsondp.yml", "provenance:\n  source_key: discovered\n")
	t.Chdir(dir)

	ctx, err := newContext(Globals{}, strings.NewReader(""), io.Discard, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "discovered", ctx.Config.Provenance.SourceKey)
	assert.False(t, ctx.Debug)
	assert.Equal(t, log.InfoLevel, ctx.Logger.GetLevel())
}

func TestNewContext_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "bad.yml", "output: [")

	_, err := newContext(Globals{Config: cfgPath}, strings.NewReader(""), io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "Configuration error")
}
