package main

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/jsondp"
	"github.com/mcncl/jsondp/internal/models"
	"github.com/mcncl/jsondp/internal/parser"
)

// InputFlag selects where a command reads its document from
type InputFlag struct {
	Input string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
}

// OutputFlag selects where a command writes its result
type OutputFlag struct {
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// RenderCmd re-renders a with-provenance document
type RenderCmd struct {
	InputFlag
	OutputFlag
	Plain bool `help:"Drop provenance and render the plain JSON view."`
}

// Run executes the render command
func (c *RenderCmd) Run(ctx *Context) error {
	doc, err := readDocument(ctx, c.Input)
	if err != nil {
		return err
	}
	if c.Plain || !ctx.Config.Output.WithProvenance {
		return writeOutput(ctx, c.Output, doc.RenderPlain())
	}
	return writeOutput(ctx, c.Output, doc.RenderWithProvenance())
}

// GetCmd queries the fields of a JSON-DP object
type GetCmd struct {
	InputFlag
	OutputFlag
	Key            string   `arg:"" help:"Field key to look up."`
	Where          string   `help:"Provenance key the hits must carry." short:"w"`
	Equals         []string `help:"Accepted values for the --where key. Values are parsed as JSON and fall back to plain strings." short:"e" sep:"none"`
	WithProvenance bool     `help:"Report the provenance block of every hit." short:"p"`
}

// Run executes the get command
func (c *GetCmd) Run(ctx *Context) error {
	if c.Where == "" && len(c.Equals) > 0 {
		return errors.NewQueryError("--equals needs a provenance key given with --where", nil)
	}
	if c.Where != "" && len(c.Equals) == 0 {
		return errors.NewQueryError(fmt.Sprintf("--where %s needs at least one --equals value", c.Where), nil)
	}

	doc, err := readDocument(ctx, c.Input)
	if err != nil {
		return err
	}
	if doc.Object == nil {
		return errors.NewQueryError("field lookups need an object document", errors.ErrNotAnObject)
	}
	obj := doc.Object

	values := make([]models.JSON, len(c.Equals))
	for i, e := range c.Equals {
		values[i] = jsonOrString(e)
	}

	ctx.Logger.Debug("querying object", "key", c.Key, "where", c.Where, "values", len(values), "with_provenance", c.WithProvenance)

	switch {
	case c.Where == "" && c.WithProvenance:
		return writeOutput(ctx, c.Output, obj.GetWithProvenance(c.Key).String())
	case c.Where == "":
		v, ok := obj.Get(c.Key)
		return writeOutput(ctx, c.Output, renderFound(v, ok))
	case len(values) == 1 && !c.WithProvenance:
		v, ok := obj.GetWhere(c.Key, c.Where, values[0])
		return writeOutput(ctx, c.Output, renderFound(v, ok))
	case c.WithProvenance:
		return writeOutput(ctx, c.Output, obj.SelectWithProvenance(c.Key, c.Where, values...).String())
	default:
		return writeOutput(ctx, c.Output, obj.Select(c.Key, c.Where, values...).String())
	}
}

// ProvenanceCmd prints the lineage of a document's root
type ProvenanceCmd struct {
	InputFlag
	OutputFlag
}

// Run executes the provenance command
func (c *ProvenanceCmd) Run(ctx *Context) error {
	doc, err := readDocument(ctx, c.Input)
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.Output, doc.GetProvenance().String())
}

// AnnotateCmd attaches one provenance block to a plain JSON document
type AnnotateCmd struct {
	InputFlag
	OutputFlag
	Pairs []string `help:"Provenance pair as KEY=VALUE. Values are parsed as JSON and fall back to plain strings." short:"P" name:"provenance" sep:"none" placeholder:"KEY=VALUE"`
}

// Run executes the annotate command
func (c *AnnotateCmd) Run(ctx *Context) error {
	block := jsondp.NewBlock()
	for _, pair := range c.Pairs {
		key, value, err := splitPair(pair)
		if err != nil {
			return err
		}
		block.Put(key, jsonOrString(value))
	}
	block = ctx.Config.ApplyProvenance(block)

	data, err := readInput(ctx, c.Input)
	if err != nil {
		return err
	}
	doc, err := parser.FromPlain(data, block)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("annotated document", "array", doc.IsArray(), "provenance", block)
	return writeOutput(ctx, c.Output, doc.RenderWithProvenance())
}

// MergeCmd combines plain JSON sources into one document
type MergeCmd struct {
	OutputFlag
	Sources []string `arg:"" help:"Sources to merge, in order, as NAME=FILE." sep:"none" placeholder:"NAME=FILE"`
}

// Run executes the merge command
func (c *MergeCmd) Run(ctx *Context) error {
	doc := &parser.Document{}
	for _, source := range c.Sources {
		name, path, err := splitPair(source)
		if err != nil {
			return err
		}
		data, err := parser.ReadFile(path)
		if err != nil {
			return err
		}
		block := ctx.Config.SourceBlock(name)
		if err := parser.AppendPlain(doc, data, block); err != nil {
			return err
		}
		ctx.Logger.Debug("merged source", "name", name, "path", path, "provenance", block)
	}
	return writeOutput(ctx, c.Output, doc.RenderWithProvenance())
}

func renderFound(v jsondp.Value, ok bool) string {
	if !ok {
		return "null"
	}
	return v.RenderPlain()
}

// jsonOrString reads a command-line value as JSON when it parses, and as a
// JSON string otherwise.
func jsonOrString(s string) models.JSON {
	if v, err := models.ParseJSON([]byte(s)); err == nil {
		return v
	}
	return models.StringJSON(s)
}

func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", errors.NewInputError(fmt.Sprintf("expected KEY=VALUE, got %q", s), nil)
	}
	return key, value, nil
}
