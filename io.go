package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/formatter"
	"github.com/mcncl/jsondp/internal/models"
	"github.com/mcncl/jsondp/internal/parser"
)

// readInput reads JSON from a file or from piped stdin
func readInput(ctx *Context, path string) (models.JSON, error) {
	if path != "" {
		ctx.Logger.Debug("reading input", "path", path)
		return parser.ReadFile(path)
	}

	// A terminal on stdin means nothing was piped in
	if f, ok := ctx.Stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return models.JSON{}, errors.NewInputError("failed to access stdin", err)
		}
		if stat.Mode()&os.ModeCharDevice != 0 {
			return models.JSON{}, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	ctx.Logger.Debug("reading input", "path", "stdin")
	return parser.ReadAll(ctx.Stdin)
}

// readDocument reads a with-provenance document
func readDocument(ctx *Context, path string) (*parser.Document, error) {
	data, err := readInput(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Decode(data)
	if err != nil {
		return nil, err
	}
	ctx.Logger.Debug("decoded document", "array", doc.IsArray(), "blocks", len(doc.GetProvenance()))
	return doc, nil
}

// writeOutput lays out rendered JSON and writes it to a file or stdout
func writeOutput(ctx *Context, path, rendered string) error {
	out, err := formatter.NewFormatter(ctx.Config.Output.Indent).Format(rendered)
	if err != nil {
		return err
	}

	if path != "" {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		ctx.Logger.Info("output written", "path", path)
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
