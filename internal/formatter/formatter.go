package formatter

import (
	"bytes"
	"encoding/json"
	"strings"

	stderrors "errors"

	"github.com/mcncl/jsondp/internal/errors"
)

// Formatter lays out rendered JSON-DP documents for output
type Formatter struct {
	indent string
}

// NewFormatter creates a Formatter indenting nested levels by the given
// number of spaces. Zero keeps the compact rendering.
func NewFormatter(indent int) *Formatter {
	return &Formatter{indent: strings.Repeat(" ", max(indent, 0))}
}

// Format takes a rendered document and returns it laid out for output,
// terminated by a newline. Member order and duplicate members are kept.
func (f *Formatter) Format(rendered string) (string, error) {
	// Handle empty input
	if strings.TrimSpace(rendered) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	var err error
	if f.indent == "" {
		err = json.Compact(&buf, []byte(rendered))
	} else {
		err = json.Indent(&buf, []byte(rendered), "", f.indent)
	}
	if err != nil {
		return "", errors.NewOutputError("failed to lay out rendered document", stderrors.Join(errors.ErrInvalidJSON, err))
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
