package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/charmbracelet/log"

	"github.com/mcncl/jsondp/internal/errors" // Custom errors package
	"github.com/mcncl/jsondp/internal/models"
)

// Validate checks that data holds exactly one JSON value and returns it in
// compact form, which is what the decoders below expect.
func Validate(data []byte) (models.JSON, error) {
	if strings.TrimSpace(string(data)) == "" {
		return models.JSON{}, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}

	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()

	var root json.RawMessage
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.JSON{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return models.JSON{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		return models.JSON{}, errors.NewParsingError("failed to decode JSON", stderrors.Join(errors.ErrInvalidJSON, err))
	}

	// Anything but whitespace after the first value is a second value or
	// garbage; both are rejected.
	var trailingValue json.RawMessage
	switch err := decoder.Decode(&trailingValue); {
	case stderrors.Is(err, io.EOF):
	case err == nil:
		return models.JSON{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	default:
		return models.JSON{}, errors.NewParsingError("invalid trailing data after first JSON value", stderrors.Join(errors.ErrInvalidJSON, err))
	}

	compact, err := models.ParseJSON(root)
	if err != nil {
		return models.JSON{}, errors.NewParsingError("failed to compact JSON", stderrors.Join(errors.ErrInvalidJSON, err))
	}
	return compact, nil
}

// ReadAll reads and validates JSON from a reader.
func ReadAll(reader io.Reader) (models.JSON, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.JSON{}, errors.NewInputError("failed to read input", err)
	}
	if len(data) == 0 {
		return models.JSON{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	return Validate(data)
}

// ReadString validates JSON held in a string.
func ReadString(jsonString string) (models.JSON, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.JSON{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Validate([]byte(jsonString))
}

// ReadFile reads and validates JSON from a file path.
func ReadFile(filePath string) (models.JSON, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.JSON{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.JSON{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.JSON{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close input file", "path", filePath, "err", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.JSON{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.JSON{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ReadAll(file)
}
