package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrUnacceptableValue = errors.New("only strings, JSON and JSON-DP values are allowed")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON       = errors.New("invalid JSON format")
	ErrMultipleJSON      = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileEmpty         = errors.New("file is empty")
	ErrNoInput           = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath   = errors.New("invalid file path")
	ErrNotAnObject       = errors.New("document root is not a JSON-DP object")
	ErrMixedRoots        = errors.New("sources mix object and array roots")
	ErrNotAContainer     = errors.New("document root must be a JSON object or array")
	ErrNotJSONDP         = errors.New("input is not a JSON-DP document")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeValue   ErrorType = "value"
	ErrorTypeIndex   ErrorType = "index"
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeQuery   ErrorType = "query"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// KindError names the concrete kind of a value a container refused to hold.
type KindError struct {
	Kind string
}

func (e *KindError) Error() string {
	return fmt.Sprintf("%s, found %s", ErrUnacceptableValue, e.Kind)
}

func (e *KindError) Unwrap() error {
	return ErrUnacceptableValue
}

// RangeError reports a positional access outside [0, Size).
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("the requested index %d does not exist as the total size of the array is %d", e.Index, e.Size)
}

func (e *RangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

// NewTypeError creates the error raised when a value of the given kind is
// put into a JSON-DP container.
func NewTypeError(kind string) *AppError {
	return &AppError{
		Type:    ErrorTypeValue,
		Message: "value rejected",
		Err:     &KindError{Kind: kind},
	}
}

// NewIndexError creates the error raised by out of range array access.
func NewIndexError(index, size int) *AppError {
	return &AppError{
		Type:    ErrorTypeIndex,
		Message: "array access out of range",
		Err:     &RangeError{Index: index, Size: size},
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewQueryError creates a new error related to document queries
func NewQueryError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeQuery,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeValue:
			var kindErr *KindError
			if errors.As(appErr.Err, &kindErr) {
				return fmt.Sprintf("Value error: only strings, JSON and JSON-DP values are allowed, found %s", kindErr.Kind)
			}
			return fmt.Sprintf("Value error: %s", appErr.Message)
		case ErrorTypeIndex:
			var rangeErr *RangeError
			if errors.As(appErr.Err, &rangeErr) {
				return fmt.Sprintf("Index error: %s", rangeErr.Error())
			}
			return fmt.Sprintf("Index error: %s", appErr.Message)
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeQuery:
			return fmt.Sprintf("Query error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrNotJSONDP) {
		return "Error: The input is not a JSON-DP document. Plain JSON can be converted with the annotate command."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
