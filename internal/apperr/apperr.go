// Package apperr defines the structured error type shared by the
// transcription pipeline and the HTTP layer. Every user-visible failure
// carries a machine-readable code, the pipeline stage it originated in,
// and the HTTP status the API should answer with.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	CodeEmptyAudio        Code = "EMPTY_AUDIO"
	CodeSizeLimitExceeded Code = "SIZE_LIMIT_EXCEEDED"
	CodeInference         Code = "INFERENCE_ERROR"
	CodeTimeout           Code = "TIMEOUT"
	CodeInvalidExportKind Code = "INVALID_EXPORT_KIND"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// Stage identifies the pipeline stage an error originated in.
type Stage string

const (
	StageNormalize Stage = "normalizing"
	StageRecognize Stage = "recognizing"
	StageFormat    Stage = "formatting"
	StageExport    Stage = "export"
)

// Error is the application error type.
type Error struct {
	Code       Code   `json:"code"`
	Stage      Stage  `json:"stage,omitempty"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithStage tags the error with its originating stage and returns the
// receiver. An already-set stage is kept: the innermost stage wins.
func (e *Error) WithStage(s Stage) *Error {
	if e.Stage == "" {
		e.Stage = s
	}
	return e
}

// UnsupportedFormat reports audio the decoder could not identify or read.
func UnsupportedFormat(detail string, cause error) *Error {
	msg := "unsupported or unreadable audio format"
	if detail != "" {
		msg = msg + ": " + detail
	}
	return &Error{Code: CodeUnsupportedFormat, Message: msg, HTTPStatus: http.StatusUnsupportedMediaType, Cause: cause}
}

// EmptyAudio reports audio that decoded to zero duration.
func EmptyAudio() *Error {
	return &Error{Code: CodeEmptyAudio, Message: "audio decoded to zero duration", HTTPStatus: http.StatusBadRequest}
}

// SizeLimitExceeded reports an upload beyond the configured maximum.
func SizeLimitExceeded(size, limit int64) *Error {
	return &Error{
		Code:       CodeSizeLimitExceeded,
		Message:    fmt.Sprintf("audio payload of %d bytes exceeds the %d byte limit", size, limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// Inference reports a recognition engine failure.
func Inference(cause error) *Error {
	return &Error{Code: CodeInference, Message: "speech recognition failed", HTTPStatus: http.StatusInternalServerError, Cause: cause}
}

// Timeout reports an operation that exceeded its configured deadline.
func Timeout(operation string) *Error {
	return &Error{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// InvalidExportKind reports an unknown export kind value.
func InvalidExportKind(kind string) *Error {
	return &Error{
		Code:       CodeInvalidExportKind,
		Message:    fmt.Sprintf("invalid export kind %q (expected \"text\" or \"subtitle\")", kind),
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal wraps an unclassified failure.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", HTTPStatus: http.StatusInternalServerError, Cause: cause}
}

// FromError returns err as an *Error, wrapping unclassified errors as
// CodeInternal. Typed errors pass through unchanged so their code and
// status are never downgraded.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
