package perrors

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeBadRequest      ErrCode = ErrCode{"BAD_REQUEST", http.StatusBadRequest}
	ErrCodeUnauthenticated         = ErrCode{"UNAUTHENTICATED", http.StatusUnauthorized}
	ErrCodeForbidden               = ErrCode{"FORBIDDEN", http.StatusForbidden}
	ErrCodeNoTenant                = ErrCode{"NO_TENANT", http.StatusForbidden}
	ErrCodeNotFound                = ErrCode{"NOT_FOUND", http.StatusNotFound}
	ErrCodeConflict                = ErrCode{"CONFLICT", http.StatusConflict}
	ErrCodeInternalServer          = ErrCode{"INTERNAL_SERVER_ERROR", http.StatusInternalServerError}
)

// Err is the terminal failure of a request pipeline stage. Message is the
// client-facing text, Err the wrapped cause (logged, never exposed), Details an
// optional structured payload that is safe to return to the client.
type Err struct {
	Message    string
	Err        string
	Code       ErrCode
	Stacktrace []string
	Details    any
}

func (e Err) Error() string {
	return e.Err
}

func (e Err) HttpStatus() int {
	return e.Code.Status
}

func (e Err) Print(ctx context.Context) {
	args := []any{
		slog.String("code", e.Code.Code),
		slog.Any("error", e.Err),
	}
	if e.Details != nil {
		args = append(args, slog.Any("details", e.Details))
	}
	args = append(args, slog.Any("stacktrace", e.Stacktrace))
	slog.ErrorContext(ctx, e.Message, args...)
}

func New(code ErrCode, msg string, err error, details ...any) error {
	pc := make([]uintptr, 20)
	count := runtime.Callers(1, pc)
	frames := runtime.CallersFrames(pc[:count])

	var stacktrace []string
	for frame, hasMore := frames.Next(); hasMore; frame, hasMore = frames.Next() {
		stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
	}

	errString := msg
	if err != nil {
		errString = err.Error()
	}

	e := Err{
		Code:       code,
		Message:    msg,
		Err:        errString,
		Stacktrace: stacktrace,
	}
	if len(details) > 0 {
		e.Details = details[0]
	}

	return e
}

func NewErrBadRequest(msg string, err error, details ...any) error {
	return New(ErrCodeBadRequest, msg, err, details...)
}

func NewErrUnauthenticated(msg string, err error, details ...any) error {
	return New(ErrCodeUnauthenticated, msg, err, details...)
}

func NewErrForbidden(msg string, err error, details ...any) error {
	return New(ErrCodeForbidden, msg, err, details...)
}

func NewErrNoTenant(msg string, err error, details ...any) error {
	return New(ErrCodeNoTenant, msg, err, details...)
}

func NewErrNotFound(msg string, err error, details ...any) error {
	return New(ErrCodeNotFound, msg, err, details...)
}

func NewErrConflict(msg string, err error, details ...any) error {
	return New(ErrCodeConflict, msg, err, details...)
}

func NewErrInternalServerError(msg string, err error, details ...any) error {
	return New(ErrCodeInternalServer, msg, err, details...)
}
