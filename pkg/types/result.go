package types

import (
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// Result is the uniform outcome returned by store operations that talk to the network.
// Views render Error directly; Err keeps the typed error for callers that branch on codes.
type Result[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    pkgerrors.Code `json:"code,omitempty"`
	err     error
}

// OK builds a successful result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failed result from err.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = pkgerrors.New(pkgerrors.CodeInternal, "unknown error")
	}
	return Result[T]{
		Success: false,
		Error:   pkgerrors.UserMessage(err),
		Code:    pkgerrors.CodeOf(err),
		err:     err,
	}
}

// Err returns the underlying error of a failed result, nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	if r.err == nil {
		return pkgerrors.New(r.Code, r.Error)
	}
	return r.err
}

// Empty is the payload of results that carry no data.
type Empty struct{}
