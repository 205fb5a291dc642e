package handler

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/azhar-beg/backstage/internal/core"
)

// domainErrorToConnectError converts a domain error into a ConnectRPC
// error with a semantically equivalent code. Unrecognised errors fall
// back to connect.CodeInternal; context errors keep their own codes.
// Dashboard formatting errors never get here: they are reported inside
// FormatResult.
func domainErrorToConnectError(err error) error {
	var invalidInput *core.ErrInvalidInput
	if errors.As(err, &invalidInput) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	var sessionNotFound *core.ErrSessionNotFound
	if errors.As(err, &sessionNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	var clusterNotFound *core.ErrClusterNotFound
	if errors.As(err, &clusterNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}

	switch {
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	return connect.NewError(connect.CodeInternal, err)
}
