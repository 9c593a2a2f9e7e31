package rootservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bnema/rootbroker/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus is used by the privileged side before an error crosses the socket.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrNotPermitted), errors.Is(err, fs.ErrPermission):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// mapError turns a transport error back into the domain sentinels the
// translator classifies.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	msg := st.Message()
	switch st.Code() {
	case codes.PermissionDenied:
		return fmt.Errorf("%s: %w", msg, domain.ErrNotPermitted)
	case codes.Unauthenticated:
		return fmt.Errorf("%s: %w", msg, domain.ErrPrivilegeDenied)
	case codes.Unavailable:
		return fmt.Errorf("%s: %w", msg, domain.ErrChannelUnavailable)
	case codes.NotFound:
		return fmt.Errorf("%s: %w", msg, fs.ErrNotExist)
	case codes.Canceled:
		return fmt.Errorf("%s: %w", msg, context.Canceled)
	case codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w", msg, context.DeadlineExceeded)
	default:
		return errors.New(msg)
	}
}
