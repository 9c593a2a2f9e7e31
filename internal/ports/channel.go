package ports

import (
	"context"
	"io/fs"

	"github.com/bnema/rootbroker/internal/domain"
)

// Channel is an open privileged connection. It is owned by exactly one
// session and is not safe for interleaved calls.
type Channel interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeletePath(ctx context.Context, path string) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, mode fs.FileMode) error
	Close() error
}

// ChannelOpener obtains an elevation grant from the host and returns a
// channel to the privileged side.
type ChannelOpener interface {
	Open(ctx context.Context) (Channel, error)
}
