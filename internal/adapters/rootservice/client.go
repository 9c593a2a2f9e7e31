package rootservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"sync"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type DialFunc func(ctx context.Context) (net.Conn, error)

type ClientOptions struct {
	Dial DialFunc
	// Release runs after the connection is closed, for instance to stop the
	// privileged process that served it.
	Release func() error
	Logger  *zap.Logger
}

// Client is the unprivileged end of the socket.
type Client struct {
	conn    *grpc.ClientConn
	rpc     *rootServiceClient
	release func() error
	logger  *zap.Logger

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

var _ ports.Channel = (*Client)(nil)

// Connect dials the root service and pings it so that an unreachable or
// incompatible service is reported here rather than on the first call.
func Connect(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.Dial == nil {
		return nil, errors.New("connect root service: dialer is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := grpc.NewClient("passthrough:///rootservice",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return opts.Dial(ctx)
		}),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("create root service client: %w", err)
	}

	c := &Client{
		conn:    conn,
		rpc:     &rootServiceClient{cc: conn},
		release: opts.Release,
		logger:  logger,
	}

	pong, err := c.rpc.Ping(ctx, &Empty{})
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping root service: %w", asUnavailable(mapError(err)))
	}
	if pong.Version != ProtocolVersion {
		_ = c.Close()
		return nil, fmt.Errorf("root service speaks protocol %d, want %d: %w", pong.Version, ProtocolVersion, domain.ErrChannelUnavailable)
	}
	logger.Debug("root service connected", zap.Int("uid", pong.UID), zap.Int("pid", pong.PID))

	return c, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}

	resp, err := c.rpc.ListUsers(ctx, &Empty{})
	if err != nil {
		return nil, c.mapError(err)
	}

	users := make([]domain.User, 0, len(resp.Users))
	for _, user := range resp.Users {
		users = append(users, domain.User{ID: domain.UserID(user.ID), Name: user.Name})
	}

	return users, nil
}

func (c *Client) DeletePath(ctx context.Context, path string) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}

	if _, err := c.rpc.DeletePath(ctx, &PathRequest{Path: path}); err != nil {
		return c.mapError(err)
	}

	return nil
}

func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := c.ensureOpen(); err != nil {
		return nil, err
	}

	resp, err := c.rpc.ReadFile(ctx, &PathRequest{Path: path})
	if err != nil {
		return nil, c.mapError(err)
	}

	return resp.Data, nil
}

func (c *Client) WriteFile(ctx context.Context, path string, data []byte, mode fs.FileMode) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}

	req := &WriteFileRequest{Path: path, Data: data, Mode: uint32(mode.Perm())}
	if _, err := c.rpc.WriteFile(ctx, req); err != nil {
		return c.mapError(err)
	}

	return nil
}

// Close is idempotent. Calls made afterwards fail with domain.ErrChannelClosed.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		var errs []error
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
		if c.release != nil {
			if err := c.release(); err != nil {
				errs = append(errs, fmt.Errorf("release root service: %w", err))
			}
		}
		c.closeErr = errors.Join(errs...)
	})

	return c.closeErr
}

func (c *Client) ensureOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return domain.ErrChannelClosed
	}

	return nil
}

func (c *Client) mapError(err error) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()

	if closed {
		return fmt.Errorf("%w: %w", domain.ErrChannelClosed, mapError(err))
	}

	return mapError(err)
}

func asUnavailable(err error) error {
	if errors.Is(err, domain.ErrChannelUnavailable) || errors.Is(err, domain.ErrPrivilegeDenied) {
		return err
	}

	return fmt.Errorf("%w: %w", domain.ErrChannelUnavailable, err)
}
