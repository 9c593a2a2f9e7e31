package local

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/rootbroker/internal/adapters/rootservice"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const socketName = "local.sock"

// UserSourceFactory resolves the user source named by the settings.
type UserSourceFactory func(kind domain.UserSourceKind) (ports.UserSource, error)

// Opener serves the root service inside the current process with its
// current privileges. It speaks the same socket protocol as the su opener.
type Opener struct {
	settings ports.SettingsSource
	users    UserSourceFactory
	logger   *zap.Logger
}

var _ ports.ChannelOpener = (*Opener)(nil)

func NewOpener(settings ports.SettingsSource, users UserSourceFactory, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Opener{settings: settings, users: users, logger: logger.Named("local")}
}

func (o *Opener) Open(ctx context.Context) (ports.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := o.settings.Current()
	users, err := o.users(settings.UserSource)
	if err != nil {
		return nil, fmt.Errorf("resolve user source: %w", err)
	}

	dir, err := os.MkdirTemp("", "rootbroker-")
	if err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	socket := filepath.Join(dir, socketName)

	listener, err := rootservice.Listen(socket, os.Geteuid(), o.logger)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: %w", domain.ErrChannelUnavailable, err)
	}

	gs := rootservice.NewGRPCServer(rootservice.NewServer(users, settings.Roots, o.logger))
	srv := &server{grpc: gs, dir: dir, done: make(chan struct{})}
	go func() {
		defer close(srv.done)
		if err := gs.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			o.logger.Warn("local root service stopped", zap.Error(err))
		}
	}()

	client, err := rootservice.Connect(ctx, rootservice.ClientOptions{
		Dial: func(ctx context.Context) (net.Conn, error) {
			return rootservice.DialUnix(ctx, socket, os.Geteuid())
		},
		Release: srv.stop,
		Logger:  o.logger,
	})
	if err != nil {
		_ = srv.stop()
		return nil, err
	}

	return client, nil
}

type server struct {
	grpc *grpc.Server
	dir  string
	done chan struct{}

	stopOnce sync.Once
	stopErr  error
}

func (s *server) stop() error {
	s.stopOnce.Do(func() {
		s.grpc.Stop()
		<-s.done

		if err := os.RemoveAll(s.dir); err != nil {
			s.stopErr = fmt.Errorf("remove socket directory: %w", err)
		}
	})

	return s.stopErr
}
