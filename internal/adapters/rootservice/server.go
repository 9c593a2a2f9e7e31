package rootservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const (
	socketMode      = 0o600
	parentDirMode   = 0o755
	tempFilePattern = ".rootbroker-*.tmp"
)

// Server executes channel operations with the privileges of the current
// process. Every path is confined again here regardless of what the caller
// already checked.
type Server struct {
	users  ports.UserSource
	roots  domain.ScopedRoots
	logger *zap.Logger
}

var _ RootServiceServer = (*Server)(nil)

func NewServer(users ports.UserSource, roots domain.ScopedRoots, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{users: users, roots: roots, logger: logger}
}

func (s *Server) Ping(context.Context, *Empty) (*PingResponse, error) {
	return &PingResponse{Version: ProtocolVersion, UID: os.Geteuid(), PID: os.Getpid()}, nil
}

func (s *Server) ListUsers(ctx context.Context, _ *Empty) (*ListUsersResponse, error) {
	users, err := s.users.Users(ctx)
	if err != nil {
		return nil, toStatus(fmt.Errorf("enumerate users: %w", err))
	}

	resp := &ListUsersResponse{Users: make([]User, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, User{ID: int(user.ID), Name: user.Name})
	}

	return resp, nil
}

func (s *Server) DeletePath(ctx context.Context, in *PathRequest) (*Empty, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(err)
	}

	path, err := s.resolve(in.Path, false)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, toStatus(fmt.Errorf("remove %q: %w", path, err))
	}
	s.logger.Info("deleted path", zap.String("path", path))

	return &Empty{}, nil
}

func (s *Server) ReadFile(ctx context.Context, in *PathRequest) (*ReadFileResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(err)
	}

	path, err := s.resolve(in.Path, true)
	if err != nil {
		return nil, toStatus(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, toStatus(fmt.Errorf("read %q: %w", path, err))
	}

	return &ReadFileResponse{Data: data}, nil
}

func (s *Server) WriteFile(ctx context.Context, in *WriteFileRequest) (*Empty, error) {
	if err := ctx.Err(); err != nil {
		return nil, toStatus(err)
	}

	path, err := s.resolve(in.Path, true)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := writeAtomic(path, in.Data, fs.FileMode(in.Mode).Perm()); err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info("wrote file", zap.String("path", path), zap.Int("bytes", len(in.Data)))

	return &Empty{}, nil
}

// resolve confines path to the roots and refuses it when a symlink sits
// between its root and its leaf. The leaf is inspected only when checkLeaf is
// set, so deleting a link removes the link alone.
func (s *Server) resolve(path string, checkLeaf bool) (string, error) {
	root, rel, err := s.roots.Locate(path)
	if err != nil {
		return "", err
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return filepath.Join(root, rel), nil
		}
		return "", fmt.Errorf("resolve root %q: %w", root, err)
	}

	parts := strings.Split(rel, string(filepath.Separator))
	current := realRoot
	for i, part := range parts {
		current = filepath.Join(current, part)
		if i == len(parts)-1 && !checkLeaf {
			break
		}

		info, err := os.Lstat(current)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("inspect %q: %w", current, err)
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("path %q crosses symlink %q: %w", path, current, domain.ErrNotPermitted)
		}
	}

	target := filepath.Join(realRoot, rel)
	parent, err := filepath.EvalSymlinks(filepath.Dir(target))
	if err == nil && parent != realRoot {
		if _, ok := domain.Below(realRoot, parent); !ok {
			return "", fmt.Errorf("path %q resolves outside %q: %w", path, root, domain.ErrNotPermitted)
		}
	}

	return target, nil
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), parentDirMode); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("replace %q: %w", path, err)
	}

	cleanup = false
	return nil
}

func NewGRPCServer(impl RootServiceServer) *grpc.Server {
	srv := grpc.NewServer()
	RegisterRootServiceServer(srv, impl)

	return srv
}

type ServeOptions struct {
	SocketPath string
	// OwnerUID is the unprivileged caller. The socket is handed to it and
	// only it (and root) may connect.
	OwnerUID int
	Server   *Server
	Logger   *zap.Logger
	// Ready is called once the socket accepts connections.
	Ready func()
}

// Serve listens on opts.SocketPath until ctx is done or the listener fails.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := Listen(opts.SocketPath, opts.OwnerUID, logger)
	if err != nil {
		return err
	}

	srv := NewGRPCServer(opts.Server)

	go func() {
		<-ctx.Done()
		logger.Debug("stopping root service")
		srv.GracefulStop()
	}()

	logger.Info("root service listening",
		zap.String("socket", opts.SocketPath),
		zap.Int("owner_uid", opts.OwnerUID),
		zap.Int("uid", os.Geteuid()),
	)
	if opts.Ready != nil {
		opts.Ready()
	}

	if err := srv.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve root service: %w", err)
	}

	return nil
}

// Listen opens the unix socket, hands it to ownerUID and filters peers by
// uid.
func Listen(socketPath string, ownerUID int, logger *zap.Logger) (net.Listener, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.Remove(socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	listener, err := net.ListenUnix("unix", &net.UnixAddr{Name: socketPath, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("listen on %q: %w", socketPath, err)
	}
	listener.SetUnlinkOnClose(true)

	if err := os.Chmod(socketPath, socketMode); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}
	if ownerUID >= 0 && ownerUID != os.Geteuid() {
		if err := os.Chown(socketPath, ownerUID, -1); err != nil {
			_ = listener.Close()
			return nil, fmt.Errorf("chown socket to uid %d: %w", ownerUID, err)
		}
	}

	return &peerListener{
		UnixListener: listener,
		allowed:      []int{0, os.Geteuid(), ownerUID},
		logger:       logger,
	}, nil
}
