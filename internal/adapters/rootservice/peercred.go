package rootservice

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bnema/rootbroker/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// peerCred fetches peer credentials of conn.
func peerCred(conn *net.UnixConn) (*unix.Ucred, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}

	var (
		ucred *unix.Ucred
		err0  error
	)
	err = raw.Control(func(fd uintptr) {
		ucred, err0 = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})

	return ucred, errors.Join(err, err0)
}

func allowedUID(uid uint32, allowed []int) bool {
	for _, want := range allowed {
		if want >= 0 && uint32(want) == uid {
			return true
		}
	}

	return false
}

// DialUnix connects to socketPath and checks that the process on the other
// end runs as one of allowedUIDs.
func DialUnix(ctx context.Context, socketPath string, allowedUIDs ...int) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("dial root service: %w: %w", domain.ErrChannelUnavailable, err)
	}

	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("dial root service: unexpected connection type %T", conn)
	}

	cred, err := peerCred(unixConn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read root service credentials: %w", err)
	}
	if !allowedUID(cred.Uid, allowedUIDs) {
		_ = conn.Close()
		return nil, fmt.Errorf("root service runs as uid %d: %w", cred.Uid, domain.ErrPrivilegeDenied)
	}

	return conn, nil
}

// peerListener drops connections from processes outside allowedUIDs before
// gRPC ever sees them.
type peerListener struct {
	*net.UnixListener
	allowed []int
	logger  *zap.Logger
}

func (l *peerListener) Accept() (net.Conn, error) {
	for {
		conn, err := l.AcceptUnix()
		if err != nil {
			return nil, err
		}

		cred, err := peerCred(conn)
		if err != nil {
			l.logger.Warn("cannot retrieve peer credentials", zap.Error(err))
			_ = conn.Close()
			continue
		}
		if !allowedUID(cred.Uid, l.allowed) {
			l.logger.Warn("rejected connection",
				zap.Int32("pid", cred.Pid),
				zap.Uint32("uid", cred.Uid),
				zap.Ints("allowed", l.allowed),
			)
			_ = conn.Close()
			continue
		}

		return conn, nil
	}
}
