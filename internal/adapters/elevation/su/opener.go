package su

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bnema/rootbroker/internal/adapters/elevation"
	"github.com/bnema/rootbroker/internal/adapters/rootservice"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	socketName     = "root.sock"
	stderrTailSize = 4096
)

// denialMarkers are fragments su implementations print when the grant is
// refused.
var denialMarkers = []string{
	"denied",
	"authentication failure",
	"incorrect password",
	"not allowed",
}

type Options struct {
	Settings ports.SettingsSource
	// Executable is the binary su runs as root. Defaults to os.Executable.
	Executable string
	// ServiceUIDs are the uids the privileged side may run as.
	ServiceUIDs []int
	Logger      *zap.Logger
}

// Opener elevates through a superuser binary: it spawns the root service
// via "su -c" and connects to the socket it announces.
type Opener struct {
	settings    ports.SettingsSource
	executable  string
	serviceUIDs []int
	logger      *zap.Logger
	lookPath    func(file string) (string, error)
}

var _ ports.ChannelOpener = (*Opener)(nil)

func NewOpener(opts Options) (*Opener, error) {
	if opts.Settings == nil {
		return nil, errors.New("su opener: settings source is nil")
	}

	executable := opts.Executable
	if executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve own executable: %w", err)
		}
		executable = exe
	}

	uids := opts.ServiceUIDs
	if len(uids) == 0 {
		uids = []int{0}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Opener{
		settings:    opts.Settings,
		executable:  executable,
		serviceUIDs: uids,
		logger:      logger.Named("su"),
		lookPath:    exec.LookPath,
	}, nil
}

func (o *Opener) Open(ctx context.Context) (ports.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	settings := o.settings.Current()

	suPath, err := o.lookPath(settings.SuPath)
	if err != nil {
		return nil, fmt.Errorf("locate %q: %w: %w", settings.SuPath, domain.ErrChannelUnavailable, err)
	}

	dir, err := os.MkdirTemp("", "rootbroker-")
	if err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	socket := filepath.Join(dir, socketName)

	args := elevation.ServiceArgs(socket, os.Getuid(), os.Getpid(), settings)
	command := elevation.ShellJoin(append([]string{o.executable}, args...)...)

	proc, err := start(suPath, command, dir, settings.GracePeriod)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("start %s: %w: %w", suPath, domain.ErrChannelUnavailable, err)
	}
	o.logger.Debug("started root service", zap.String("su", suPath), zap.Int("pid", proc.pid()))

	if err := proc.awaitReady(ctx); err != nil {
		_ = proc.stop()
		return nil, err
	}

	client, err := rootservice.Connect(ctx, rootservice.ClientOptions{
		Dial: func(ctx context.Context) (net.Conn, error) {
			return rootservice.DialUnix(ctx, socket, o.serviceUIDs...)
		},
		Release: proc.stop,
		Logger:  o.logger,
	})
	if err != nil {
		_ = proc.stop()
		return nil, err
	}

	return client, nil
}

// process is one su invocation and the root service running under it.
type process struct {
	cmd    *exec.Cmd
	dir    string
	grace  time.Duration
	stdout io.ReadCloser
	stderr *tailBuffer

	exited  chan struct{}
	waitErr error

	stopOnce sync.Once
	stopErr  error
}

func start(suPath string, command string, dir string, grace time.Duration) (*process, error) {
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}

	p := &process{
		dir:    dir,
		grace:  grace,
		stdout: stdoutR,
		stderr: &tailBuffer{limit: stderrTailSize},
		exited: make(chan struct{}),
	}

	// Not CommandContext: the process outlives the Open call.
	p.cmd = exec.Command(suPath, "-c", command)
	p.cmd.Stdin = os.Stdin
	p.cmd.Stdout = stdoutW
	p.cmd.Stderr = p.stderr
	p.cmd.Dir = "/"
	p.cmd.WaitDelay = grace

	if err := p.cmd.Start(); err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()
		return nil, err
	}
	_ = stdoutW.Close()

	go func() {
		p.waitErr = p.cmd.Wait()
		close(p.exited)
	}()

	return p, nil
}

func (p *process) pid() int {
	return p.cmd.Process.Pid
}

// awaitReady races the ready line against process exit and ctx.
func (p *process) awaitReady(ctx context.Context) error {
	ready := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(p.stdout)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == elevation.ReadyLine {
				ready <- nil
				return
			}
		}
		ready <- errors.New("root service closed stdout before it was ready")
	}()

	select {
	case err := <-ready:
		if err == nil {
			return nil
		}
		select {
		case <-p.exited:
			return p.classifyExit()
		case <-ctx.Done():
			return fmt.Errorf("wait for root service: %w", err)
		}
	case <-p.exited:
		return p.classifyExit()
	case <-ctx.Done():
		return fmt.Errorf("wait for root service: %w", ctx.Err())
	}
}

// classifyExit explains why su ended before the service became ready.
func (p *process) classifyExit() error {
	stderr := p.stderr.String()
	lower := strings.ToLower(stderr)
	for _, marker := range denialMarkers {
		if strings.Contains(lower, marker) {
			return formatError(domain.ErrPrivilegeDenied, p.waitErr, stderr)
		}
	}

	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) && exitErr.ExitCode() == 1 {
		return formatError(domain.ErrPrivilegeDenied, p.waitErr, stderr)
	}

	return formatError(domain.ErrChannelUnavailable, p.waitErr, stderr)
}

// stop terminates su, escalating to SIGKILL after the grace period, and
// removes the socket directory.
func (p *process) stop() error {
	p.stopOnce.Do(func() {
		select {
		case <-p.exited:
		default:
			_ = p.cmd.Process.Signal(unix.SIGTERM)
			timer := time.NewTimer(p.grace)
			select {
			case <-p.exited:
			case <-timer.C:
				_ = p.cmd.Process.Kill()
				<-p.exited
			}
			timer.Stop()
		}

		_ = p.stdout.Close()
		if err := os.RemoveAll(p.dir); err != nil {
			p.stopErr = fmt.Errorf("remove socket directory: %w", err)
		}
	})

	return p.stopErr
}

func formatError(kind error, err error, stderr string) error {
	if err == nil {
		err = errors.New("exited")
	}
	if stderr == "" {
		return fmt.Errorf("su: %w: %w", kind, err)
	}

	return fmt.Errorf("su: %w: %w: %s", kind, err, stderr)
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = b.buf[over:]
	}

	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return strings.TrimSpace(string(b.buf))
}
