package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionOptions struct {
	OpenTimeout time.Duration
	GracePeriod time.Duration
	Logger      *zap.Logger
}

// Session is one elevated-channel lifetime. It owns at most one channel,
// runs at most one call at a time and reaches SessionClosed exactly once.
type Session struct {
	id          string
	opener      ports.ChannelOpener
	openTimeout time.Duration
	grace       time.Duration
	logger      *zap.Logger

	mu         sync.Mutex
	state      domain.SessionState
	history    []domain.SessionState
	channel    ports.Channel
	openCancel context.CancelFunc
	execCancel context.CancelFunc
	execDone   chan struct{}
	stopScope  func() bool

	closeOnce sync.Once
	closeErr  error
	closed    chan struct{}
}

func NewSession(opener ports.ChannelOpener, opts SessionOptions) *Session {
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = domain.DefaultOpenTimeout
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = domain.DefaultGracePeriod
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uuid.NewString()

	return &Session{
		id:          id,
		opener:      opener,
		openTimeout: opts.OpenTimeout,
		grace:       opts.GracePeriod,
		logger:      opts.Logger.With(zap.String("session", id)),
		state:       domain.SessionIdle,
		history:     []domain.SessionState{domain.SessionIdle},
		closed:      make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// History returns every state the session went through, in order.
func (s *Session) History() []domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.SessionState(nil), s.history...)
}

// Done is closed once the session reached SessionClosed.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}

// Open acquires the channel. ctx is the owning scope: once it is canceled the
// session closes itself even if Close is never called.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case domain.SessionIdle:
	case domain.SessionClosing, domain.SessionClosed:
		s.mu.Unlock()
		return fmt.Errorf("open session: %w", domain.ErrChannelClosed)
	default:
		s.mu.Unlock()
		return fmt.Errorf("open session: %w", domain.ErrSessionBusy)
	}

	openCtx, cancel := context.WithTimeout(ctx, s.openTimeout)
	defer cancel()
	s.openCancel = cancel
	s.setStateLocked(domain.SessionOpening)
	s.mu.Unlock()

	channel, err := s.awaitOpen(openCtx)
	if err != nil {
		if errors.Is(openCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w: no answer within %s: %w", domain.ErrChannelUnavailable, s.openTimeout, err)
		}
		s.logger.Debug("open failed", zap.Error(err))
		_ = s.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	s.mu.Lock()
	if s.state != domain.SessionOpening {
		s.mu.Unlock()
		_ = channel.Close()
		return fmt.Errorf("open channel: %w", domain.ErrChannelClosed)
	}
	s.channel = channel
	s.openCancel = nil
	s.setStateLocked(domain.SessionReady)
	s.stopScope = context.AfterFunc(ctx, func() {
		s.logger.Debug("owning scope ended, closing session")
		_ = s.Close()
	})
	s.mu.Unlock()

	return nil
}

type openResult struct {
	channel ports.Channel
	err     error
}

// awaitOpen returns once the opener answers or ctx is done, whichever comes
// first. A channel delivered after ctx is done is closed.
func (s *Session) awaitOpen(ctx context.Context) (ports.Channel, error) {
	result := make(chan openResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- openResult{err: fmt.Errorf("opener panicked: %v", r)}
			}
		}()
		channel, err := s.opener.Open(ctx)
		result <- openResult{channel: channel, err: err}
	}()

	select {
	case r := <-result:
		return r.channel, r.err
	case <-ctx.Done():
		go func() {
			if r := <-result; r.channel != nil {
				s.logger.Debug("closing channel opened after the deadline")
				_ = r.channel.Close()
			}
		}()
		return nil, fmt.Errorf("wait for channel: %w", ctx.Err())
	}
}

// Execute runs fn against the channel. A second Execute while one is in
// flight fails with domain.ErrSessionBusy. Canceling ctx closes the session.
func (s *Session) Execute(ctx context.Context, fn func(ctx context.Context, channel ports.Channel) error) error {
	s.mu.Lock()
	switch s.state {
	case domain.SessionReady:
	case domain.SessionExecuting, domain.SessionOpening:
		s.mu.Unlock()
		return fmt.Errorf("execute: %w", domain.ErrSessionBusy)
	case domain.SessionIdle:
		s.mu.Unlock()
		return fmt.Errorf("execute: %w", domain.ErrSessionNotOpen)
	default:
		s.mu.Unlock()
		return fmt.Errorf("execute: %w", domain.ErrChannelClosed)
	}

	execCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	channel := s.channel
	s.execCancel = cancel
	s.execDone = done
	s.setStateLocked(domain.SessionExecuting)
	s.mu.Unlock()

	result := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("privileged call panicked: %v", r)
			}
		}()
		result <- fn(execCtx, channel)
	}()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		_ = s.Close()
		err = firstOr(result, fmt.Errorf("privileged call interrupted: %w", ctx.Err()))
	case <-s.closed:
		err = firstOr(result, fmt.Errorf("privileged call aborted: %w", domain.ErrChannelClosed))
	}

	if ctx.Err() != nil {
		_ = s.Close()
	}

	s.mu.Lock()
	if s.state == domain.SessionExecuting {
		s.execCancel = nil
		s.execDone = nil
		s.setStateLocked(domain.SessionReady)
	}
	s.mu.Unlock()

	return err
}

// Close releases the channel. It is idempotent and safe for concurrent use;
// every caller returns once the session is closed, after at most the grace
// period when a call is outstanding.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.shutdown()
		close(s.closed)
	})

	return s.closeErr
}

func (s *Session) shutdown() error {
	s.mu.Lock()
	switch s.state {
	case domain.SessionIdle, domain.SessionOpening:
		if s.openCancel != nil {
			s.openCancel()
		}
		s.setStateLocked(domain.SessionClosed)
		s.mu.Unlock()
		return nil
	}

	s.setStateLocked(domain.SessionClosing)
	channel := s.channel
	s.channel = nil
	cancel, done, stop := s.execCancel, s.execDone, s.stopScope
	s.mu.Unlock()

	if stop != nil {
		stop()
	}

	if cancel != nil {
		cancel()
		timer := time.NewTimer(s.grace)
		select {
		case <-done:
		case <-timer.C:
			s.logger.Warn("privileged call ignored interruption, force closing channel", zap.Duration("grace", s.grace))
		}
		timer.Stop()
	}

	var err error
	if channel != nil {
		if err = channel.Close(); err != nil {
			s.logger.Debug("close channel", zap.Error(err))
			err = fmt.Errorf("close channel: %w", err)
		}
	}

	s.mu.Lock()
	s.setStateLocked(domain.SessionClosed)
	s.mu.Unlock()

	return err
}

func (s *Session) setStateLocked(next domain.SessionState) {
	if s.state == next {
		return
	}

	s.logger.Debug("session transition", zap.Stringer("from", s.state), zap.Stringer("to", next))
	s.state = next
	s.history = append(s.history, next)
}

func firstOr(result <-chan error, fallback error) error {
	select {
	case err := <-result:
		return err
	default:
		return fallback
	}
}
