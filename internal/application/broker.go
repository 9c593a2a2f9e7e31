package application

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
	"go.uber.org/zap"
)

const defaultFileMode fs.FileMode = 0o644

// Broker runs front-end requests on the privileged side, one session per
// request, and hands back translated results.
type Broker struct {
	opener     ports.ChannelOpener
	settings   ports.SettingsSource
	translator *Translator
	logger     *zap.Logger
}

func NewBroker(opener ports.ChannelOpener, settings ports.SettingsSource, translator *Translator, logger *zap.Logger) *Broker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if translator == nil {
		translator = NewTranslator(logger)
	}

	return &Broker{
		opener:     opener,
		settings:   settings,
		translator: translator,
		logger:     logger,
	}
}

func (b *Broker) NewSession() *Session {
	current := b.settings.Current()

	return NewSession(b.opener, SessionOptions{
		OpenTimeout: current.OpenTimeout,
		GracePeriod: current.GracePeriod,
		Logger:      b.logger,
	})
}

// WithSession opens a session bound to ctx, runs fn and closes the session on
// every exit path.
func (b *Broker) WithSession(ctx context.Context, op domain.Operation, fn func(ctx context.Context, session *Session) error) *domain.Failure {
	session := b.NewSession()
	defer func() {
		if err := session.Close(); err != nil {
			b.logger.Debug("session close", zap.String("session", session.ID()), zap.Error(err))
		}
	}()

	if err := session.Open(ctx); err != nil {
		return b.translator.Translate(session.ID(), op, err)
	}

	if err := fn(ctx, session); err != nil {
		return b.translator.Translate(session.ID(), op, err)
	}

	return nil
}

func (b *Broker) Execute(ctx context.Context, req domain.Request) domain.Result[domain.Response] {
	if err := b.preflight(&req); err != nil {
		return domain.Fail[domain.Response](b.translator.Translate("", req.Operation, err))
	}

	var resp domain.Response
	failure := b.WithSession(ctx, req.Operation, func(ctx context.Context, session *Session) error {
		return session.Execute(ctx, func(ctx context.Context, channel ports.Channel) error {
			var err error
			resp, err = dispatch(ctx, channel, req)
			return err
		})
	})
	if failure != nil {
		return domain.Fail[domain.Response](failure)
	}

	return domain.Success(resp)
}

func (b *Broker) ListUsers(ctx context.Context) domain.Result[[]domain.User] {
	res := b.Execute(ctx, domain.Request{Operation: domain.OperationListUsers})
	if !res.OK() {
		return domain.Fail[[]domain.User](res.Failure)
	}

	return domain.Success(res.Value.Users)
}

func (b *Broker) DeletePath(ctx context.Context, path string) domain.Result[struct{}] {
	res := b.Execute(ctx, domain.Request{Operation: domain.OperationDeletePath, Path: path})
	if !res.OK() {
		return domain.Fail[struct{}](res.Failure)
	}

	return domain.Success(struct{}{})
}

func (b *Broker) ReadFile(ctx context.Context, path string) domain.Result[[]byte] {
	res := b.Execute(ctx, domain.Request{Operation: domain.OperationReadFile, Path: path})
	if !res.OK() {
		return domain.Fail[[]byte](res.Failure)
	}

	return domain.Success(res.Value.Data)
}

func (b *Broker) WriteFile(ctx context.Context, path string, data []byte, mode fs.FileMode) domain.Result[struct{}] {
	res := b.Execute(ctx, domain.Request{Operation: domain.OperationWriteFile, Path: path, Data: data, Mode: mode})
	if !res.OK() {
		return domain.Fail[struct{}](res.Failure)
	}

	return domain.Success(struct{}{})
}

// preflight rejects requests the privileged side would refuse anyway, before
// an elevation prompt is shown.
func (b *Broker) preflight(req *domain.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Operation == domain.OperationListUsers {
		return nil
	}

	path, err := b.settings.Current().Roots.Confine(req.Path)
	if err != nil {
		return fmt.Errorf("%s: %w", req.Operation, err)
	}
	req.Path = path

	if req.Operation == domain.OperationWriteFile && req.Mode == 0 {
		req.Mode = defaultFileMode
	}

	return nil
}

func dispatch(ctx context.Context, channel ports.Channel, req domain.Request) (domain.Response, error) {
	switch req.Operation {
	case domain.OperationListUsers:
		users, err := channel.ListUsers(ctx)
		if err != nil {
			return domain.Response{}, fmt.Errorf("list users: %w", err)
		}
		if users == nil {
			users = []domain.User{}
		}
		return domain.Response{Users: users}, nil
	case domain.OperationDeletePath:
		if err := channel.DeletePath(ctx, req.Path); err != nil {
			return domain.Response{}, fmt.Errorf("delete path: %w", err)
		}
		return domain.Response{}, nil
	case domain.OperationReadFile:
		data, err := channel.ReadFile(ctx, req.Path)
		if err != nil {
			return domain.Response{}, fmt.Errorf("read file: %w", err)
		}
		return domain.Response{Data: data}, nil
	case domain.OperationWriteFile:
		if err := channel.WriteFile(ctx, req.Path, req.Data, req.Mode); err != nil {
			return domain.Response{}, fmt.Errorf("write file: %w", err)
		}
		return domain.Response{}, nil
	default:
		return domain.Response{}, fmt.Errorf("%w %q", domain.ErrUnknownOperation, req.Operation)
	}
}
