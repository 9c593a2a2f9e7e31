package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/rootbroker/internal/adapters/users/passwd"
	"github.com/bnema/rootbroker/internal/adapters/users/pm"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
)

type Source struct {
	primary  ports.UserSource
	fallback ports.UserSource
}

var _ ports.UserSource = (*Source)(nil)

var (
	errNilPrimarySource  = errors.New("primary user source is nil")
	errNilFallbackSource = errors.New("fallback user source is nil")
)

func NewSource(primary ports.UserSource, fallback ports.UserSource) (*Source, error) {
	if primary == nil {
		return nil, errNilPrimarySource
	}
	if fallback == nil {
		return nil, errNilFallbackSource
	}

	return &Source{primary: primary, fallback: fallback}, nil
}

// ForKind builds the user source a settings value names.
func ForKind(kind domain.UserSourceKind) (ports.UserSource, error) {
	switch kind {
	case domain.UserSourcePM:
		return pm.NewSource(), nil
	case domain.UserSourcePasswd:
		return passwd.NewSource(passwd.DefaultPath), nil
	case domain.UserSourceAuto, "":
		return NewSource(pm.NewSource(), passwd.NewSource(passwd.DefaultPath))
	default:
		return nil, fmt.Errorf("user source %q: %w", kind, domain.ErrInvalidSettings)
	}
}

func (s *Source) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.primary.Users(ctx)
	if err == nil {
		return users, nil
	}
	if shouldSkipFallback(err) {
		return nil, err
	}

	fallbackUsers, fallbackErr := s.fallback.Users(ctx)
	if fallbackErr == nil {
		return fallbackUsers, nil
	}

	return nil, fmt.Errorf("primary user source failed: %w; fallback user source failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
