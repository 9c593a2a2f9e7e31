package application

import (
	"github.com/bnema/rootbroker/internal/domain"
	"go.uber.org/zap"
)

// Translator turns raw failures into domain.Failure values and logs the
// internal detail that the front-end never shows on its own.
type Translator struct {
	logger *zap.Logger
}

func NewTranslator(logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Translator{logger: logger}
}

func (t *Translator) Translate(sessionID string, op domain.Operation, err error) *domain.Failure {
	failure := domain.NewFailure(string(op), err)
	if failure == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("kind", string(failure.Kind)),
		zap.String("op", string(op)),
		zap.String("detail", failure.Detail),
	}
	if sessionID != "" {
		fields = append(fields, zap.String("session", sessionID))
	}

	switch {
	case failure.Canceled():
		t.logger.Debug("privileged operation canceled", fields...)
	case failure.Kind == domain.FailureUnknown:
		t.logger.Error("privileged operation failed", append(fields, zap.Error(err))...)
	default:
		t.logger.Warn("privileged operation failed", fields...)
	}

	return failure
}
