package ports

import (
	"context"

	"github.com/bnema/rootbroker/internal/domain"
)

type UserSource interface {
	Users(ctx context.Context) ([]domain.User, error)
}
