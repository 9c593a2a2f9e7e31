package application

import (
	"context"

	"github.com/bnema/rootbroker/internal/domain"
)

// Selection is the outcome of re-enumerating users for a picker that had
// Previous selected.
type Selection struct {
	Users      []domain.User
	Index      int
	Previous   domain.UserID
	SelectedID domain.UserID
	Changed    bool
	NoUsers    bool
}

func (s Selection) Labels() []string {
	labels := make([]string, 0, len(s.Users))
	for _, user := range s.Users {
		labels = append(labels, user.Label())
	}

	return labels
}

// Reconcile keeps current when it still exists and falls back to the first
// user otherwise. With no users the previous id is kept and Index is -1.
func Reconcile(users []domain.User, current domain.UserID) Selection {
	selection := Selection{Users: users, Previous: current, SelectedID: current, Index: -1}
	if len(users) == 0 {
		selection.NoUsers = true
		return selection
	}

	index := domain.IndexOfUser(users, current)
	if index == -1 {
		index = 0
		selection.Changed = true
	}

	selection.Index = index
	selection.SelectedID = users[index].ID

	return selection
}

type SelectionService struct {
	broker *Broker
}

func NewSelectionService(broker *Broker) *SelectionService {
	return &SelectionService{broker: broker}
}

func (s *SelectionService) Refresh(ctx context.Context, current domain.UserID) domain.Result[Selection] {
	res := s.broker.ListUsers(ctx)
	if !res.OK() {
		return domain.Fail[Selection](res.Failure)
	}

	return domain.Success(Reconcile(res.Value, current))
}
