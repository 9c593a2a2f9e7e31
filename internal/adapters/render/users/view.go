package users

import (
	"fmt"
	"strings"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RemoteServiceHint follows every failure notice.
const RemoteServiceHint = "Make sure root access is granted and try again."

type View struct {
	Users []domain.User
	// Selected is the index of the selected user, -1 for none.
	Selected int
	// Previous is shown when the previously selected user vanished.
	Previous *domain.UserID
}

type Notice struct {
	Failure    *domain.Failure
	WithDetail bool
}

func renderSelection(v View, s styles) string {
	lines := []string{
		s.title.Render("Device users"),
		s.header.Render(fmt.Sprintf("users: %d", len(v.Users))),
	}

	if len(v.Users) == 0 {
		lines = append(lines, s.empty.Render("No users available."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, user := range v.Users {
		if i == v.Selected {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, s.marker.Render("> "), s.selected.Render(user.Label())))
			continue
		}
		lines = append(lines, s.user.Render("  "+user.Label()))
	}

	if v.Previous != nil {
		lines = append(lines, s.warning.Render(fmt.Sprintf("user %d no longer exists, selection reset", *v.Previous)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderNotice(n Notice, s styles) string {
	if n.Failure == nil {
		return ""
	}

	lines := []string{
		s.warning.Render(n.Failure.Kind.Message()),
		s.hint.Render(RemoteServiceHint),
	}
	if n.WithDetail && strings.TrimSpace(n.Failure.Detail) != "" {
		lines = append(lines, s.detail.Render(n.Failure.Detail))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Plain renders the same notice without styling, for non-terminal output.
func (n Notice) Plain() string {
	if n.Failure == nil {
		return ""
	}

	text := n.Failure.Kind.Message() + "\n" + RemoteServiceHint
	if n.WithDetail && strings.TrimSpace(n.Failure.Detail) != "" {
		text += "\n" + n.Failure.Detail
	}

	return text
}
