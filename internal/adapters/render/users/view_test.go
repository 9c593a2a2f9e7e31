package users

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSelection(t *testing.T) {
	output, err := Render(View{
		Users:    []domain.User{{ID: 0, Name: "Owner"}, {ID: 10, Name: "Work"}},
		Selected: 1,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "users: 2")
	assert.Contains(t, output, "0: Owner")
	assert.Contains(t, output, "> 10: Work")
	assert.NotContains(t, output, "no longer exists")
}

func TestRenderSelectionReset(t *testing.T) {
	previous := domain.UserID(11)
	output, err := Render(View{
		Users:    []domain.User{{ID: 0, Name: "Owner"}},
		Selected: 0,
		Previous: &previous,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "> 0: Owner")
	assert.Contains(t, output, "user 11 no longer exists")
}

func TestRenderEmpty(t *testing.T) {
	output, err := Render(View{Users: []domain.User{}, Selected: -1})

	require.NoError(t, err)
	assert.Contains(t, output, "users: 0")
	assert.Contains(t, output, "No users available.")
}

func TestRenderNotice(t *testing.T) {
	failure := domain.NewFailure("list_users", fmt.Errorf("su: exit status 1: %w", domain.ErrPrivilegeDenied))

	output, err := RenderNotice(Notice{Failure: failure})
	require.NoError(t, err)
	assert.Contains(t, output, domain.FailurePrivilegeDenied.Message())
	assert.Contains(t, output, RemoteServiceHint)
	assert.NotContains(t, output, "exit status 1")

	output, err = RenderNotice(Notice{Failure: failure, WithDetail: true})
	require.NoError(t, err)
	assert.Contains(t, output, "exit status 1")
}

func TestNoticePlain(t *testing.T) {
	failure := domain.NewFailure("read_file", errors.New("input/output error"))

	assert.Equal(t, domain.FailureUnknown.Message()+"\n"+RemoteServiceHint, Notice{Failure: failure}.Plain())
	assert.Equal(t, domain.FailureUnknown.Message()+"\n"+RemoteServiceHint+"\ninput/output error", Notice{Failure: failure, WithDetail: true}.Plain())
	assert.Empty(t, Notice{}.Plain())
}
