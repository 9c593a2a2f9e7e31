package pm

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceUsersParsesPMOutput(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"list", "users"}, args)
			return "Users:\n\tUserInfo{0:Owner:c13} running\n\tUserInfo{10:Work:Profile:1030} running\n\tUserInfo{11::410}\n", "", nil
		},
	}

	users, err := source.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.User{
		{ID: 0, Name: "Owner"},
		{ID: 10, Name: "Work:Profile"},
		{ID: 11, Name: ""},
	}, users)
}

func TestSourceUsersWithNoMatchesIsEmpty(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "Users:\n", "", nil
		},
	}

	users, err := source.Users(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestSourceUsersReturnsClearError(t *testing.T) {
	t.Parallel()

	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "Security exception: MANAGE_USERS", errors.New("exit status 255")
		},
	}

	_, err := source.Users(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "pm list users")
	assert.ErrorContains(t, err, "MANAGE_USERS")
}

func TestSourceUsersHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	called := false
	source := &Source{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			called = true
			return "", "", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Users(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
