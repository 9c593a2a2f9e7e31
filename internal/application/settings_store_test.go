package application

import (
	"testing"
	"time"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStoreAppliesDefaults(t *testing.T) {
	t.Parallel()

	store, err := NewSettingsStore(domain.Settings{})
	require.NoError(t, err)

	current := store.Current()
	assert.Equal(t, domain.DefaultOpenTimeout, current.OpenTimeout)
	assert.Equal(t, domain.ElevationSu, current.Elevation)
}

func TestSettingsStoreRejectsInvalidInitialSettings(t *testing.T) {
	t.Parallel()

	_, err := NewSettingsStore(domain.Settings{Elevation: "pkexec"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
}

func TestSettingsStoreNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	store, err := NewSettingsStore(domain.Settings{})
	require.NoError(t, err)

	var seen []domain.Settings
	unsubscribe := store.Subscribe(func(s domain.Settings) {
		seen = append(seen, s)
	})

	require.NoError(t, store.Update(domain.Settings{OpenTimeout: 3 * time.Second, Debug: true}))
	require.Len(t, seen, 1)
	assert.Equal(t, 3*time.Second, seen[0].OpenTimeout)
	assert.True(t, store.Current().Debug)

	unsubscribe()
	unsubscribe()
	require.NoError(t, store.Update(domain.Settings{}))
	assert.Len(t, seen, 1)
}

func TestSettingsStoreKeepsCurrentOnInvalidUpdate(t *testing.T) {
	t.Parallel()

	store, err := NewSettingsStore(domain.Settings{Debug: true})
	require.NoError(t, err)

	calls := 0
	store.Subscribe(func(domain.Settings) { calls++ })

	err = store.Update(domain.Settings{UserSource: "ldap"})
	require.Error(t, err)
	assert.True(t, store.Current().Debug)
	assert.Zero(t, calls)
}
