package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLabelAndIndex(t *testing.T) {
	t.Parallel()

	users := []User{{ID: 0, Name: "Owner"}, {ID: 10, Name: "Work"}, {ID: 11}}

	assert.Equal(t, "0: Owner", users[0].Label())
	assert.Equal(t, "11: ", users[2].Label())
	assert.Equal(t, 1, IndexOfUser(users, 10))
	assert.Equal(t, -1, IndexOfUser(users, 12))
	assert.Equal(t, -1, IndexOfUser(nil, 0))
}

func TestParseUserID(t *testing.T) {
	t.Parallel()

	id, err := ParseUserID(" 10 ")
	require.NoError(t, err)
	assert.Equal(t, UserID(10), id)

	_, err = ParseUserID("-1")
	require.Error(t, err)

	_, err = ParseUserID("owner")
	require.Error(t, err)
}

func TestKindOfClassifiesWrappedSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "privilege denied", err: fmt.Errorf("open: %w", ErrPrivilegeDenied), want: FailurePrivilegeDenied},
		{name: "unavailable", err: fmt.Errorf("dial: %w", ErrChannelUnavailable), want: FailureChannelUnavailable},
		{name: "closed", err: ErrChannelClosed, want: FailureChannelClosed},
		{name: "session not open is a lifecycle defect", err: ErrSessionNotOpen, want: FailureChannelClosed},
		{name: "not permitted", err: fmt.Errorf("delete: %w", ErrNotPermitted), want: FailureNotPermitted},
		{name: "busy", err: ErrSessionBusy, want: FailureSessionBusy},
		{name: "anything else", err: errors.New("boom"), want: FailureUnknown},
		{name: "nil", err: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestFailureKindPolicies(t *testing.T) {
	t.Parallel()

	assert.True(t, FailureChannelUnavailable.Retryable())
	assert.True(t, FailureSessionBusy.Retryable())
	assert.False(t, FailurePrivilegeDenied.Retryable())
	assert.False(t, FailureNotPermitted.Retryable())

	assert.True(t, FailurePrivilegeDenied.Fatal())
	assert.True(t, FailureChannelClosed.Fatal())
	assert.False(t, FailureUnknown.Fatal())

	assert.Equal(t, FailureUnknown.Message(), FailureKind("made_up").Message())
}

func TestFailureNeverDisplaysDetailAlone(t *testing.T) {
	t.Parallel()

	failure := NewFailure("list_users", errors.New("rpc error: code = Internal desc = stack trace"))
	require.NotNil(t, failure)

	assert.Equal(t, FailureUnknown, failure.Kind)
	assert.Equal(t, FailureUnknown.Message(), failure.Error())
	assert.Equal(t, FailureUnknown.Message(), failure.Display(false))
	assert.Equal(t, FailureUnknown.Message()+"\nrpc error: code = Internal desc = stack trace", failure.Display(true))
	assert.Nil(t, NewFailure("noop", nil))
}

func TestFailureCanceled(t *testing.T) {
	t.Parallel()

	assert.True(t, NewFailure("read_file", fmt.Errorf("call: %w", context.Canceled)).Canceled())
	assert.False(t, NewFailure("read_file", ErrChannelClosed).Canceled())
}

func TestResultUnwrap(t *testing.T) {
	t.Parallel()

	ok := Success([]User{{ID: 0, Name: "Owner"}})
	value, err := ok.Unwrap()
	require.NoError(t, err)
	assert.True(t, ok.OK())
	assert.Len(t, value, 1)

	failed := Fail[[]User](NewFailure("list_users", ErrPrivilegeDenied))
	value, err = failed.Unwrap()
	require.Error(t, err)
	assert.Nil(t, value)
	assert.ErrorIs(t, err, ErrPrivilegeDenied)
}

func TestScopedRootsConfine(t *testing.T) {
	t.Parallel()

	roots, err := NewScopedRoots("/data/backup/", "/data/backup", "", "/sdcard/DataBackup")
	require.NoError(t, err)
	assert.Equal(t, ScopedRoots{"/data/backup", "/sdcard/DataBackup"}, roots)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "direct child", path: "/data/backup/apps", want: "/data/backup/apps"},
		{name: "nested and unclean", path: "/sdcard/DataBackup/media/../apps/x", want: "/sdcard/DataBackup/apps/x"},
		{name: "root itself", path: "/data/backup", wantErr: true},
		{name: "escape via dotdot", path: "/data/backup/../system", wantErr: true},
		{name: "sibling prefix", path: "/data/backupx/file", wantErr: true},
		{name: "relative", path: "apps", wantErr: true},
		{name: "empty", path: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := roots.Confine(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotPermitted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopedRootsLocate(t *testing.T) {
	t.Parallel()

	roots := ScopedRoots{"/data/backup", "/sdcard/DataBackup"}

	root, rel, err := roots.Locate("/sdcard/DataBackup/apps/../media/a.tar")
	require.NoError(t, err)
	assert.Equal(t, "/sdcard/DataBackup", root)
	assert.Equal(t, "media/a.tar", rel)

	_, _, err = roots.Locate("/data/backupx")
	assert.ErrorIs(t, err, ErrNotPermitted)

	_, ok := Below("/data/backup", "/data/backup")
	assert.False(t, ok)
}

func TestNewScopedRootsRejectsRelativeAndSlash(t *testing.T) {
	t.Parallel()

	_, err := NewScopedRoots("relative/dir")
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = NewScopedRoots("/")
	assert.ErrorIs(t, err, ErrInvalidSettings)
}

func TestSettingsDefaultsAndValidation(t *testing.T) {
	t.Parallel()

	s := Settings{}.WithDefaults()
	assert.Equal(t, DefaultOpenTimeout, s.OpenTimeout)
	assert.Equal(t, DefaultGracePeriod, s.GracePeriod)
	assert.Equal(t, ElevationSu, s.Elevation)
	assert.Equal(t, UserSourceAuto, s.UserSource)
	require.NoError(t, s.Validate())

	bad := s
	bad.Elevation = "sudo"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)

	bad = s
	bad.GracePeriod = -time.Second
	assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Request{Operation: OperationListUsers}.Validate())
	assert.ErrorIs(t, Request{Operation: "format_disk"}.Validate(), ErrUnknownOperation)
	assert.ErrorIs(t, Request{Operation: OperationDeletePath}.Validate(), ErrNotPermitted)
}

func TestSessionStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "executing", SessionExecuting.String())
	assert.Equal(t, "invalid", SessionState(42).String())
	assert.True(t, SessionClosed.Terminal())
	assert.False(t, SessionClosing.Terminal())
}
