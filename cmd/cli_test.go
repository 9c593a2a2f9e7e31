package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	usersrender "github.com/bnema/rootbroker/internal/adapters/render/users"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestConfigShowDefaults(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "config_file: (none)")
	assert.Contains(t, stdout, "open_timeout: 10s")
	assert.Contains(t, stdout, "grace_period: 2s")
	assert.Contains(t, stdout, "elevation: su")
	assert.Contains(t, stdout, "roots: "+filepath.Join(home, ".local", "share", "rootbroker"))
}

func TestConfigShowReadsFileAndEnvironment(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, ".config", "rootbroker")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("version = 1\nopen_timeout = \"4s\"\nuser_source = \"passwd\"\n"), 0o600))
	t.Setenv("RB_GRACE_PERIOD", "750ms")

	stdout, _, err := executeCLI(t, home, "config", "show", "--toml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "open_timeout = ")
	assert.Contains(t, stdout, "4s")
	assert.Contains(t, stdout, "750ms")
	assert.Contains(t, stdout, "passwd")
}

func TestConfigRejectsFutureVersion(t *testing.T) {
	home := t.TempDir()
	configFile := filepath.Join(home, "rb.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("version = 9\n"), 0o600))

	_, _, err := executeCLI(t, home, "--config", configFile, "config", "show")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedVersion)
}

func TestFileWriteReadDeleteWithLocalElevation(t *testing.T) {
	home := t.TempDir()
	root := useLocalElevation(t)
	path := filepath.Join(root, "apps", "com.example", "state.json")

	stdout, _, err := executeCLIWithInput(t, home, strings.NewReader(`{"restored":true}`), "file", "write", path, "--mode", "0600")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 17 bytes")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	stdout, _, err = executeCLI(t, home, "file", "read", path)
	require.NoError(t, err)
	assert.Equal(t, `{"restored":true}`, stdout)

	stdout, _, err = executeCLI(t, home, "path", "delete", filepath.Join(root, "apps"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "deleted")

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPathDeleteOutsideRootsShowsNotice(t *testing.T) {
	home := t.TempDir()
	useLocalElevation(t)

	_, stderr, err := executeCLI(t, home, "path", "delete", "/etc/passwd")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
	assert.ErrorIs(t, err, errNoticeShown)
	assert.Contains(t, stderr, domain.FailureNotPermitted.Message())
	assert.Contains(t, stderr, usersrender.RemoteServiceHint)
	assert.NotContains(t, stderr, "outside the scoped storage roots")

	_, stderr, err = executeCLI(t, home, "--debug", "path", "delete", "/etc/passwd")
	require.Error(t, err)
	assert.Contains(t, stderr, "outside the scoped storage roots")
}

func TestFileReadMissingIsUnknownFailure(t *testing.T) {
	home := t.TempDir()
	root := useLocalElevation(t)

	_, stderr, err := executeCLI(t, home, "file", "read", filepath.Join(root, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, stderr, domain.FailureUnknown.Message())
}

func TestFileWriteRejectsInvalidMode(t *testing.T) {
	home := t.TempDir()
	root := useLocalElevation(t)

	_, _, err := executeCLIWithInput(t, home, strings.NewReader("x"), "file", "write", filepath.Join(root, "a"), "--mode", "rw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse --mode")
}

func TestUsersListWithLocalElevation(t *testing.T) {
	home := t.TempDir()
	passwdAvailable(t)
	useLocalElevation(t)

	stdout, _, err := executeCLI(t, home, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Device users")
	assert.Contains(t, stdout, "0: ")

	stdout, _, err = executeCLI(t, home, "users", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"id\": 0")
}

func TestUsersSelectFallsBackToFirstUser(t *testing.T) {
	home := t.TempDir()
	passwdAvailable(t)
	useLocalElevation(t)

	stdout, _, err := executeCLI(t, home, "users", "select", "--current", "99999", "--json")
	require.NoError(t, err)

	var got selectionJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.True(t, got.Changed)
	assert.Equal(t, 99999, got.Previous)
	require.NotEmpty(t, got.Users)
	assert.Equal(t, got.Users[0].ID, got.SelectedID)
}

func TestUsersSelectRejectsNegativeID(t *testing.T) {
	home := t.TempDir()
	useLocalElevation(t)

	_, _, err := executeCLI(t, home, "users", "select", "--current", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative id")
}

func TestRootServiceIsHidden(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "--help")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "root-service")
	assert.Contains(t, stdout, "users")
}

func TestWatchParentReturnsWhenParentExits(t *testing.T) {
	child := exec.Command("true")
	if err := child.Run(); err != nil {
		t.Skip("true not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := watchParent(ctx, child.Process.Pid, 10*time.Millisecond)
	assert.ErrorIs(t, err, errParentGone)
}

func TestWatchParentStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, watchParent(ctx, os.Getpid(), 10*time.Millisecond))
}

func TestParseFileMode(t *testing.T) {
	mode, err := parseFileMode("0640")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), mode)

	_, err = parseFileMode("4755")
	assert.Error(t, err)
}

// useLocalElevation serves the root side in-process over a fresh storage root
// and returns that root.
func useLocalElevation(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	t.Setenv("RB_ELEVATION", "local")
	t.Setenv("RB_USER_SOURCE", "passwd")
	t.Setenv("RB_ROOTS", root)
	t.Setenv("RB_OPEN_TIMEOUT", "5s")

	return root
}

func passwdAvailable(t *testing.T) {
	t.Helper()

	if _, err := os.Stat("/etc/passwd"); err != nil {
		t.Skip("/etc/passwd not available")
	}
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()

	return executeCLIWithInput(t, home, strings.NewReader(""), args...)
}

func executeCLIWithInput(t *testing.T, home string, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
