package pm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
)

var ErrUnavailable = errors.New("pm command unavailable")

// UserInfo{0:Owner:c13} running
var userInfoPattern = regexp.MustCompile(`UserInfo\{(\d+):(.*):([0-9a-fA-F]+)\}`)

type runFunc func(ctx context.Context, args ...string) (stdout string, stderr string, err error)

// Source enumerates Android users through the package manager.
type Source struct {
	run runFunc
}

var _ ports.UserSource = (*Source)(nil)

func NewSource() *Source {
	return &Source{run: runPMCommand}
}

func (s *Source) Users(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stdout, stderr, err := s.run(ctx, "list", "users")
	if err != nil {
		return nil, formatError("list users", err, stderr)
	}

	return parseUsers(stdout)
}

func parseUsers(out string) ([]domain.User, error) {
	users := []domain.User{}
	for _, line := range strings.Split(out, "\n") {
		match := userInfoPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		id, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("parse pm user id %q: %w", match[1], err)
		}
		users = append(users, domain.User{ID: domain.UserID(id), Name: match[2]})
	}

	return users, nil
}

func runPMCommand(ctx context.Context, args ...string) (string, string, error) {
	path, err := exec.LookPath("pm")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pm command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pm %s: %w", op, err)
	}

	return fmt.Errorf("pm %s: %w: %s", op, err, stderr)
}
