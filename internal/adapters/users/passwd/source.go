package passwd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/ports"
)

const (
	DefaultPath = "/etc/passwd"

	firstRegularUID = 1000
	nobodyUID       = 65534
)

// Source enumerates login users from a passwd(5) file: root plus regular
// accounts.
type Source struct {
	path string
}

var _ ports.UserSource = (*Source)(nil)

func NewSource(path string) *Source {
	if path == "" {
		path = DefaultPath
	}

	return &Source{path: path}
}

func (s *Source) Users(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open passwd file: %w", err)
	}
	defer f.Close()

	users, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse passwd file %q: %w", s.path, err)
	}

	return users, nil
}

func parse(r io.Reader) ([]domain.User, error) {
	users := []domain.User{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) < 5 {
			continue
		}

		uid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		if uid != 0 && (uid < firstRegularUID || uid >= nobodyUID) {
			continue
		}

		name := strings.TrimSpace(strings.SplitN(fields[4], ",", 2)[0])
		if name == "" {
			name = fields[0]
		}
		users = append(users, domain.User{ID: domain.UserID(uid), Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
