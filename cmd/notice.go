package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	usersrender "github.com/bnema/rootbroker/internal/adapters/render/users"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNoticeShown marks errors that were already presented to the user.
var errNoticeShown = errors.New("failure notice shown")

// showFailure prints the notice for failure to stderr and returns an error
// that keeps the failure classification reachable through errors.Is.
func (a *app) showFailure(cmd *cobra.Command, failure *domain.Failure) error {
	notice := usersrender.Notice{Failure: failure, WithDetail: a.settings.Current().Debug}

	text := notice.Plain()
	if isTerminal(cmd.ErrOrStderr()) {
		if rendered, err := a.renderNotice(notice); err == nil {
			text = rendered
		}
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), text)

	return fmt.Errorf("%w: %w", errNoticeShown, failure)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
