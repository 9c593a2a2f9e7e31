package elevation

import (
	"strconv"
	"strings"

	"github.com/bnema/rootbroker/internal/domain"
)

// ServiceCommand is the hidden subcommand that runs the privileged side.
const ServiceCommand = "root-service"

// ReadyLine is written to stdout by the privileged side once its socket
// accepts connections.
const ReadyLine = "rootbroker-ready"

// ServiceArgs builds the arguments passed to ServiceCommand.
func ServiceArgs(socket string, ownerUID int, parentPID int, settings domain.Settings) []string {
	args := []string{
		ServiceCommand,
		"--socket", socket,
		"--owner-uid", strconv.Itoa(ownerUID),
		"--parent-pid", strconv.Itoa(parentPID),
		"--user-source", string(settings.UserSource),
	}
	for _, root := range settings.Roots {
		args = append(args, "--root", root)
	}
	if settings.Debug {
		args = append(args, "--debug")
	}

	return args
}

// ShellJoin quotes args for sh -c, which is how su runs its command.
func ShellJoin(args ...string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, "'"+strings.ReplaceAll(arg, "'", `'\''`)+"'")
	}

	return strings.Join(quoted, " ")
}
