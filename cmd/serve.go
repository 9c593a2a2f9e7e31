package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/rootbroker/internal/adapters/elevation"
	"github.com/bnema/rootbroker/internal/adapters/rootservice"
	userschain "github.com/bnema/rootbroker/internal/adapters/users/chain"
	"github.com/bnema/rootbroker/internal/domain"
	"github.com/bnema/rootbroker/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
)

const parentPollInterval = time.Second

var errParentGone = errors.New("parent process exited")

type rootServiceOptions struct {
	socket     string
	ownerUID   int
	parentPID  int
	userSource string
	roots      []string
}

// newRootServiceCmd is the privileged side. It is started by the su opener
// and is not meant to be run by hand.
func newRootServiceCmd() *cobra.Command {
	var opts rootServiceOptions

	cmd := &cobra.Command{
		Use:         elevation.ServiceCommand,
		Short:       "Serve privileged operations on a unix socket",
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipWire: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRootService(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.socket, "socket", "", "Unix socket path")
	cmd.Flags().IntVar(&opts.ownerUID, "owner-uid", -1, "Uid allowed to connect besides root")
	cmd.Flags().IntVar(&opts.parentPID, "parent-pid", 0, "Exit once this process is gone")
	cmd.Flags().StringVar(&opts.userSource, "user-source", string(domain.UserSourceAuto), "User source: auto, pm or passwd")
	cmd.Flags().StringArrayVar(&opts.roots, "root", nil, "Scoped storage root, repeatable")
	_ = cmd.MarkFlagRequired("socket")

	return cmd
}

func runRootService(cmd *cobra.Command, opts rootServiceOptions) error {
	logger := logging.New(cmdDebug(cmd)).Named("root-service")
	defer func() { _ = logger.Sync() }()

	roots, err := domain.NewScopedRoots(opts.roots...)
	if err != nil {
		return err
	}
	users, err := userschain.ForKind(domain.UserSourceKind(opts.userSource))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		return rootservice.Serve(ctx, rootservice.ServeOptions{
			SocketPath: opts.socket,
			OwnerUID:   opts.ownerUID,
			Server:     rootservice.NewServer(users, roots, logger),
			Logger:     logger,
			Ready: func() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), elevation.ReadyLine)
			},
		})
	})

	if opts.parentPID > 0 {
		g.Go(func() error {
			return watchParent(ctx, opts.parentPID, parentPollInterval)
		})
	}

	err = g.Wait()
	if errors.Is(err, errParentGone) {
		logger.Info("caller exited, stopping", zap.Int("parent_pid", opts.parentPID))
		return nil
	}

	return err
}

// watchParent returns errParentGone once pid no longer exists, or nil when
// ctx is done.
func watchParent(ctx context.Context, pid int, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
				return errParentGone
			}
		}
	}
}

func cmdDebug(cmd *cobra.Command) bool {
	flag := cmd.Root().PersistentFlags().Lookup("debug")
	return flag != nil && flag.Value.String() == "true"
}

