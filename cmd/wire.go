package cmd

import (
	"fmt"

	configtoml "github.com/bnema/rootbroker/internal/adapters/config/toml"
	"github.com/bnema/rootbroker/internal/adapters/elevation"
	"github.com/bnema/rootbroker/internal/adapters/elevation/local"
	"github.com/bnema/rootbroker/internal/adapters/elevation/su"
	usersrender "github.com/bnema/rootbroker/internal/adapters/render/users"
	userschain "github.com/bnema/rootbroker/internal/adapters/users/chain"
	"github.com/bnema/rootbroker/internal/application"
	"github.com/bnema/rootbroker/internal/logging"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	loader       *configtoml.Loader
	settings     *application.SettingsStore
	logger       *zap.Logger
	broker       *application.Broker
	selection    *application.SelectionService
	renderUsers  func(usersrender.View) (string, error)
	renderNotice func(usersrender.Notice) (string, error)
}

type wireOptions struct {
	configFile string
	debug      bool
}

func wireApp(opts wireOptions) (*app, error) {
	loader, err := configtoml.NewLoader(viper.New(), configtoml.Options{ConfigFile: opts.configFile})
	if err != nil {
		return nil, fmt.Errorf("wire config loader: %w", err)
	}

	settings, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if opts.debug {
		settings.Debug = true
	}

	store, err := application.NewSettingsStore(settings)
	if err != nil {
		return nil, fmt.Errorf("wire settings store: %w", err)
	}

	logger := logging.New(settings.Debug)

	suOpener, err := su.NewOpener(su.Options{Settings: store, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("wire su elevation: %w", err)
	}
	localOpener := local.NewOpener(store, userschain.ForKind, logger)
	opener := elevation.NewOpener(store, suOpener, localOpener)

	broker := application.NewBroker(opener, store, application.NewTranslator(logger), logger)

	return &app{
		loader:       loader,
		settings:     store,
		logger:       logger,
		broker:       broker,
		selection:    application.NewSelectionService(broker),
		renderUsers:  usersrender.Render,
		renderNotice: usersrender.RenderNotice,
	}, nil
}
