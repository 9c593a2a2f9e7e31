package toml

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/fsnotify/fsnotify"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".config/rootbroker"
	rootsDir   = ".local/share/rootbroker"
	envPrefix  = "RB"

	keyOpenTimeout = "open_timeout"
	keyGracePeriod = "grace_period"
	keyElevation   = "elevation"
	keySuPath      = "su_path"
	keyRoots       = "roots"
	keyUserSource  = "user_source"
	keyDebug       = "debug"
)

type Options struct {
	// ConfigDir overrides $HOME/.config/rootbroker.
	ConfigDir string
	// ConfigFile points at an explicit file and wins over ConfigDir.
	ConfigFile string
}

// Loader resolves settings from RB_* environment variables, the config file
// and built-in defaults, highest precedence first.
type Loader struct {
	v  *viper.Viper
	mu sync.Mutex
}

func NewLoader(cfg *viper.Viper, opts Options) (*Loader, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	dir := opts.ConfigDir
	if dir == "" {
		dir = filepath.Join(homeDir, configDir)
	}

	if opts.ConfigFile != "" {
		cfg.SetConfigFile(opts.ConfigFile)
	} else {
		cfg.SetConfigName(configName)
		cfg.AddConfigPath(dir)
	}
	cfg.SetConfigType(configType)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keyOpenTimeout, domain.DefaultOpenTimeout)
	cfg.SetDefault(keyGracePeriod, domain.DefaultGracePeriod)
	cfg.SetDefault(keyElevation, string(domain.ElevationSu))
	cfg.SetDefault(keySuPath, domain.DefaultSuPath)
	cfg.SetDefault(keyRoots, []string{filepath.Join(homeDir, rootsDir)})
	cfg.SetDefault(keyUserSource, string(domain.UserSourceAuto))
	cfg.SetDefault(keyDebug, false)

	return &Loader{v: cfg}, nil
}

// Load reads the config file when there is one and returns validated
// settings.
func (l *Loader) Load() (domain.Settings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return domain.Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if path := l.v.ConfigFileUsed(); path != "" {
		if err := checkFile(path); err != nil {
			return domain.Settings{}, err
		}
	}

	return l.settings()
}

// ConfigFile is the file Load read, empty when defaults and environment were
// used alone.
func (l *Loader) ConfigFile() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.v.ConfigFileUsed()
}

// Watch reloads the file on every change and passes the outcome to onChange.
// It must be called after Load found a config file.
func (l *Loader) Watch(onChange func(domain.Settings, error)) {
	l.v.OnConfigChange(func(event fsnotify.Event) {
		if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
			return
		}
		onChange(l.Load())
	})
	l.v.WatchConfig()
}

func (l *Loader) settings() (domain.Settings, error) {
	roots := append([]string(nil), l.v.GetStringSlice(keyRoots)...)
	for i, root := range roots {
		roots[i] = os.ExpandEnv(root)
	}

	scoped, err := domain.NewScopedRoots(roots...)
	if err != nil {
		return domain.Settings{}, err
	}

	settings := domain.Settings{
		OpenTimeout: l.v.GetDuration(keyOpenTimeout),
		GracePeriod: l.v.GetDuration(keyGracePeriod),
		Elevation:   domain.ElevationMethod(l.v.GetString(keyElevation)),
		SuPath:      l.v.GetString(keySuPath),
		Roots:       scoped,
		UserSource:  domain.UserSourceKind(l.v.GetString(keyUserSource)),
		Debug:       l.v.GetBool(keyDebug),
	}.WithDefaults()

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, err
	}

	return settings, nil
}

// checkFile decodes the file strictly so that typos and future schema
// versions are reported instead of silently ignored.
func checkFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var file fileSchema
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("decode config file %q: %s: %w", path, strings.TrimSpace(strict.String()), domain.ErrInvalidSettings)
		}
		return fmt.Errorf("decode config file %q: %w", path, err)
	}
	if err := file.validateVersion(); err != nil {
		return err
	}

	return file.validateDurations()
}

// Encode renders settings as a config file body.
func Encode(settings domain.Settings) ([]byte, error) {
	file := toSchema(settings)
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode config file: %w", err)
	}

	return data, nil
}
