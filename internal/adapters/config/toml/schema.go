package toml

import (
	"fmt"
	"time"

	"github.com/bnema/rootbroker/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int      `toml:"version"`
	OpenTimeout string   `toml:"open_timeout,omitempty"`
	GracePeriod string   `toml:"grace_period,omitempty"`
	Elevation   string   `toml:"elevation,omitempty"`
	SuPath      string   `toml:"su_path,omitempty"`
	Roots       []string `toml:"roots,omitempty"`
	UserSource  string   `toml:"user_source,omitempty"`
	Debug       bool     `toml:"debug"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("config schema version %d (current %d): %w", s.Version, currentSchemaVersion, domain.ErrUnsupportedVersion)
	}

	return nil
}

func (s fileSchema) validateDurations() error {
	for key, raw := range map[string]string{keyOpenTimeout: s.OpenTimeout, keyGracePeriod: s.GracePeriod} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("%s %q: %w", key, raw, domain.ErrInvalidSettings)
		}
	}

	return nil
}

func toSchema(settings domain.Settings) fileSchema {
	return fileSchema{
		Version:     currentSchemaVersion,
		OpenTimeout: settings.OpenTimeout.String(),
		GracePeriod: settings.GracePeriod.String(),
		Elevation:   string(settings.Elevation),
		SuPath:      settings.SuPath,
		Roots:       append([]string(nil), settings.Roots...),
		UserSource:  string(settings.UserSource),
		Debug:       settings.Debug,
	}
}
