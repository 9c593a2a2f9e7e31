package domain

import (
	"fmt"
	"time"
)

type ElevationMethod string

const (
	ElevationSu    ElevationMethod = "su"
	ElevationLocal ElevationMethod = "local"
)

type UserSourceKind string

const (
	UserSourceAuto   UserSourceKind = "auto"
	UserSourcePM     UserSourceKind = "pm"
	UserSourcePasswd UserSourceKind = "passwd"
)

const (
	DefaultOpenTimeout = 10 * time.Second
	DefaultGracePeriod = 2 * time.Second
	DefaultSuPath      = "su"
)

// Settings is the explicit configuration handed to the composition root.
type Settings struct {
	OpenTimeout time.Duration
	GracePeriod time.Duration
	Elevation   ElevationMethod
	SuPath      string
	Roots       ScopedRoots
	UserSource  UserSourceKind
	Debug       bool
}

func (s Settings) WithDefaults() Settings {
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = DefaultOpenTimeout
	}
	if s.GracePeriod <= 0 {
		s.GracePeriod = DefaultGracePeriod
	}
	if s.Elevation == "" {
		s.Elevation = ElevationSu
	}
	if s.SuPath == "" {
		s.SuPath = DefaultSuPath
	}
	if s.UserSource == "" {
		s.UserSource = UserSourceAuto
	}

	return s
}

func (s Settings) Validate() error {
	switch s.Elevation {
	case ElevationSu, ElevationLocal:
	default:
		return fmt.Errorf("elevation %q: %w", s.Elevation, ErrInvalidSettings)
	}

	switch s.UserSource {
	case UserSourceAuto, UserSourcePM, UserSourcePasswd:
	default:
		return fmt.Errorf("user source %q: %w", s.UserSource, ErrInvalidSettings)
	}

	if s.OpenTimeout <= 0 {
		return fmt.Errorf("open timeout must be positive: %w", ErrInvalidSettings)
	}
	if s.GracePeriod <= 0 {
		return fmt.Errorf("grace period must be positive: %w", ErrInvalidSettings)
	}

	return nil
}
