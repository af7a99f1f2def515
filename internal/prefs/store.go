package prefs

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Keys read by the home screen.
const (
	KeyLockLevel  = "home.lock_level"
	KeyHidePolicy = "home.hide_policy"
	KeyClock24h   = "ui.clock_24h"
	KeyDateFormat = "ui.date_format"
)

// Store is a read-only view over persisted settings.
type Store interface {
	Int(key string, def int) int
	Bool(key string, def bool) bool
	String(key string, def string) string
}

// Reloader is implemented by stores that can pick up edits made on disk.
type Reloader interface {
	Reload() error
}

// ViperStore serves settings out of a viper instance.
type ViperStore struct {
	v *viper.Viper
}

func NewViperStore(v *viper.Viper) *ViperStore { return &ViperStore{v: v} }

// Reload re-reads the config file. A missing file is not an error: the
// defaults registered on the viper instance keep applying.
func (s *ViperStore) Reload() error {
	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reload settings: %w", err)
	}
	return nil
}

func (s *ViperStore) Int(key string, def int) int {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetInt(key)
}

func (s *ViperStore) Bool(key string, def bool) bool {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetBool(key)
}

func (s *ViperStore) String(key string, def string) string {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.GetString(key)
}

// Map is an in-memory Store, handy for wiring defaults without a file.
type Map map[string]any

func (m Map) Int(key string, def int) int {
	if v, ok := m[key].(int); ok {
		return v
	}
	return def
}

func (m Map) Bool(key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func (m Map) String(key string, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}
