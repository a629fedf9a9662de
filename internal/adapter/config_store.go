package adapter

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// CassetteRootKey is the configuration key holding the cassette root.
const CassetteRootKey = "cassette.root"

// ConfigStore is the externally owned key-value store behind the single
// cassette root setting. Callers read it on every request.
type ConfigStore interface {
	CassetteRoot() string
	SetCassetteRoot(value string) error
}

// ViperConfigStore persists the cassette root through viper.
type ViperConfigStore struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// NewViperConfigStore returns a store over v that writes its config file to path.
func NewViperConfigStore(v *viper.Viper, path string) *ViperConfigStore {
	return &ViperConfigStore{v: v, path: path}
}

// CassetteRoot returns the configured root, untrimmed.
func (s *ViperConfigStore) CassetteRoot() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.v.GetString(CassetteRootKey)
}

// SetCassetteRoot stores value and rewrites the config file. An empty value
// is accepted and disables cassette actions.
func (s *ViperConfigStore) SetCassetteRoot(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(CassetteRootKey, value)

	if strings.TrimSpace(s.path) == "" {
		return nil
	}

	if err := s.v.WriteConfigAs(s.path); err != nil {
		slog.Error("Failed to write config", "path", s.path, "error", err)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	slog.Info("Cassette root updated", "value", value, "path", s.path)

	return nil
}
