// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/reporeadme/pkg/status"
)

// ❌ ErrUnknownKey is returned by Get and Set for keys Settings does not have
var ErrUnknownKey = errors.New("unknown settings key")

// 📂 DefaultDir returns the application home, ~/.reporeadme
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".reporeadme"), nil
}

// 📂 DefaultPath returns ~/.reporeadme/config/settings.json
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config", "settings.json"), nil
}

// 🗄️ Manager owns the settings file on disk
type Manager struct {
	path     string
	mu       sync.RWMutex
	settings *Settings
}

// 🏭 NewManager creates a manager for the settings file at path
func NewManager(path string) *Manager {
	return &Manager{
		path:     path,
		settings: Defaults(),
	}
}

// 📍 Path returns the settings file location
func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) backupPath() string {
	return m.path + ".backup"
}

// 🎯 Load reads the settings file, falling back to its backup and then to defaults
func (m *Manager) Load(ctx context.Context) (*Settings, error) {
	logger := zerolog.Ctx(ctx)

	s, err := Load(ctx, m.path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		logger.Debug().Str("path", m.path).Msg("no settings file, using defaults")
		s = Defaults()
	default:
		logger.Warn().Err(err).Str("path", m.path).Msg("settings file unreadable, trying backup")
		backup, berr := m.loadBackup(ctx)
		if berr != nil {
			logger.Warn().Err(berr).Msg("backup unusable, using defaults")
			s = Defaults()
		} else {
			s = backup
		}
	}

	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()

	return m.Settings(), nil
}

func (m *Manager) loadBackup(ctx context.Context) (*Settings, error) {
	data, err := os.ReadFile(m.backupPath())
	if err != nil {
		return nil, errors.Errorf("reading backup: %w", err)
	}
	return Decode(ctx, m.path, data)
}

// 📋 Settings returns a copy of the current settings
func (m *Manager) Settings() *Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := *m.settings
	cp.ExcludePatterns = append([]string(nil), m.settings.ExcludePatterns...)
	return &cp
}

// 🔄 Update replaces the current settings after validating them
func (m *Manager) Update(s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	return nil
}

// 💾 Save writes the settings atomically, keeping the previous file as a backup
func (m *Manager) Save(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	data, err := Encode(ctx, m.path, m.Settings())
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(m.path); err == nil {
		if err := status.WriteFileAtomic(m.backupPath(), existing, 0o600); err != nil {
			return errors.Errorf("writing settings backup: %w", err)
		}
	}

	if err := status.WriteFileAtomic(m.path, data, 0o600); err != nil {
		return errors.Errorf("writing settings: %w", err)
	}

	logger.Debug().Str("path", m.path).Msg("settings saved")
	return nil
}

// 🔄 Reset restores every setting to its default
func (m *Manager) Reset() {
	m.mu.Lock()
	m.settings = Defaults()
	m.mu.Unlock()
}

// 📤 Export writes the current settings to path, format chosen by extension
func (m *Manager) Export(ctx context.Context, path string) error {
	data, err := Encode(ctx, path, m.Settings())
	if err != nil {
		return err
	}
	if err := status.WriteFileAtomic(path, data, 0o600); err != nil {
		return errors.Errorf("exporting settings: %w", err)
	}
	return nil
}

// 📥 Import loads settings from path, validates them and saves them
func (m *Manager) Import(ctx context.Context, path string) error {
	s, err := Load(ctx, path)
	if err != nil {
		return errors.Errorf("importing settings: %w", err)
	}
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	return m.Save(ctx)
}

func (m *Manager) asMap() (map[string]any, error) {
	raw, err := json.Marshal(m.Settings())
	if err != nil {
		return nil, errors.Errorf("encoding settings: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Errorf("decoding settings: %w", err)
	}
	return out, nil
}

// 🗝️ Keys lists every settings key in sorted order
func Keys() ([]string, error) {
	raw, err := json.Marshal(Defaults())
	if err != nil {
		return nil, errors.Errorf("encoding default settings: %w", err)
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Errorf("decoding settings keys: %w", err)
	}
	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// 🔍 Get returns the value stored under key
func (m *Manager) Get(key string) (any, error) {
	values, err := m.asMap()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return v, nil
}

// ✏️ Set parses value according to the type of key and stores it
func (m *Manager) Set(key, value string) error {
	values, err := m.asMap()
	if err != nil {
		return err
	}
	current, ok := values[key]
	if !ok {
		return errors.Errorf("%w: %s", ErrUnknownKey, key)
	}

	switch current.(type) {
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return errors.Errorf("%s expects a boolean: %w", key, err)
		}
		values[key] = b
	case float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return errors.Errorf("%s expects a number: %w", key, err)
		}
		values[key] = f
	case []any, nil:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		values[key] = items
	default:
		values[key] = value
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return errors.Errorf("encoding settings: %w", err)
	}
	next := Defaults()
	if err := json.Unmarshal(raw, next); err != nil {
		return errors.Errorf("setting %s: %w", key, err)
	}
	return m.Update(next)
}

// 📊 Summary returns the headline settings for display
func (m *Manager) Summary() map[string]any {
	s := m.Settings()
	return map[string]any{
		"template":          s.DefaultTemplate,
		"export_format":     s.DefaultExportFormat,
		"ai_enabled":        s.OpenRouterEnabled && s.OpenRouterAPIKey != "",
		"ai_model":          s.OpenRouterModel,
		"cache_enabled":     s.CacheAnalysis,
		"github_configured": s.GitHubToken != "",
		"gitlab_configured": s.GitLabToken != "",
		"log_level":         s.LogLevel,
		"settings_file":     m.path,
	}
}
