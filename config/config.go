/*
 *    Copyright (c) 2025 Unrud <unrud@outlook.com>
 *
 *    This file is part of eitype.
 *
 *    eitype is free software: you can redistribute it and/or modify
 *    it under the terms of the GNU General Public License as published by
 *    the Free Software Foundation, either version 3 of the License, or
 *    (at your option) any later version.
 *
 *    eitype is distributed in the hope that it will be useful,
 *    but WITHOUT ANY WARRANTY; without even the implied warranty of
 *    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *    GNU General Public License for more details.
 *
 *    You should have received a copy of the GNU General Public License
 *    along with eitype.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package config handles the configuration file and environment of eitype.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/unrud/eitype/keymap"
)

// Config holds the complete configuration.
type Config struct {
	Keyboard  KeyboardConfig  `toml:"keyboard" json:"keyboard" yaml:"keyboard"`
	Typing    TypingConfig    `toml:"typing" json:"typing" yaml:"typing"`
	Transport TransportConfig `toml:"transport" json:"transport" yaml:"transport"`
	Server    ServerConfig    `toml:"server" json:"server" yaml:"server"`
	Logging   LoggingConfig   `toml:"logging" json:"logging" yaml:"logging"`
}

// KeyboardConfig selects the keymap. Empty names leave the choice to the
// keymap sent by the input server or the system default.
type KeyboardConfig struct {
	Rules   string `toml:"rules" json:"rules" yaml:"rules"`
	Model   string `toml:"model" json:"model" yaml:"model"`
	Layout  string `toml:"layout" json:"layout" yaml:"layout"`
	Variant string `toml:"variant" json:"variant" yaml:"variant"`
	Options string `toml:"options" json:"options" yaml:"options"`

	// LayoutIndex overrides the detected active layout group.
	LayoutIndex *uint32 `toml:"layout_index,omitempty" json:"layout_index,omitempty" yaml:"layout_index,omitempty"`
}

type TypingConfig struct {
	// DelayMs is the minimum time between key events.
	DelayMs  uint `toml:"delay_ms" json:"delay_ms" yaml:"delay_ms"`
	FailFast bool `toml:"fail_fast" json:"fail_fast" yaml:"fail_fast"`
}

type TransportConfig struct {
	// Controller selects a transport by name. Empty tries all of them.
	Controller    string `toml:"controller" json:"controller" yaml:"controller"`
	Socket        string `toml:"socket" json:"socket" yaml:"socket"`
	PersistPortal bool   `toml:"persist_portal" json:"persist_portal" yaml:"persist_portal"`
}

// ServerConfig is used by the remote typing server.
type ServerConfig struct {
	Bind     string `toml:"bind" json:"bind" yaml:"bind"`
	Secret   string `toml:"secret" json:"secret" yaml:"secret"`
	CertFile string `toml:"cert_file" json:"cert_file" yaml:"cert_file"`
	KeyFile  string `toml:"key_file" json:"key_file" yaml:"key_file"`
}

type LoggingConfig struct {
	Level  string `toml:"level" json:"level" yaml:"level"`
	Format string `toml:"format" json:"format" yaml:"format"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			PersistPortal: true,
		},
		Server: ServerConfig{
			Bind: ":0",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, "eitype", "config.toml")
}

// Load reads configuration from path, or from ConfigPath when path is
// empty. A missing file yields the defaults. The format is chosen by the
// file extension. Environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.ApplyEnvOverrides()
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variables on top of the file.
func (c *Config) ApplyEnvOverrides() error {
	for _, o := range []struct {
		name  string
		field *string
	}{
		{"XKB_DEFAULT_RULES", &c.Keyboard.Rules},
		{"XKB_DEFAULT_MODEL", &c.Keyboard.Model},
		{"XKB_DEFAULT_LAYOUT", &c.Keyboard.Layout},
		{"XKB_DEFAULT_VARIANT", &c.Keyboard.Variant},
		{"XKB_DEFAULT_OPTIONS", &c.Keyboard.Options},
	} {
		if v := os.Getenv(o.name); v != "" {
			*o.field = v
		}
	}
	if v := os.Getenv("EITYPE_DELAY_MS"); v != "" {
		delay, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("EITYPE_DELAY_MS: %w", err)
		}
		c.Typing.DelayMs = uint(delay)
	}
	if v := os.Getenv("EITYPE_LAYOUT_INDEX"); v != "" {
		index, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("EITYPE_LAYOUT_INDEX: %w", err)
		}
		layoutIndex := uint32(index)
		c.Keyboard.LayoutIndex = &layoutIndex
	}
	if socket := SocketFromEnv(); socket != "" {
		c.Transport.Socket = socket
	}
	return nil
}

// SocketFromEnv returns the EIS socket named by LIBEI_SOCKET. Relative
// names are resolved against XDG_RUNTIME_DIR.
func SocketFromEnv() string {
	socket := os.Getenv("LIBEI_SOCKET")
	if socket == "" || filepath.IsAbs(socket) {
		return socket
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return ""
	}
	return filepath.Join(runtimeDir, socket)
}

func (k KeyboardConfig) RuleNames() keymap.RuleNames {
	return keymap.RuleNames{
		Rules:   k.Rules,
		Model:   k.Model,
		Layout:  k.Layout,
		Variant: k.Variant,
		Options: k.Options,
	}
}

func (t TypingConfig) Delay() time.Duration {
	return time.Duration(t.DelayMs) * time.Millisecond
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Keyboard.LayoutIndex != nil {
		index := *c.Keyboard.LayoutIndex
		clone.Keyboard.LayoutIndex = &index
	}
	return &clone
}
