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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unrud/eitype/keymap"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{
		"XKB_DEFAULT_RULES", "XKB_DEFAULT_MODEL", "XKB_DEFAULT_LAYOUT",
		"XKB_DEFAULT_VARIANT", "XKB_DEFAULT_OPTIONS", "EITYPE_DELAY_MS",
		"EITYPE_LAYOUT_INDEX", "LIBEI_SOCKET", "XDG_RUNTIME_DIR",
	} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.Keyboard.LayoutIndex)
	assert.False(t, cfg.Keyboard.RuleNames().IsSpecified())
	assert.Equal(t, ":0", cfg.Server.Bind)
	assert.Zero(t, cfg.Typing.Delay())
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/eitype/config.toml", ConfigPath())
}

func TestLoadNonexistent(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", `
[keyboard]
layout = "us,de"
variant = ",nodeadkeys"
layout_index = 1

[typing]
delay_ms = 5
fail_fast = true

[transport]
controller = "portal"
persist_portal = false

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, keymap.RuleNames{Layout: "us,de", Variant: ",nodeadkeys"}, cfg.Keyboard.RuleNames())
	require.NotNil(t, cfg.Keyboard.LayoutIndex)
	assert.Equal(t, uint32(1), *cfg.Keyboard.LayoutIndex)
	assert.Equal(t, 5*time.Millisecond, cfg.Typing.Delay())
	assert.True(t, cfg.Typing.FailFast)
	assert.Equal(t, "portal", cfg.Transport.Controller)
	assert.False(t, cfg.Transport.PersistPortal)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
keyboard:
  layout: fr
typing:
  delay_ms: 12
server:
  bind: "127.0.0.1:8080"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Keyboard.Layout)
	assert.Equal(t, uint(12), cfg.Typing.DelayMs)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Bind)
	assert.True(t, cfg.Transport.PersistPortal)
}

func TestLoadJSON(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"keyboard": {"model": "pc105"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pc105", cfg.Keyboard.Model)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "config.toml", "[keyboard\n"))
	assert.ErrorContains(t, err, "decode TOML")
	_, err = Load(writeFile(t, "config.yaml", "keyboard: [\n"))
	assert.ErrorContains(t, err, "decode YAML")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XKB_DEFAULT_LAYOUT", "de")
	t.Setenv("XKB_DEFAULT_OPTIONS", "compose:ralt")
	t.Setenv("EITYPE_DELAY_MS", "3")
	t.Setenv("EITYPE_LAYOUT_INDEX", "2")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("LIBEI_SOCKET", "eis-0")
	path := writeFile(t, "config.toml", "[keyboard]\nlayout = \"us\"\nmodel = \"pc104\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, keymap.RuleNames{Model: "pc104", Layout: "de", Options: "compose:ralt"},
		cfg.Keyboard.RuleNames())
	assert.Equal(t, uint(3), cfg.Typing.DelayMs)
	require.NotNil(t, cfg.Keyboard.LayoutIndex)
	assert.Equal(t, uint32(2), *cfg.Keyboard.LayoutIndex)
	assert.Equal(t, "/run/user/1000/eis-0", cfg.Transport.Socket)
}

func TestInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EITYPE_DELAY_MS", "fast")
	_, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	assert.ErrorContains(t, err, "EITYPE_DELAY_MS")

	clearEnv(t)
	t.Setenv("EITYPE_LAYOUT_INDEX", "-1")
	assert.ErrorContains(t, DefaultConfig().ApplyEnvOverrides(), "EITYPE_LAYOUT_INDEX")
}

func TestSocketFromEnv(t *testing.T) {
	tests := []struct {
		name, socket, runtimeDir, want string
	}{
		{"unset", "", "/run/user/1000", ""},
		{"absolute", "/tmp/eis", "", "/tmp/eis"},
		{"relative", "eis-1", "/run/user/1000", "/run/user/1000/eis-1"},
		{"relative without runtime dir", "eis-1", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LIBEI_SOCKET", tt.socket)
			t.Setenv("XDG_RUNTIME_DIR", tt.runtimeDir)
			assert.Equal(t, tt.want, SocketFromEnv())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"variant without layout", func(c *Config) { c.Keyboard.Variant = "dvorak" }, "keyboard.variant"},
		{"delay too long", func(c *Config) { c.Typing.DelayMs = maxDelayMs + 1 }, "typing.delay_ms"},
		{"cert without key", func(c *Config) { c.Server.CertFile = "cert.pem" }, "server"},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	index := uint32(1)
	cfg.Keyboard.LayoutIndex = &index
	clone := cfg.Clone()
	*clone.Keyboard.LayoutIndex = 2
	assert.Equal(t, uint32(1), *cfg.Keyboard.LayoutIndex)
}

func TestWatcherReloads(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", "[typing]\ndelay_ms = 1\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	w, err := Watch(path, cfg, nil)
	require.NoError(t, err)
	defer w.Close()

	changed := make(chan *Config, 1)
	w.OnChange(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("[typing]\ndelay_ms = 7\n"), 0o644))
	select {
	case c := <-changed:
		assert.Equal(t, uint(7), c.Typing.DelayMs)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
	assert.Equal(t, uint(7), w.Config().Typing.DelayMs)
}

func TestWatcherIgnoresInvalidConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.toml", "[typing]\ndelay_ms = 1\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	w, err := Watch(path, cfg, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o644))
	time.Sleep(5 * debounceDelay)
	assert.Equal(t, uint(1), w.Config().Typing.DelayMs)
}
