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

package keyboard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/unrud/eitype/keymap"
)

// KeymapSource tells where a loaded keymap came from.
type KeymapSource int

const (
	SourceNames KeymapSource = iota
	SourceServer
	SourceDefault
	SourceBuiltin
)

func (s KeymapSource) String() string {
	switch s {
	case SourceNames:
		return "rule names"
	case SourceServer:
		return "input server"
	case SourceDefault:
		return "system default"
	case SourceBuiltin:
		return "built-in US layout"
	default:
		return fmt.Sprintf("source %d", int(s))
	}
}

// LoadedKeymap is a keymap ready for a Session.
type LoadedKeymap struct {
	keymap.View
	Source      KeymapSource
	LayoutNames []string

	compiled keymap.Compiled
}

// Close frees a compiled keymap.
func (k *LoadedKeymap) Close() {
	if k.compiled != nil {
		k.compiled.Close()
		k.compiled = nil
	}
}

// KeymapLoader picks the keymap. Explicit rule names win over the keymap
// of the input server, which wins over the system default names. Without
// a keymap compiler the built-in US table is used.
type KeymapLoader struct {
	CompileNames  func(keymap.RuleNames) (keymap.Compiled, error)
	CompileString func(string) (keymap.Compiled, error)
	Logger        *slog.Logger
}

func NewKeymapLoader(logger *slog.Logger) *KeymapLoader {
	return &KeymapLoader{
		CompileNames:  keymap.CompileNames,
		CompileString: keymap.CompileString,
		Logger:        logger,
	}
}

func (l *KeymapLoader) Load(names keymap.RuleNames, serverKeymap string) (*LoadedKeymap, error) {
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}
	if names.IsSpecified() {
		compiled, err := l.CompileNames(names)
		if err == nil {
			return loaded(compiled, SourceNames), nil
		}
		if !errors.Is(err, keymap.ErrCompilerUnavailable) {
			return nil, err
		}
		log.Warn("Ignoring keymap names", "layout", names.Layout, "err", err)
		return builtin(), nil
	}
	if serverKeymap != "" {
		compiled, err := l.CompileString(serverKeymap)
		if err == nil {
			return loaded(compiled, SourceServer), nil
		}
		if errors.Is(err, keymap.ErrCompilerUnavailable) {
			return builtin(), nil
		}
		log.Warn("Cannot use keymap of input server", "err", err)
	}
	compiled, err := l.CompileNames(keymap.RuleNames{})
	if err == nil {
		return loaded(compiled, SourceDefault), nil
	}
	if errors.Is(err, keymap.ErrCompilerUnavailable) {
		return builtin(), nil
	}
	return nil, err
}

func loaded(compiled keymap.Compiled, source KeymapSource) *LoadedKeymap {
	return &LoadedKeymap{
		View:        compiled,
		Source:      source,
		LayoutNames: compiled.LayoutNames(),
		compiled:    compiled,
	}
}

func builtin() *LoadedKeymap {
	return &LoadedKeymap{
		View:        USKeymap(),
		Source:      SourceBuiltin,
		LayoutNames: []string{"English (US)"},
	}
}
