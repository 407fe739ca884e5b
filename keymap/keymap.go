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

// Package keymap queries compiled keyboard layouts and searches them for
// the key, layout and level that produce a given keysym.
package keymap

type Keycode uint32
type Layout uint32
type Level uint32
type Keysym uint32

// XKB keycodes are evdev keycodes shifted by 8.
const evdevOffset = 8

func (kc Keycode) Evdev() uint32 {
	return uint32(kc) - evdevOffset
}

func KeycodeFromEvdev(code uint32) Keycode {
	return Keycode(code + evdevOffset)
}

// View is a read-only query surface over a compiled keymap. Layout and level
// counts are per key: a key may define fewer layouts than the keymap.
type View interface {
	MinKeycode() Keycode
	MaxKeycode() Keycode
	NumLayoutsForKey(kc Keycode) Layout
	// NumLevelsForKey returns 0 when layout is not defined for the key.
	NumLevelsForKey(kc Keycode, layout Layout) Level
	KeysymsByLevel(kc Keycode, layout Layout, level Level) []Keysym
	ModMaskForLevel(kc Keycode, layout Layout, level Level) ModMask
}

// Compiled is a View backed by a keymap compiler that holds native
// resources.
type Compiled interface {
	View
	LayoutNames() []string
	Close()
}

// RuleNames selects a keymap through the XKB rules. Empty fields use the
// compiler's defaults.
type RuleNames struct {
	Rules   string
	Model   string
	Layout  string
	Variant string
	Options string
}

func (n RuleNames) IsSpecified() bool {
	return n.Rules != "" || n.Model != "" || n.Layout != "" ||
		n.Variant != "" || n.Options != ""
}
