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

package keymap

import "fmt"

// Match locates a keysym in a keymap. It is only valid for the View it was
// found in.
type Match struct {
	Keycode Keycode
	Layout  Layout
	Level   Level
	Mods    ModMask
	// Exact is false when the key was reached through the layout 0
	// fallback.
	Exact bool
}

func (m Match) String() string {
	kind := "exact"
	if !m.Exact {
		kind = "fallback"
	}
	return fmt.Sprintf("keycode %d layout %d level %d mods %s (%s)",
		m.Keycode, m.Layout, m.Level, m.Mods, kind)
}

// FindExact scans keys that define the requested layout.
func FindExact(v View, target Keysym, requested Layout) (Match, bool) {
	return scan(v, target, requested, true)
}

// FindFallback scans keys that define fewer layouts than requested, using
// their layout 0.
func FindFallback(v View, target Keysym, requested Layout) (Match, bool) {
	return scan(v, target, requested, false)
}

func scan(v View, target Keysym, requested Layout, exact bool) (Match, bool) {
	min, max := v.MinKeycode(), v.MaxKeycode()
	if min > max {
		return Match{}, false
	}
	for kc := min; ; kc++ {
		layout, isExact, ok := EffectiveLayout(v, kc, requested)
		if ok && isExact == exact {
			if level, found := findLevel(v, kc, layout, target); found {
				return Match{
					Keycode: kc,
					Layout:  layout,
					Level:   level,
					Mods:    v.ModMaskForLevel(kc, layout, level),
					Exact:   exact,
				}, true
			}
		}
		if kc == max {
			break
		}
	}
	return Match{}, false
}

func findLevel(v View, kc Keycode, layout Layout, target Keysym) (Level, bool) {
	n := v.NumLevelsForKey(kc, layout)
	for level := Level(0); level < n; level++ {
		syms := v.KeysymsByLevel(kc, layout, level)
		if len(syms) == 1 && syms[0] == target {
			return level, true
		}
	}
	return 0, false
}

// Find returns the first key producing target at the requested layout and
// only falls back to layout 0 of shorter keys when no key matches exactly.
func Find(v View, target Keysym, requested Layout) (Match, error) {
	m, ok := FindExact(v, target, requested)
	if !ok {
		m, ok = FindFallback(v, target, requested)
	}
	if !ok {
		return Match{}, &CharacterNotFoundError{Keysym: target}
	}
	return m, checkMatch(v, m)
}

// FindRune tries every keysym spelling of r. Exact matches of any spelling
// win over fallback matches.
func FindRune(v View, r rune, requested Layout) (Match, error) {
	syms := RuneKeysyms(r)
	for _, sym := range syms {
		if m, ok := FindExact(v, sym, requested); ok {
			return m, checkMatch(v, m)
		}
	}
	for _, sym := range syms {
		if m, ok := FindFallback(v, sym, requested); ok {
			return m, checkMatch(v, m)
		}
	}
	e := &CharacterNotFoundError{Rune: r}
	if len(syms) > 0 {
		e.Keysym = syms[0]
	}
	return Match{}, e
}

func checkMatch(v View, m Match) error {
	if n := v.NumLayoutsForKey(m.Keycode); m.Layout >= n {
		return &QueryError{m.Keycode, m.Layout, m.Level,
			fmt.Sprintf("key has %d layouts", n)}
	}
	if n := v.NumLevelsForKey(m.Keycode, m.Layout); m.Level >= n {
		return &QueryError{m.Keycode, m.Layout, m.Level,
			fmt.Sprintf("layout has %d levels", n)}
	}
	return nil
}
