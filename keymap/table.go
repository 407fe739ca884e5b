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

// LevelDef describes one shift level of a key in a Table.
type LevelDef struct {
	Keysyms []Keysym
	Mods    ModMask
}

// Sym returns a level producing a single keysym with the given modifiers.
func Sym(mods ModMask, sym Keysym) LevelDef {
	return LevelDef{Keysyms: []Keysym{sym}, Mods: mods}
}

// FourLevel builds the levels of a FOUR_LEVEL key type: plain, Shift,
// Mod5 and Shift+Mod5. Fewer keysyms give fewer levels.
func FourLevel(syms ...Keysym) []LevelDef {
	masks := [...]ModMask{ModNone, ModShift, ModMod5, ModShift | ModMod5}
	if len(syms) > len(masks) {
		panic(fmt.Sprintf("keymap: %d keysyms for a four level key", len(syms)))
	}
	levels := make([]LevelDef, len(syms))
	for i, sym := range syms {
		levels[i] = Sym(masks[i], sym)
	}
	return levels
}

type keyLayout struct {
	kc     Keycode
	layout Layout
}

// Table is a sparse in-memory View. Keys that were never set have no
// layouts.
type Table struct {
	min, max Keycode
	empty    bool
	layouts  map[Keycode]Layout
	levels   map[keyLayout][]LevelDef
}

func NewTable() *Table {
	return &Table{
		empty:   true,
		layouts: make(map[Keycode]Layout),
		levels:  make(map[keyLayout][]LevelDef),
	}
}

// SetKey defines kc with one entry per layout. It replaces any previous
// definition of the key.
func (t *Table) SetKey(kc Keycode, layouts ...[]LevelDef) {
	for key := range t.levels {
		if key.kc == kc {
			delete(t.levels, key)
		}
	}
	t.layouts[kc] = Layout(len(layouts))
	for i, levels := range layouts {
		t.levels[keyLayout{kc, Layout(i)}] = levels
	}
	t.extend(kc)
}

// SetRange widens the keycode range without defining keys.
func (t *Table) SetRange(min, max Keycode) {
	t.extend(min)
	t.extend(max)
}

func (t *Table) extend(kc Keycode) {
	if t.empty {
		t.min, t.max, t.empty = kc, kc, false
		return
	}
	if kc < t.min {
		t.min = kc
	}
	if kc > t.max {
		t.max = kc
	}
}

func (t *Table) MinKeycode() Keycode {
	return t.min
}

func (t *Table) MaxKeycode() Keycode {
	return t.max
}

func (t *Table) NumLayoutsForKey(kc Keycode) Layout {
	return t.layouts[kc]
}

func (t *Table) NumLevelsForKey(kc Keycode, layout Layout) Level {
	return Level(len(t.levels[keyLayout{kc, layout}]))
}

// Level returns the definition of a level, or a *QueryError when the key,
// layout or level does not exist.
func (t *Table) Level(kc Keycode, layout Layout, level Level) (LevelDef, error) {
	n, ok := t.layouts[kc]
	if !ok {
		return LevelDef{}, &QueryError{kc, layout, level, "undefined keycode"}
	}
	if layout >= n {
		return LevelDef{}, &QueryError{kc, layout, level,
			fmt.Sprintf("key has %d layouts", n)}
	}
	levels := t.levels[keyLayout{kc, layout}]
	if int(level) >= len(levels) {
		return LevelDef{}, &QueryError{kc, layout, level,
			fmt.Sprintf("layout has %d levels", len(levels))}
	}
	return levels[level], nil
}

func (t *Table) KeysymsByLevel(kc Keycode, layout Layout, level Level) []Keysym {
	def, err := t.Level(kc, layout, level)
	if err != nil {
		return nil
	}
	return def.Keysyms
}

func (t *Table) ModMaskForLevel(kc Keycode, layout Layout, level Level) ModMask {
	def, err := t.Level(kc, layout, level)
	if err != nil {
		return ModNone
	}
	return def.Mods
}
