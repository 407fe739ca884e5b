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
	"fmt"

	"github.com/unrud/eitype/keymap"
)

// Keysyms whose keys set each core modifier, in order of preference.
var modifierKeysyms = []struct {
	mod  keymap.ModMask
	syms []keymap.Keysym
}{
	{keymap.ModShift, []keymap.Keysym{keymap.KeysymShiftL, keymap.KeysymShiftR}},
	{keymap.ModLock, []keymap.Keysym{keymap.KeysymCapsLock}},
	{keymap.ModControl, []keymap.Keysym{keymap.KeysymControlL, keymap.KeysymControlR}},
	{keymap.ModMod1, []keymap.Keysym{keymap.KeysymAltL, keymap.KeysymAltR, keymap.KeysymMetaL}},
	{keymap.ModMod2, []keymap.Keysym{keymap.KeysymNumLock}},
	{keymap.ModMod3, []keymap.Keysym{keymap.KeysymISOLevel5Shift}},
	{keymap.ModMod4, []keymap.Keysym{keymap.KeysymSuperL, keymap.KeysymSuperR}},
	{keymap.ModMod5, []keymap.Keysym{keymap.KeysymISOLevel3Shift, keymap.KeysymModeSwitch}},
}

type MissingModifierError struct {
	Mod keymap.ModMask
}

func (e *MissingModifierError) Error() string {
	return fmt.Sprintf("no key for modifier %s in keymap", e.Mod)
}

// HeldState is the modifier state of a session. Explicit is the subset of
// Mask held on request of the caller.
type HeldState struct {
	Mask     keymap.ModMask
	Explicit keymap.ModMask
}

type ModKey struct {
	Mod     keymap.ModMask
	Keycode keymap.Keycode
}

// Plan lists the modifier keys to change around one key tap. Press is in
// press order; Release lists held modifiers that must be lifted first.
type Plan struct {
	Press   []ModKey
	Release []ModKey
}

// Planner maps modifier masks to the physical keys of a keymap.
type Planner struct {
	keys map[keymap.ModMask]keymap.Keycode
}

func NewPlanner(v keymap.View, layout keymap.Layout) *Planner {
	p := &Planner{keys: make(map[keymap.ModMask]keymap.Keycode)}
	for _, entry := range modifierKeysyms {
		for _, sym := range entry.syms {
			m, err := keymap.Find(v, sym, layout)
			if err == nil && m.Mods == keymap.ModNone {
				p.keys[entry.mod] = m.Keycode
				break
			}
		}
	}
	return p
}

// KeyFor returns the canonical key of a single modifier.
func (p *Planner) KeyFor(mod keymap.ModMask) (keymap.Keycode, bool) {
	kc, ok := p.keys[mod]
	return kc, ok
}

func (p *Planner) Plan(required keymap.ModMask, held HeldState) (Plan, error) {
	var plan Plan
	toPress := required &^ held.Mask
	toRelease := held.Mask &^ required &^ held.Explicit
	for _, mod := range toRelease.Bits() {
		kc, ok := p.keys[mod]
		if !ok {
			return Plan{}, &MissingModifierError{mod}
		}
		plan.Release = append(plan.Release, ModKey{mod, kc})
	}
	for _, mod := range toPress.Bits() {
		kc, ok := p.keys[mod]
		if !ok {
			return Plan{}, &MissingModifierError{mod}
		}
		plan.Press = append(plan.Press, ModKey{mod, kc})
	}
	return plan, nil
}
