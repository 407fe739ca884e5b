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

import (
	"math/bits"
	"strings"
)

// ModMask is a set of the eight XKB core modifiers.
type ModMask uint32

const ModNone ModMask = 0

const (
	ModShift ModMask = 1 << iota
	ModLock
	ModControl
	// ModMod1 is usually bound to Alt.
	ModMod1
	// ModMod2 is usually bound to NumLock.
	ModMod2
	ModMod3
	// ModMod4 is usually bound to Super.
	ModMod4
	// ModMod5 is usually bound to ISO_Level3_Shift (AltGr).
	ModMod5
)

const modCount = 8

var modNames = [modCount]string{"Shift", "Lock", "Control", "Mod1", "Mod2",
	"Mod3", "Mod4", "Mod5"}

// Locking modifiers toggle on key press instead of being held.
const lockingMods = ModLock | ModMod2

func (m ModMask) Has(mod ModMask) bool {
	return m&mod == mod
}

func (m ModMask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Bits returns the single-bit masks contained in m in ascending order.
func (m ModMask) Bits() []ModMask {
	var result []ModMask
	for i := 0; i < modCount; i++ {
		if bit := ModMask(1) << i; m&bit != 0 {
			result = append(result, bit)
		}
	}
	return result
}

func (m ModMask) IsLocking() bool {
	return m != ModNone && m&^lockingMods == ModNone
}

func (m ModMask) String() string {
	if m == ModNone {
		return "None"
	}
	var parts []string
	for i, name := range modNames {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "+")
}

// ModByName returns the core modifier with the given XKB name, compared
// case-insensitively.
func ModByName(name string) (ModMask, bool) {
	for i, modName := range modNames {
		if strings.EqualFold(name, modName) {
			return 1 << i, true
		}
	}
	return ModNone, false
}

// PreferredMask picks the mask to use when a keymap lists several
// modifier combinations for one level: masks without locking modifiers
// win, then the one with fewest modifiers, then the first listed.
func PreferredMask(masks []ModMask) ModMask {
	if len(masks) == 0 {
		return ModNone
	}
	best := masks[0]
	for _, mask := range masks[1:] {
		bestLocks := best&lockingMods != 0
		locks := mask&lockingMods != 0
		if bestLocks != locks {
			if bestLocks {
				best = mask
			}
			continue
		}
		if mask.Count() < best.Count() {
			best = mask
		}
	}
	return best
}
