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

// EffectiveLayout returns the layout to query on kc for the requested
// layout index. Keys that define the requested layout use it (exact);
// keys that define fewer layouts fall back to layout 0. ok is false for
// keys without any layout.
func EffectiveLayout(v View, kc Keycode, requested Layout) (layout Layout, exact bool, ok bool) {
	n := v.NumLayoutsForKey(kc)
	switch {
	case n == 0:
		return 0, false, false
	case requested < n:
		return requested, true, true
	default:
		return 0, false, true
	}
}
