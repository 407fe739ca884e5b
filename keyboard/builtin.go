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

import "github.com/unrud/eitype/keymap"

type qwertyRow struct {
	firstCode      uint32
	plain, shifted string
}

var qwertyRows = [...]qwertyRow{
	{evKey1, "1234567890-=", "!@#$%^&*()_+"},
	{evKeyQ, "qwertyuiop[]", "QWERTYUIOP{}"},
	{evKeyA, "asdfghjkl;'`", "ASDFGHJKL:\"~"},
	{evKeyBackslash, "\\", "|"},
	{evKeyZ, "zxcvbnm,./", "ZXCVBNM<>?"},
}

var builtinModifiers = [...]string{"lshift", "rshift", "lctrl", "rctrl",
	"lalt", "altgr", "lsuper", "rsuper"}

func usEvdevCodes() map[rune]uint32 {
	codes := make(map[rune]uint32)
	for _, row := range qwertyRows {
		for i, r := range row.plain {
			codes[r] = row.firstCode + uint32(i)
		}
	}
	return codes
}

// USKeymap returns a single layout US QWERTY keymap for use when no keymap
// compiler is available.
func USKeymap() *keymap.Table {
	t := keymap.NewTable()
	t.SetRange(keymap.KeycodeFromEvdev(0), keymap.KeycodeFromEvdev(255))
	for _, key := range keyNames {
		t.SetKey(keymap.KeycodeFromEvdev(key.Evdev), keymap.FourLevel(key.Keysym))
	}
	for _, name := range builtinModifiers {
		mod := modifierNames[name]
		t.SetKey(keymap.KeycodeFromEvdev(mod.Evdev), keymap.FourLevel(mod.Keysym))
	}
	for _, row := range qwertyRows {
		shifted := []rune(row.shifted)
		for i, r := range []rune(row.plain) {
			t.SetKey(keymap.KeycodeFromEvdev(row.firstCode+uint32(i)),
				keymap.FourLevel(keymap.Keysym(r), keymap.Keysym(shifted[i])))
		}
	}
	return t
}
