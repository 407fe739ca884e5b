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
	"errors"
	"fmt"
)

var ErrCompilerUnavailable = errors.New("keymap compiler unavailable: built without cgo")

// CharacterNotFoundError reports that no key in the keymap produces a
// keysym, neither at the requested layout nor through layout 0.
type CharacterNotFoundError struct {
	Keysym Keysym
	// Rune is the requested character, 0 for named keysyms.
	Rune rune
}

func (e *CharacterNotFoundError) Error() string {
	if e.Rune != 0 {
		return fmt.Sprintf("character not found in keymap: %q (keysym %#x)",
			e.Rune, uint32(e.Keysym))
	}
	return fmt.Sprintf("keysym not found in keymap: %#x", uint32(e.Keysym))
}

// QueryError is an out-of-range query against a keymap. Layout resolution
// and character search never produce one from a consistent View.
type QueryError struct {
	Keycode Keycode
	Layout  Layout
	Level   Level
	Reason  string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid keymap query (keycode %d, layout %d, level %d): %s",
		e.Keycode, e.Layout, e.Level, e.Reason)
}
