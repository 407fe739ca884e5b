//go:build !cgo

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

// CompileNames needs libxkbcommon, which requires cgo.
func CompileNames(names RuleNames) (Compiled, error) {
	return nil, ErrCompilerUnavailable
}

// CompileString needs libxkbcommon, which requires cgo.
func CompileString(text string) (Compiled, error) {
	return nil, ErrCompilerUnavailable
}
