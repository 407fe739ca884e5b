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

// Package terminal contains helpers for output to an interactive terminal.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ForegroundWhite = "\x1b[37m"
	ForegroundReset = "\x1b[39m"
	BackgroundBlack = "\x1b[40m"
	BackgroundReset = "\x1b[49m"
)

func SupportsColor(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// SetTitle changes the window title when stdout is a terminal.
func SetTitle(title string) bool {
	return setTitle(os.Stdout, int(os.Stdout.Fd()), title)
}

func setTitle(w io.Writer, fd int, title string) bool {
	if !term.IsTerminal(fd) {
		return false
	}
	_, err := io.WriteString(w, "\x1b]2;"+title+"\x07")
	return err == nil
}
