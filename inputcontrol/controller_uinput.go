//go:build linux

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

package inputcontrol

import (
	"github.com/bendahl/uinput"
)

const uinputPath = "/dev/uinput"

type uinputController struct {
	keyboard uinput.Keyboard
}

func init() {
	RegisterController("uinput", InitUinputController, 2)
}

// InitUinputController creates a virtual kernel keyboard. The keymap of the
// session is not known, so the default names are used for resolution.
func InitUinputController(opts Options) (Controller, error) {
	keyboard, err := uinput.CreateKeyboard(uinputPath, []byte(opts.appName()+"-keyboard"))
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	return &uinputController{keyboard}, nil
}

func (p *uinputController) Close() error {
	return p.keyboard.Close()
}

func (p *uinputController) KeyboardKeycode(keycode uint32, press bool) error {
	if press {
		return p.keyboard.KeyDown(int(keycode))
	}
	return p.keyboard.KeyUp(int(keycode))
}

func (p *uinputController) Keymap() string {
	return ""
}
