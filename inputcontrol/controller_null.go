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
	"log/slog"
)

type nullController struct {
	log *slog.Logger
}

func init() {
	registerExplicitController("null", InitNullController)
}

func InitNullController(opts Options) (Controller, error) {
	return &nullController{log: opts.logger()}, nil
}

func (p *nullController) Close() error {
	return nil
}

func (p *nullController) KeyboardKeycode(keycode uint32, press bool) error {
	p.log.Info("KeyboardKeycode", "keycode", keycode, "press", press)
	return nil
}

func (p *nullController) Keymap() string {
	return ""
}
