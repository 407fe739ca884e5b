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

import "fmt"

type UnknownKeyNameError struct {
	Name string
}

func (e *UnknownKeyNameError) Error() string {
	return fmt.Sprintf("unknown key name: %q", e.Name)
}

type UnknownModifierNameError struct {
	Name string
}

func (e *UnknownModifierNameError) Error() string {
	return fmt.Sprintf("unknown modifier name: %q", e.Name)
}

// TransportError is a failure of the Sink to deliver Event. The state of
// keys on the receiving side is unknown afterwards.
type TransportError struct {
	Event Event
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send %s of keycode %d: %s",
		e.Event.Action, e.Event.Keycode, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
