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

package desktop

import (
	"context"

	"github.com/godbus/dbus/v5"
)

// KDE asks the Plasma keyboard daemon over the session bus.
type KDE struct {
	// Connect defaults to a new session bus connection.
	Connect func(ctx context.Context) (*dbus.Conn, error)
}

func (k *KDE) Name() string {
	return "KDE"
}

func (k *KDE) LayoutIndex(ctx context.Context) (uint32, error) {
	connect := k.Connect
	if connect == nil {
		connect = func(ctx context.Context) (*dbus.Conn, error) {
			return dbus.ConnectSessionBus(dbus.WithContext(ctx))
		}
	}
	bus, err := connect(ctx)
	if err != nil {
		return 0, err
	}
	defer bus.Close()
	var index uint32
	err = bus.Object("org.kde.keyboard", "/Layouts").
		CallWithContext(ctx, "org.kde.KeyboardLayouts.getLayout", 0).Store(&index)
	if err != nil {
		return 0, err
	}
	return index, nil
}
