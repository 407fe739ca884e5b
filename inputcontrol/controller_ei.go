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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unrud/eitype/eiproto"
)

const keyboardTimeout = 10 * time.Second

type eiController struct {
	client *eiproto.Client
	device *eiproto.Device
}

func init() {
	RegisterController("ei", InitEIController, 0)
}

func InitEIController(opts Options) (Controller, error) {
	if opts.Socket == "" {
		return nil, &UnsupportedPlatformError{
			errors.New("no EI socket configured (LIBEI_SOCKET is not set)")}
	}
	client, err := eiproto.Dial(opts.Socket, opts.appName(), opts.logger())
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	return newEIController(client)
}

// newEIController waits for the keyboard device of a connected client.
// The client is closed on error.
func newEIController(client *eiproto.Client) (*eiController, error) {
	ctx, cancel := context.WithTimeout(context.Background(), keyboardTimeout)
	defer cancel()
	device, err := client.WaitKeyboard(ctx)
	if err != nil {
		client.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.New("EIS server did not provide a keyboard device")
		}
		return nil, fmt.Errorf("waiting for keyboard device: %w", err)
	}
	return &eiController{client: client, device: device}, nil
}

func (p *eiController) Close() error {
	stopErr := p.client.StopEmulating(p.device)
	return errors.Join(stopErr, p.client.Close())
}

func (p *eiController) KeyboardKeycode(keycode uint32, press bool) error {
	return p.client.Key(p.device, keycode, press)
}

func (p *eiController) Keymap() string {
	return p.client.Keymap(p.device)
}

func (p *eiController) ActiveLayout() (uint32, bool) {
	return p.client.Group(p.device)
}
