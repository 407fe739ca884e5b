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

// Package inputcontrol provides the transports that deliver key events to
// the desktop.
package inputcontrol

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

const defaultAppName = "eitype"

type Options struct {
	// Socket is the path of the EIS socket. Empty disables the EI
	// controller.
	Socket string
	// PersistPortal asks the portal for a restore token so the next run
	// does not show the authorization dialog.
	PersistPortal bool
	AppName       string
	Logger        *slog.Logger
}

func (o Options) appName() string {
	if o.AppName == "" {
		return defaultAppName
	}
	return o.AppName
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

type ControllerInfo struct {
	Name string
	Init func(opts Options) (Controller, error)

	priority int
	// explicit controllers are only used when selected by name.
	explicit bool
}

var Controllers []ControllerInfo

func RegisterController(name string, init func(Options) (Controller, error), priority int) {
	register(ControllerInfo{Name: name, Init: init, priority: priority})
}

func registerExplicitController(name string, init func(Options) (Controller, error)) {
	register(ControllerInfo{Name: name, Init: init, priority: 1000, explicit: true})
}

func register(info ControllerInfo) {
	Controllers = append(Controllers, info)
	sort.SliceStable(Controllers, func(i, j int) bool {
		return Controllers[i].priority < Controllers[j].priority
	})
}

type UnsupportedPlatformError struct {
	err error
}

func (e UnsupportedPlatformError) Error() string {
	return e.err.Error()
}

func (e UnsupportedPlatformError) Unwrap() error {
	return e.err
}

type UnknownControllerError struct {
	Name      string
	Available []string
}

func (e *UnknownControllerError) Error() string {
	return fmt.Sprintf("unknown controller %q (available: %s)",
		e.Name, strings.Join(e.Available, ", "))
}

// Controller receives key events as evdev keycodes.
type Controller interface {
	Close() error
	KeyboardKeycode(keycode uint32, press bool) error
	// Keymap returns the XKB keymap used by the receiving side, or "" when
	// it is unknown.
	Keymap() string
}

// LayoutReporter is implemented by controllers that learn the active
// layout of the receiving side.
type LayoutReporter interface {
	ActiveLayout() (index uint32, ok bool)
}

// Open initializes the controller called name. With an empty name the
// registered controllers are tried in order of priority until one
// supports the platform. The name of the selected controller is returned.
func Open(name string, opts Options) (Controller, string, error) {
	return open(Controllers, name, opts)
}

func open(controllers []ControllerInfo, name string, opts Options) (Controller, string, error) {
	if len(controllers) == 0 {
		return nil, "", errors.New("compiled without controller")
	}
	if name != "" {
		for _, info := range controllers {
			if strings.EqualFold(info.Name, name) {
				controller, err := info.Init(opts)
				if err != nil {
					return nil, info.Name, fmt.Errorf("%s controller: %w", info.Name, err)
				}
				return controller, info.Name, nil
			}
		}
		available := make([]string, 0, len(controllers))
		for _, info := range controllers {
			available = append(available, info.Name)
		}
		return nil, "", &UnknownControllerError{name, available}
	}
	var platformErrors []string
	for _, info := range controllers {
		if info.explicit {
			continue
		}
		controller, err := info.Init(opts)
		if err == nil {
			return controller, info.Name, nil
		}
		var unsupported *UnsupportedPlatformError
		if !errors.As(err, &unsupported) {
			return nil, info.Name, fmt.Errorf("%s controller: %w", info.Name, err)
		}
		opts.logger().Debug("Controller not supported", "controller", info.Name, "err", err)
		platformErrors = append(platformErrors, fmt.Sprintf("%s controller: %v", info.Name, err))
	}
	return nil, "", errors.New("unsupported platform:\n" + strings.Join(platformErrors, "\n"))
}
