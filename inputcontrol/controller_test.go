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
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ LayoutReporter = (*eiController)(nil)
	_ LayoutReporter = (*portalController)(nil)
)

type fakeController struct {
	name string
}

func (f *fakeController) Close() error { return nil }

func (f *fakeController) KeyboardKeycode(uint32, bool) error { return nil }

func (f *fakeController) Keymap() string { return f.name }

func fakeInfo(name string, err error) ControllerInfo {
	return ControllerInfo{Name: name, Init: func(Options) (Controller, error) {
		if err != nil {
			return nil, err
		}
		return &fakeController{name}, nil
	}}
}

func unsupported(msg string) error {
	return &UnsupportedPlatformError{errors.New(msg)}
}

func TestOpenTriesControllersInOrder(t *testing.T) {
	controllers := []ControllerInfo{
		fakeInfo("first", unsupported("no socket")),
		fakeInfo("second", nil),
		fakeInfo("third", nil),
	}
	controller, name, err := open(controllers, "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "second", name)
	assert.Equal(t, "second", controller.Keymap())
}

func TestOpenStopsOnFatalError(t *testing.T) {
	controllers := []ControllerInfo{
		fakeInfo("first", errors.New("access denied")),
		fakeInfo("second", nil),
	}
	_, name, err := open(controllers, "", Options{})
	require.Error(t, err)
	assert.Equal(t, "first", name)
	assert.Contains(t, err.Error(), "access denied")
}

func TestOpenUnsupportedPlatform(t *testing.T) {
	controllers := []ControllerInfo{
		fakeInfo("first", unsupported("no socket")),
		fakeInfo("second", unsupported("no bus")),
	}
	_, _, err := open(controllers, "", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first controller: no socket")
	assert.Contains(t, err.Error(), "second controller: no bus")
}

func TestOpenSkipsExplicitControllers(t *testing.T) {
	explicit := fakeInfo("null", nil)
	explicit.explicit = true
	controllers := []ControllerInfo{explicit, fakeInfo("other", unsupported("nope"))}
	_, _, err := open(controllers, "", Options{})
	assert.Error(t, err)

	controller, name, err := open(controllers, "NULL", Options{})
	require.NoError(t, err)
	assert.Equal(t, "null", name)
	assert.NotNil(t, controller)
}

func TestOpenByName(t *testing.T) {
	controllers := []ControllerInfo{
		fakeInfo("first", nil),
		fakeInfo("second", unsupported("no bus")),
	}
	_, _, err := open(controllers, "second", Options{})
	assert.ErrorContains(t, err, "second controller: no bus")

	_, _, err = open(controllers, "third", Options{})
	var unknown *UnknownControllerError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"first", "second"}, unknown.Available)

	_, _, err = open(nil, "", Options{})
	assert.Error(t, err)
}

func TestRegistryOrder(t *testing.T) {
	var names []string
	for _, info := range Controllers {
		names = append(names, info.Name)
	}
	require.NotEmpty(t, names)
	assert.Equal(t, []string{"ei", "portal"}, names[:2])
	assert.Equal(t, "null", names[len(names)-1])
}

func TestNullController(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	controller, name, err := Open("null", Options{Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, "null", name)
	require.NoError(t, controller.KeyboardKeycode(30, true))
	assert.Contains(t, buf.String(), "keycode=30")
	assert.Contains(t, buf.String(), "press=true")
	assert.Equal(t, "", controller.Keymap())
	assert.NoError(t, controller.Close())
}

func TestEIControllerWithoutSocket(t *testing.T) {
	_, err := InitEIController(Options{})
	var unsupported *UnsupportedPlatformError
	assert.ErrorAs(t, err, &unsupported)

	_, err = InitEIController(Options{Socket: filepath.Join(t.TempDir(), "eis-0")})
	assert.ErrorAs(t, err, &unsupported)
}
