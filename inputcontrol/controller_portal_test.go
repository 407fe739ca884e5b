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
	"path/filepath"
	"regexp"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleToken(t *testing.T) {
	a, b := handleToken(), handleToken()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_]+$`), a)
	assert.True(t, dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_1/"+a).IsValid())
}

func TestRestoreToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", restoreTokenFileName)
	_, err := readRestoreToken(path)
	assert.Error(t, err)

	require.NoError(t, writeRestoreToken(path, "0f1e2d3c"))
	token, err := readRestoreToken(path)
	require.NoError(t, err)
	assert.Equal(t, "0f1e2d3c", token)
}

func TestParseResponse(t *testing.T) {
	result, vardict, err := parseResponse([]interface{}{
		uint32(0),
		map[string]dbus.Variant{"devices": dbus.MakeVariant(deviceKeyboard)},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), result)
	assert.Equal(t, deviceKeyboard, vardict["devices"].Value())

	_, _, err = parseResponse([]interface{}{uint32(1)})
	assert.Error(t, err)
	_, _, err = parseResponse([]interface{}{"0", map[string]dbus.Variant{}})
	assert.Error(t, err)
	_, _, err = parseResponse([]interface{}{uint32(0), "vardict"})
	assert.Error(t, err)
}
