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

package terminal

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodeToString(t *testing.T) {
	bits := [][]bool{
		{true, false},
		{true, true},
		{false, true},
	}
	assert.Equal(t, "▀█\n▄ \n", qrCodeToString(bits, false))
}

func TestQRCodeToStringColorized(t *testing.T) {
	s := qrCodeToString([][]bool{{true}}, true)
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, ForegroundWhite+BackgroundBlack))
		assert.True(t, strings.HasSuffix(line, ForegroundReset+BackgroundReset))
	}
}

func TestGenerateQRCode(t *testing.T) {
	s, err := GenerateQRCode("http://192.168.0.2:8080/#secret", false)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	require.NotEmpty(t, lines)
	width := len([]rune(lines[0]))
	for _, line := range lines {
		assert.Len(t, []rune(line), width)
	}
}

func TestSetTitleNotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, setTitle(f, int(f.Fd()), "eitype"))
	assert.False(t, SupportsColor(f.Fd()))
}
