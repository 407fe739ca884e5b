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
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRCode renders message with half-block characters, two rows of
// modules per line.
func GenerateQRCode(message string, colorize bool) (string, error) {
	q, err := qrcode.New(message, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return qrCodeToString(q.Bitmap(), colorize), nil
}

func qrCodeToString(bits [][]bool, colorize bool) string {
	var b strings.Builder
	for y := -1; y < len(bits); y += 2 {
		if colorize {
			b.WriteString(ForegroundWhite + BackgroundBlack)
		}
		for x := range bits[0] {
			upper := 0 <= y && bits[y][x]
			lower := y+1 < len(bits) && bits[y+1][x]
			switch {
			case upper && lower:
				b.WriteString(" ")
			case !upper && lower:
				b.WriteString("▀")
			case upper && !lower:
				b.WriteString("▄")
			default:
				b.WriteString("█")
			}
		}
		if colorize {
			b.WriteString(ForegroundReset + BackgroundReset)
		}
		b.WriteString("\n")
	}
	return b.String()
}
