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

package keymap

import "fmt"

const (
	// X11/keysymdef.h
	KeysymBackSpace      Keysym = 0xff08
	KeysymTab            Keysym = 0xff09
	KeysymReturn         Keysym = 0xff0d
	KeysymPause          Keysym = 0xff13
	KeysymScrollLock     Keysym = 0xff14
	KeysymEscape         Keysym = 0xff1b
	KeysymHome           Keysym = 0xff50
	KeysymLeft           Keysym = 0xff51
	KeysymUp             Keysym = 0xff52
	KeysymRight          Keysym = 0xff53
	KeysymDown           Keysym = 0xff54
	KeysymPageUp         Keysym = 0xff55
	KeysymPageDown       Keysym = 0xff56
	KeysymEnd            Keysym = 0xff57
	KeysymPrint          Keysym = 0xff61
	KeysymInsert         Keysym = 0xff63
	KeysymMenu           Keysym = 0xff67
	KeysymModeSwitch     Keysym = 0xff7e
	KeysymNumLock        Keysym = 0xff7f
	KeysymF1             Keysym = 0xffbe
	KeysymShiftL         Keysym = 0xffe1
	KeysymShiftR         Keysym = 0xffe2
	KeysymControlL       Keysym = 0xffe3
	KeysymControlR       Keysym = 0xffe4
	KeysymCapsLock       Keysym = 0xffe5
	KeysymMetaL          Keysym = 0xffe7
	KeysymMetaR          Keysym = 0xffe8
	KeysymAltL           Keysym = 0xffe9
	KeysymAltR           Keysym = 0xffea
	KeysymSuperL         Keysym = 0xffeb
	KeysymSuperR         Keysym = 0xffec
	KeysymDelete         Keysym = 0xffff
	KeysymISOLevel3Shift Keysym = 0xfe03
	KeysymISOLevel5Shift Keysym = 0xfe11
	// X11/XF86keysym.h
	KeysymAudioLowerVolume Keysym = 0x1008ff11
	KeysymAudioMute        Keysym = 0x1008ff12
	KeysymAudioRaiseVolume Keysym = 0x1008ff13
	KeysymAudioPlay        Keysym = 0x1008ff14
	KeysymAudioPrev        Keysym = 0x1008ff16
	KeysymAudioNext        Keysym = 0x1008ff17
	KeysymBack             Keysym = 0x1008ff26
	KeysymForward          Keysym = 0x1008ff27
)

const unicodeKeysymOffset = 0x01000000

var controlKeysyms = map[rune]Keysym{
	'\b':   KeysymBackSpace,
	'\t':   KeysymTab,
	'\n':   KeysymReturn,
	'\r':   KeysymReturn,
	'\x1b': KeysymEscape,
	'\x7f': KeysymDelete,
}

var runesByKeysym = make(map[Keysym]rune, len(keysymsMap))

func init() {
	for r, keysym := range keysymsMap {
		runesByKeysym[keysym] = r
	}
}

// RuneToKeysym returns the preferred keysym of a character: the legacy
// keysym when one exists, otherwise the Unicode keysym.
func RuneToKeysym(runeValue rune) (Keysym, error) {
	if keysym, found := controlKeysyms[runeValue]; found {
		return keysym, nil
	}
	if isLatin1(runeValue) {
		return Keysym(runeValue), nil
	}
	if keysym, found := keysymsMap[runeValue]; found {
		return keysym, nil
	}
	if runeValue < 0x100 || runeValue > 0x10ffff {
		return 0, fmt.Errorf("rune not mapped to keysym and "+
			"out of range for direct unicode mapping: %q", runeValue)
	}
	return Keysym(unicodeKeysymOffset + runeValue), nil
}

// RuneKeysyms returns every keysym a keymap may use for r, preferred
// spelling first.
func RuneKeysyms(runeValue rune) []Keysym {
	keysym, err := RuneToKeysym(runeValue)
	if err != nil {
		return nil
	}
	result := []Keysym{keysym}
	if unicode := Keysym(unicodeKeysymOffset + runeValue); runeValue >= 0x100 &&
		unicode != keysym {
		result = append(result, unicode)
	}
	return result
}

// KeysymToRune returns the character produced by keysym, if any.
func KeysymToRune(keysym Keysym) (rune, bool) {
	switch {
	case keysym == KeysymReturn:
		return '\n', true
	case keysym == KeysymTab:
		return '\t', true
	case keysym == KeysymBackSpace:
		return '\b', true
	case keysym == KeysymEscape:
		return '\x1b', true
	case keysym == KeysymDelete:
		return '\x7f', true
	case keysym < 0x100 && isLatin1(rune(keysym)):
		return rune(keysym), true
	case keysym >= unicodeKeysymOffset+0x100 && keysym <= unicodeKeysymOffset+0x10ffff:
		return rune(keysym - unicodeKeysymOffset), true
	}
	r, found := runesByKeysym[keysym]
	return r, found
}

func isLatin1(r rune) bool {
	return (r >= 0x20 && r <= 0x7e) || (r >= 0xa0 && r <= 0xff)
}
