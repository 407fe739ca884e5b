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

import (
	"slices"
	"strconv"
	"strings"

	"github.com/unrud/eitype/keymap"
)

// linux/input-event-codes.h
const (
	evKeyEsc        uint32 = 1
	evKey1          uint32 = 2
	evKeyMinus      uint32 = 12
	evKeyEqual      uint32 = 13
	evKeyBackspace  uint32 = 14
	evKeyTab        uint32 = 15
	evKeyQ          uint32 = 16
	evKeyLeftBrace  uint32 = 26
	evKeyRightBrace uint32 = 27
	evKeyEnter      uint32 = 28
	evKeyLeftCtrl   uint32 = 29
	evKeyA          uint32 = 30
	evKeySemicolon  uint32 = 39
	evKeyApostrophe uint32 = 40
	evKeyGrave      uint32 = 41
	evKeyLeftShift  uint32 = 42
	evKeyBackslash  uint32 = 43
	evKeyZ          uint32 = 44
	evKeyComma      uint32 = 51
	evKeyDot        uint32 = 52
	evKeySlash      uint32 = 53
	evKeyRightShift uint32 = 54
	evKeyLeftAlt    uint32 = 56
	evKeySpace      uint32 = 57
	evKeyCapsLock   uint32 = 58
	evKeyF1         uint32 = 59
	evKeyNumLock    uint32 = 69
	evKeyScrollLock uint32 = 70
	evKeyF11        uint32 = 87
	evKeyF12        uint32 = 88
	evKeyRightCtrl  uint32 = 97
	evKeySysRq      uint32 = 99
	evKeyRightAlt   uint32 = 100
	evKeyHome       uint32 = 102
	evKeyUp         uint32 = 103
	evKeyPageUp     uint32 = 104
	evKeyLeft       uint32 = 105
	evKeyRight      uint32 = 106
	evKeyEnd        uint32 = 107
	evKeyDown       uint32 = 108
	evKeyPageDown   uint32 = 109
	evKeyInsert     uint32 = 110
	evKeyDelete     uint32 = 111
	evKeyMute       uint32 = 113
	evKeyVolumeDown uint32 = 114
	evKeyVolumeUp   uint32 = 115
	evKeyPause      uint32 = 119
	evKeyLeftMeta   uint32 = 125
	evKeyRightMeta  uint32 = 126
	evKeyCompose    uint32 = 127
	evKeyBack       uint32 = 158
	evKeyForward    uint32 = 159
	evKeyNextSong   uint32 = 163
	evKeyPlayPause  uint32 = 164
	evKeyPrevSong   uint32 = 165
)

// NamedKey is a key addressed by name. Evdev is used when the keymap has
// no key producing Keysym.
type NamedKey struct {
	Keysym keymap.Keysym
	Evdev  uint32
}

// NamedModifier is a modifier key addressed by name.
type NamedModifier struct {
	NamedKey
	Mod keymap.ModMask
}

var keyNames = map[string]NamedKey{
	"escape":     {keymap.KeysymEscape, evKeyEsc},
	"esc":        {keymap.KeysymEscape, evKeyEsc},
	"return":     {keymap.KeysymReturn, evKeyEnter},
	"enter":      {keymap.KeysymReturn, evKeyEnter},
	"tab":        {keymap.KeysymTab, evKeyTab},
	"backspace":  {keymap.KeysymBackSpace, evKeyBackspace},
	"delete":     {keymap.KeysymDelete, evKeyDelete},
	"del":        {keymap.KeysymDelete, evKeyDelete},
	"insert":     {keymap.KeysymInsert, evKeyInsert},
	"ins":        {keymap.KeysymInsert, evKeyInsert},
	"home":       {keymap.KeysymHome, evKeyHome},
	"end":        {keymap.KeysymEnd, evKeyEnd},
	"pageup":     {keymap.KeysymPageUp, evKeyPageUp},
	"pgup":       {keymap.KeysymPageUp, evKeyPageUp},
	"pagedown":   {keymap.KeysymPageDown, evKeyPageDown},
	"pgdn":       {keymap.KeysymPageDown, evKeyPageDown},
	"up":         {keymap.KeysymUp, evKeyUp},
	"down":       {keymap.KeysymDown, evKeyDown},
	"left":       {keymap.KeysymLeft, evKeyLeft},
	"right":      {keymap.KeysymRight, evKeyRight},
	"space":      {' ', evKeySpace},
	"capslock":   {keymap.KeysymCapsLock, evKeyCapsLock},
	"numlock":    {keymap.KeysymNumLock, evKeyNumLock},
	"scrolllock": {keymap.KeysymScrollLock, evKeyScrollLock},
	"print":      {keymap.KeysymPrint, evKeySysRq},
	"sysrq":      {keymap.KeysymPrint, evKeySysRq},
	"pause":      {keymap.KeysymPause, evKeyPause},
	"menu":       {keymap.KeysymMenu, evKeyCompose},
	"volumemute": {keymap.KeysymAudioMute, evKeyMute},
	"volumedown": {keymap.KeysymAudioLowerVolume, evKeyVolumeDown},
	"volumeup":   {keymap.KeysymAudioRaiseVolume, evKeyVolumeUp},
	"playpause":  {keymap.KeysymAudioPlay, evKeyPlayPause},
	"prevtrack":  {keymap.KeysymAudioPrev, evKeyPrevSong},
	"nexttrack":  {keymap.KeysymAudioNext, evKeyNextSong},
	"back":       {keymap.KeysymBack, evKeyBack},
	"forward":    {keymap.KeysymForward, evKeyForward},
}

var modifierNames = map[string]NamedModifier{
	"shift":   {NamedKey{keymap.KeysymShiftL, evKeyLeftShift}, keymap.ModShift},
	"lshift":  {NamedKey{keymap.KeysymShiftL, evKeyLeftShift}, keymap.ModShift},
	"rshift":  {NamedKey{keymap.KeysymShiftR, evKeyRightShift}, keymap.ModShift},
	"ctrl":    {NamedKey{keymap.KeysymControlL, evKeyLeftCtrl}, keymap.ModControl},
	"control": {NamedKey{keymap.KeysymControlL, evKeyLeftCtrl}, keymap.ModControl},
	"lctrl":   {NamedKey{keymap.KeysymControlL, evKeyLeftCtrl}, keymap.ModControl},
	"rctrl":   {NamedKey{keymap.KeysymControlR, evKeyRightCtrl}, keymap.ModControl},
	"alt":     {NamedKey{keymap.KeysymAltL, evKeyLeftAlt}, keymap.ModMod1},
	"lalt":    {NamedKey{keymap.KeysymAltL, evKeyLeftAlt}, keymap.ModMod1},
	"ralt":    {NamedKey{keymap.KeysymAltR, evKeyRightAlt}, keymap.ModMod1},
	"altgr":   {NamedKey{keymap.KeysymISOLevel3Shift, evKeyRightAlt}, keymap.ModMod5},
	"super":   {NamedKey{keymap.KeysymSuperL, evKeyLeftMeta}, keymap.ModMod4},
	"lsuper":  {NamedKey{keymap.KeysymSuperL, evKeyLeftMeta}, keymap.ModMod4},
	"rsuper":  {NamedKey{keymap.KeysymSuperR, evKeyRightMeta}, keymap.ModMod4},
	"meta":    {NamedKey{keymap.KeysymSuperL, evKeyLeftMeta}, keymap.ModMod4},
	"win":     {NamedKey{keymap.KeysymSuperL, evKeyLeftMeta}, keymap.ModMod4},
	"logo":    {NamedKey{keymap.KeysymSuperL, evKeyLeftMeta}, keymap.ModMod4},
}

func init() {
	for i := uint32(0); i < 12; i++ {
		code := evKeyF1 + i
		switch i {
		case 10:
			code = evKeyF11
		case 11:
			code = evKeyF12
		}
		keyNames["f"+strconv.Itoa(int(i)+1)] = NamedKey{keymap.KeysymF1 + keymap.Keysym(i), code}
	}
	for r, code := range usEvdevCodes() {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			keyNames[string(r)] = NamedKey{keymap.Keysym(r), code}
		}
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LookupKey returns the named key. Names are case-insensitive and include
// modifier key names.
func LookupKey(name string) (NamedKey, bool) {
	name = normalizeName(name)
	if key, ok := keyNames[name]; ok {
		return key, true
	}
	if mod, ok := modifierNames[name]; ok {
		return mod.NamedKey, true
	}
	return NamedKey{}, false
}

func LookupModifier(name string) (NamedModifier, bool) {
	mod, ok := modifierNames[normalizeName(name)]
	return mod, ok
}

// KeyNames lists every accepted key name.
func KeyNames() []string {
	names := make([]string, 0, len(keyNames)+len(modifierNames))
	for name := range keyNames {
		names = append(names, name)
	}
	for name := range modifierNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func ModifierNames() []string {
	names := make([]string, 0, len(modifierNames))
	for name := range modifierNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
