//go:build cgo

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

/*
#cgo pkg-config: xkbcommon
#include <stdlib.h>
#include <xkbcommon/xkbcommon.h>
*/
import "C"

import (
	"errors"
	"runtime"
	"unsafe"
)

const maxMasksPerLevel = 16

// XKB is a View over a keymap compiled by libxkbcommon.
type XKB struct {
	context *C.struct_xkb_context
	keymap  *C.struct_xkb_keymap
	// Core modifier of each keymap modifier index.
	modBits []ModMask
}

// CompileNames compiles a keymap from XKB rule names. Empty names are
// filled in by libxkbcommon from XKB_DEFAULT_* or the system default.
func CompileNames(names RuleNames) (Compiled, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, errors.New("failed to create xkb context")
	}
	var cNames C.struct_xkb_rule_names
	var allocated []*C.char
	for _, field := range []struct {
		dst **C.char
		src string
	}{
		{&cNames.rules, names.Rules},
		{&cNames.model, names.Model},
		{&cNames.layout, names.Layout},
		{&cNames.variant, names.Variant},
		{&cNames.options, names.Options},
	} {
		if field.src != "" {
			s := C.CString(field.src)
			allocated = append(allocated, s)
			*field.dst = s
		}
	}
	defer func() {
		for _, s := range allocated {
			C.free(unsafe.Pointer(s))
		}
	}()
	keymap := C.xkb_keymap_new_from_names(ctx, &cNames, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if keymap == nil {
		C.xkb_context_unref(ctx)
		return nil, errors.New("failed to compile keymap from names")
	}
	return newXKB(ctx, keymap), nil
}

// CompileString compiles a keymap in XKB text format, as sent by an EI
// server.
func CompileString(text string) (Compiled, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, errors.New("failed to create xkb context")
	}
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))
	keymap := C.xkb_keymap_new_from_string(ctx, cText,
		C.XKB_KEYMAP_FORMAT_TEXT_V1, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if keymap == nil {
		C.xkb_context_unref(ctx)
		return nil, errors.New("failed to compile keymap from string")
	}
	return newXKB(ctx, keymap), nil
}

func newXKB(ctx *C.struct_xkb_context, keymap *C.struct_xkb_keymap) *XKB {
	k := &XKB{context: ctx, keymap: keymap}
	n := int(C.xkb_keymap_num_mods(keymap))
	k.modBits = make([]ModMask, n)
	for i := 0; i < n; i++ {
		name := C.xkb_keymap_mod_get_name(keymap, C.xkb_mod_index_t(i))
		if name == nil {
			continue
		}
		if mod, ok := ModByName(C.GoString(name)); ok {
			k.modBits[i] = mod
		}
	}
	runtime.SetFinalizer(k, (*XKB).Close)
	return k
}

func (k *XKB) Close() {
	if k.keymap != nil {
		C.xkb_keymap_unref(k.keymap)
		k.keymap = nil
	}
	if k.context != nil {
		C.xkb_context_unref(k.context)
		k.context = nil
	}
	runtime.SetFinalizer(k, nil)
}

func (k *XKB) LayoutNames() []string {
	n := int(C.xkb_keymap_num_layouts(k.keymap))
	names := make([]string, n)
	for i := range names {
		if name := C.xkb_keymap_layout_get_name(k.keymap, C.xkb_layout_index_t(i)); name != nil {
			names[i] = C.GoString(name)
		}
	}
	return names
}

func (k *XKB) MinKeycode() Keycode {
	return Keycode(C.xkb_keymap_min_keycode(k.keymap))
}

func (k *XKB) MaxKeycode() Keycode {
	return Keycode(C.xkb_keymap_max_keycode(k.keymap))
}

func (k *XKB) NumLayoutsForKey(kc Keycode) Layout {
	return Layout(C.xkb_keymap_num_layouts_for_key(k.keymap, C.xkb_keycode_t(kc)))
}

func (k *XKB) NumLevelsForKey(kc Keycode, layout Layout) Level {
	if layout >= k.NumLayoutsForKey(kc) {
		return 0
	}
	return Level(C.xkb_keymap_num_levels_for_key(k.keymap, C.xkb_keycode_t(kc),
		C.xkb_layout_index_t(layout)))
}

func (k *XKB) KeysymsByLevel(kc Keycode, layout Layout, level Level) []Keysym {
	var syms *C.xkb_keysym_t
	n := int(C.xkb_keymap_key_get_syms_by_level(k.keymap, C.xkb_keycode_t(kc),
		C.xkb_layout_index_t(layout), C.xkb_level_index_t(level), &syms))
	if n <= 0 || syms == nil {
		return nil
	}
	result := make([]Keysym, n)
	for i, sym := range unsafe.Slice(syms, n) {
		result[i] = Keysym(sym)
	}
	return result
}

func (k *XKB) ModMaskForLevel(kc Keycode, layout Layout, level Level) ModMask {
	var masks [maxMasksPerLevel]C.xkb_mod_mask_t
	n := int(C.xkb_keymap_key_get_mods_for_level(k.keymap, C.xkb_keycode_t(kc),
		C.xkb_layout_index_t(layout), C.xkb_level_index_t(level),
		&masks[0], C.size_t(len(masks))))
	converted := make([]ModMask, 0, n)
	for _, mask := range masks[:n] {
		converted = append(converted, k.coreMask(uint32(mask)))
	}
	return PreferredMask(converted)
}

func (k *XKB) coreMask(mask uint32) ModMask {
	var result ModMask
	for i, mod := range k.modBits {
		if i < 32 && mask&(1<<i) != 0 {
			result |= mod
		}
	}
	return result
}
