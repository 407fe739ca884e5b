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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unrud/eitype/keymap"
)

func TestPlannerKeys(t *testing.T) {
	p := NewPlanner(USKeymap(), 0)
	tests := []struct {
		mod  keymap.ModMask
		code uint32
	}{
		{keymap.ModShift, evKeyLeftShift},
		{keymap.ModLock, evKeyCapsLock},
		{keymap.ModControl, evKeyLeftCtrl},
		{keymap.ModMod1, evKeyLeftAlt},
		{keymap.ModMod2, evKeyNumLock},
		{keymap.ModMod4, evKeyLeftMeta},
		{keymap.ModMod5, evKeyRightAlt},
	}
	for _, tt := range tests {
		kc, ok := p.KeyFor(tt.mod)
		require.True(t, ok, tt.mod.String())
		assert.Equal(t, tt.code, kc.Evdev(), tt.mod.String())
	}
	_, ok := p.KeyFor(keymap.ModMod3)
	assert.False(t, ok)
}

func TestPlannerUsesRightKeyWhenLeftIsMissing(t *testing.T) {
	table := keymap.NewTable()
	table.SetKey(keymap.KeycodeFromEvdev(evKeyRightShift), keymap.FourLevel(keymap.KeysymShiftR))
	kc, ok := NewPlanner(table, 0).KeyFor(keymap.ModShift)
	require.True(t, ok)
	assert.Equal(t, evKeyRightShift, kc.Evdev())
}

func TestPlan(t *testing.T) {
	p := NewPlanner(USKeymap(), 0)
	shift, _ := p.KeyFor(keymap.ModShift)
	altgr, _ := p.KeyFor(keymap.ModMod5)
	ctrl, _ := p.KeyFor(keymap.ModControl)

	tests := []struct {
		name     string
		required keymap.ModMask
		held     HeldState
		plan     Plan
	}{
		{"nothing", keymap.ModNone, HeldState{}, Plan{}},
		{"shift", keymap.ModShift, HeldState{}, Plan{Press: []ModKey{{keymap.ModShift, shift}}}},
		{"shift and altgr", keymap.ModShift | keymap.ModMod5, HeldState{},
			Plan{Press: []ModKey{{keymap.ModShift, shift}, {keymap.ModMod5, altgr}}}},
		{"already held", keymap.ModShift,
			HeldState{Mask: keymap.ModShift, Explicit: keymap.ModShift}, Plan{}},
		{"explicit hold kept", keymap.ModNone,
			HeldState{Mask: keymap.ModControl, Explicit: keymap.ModControl}, Plan{}},
		{"transient released", keymap.ModMod5,
			HeldState{Mask: keymap.ModControl},
			Plan{Press: []ModKey{{keymap.ModMod5, altgr}},
				Release: []ModKey{{keymap.ModControl, ctrl}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := p.Plan(tt.required, tt.held)
			require.NoError(t, err)
			assert.Equal(t, tt.plan, plan)
			for _, k := range plan.Press {
				assert.False(t, tt.held.Mask.Has(k.Mod), "pressed a held modifier")
			}
		})
	}
}

func TestPlanMissingModifier(t *testing.T) {
	p := NewPlanner(USKeymap(), 0)
	_, err := p.Plan(keymap.ModMod3, HeldState{})
	var missing *MissingModifierError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, keymap.ModMod3, missing.Mod)
}

func TestLookupNames(t *testing.T) {
	key, ok := LookupKey("ESC")
	require.True(t, ok)
	assert.Equal(t, keymap.KeysymEscape, key.Keysym)

	key, ok = LookupKey("f11")
	require.True(t, ok)
	assert.Equal(t, keymap.KeysymF1+10, key.Keysym)
	assert.Equal(t, evKeyF11, key.Evdev)

	key, ok = LookupKey("z")
	require.True(t, ok)
	assert.Equal(t, evKeyZ, key.Evdev)

	_, ok = LookupKey("shift")
	assert.True(t, ok)
	_, ok = LookupKey("foobar")
	assert.False(t, ok)

	mod, ok := LookupModifier("AltGr")
	require.True(t, ok)
	assert.Equal(t, keymap.ModMod5, mod.Mod)
	_, ok = LookupModifier("tab")
	assert.False(t, ok)

	assert.Contains(t, KeyNames(), "pagedown")
	assert.Contains(t, ModifierNames(), "super")
	assert.IsIncreasing(t, ModifierNames())
}
