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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kcA     Keycode = 38
	kcB     Keycode = 56
	kcSpace Keycode = 65
	kcQ     Keycode = 24
)

// twoLayoutTable has a Latin first layout and a Cyrillic second layout.
// Space only defines layout 0.
func twoLayoutTable() *Table {
	t := NewTable()
	t.SetRange(8, 255)
	t.SetKey(kcQ, FourLevel('q', 'Q'), FourLevel(0x6ca, 0x6ea))
	t.SetKey(kcA, FourLevel('a', 'A'), FourLevel(0x6c6, 0x6e6))
	t.SetKey(kcSpace, FourLevel(' '))
	return t
}

func TestEffectiveLayout(t *testing.T) {
	table := twoLayoutTable()
	tests := []struct {
		name      string
		kc        Keycode
		requested Layout
		layout    Layout
		exact     bool
		ok        bool
	}{
		{"exact layout 0", kcA, 0, 0, true, true},
		{"exact layout 1", kcA, 1, 1, true, true},
		{"beyond key layouts", kcA, 2, 0, false, true},
		{"single layout key", kcSpace, 1, 0, false, true},
		{"single layout key at 0", kcSpace, 0, 0, true, true},
		{"undefined key", 9, 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, exact, ok := EffectiveLayout(table, tt.kc, tt.requested)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.layout, layout)
				assert.Equal(t, tt.exact, exact)
				assert.Less(t, layout, table.NumLayoutsForKey(tt.kc))
			}
		})
	}
}

func TestFindFallsBackForSingleLayoutKeys(t *testing.T) {
	table := twoLayoutTable()

	_, ok := FindExact(table, ' ', 1)
	assert.False(t, ok)

	m, ok := FindFallback(table, ' ', 1)
	require.True(t, ok)
	assert.Equal(t, Match{Keycode: kcSpace, Layout: 0, Level: 0, Mods: ModNone}, m)

	m, err := Find(table, ' ', 1)
	require.NoError(t, err)
	assert.Equal(t, kcSpace, m.Keycode)
	assert.False(t, m.Exact)
}

func TestFindPrefersExactLayout(t *testing.T) {
	table := NewTable()
	// Key B only defines layout 0 and comes first in keycode order.
	table.SetKey(20, FourLevel('a'))
	table.SetKey(kcA, FourLevel('x'), FourLevel('a'))

	m, err := Find(table, 'a', 1)
	require.NoError(t, err)
	assert.Equal(t, kcA, m.Keycode)
	assert.Equal(t, Layout(1), m.Layout)
	assert.True(t, m.Exact)

	fallback, ok := FindFallback(table, 'a', 1)
	require.True(t, ok)
	assert.Equal(t, Keycode(20), fallback.Keycode)
}

func TestFindLowestKeycodeAndLevel(t *testing.T) {
	table := NewTable()
	table.SetKey(30, FourLevel('1', '!'))
	table.SetKey(40, FourLevel('!', '1'))
	table.SetKey(50, []LevelDef{Sym(ModShift, 'z'), Sym(ModNone, 'z')})

	m, err := Find(table, '!', 0)
	require.NoError(t, err)
	assert.Equal(t, Keycode(30), m.Keycode)
	assert.Equal(t, Level(1), m.Level)
	assert.Equal(t, ModShift, m.Mods)

	m, err = Find(table, 'z', 0)
	require.NoError(t, err)
	assert.Equal(t, Level(0), m.Level)
	assert.Equal(t, ModShift, m.Mods)
}

func TestFindSkipsMultiKeysymLevels(t *testing.T) {
	table := NewTable()
	table.SetKey(30, []LevelDef{{Keysyms: []Keysym{'a', 'b'}}})
	table.SetKey(31, []LevelDef{{}, Sym(ModShift, 'a')})

	m, err := Find(table, 'a', 0)
	require.NoError(t, err)
	assert.Equal(t, Keycode(31), m.Keycode)
	assert.Equal(t, Level(1), m.Level)
}

func TestFindIsIdempotent(t *testing.T) {
	table := twoLayoutTable()
	for _, target := range []Keysym{'a', 'Q', ' ', 0x6e6} {
		for _, layout := range []Layout{0, 1, 3} {
			first, err1 := Find(table, target, layout)
			second, err2 := Find(table, target, layout)
			assert.Equal(t, first, second)
			assert.Equal(t, err1, err2)
		}
	}
}

func TestFindMatchInvariants(t *testing.T) {
	table := twoLayoutTable()
	for _, target := range []Keysym{'a', 'A', 'q', 'Q', ' ', 0x6ca, 0x6ea, 0x6c6, 0x6e6} {
		for _, layout := range []Layout{0, 1, 2} {
			m, err := Find(table, target, layout)
			if err != nil {
				continue
			}
			assert.Less(t, m.Layout, table.NumLayoutsForKey(m.Keycode))
			assert.Less(t, m.Level, table.NumLevelsForKey(m.Keycode, m.Layout))
			if !m.Exact {
				_, exists := FindExact(table, target, layout)
				assert.False(t, exists)
			}
		}
	}
}

func TestFindNotFound(t *testing.T) {
	table := twoLayoutTable()
	_, err := Find(table, 'b', 0)
	var notFound *CharacterNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, Keysym('b'), notFound.Keysym)

	// Layout 1 characters are not reachable from layout 0.
	_, err = Find(table, 0x6ca, 0)
	require.True(t, errors.As(err, &notFound))
}

func TestFindEmptyTable(t *testing.T) {
	_, err := Find(NewTable(), 'a', 0)
	assert.Error(t, err)
}

func TestFindRune(t *testing.T) {
	table := twoLayoutTable()
	// U+0439 is spelled with the legacy Cyrillic keysym in the table.
	m, err := FindRune(table, 'й', 1)
	require.NoError(t, err)
	assert.Equal(t, kcQ, m.Keycode)
	assert.Equal(t, Level(0), m.Level)

	table.SetKey(90, FourLevel(Keysym(unicodeKeysymOffset+0x2603)))
	m, err = FindRune(table, '☃', 0)
	require.NoError(t, err)
	assert.Equal(t, Keycode(90), m.Keycode)

	_, err = FindRune(table, 'ж', 0)
	var notFound *CharacterNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, 'ж', notFound.Rune)
	assert.Contains(t, err.Error(), "ж")
}

func TestFindRunePrefersExactSpelling(t *testing.T) {
	table := NewTable()
	table.SetKey(20, FourLevel(0x6c1))
	table.SetKey(30, FourLevel('x'), FourLevel(Keysym(unicodeKeysymOffset+0x430)))

	m, err := FindRune(table, 'а', 1)
	require.NoError(t, err)
	assert.Equal(t, Keycode(30), m.Keycode)
	assert.True(t, m.Exact)
}

func TestTableQueryError(t *testing.T) {
	table := twoLayoutTable()
	_, err := table.Level(kcSpace, 1, 0)
	var queryErr *QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, kcSpace, queryErr.Keycode)

	_, err = table.Level(kcA, 0, 4)
	assert.Error(t, err)
	_, err = table.Level(9, 0, 0)
	assert.Error(t, err)

	assert.Equal(t, Level(0), table.NumLevelsForKey(kcSpace, 1))
	assert.Nil(t, table.KeysymsByLevel(kcSpace, 1, 0))
}

func TestTableSetKeyReplaces(t *testing.T) {
	table := NewTable()
	table.SetKey(30, FourLevel('a'), FourLevel('b'))
	table.SetKey(30, FourLevel('c'))
	assert.Equal(t, Layout(1), table.NumLayoutsForKey(30))
	assert.Equal(t, Level(0), table.NumLevelsForKey(30, 1))
	assert.Equal(t, Keycode(30), table.MinKeycode())
	assert.Equal(t, Keycode(30), table.MaxKeycode())
}

func TestKeycodeEvdev(t *testing.T) {
	assert.Equal(t, uint32(30), KeycodeFromEvdev(30).Evdev())
	assert.Equal(t, Keycode(38), KeycodeFromEvdev(30))
}
