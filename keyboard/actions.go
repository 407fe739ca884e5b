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

import "fmt"

type ActionKind int

const (
	ActionType ActionKind = iota
	ActionKey
	ActionHold
	ActionRelease
	ActionPressModifier
	ActionReleaseAll
)

func (k ActionKind) String() string {
	switch k {
	case ActionType:
		return "type"
	case ActionKey:
		return "key"
	case ActionHold:
		return "hold"
	case ActionRelease:
		return "release"
	case ActionPressModifier:
		return "press-mod"
	case ActionReleaseAll:
		return "release-all"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(k))
	}
}

// Action is one request to a Session. Arg is the text, key name or
// modifier name.
type Action struct {
	Kind ActionKind
	Arg  string
}

func (s *Session) Do(a Action) error {
	switch a.Kind {
	case ActionType:
		return s.TypeText(a.Arg)
	case ActionKey:
		return s.PressKey(a.Arg)
	case ActionHold:
		return s.HoldModifier(a.Arg)
	case ActionRelease:
		return s.ReleaseModifier(a.Arg)
	case ActionPressModifier:
		return s.PressModifier(a.Arg)
	case ActionReleaseAll:
		return s.ReleaseAll()
	default:
		return fmt.Errorf("unsupported action: %v", a.Kind)
	}
}

// Execute performs actions in order and releases held modifiers at the
// end. Held modifiers are also released when an action fails.
func (s *Session) Execute(actions []Action) error {
	for _, a := range actions {
		if err := s.Do(a); err != nil {
			if releaseErr := s.ReleaseAll(); releaseErr != nil {
				s.log.Warn("Failed to release held modifiers", "err", releaseErr)
			}
			return err
		}
	}
	return s.ReleaseAll()
}

// CommandLineActions orders the actions of one invocation: modifiers to
// hold, texts, keys, then modifier taps.
func CommandLineActions(holds, texts, keys, pressMods []string) []Action {
	var actions []Action
	for _, name := range holds {
		actions = append(actions, Action{ActionHold, name})
	}
	for _, text := range texts {
		actions = append(actions, Action{ActionType, text})
	}
	for _, name := range keys {
		actions = append(actions, Action{ActionKey, name})
	}
	for _, name := range pressMods {
		actions = append(actions, Action{ActionPressModifier, name})
	}
	return actions
}
