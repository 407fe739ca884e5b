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

// Package keyboard turns text, key names and modifier requests into
// ordered key events for a keymap.
package keyboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/unrud/eitype/keymap"
	"github.com/unrud/eitype/logging"
)

type EventAction int

const (
	Press EventAction = iota
	Release
)

func (a EventAction) String() string {
	if a == Press {
		return "press"
	}
	return "release"
}

// Event is a delivered key event. Offset is measured from the creation of
// the session.
type Event struct {
	Action  EventAction
	Keycode keymap.Keycode
	Offset  time.Duration
}

// Sink delivers key events. Keycodes are evdev keycodes.
type Sink interface {
	KeyboardKeycode(keycode uint32, press bool) error
}

type Options struct {
	// Layout is the requested layout index.
	Layout keymap.Layout
	// Delay is the minimum time between two events.
	Delay time.Duration
	// FailFast aborts TypeText at the first character missing from the
	// keymap.
	FailFast bool
	Logger   *slog.Logger
	// OnEvent is called for every delivered event.
	OnEvent func(Event)
	Sleep   func(time.Duration)
	Now     func() time.Time
}

type heldKey struct {
	mod keymap.ModMask
	kc  keymap.Keycode
}

// Session types into one Sink and tracks the modifiers it holds. It is
// not safe for concurrent use.
type Session struct {
	view    keymap.View
	planner *Planner
	sink    Sink
	opts    Options
	log     *slog.Logger
	start   time.Time
	emitted int
	held    HeldState
	holds   []heldKey
}

func NewSession(view keymap.View, sink Sink, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		view:    view,
		planner: NewPlanner(view, opts.Layout),
		sink:    sink,
		opts:    opts,
		log:     opts.Logger,
		start:   opts.Now(),
	}
}

func (s *Session) Layout() keymap.Layout {
	return s.opts.Layout
}

func (s *Session) SetLayout(layout keymap.Layout) {
	s.opts.Layout = layout
	s.planner = NewPlanner(s.view, layout)
}

func (s *Session) SetDelay(delay time.Duration) {
	s.opts.Delay = delay
}

func (s *Session) SetFailFast(failFast bool) {
	s.opts.FailFast = failFast
}

func (s *Session) Held() HeldState {
	return s.held
}

// TypeText types every character of text. Characters that cannot be typed
// with the keymap are skipped and reported together unless FailFast is
// set.
func (s *Session) TypeText(text string) error {
	var missing []error
	for _, r := range text {
		err := s.typeRune(r)
		var notFound *keymap.CharacterNotFoundError
		var noModifier *MissingModifierError
		switch {
		case err == nil:
		case s.opts.FailFast:
			return err
		case errors.As(err, &notFound):
			s.log.Warn("Character not found in keymap", "char", string(r),
				"keysym", uint32(notFound.Keysym))
			missing = append(missing, err)
		case errors.As(err, &noModifier):
			s.log.Warn("Character needs a modifier missing from keymap",
				"char", string(r), "modifier", noModifier.Mod)
			missing = append(missing, fmt.Errorf("character %q: %w", r, err))
		default:
			return err
		}
	}
	return errors.Join(missing...)
}

func (s *Session) typeRune(r rune) error {
	m, err := keymap.FindRune(s.view, r, s.opts.Layout)
	if err != nil {
		return err
	}
	s.log.Debug("Resolved character", "char", string(r), "match", m)
	return s.tap(m.Keycode, m.Mods)
}

func (s *Session) PressKey(name string) error {
	key, ok := LookupKey(name)
	if !ok {
		return &UnknownKeyNameError{name}
	}
	m, err := keymap.Find(s.view, key.Keysym, s.opts.Layout)
	var notFound *keymap.CharacterNotFoundError
	if errors.As(err, &notFound) && key.Evdev != 0 {
		s.log.Debug("Key not in keymap, using evdev code", "name", name,
			"evdev", key.Evdev)
		m, err = keymap.Match{Keycode: keymap.KeycodeFromEvdev(key.Evdev)}, nil
	}
	if err != nil {
		return err
	}
	return s.tap(m.Keycode, m.Mods)
}

// HoldModifier presses a modifier key and keeps it pressed until it is
// released with ReleaseModifier or ReleaseAll.
func (s *Session) HoldModifier(name string) error {
	mod, ok := LookupModifier(name)
	if !ok {
		return &UnknownModifierNameError{name}
	}
	kc := s.modifierKeycode(mod)
	if s.isHeld(kc) {
		return nil
	}
	if err := s.emit(Press, kc); err != nil {
		return err
	}
	s.holds = append(s.holds, heldKey{mod.Mod, kc})
	s.updateHeld()
	return nil
}

// ReleaseModifier releases a modifier held with HoldModifier. Modifiers
// that are not held are ignored.
func (s *Session) ReleaseModifier(name string) error {
	mod, ok := LookupModifier(name)
	if !ok {
		return &UnknownModifierNameError{name}
	}
	kc := s.modifierKeycode(mod)
	for i, h := range s.holds {
		if h.kc != kc {
			continue
		}
		if err := s.emit(Release, kc); err != nil {
			return err
		}
		s.holds = append(s.holds[:i], s.holds[i+1:]...)
		s.updateHeld()
		break
	}
	return nil
}

// PressModifier taps a modifier key.
func (s *Session) PressModifier(name string) error {
	mod, ok := LookupModifier(name)
	if !ok {
		return &UnknownModifierNameError{name}
	}
	return s.tap(s.modifierKeycode(mod), keymap.ModNone)
}

// ReleaseAll releases held modifiers in reverse order of holding.
func (s *Session) ReleaseAll() error {
	var errs []error
	for i := len(s.holds) - 1; i >= 0; i-- {
		if err := s.emit(Release, s.holds[i].kc); err != nil {
			errs = append(errs, err)
		}
	}
	s.holds = nil
	s.updateHeld()
	return errors.Join(errs...)
}

func (s *Session) modifierKeycode(mod NamedModifier) keymap.Keycode {
	m, err := keymap.Find(s.view, mod.Keysym, s.opts.Layout)
	if err == nil && m.Mods == keymap.ModNone {
		return m.Keycode
	}
	return keymap.KeycodeFromEvdev(mod.Evdev)
}

func (s *Session) isHeld(kc keymap.Keycode) bool {
	for _, h := range s.holds {
		if h.kc == kc {
			return true
		}
	}
	return false
}

func (s *Session) updateHeld() {
	var mask keymap.ModMask
	for _, h := range s.holds {
		mask |= h.mod
	}
	s.held = HeldState{Mask: mask, Explicit: mask}
}

func (s *Session) tap(kc keymap.Keycode, required keymap.ModMask) error {
	plan, err := s.planner.Plan(required, s.held)
	if err != nil {
		return err
	}
	for _, k := range plan.Release {
		if err := s.setModifier(k, false); err != nil {
			return err
		}
	}
	for _, k := range plan.Press {
		if err := s.setModifier(k, true); err != nil {
			return err
		}
	}
	if s.isHeld(kc) {
		// The key goes up and down again and stays held.
		if err := s.emit(Release, kc); err != nil {
			return err
		}
		if err := s.emit(Press, kc); err != nil {
			return err
		}
	} else {
		if err := s.emit(Press, kc); err != nil {
			return err
		}
		if err := s.emit(Release, kc); err != nil {
			return err
		}
	}
	for i := len(plan.Press) - 1; i >= 0; i-- {
		if err := s.setModifier(plan.Press[i], false); err != nil {
			return err
		}
	}
	for i := len(plan.Release) - 1; i >= 0; i-- {
		if err := s.setModifier(plan.Release[i], true); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) setModifier(k ModKey, active bool) error {
	switch {
	case k.Mod.IsLocking():
		// Locking modifiers toggle on every tap.
		if err := s.emit(Press, k.Keycode); err != nil {
			return err
		}
		if err := s.emit(Release, k.Keycode); err != nil {
			return err
		}
	case active:
		if err := s.emit(Press, k.Keycode); err != nil {
			return err
		}
	default:
		if err := s.emit(Release, k.Keycode); err != nil {
			return err
		}
	}
	if active {
		s.held.Mask |= k.Mod
	} else {
		s.held.Mask &^= k.Mod
	}
	return nil
}

func (s *Session) emit(action EventAction, kc keymap.Keycode) error {
	if s.emitted > 0 && s.opts.Delay > 0 {
		s.opts.Sleep(s.opts.Delay)
	}
	ev := Event{Action: action, Keycode: kc, Offset: s.opts.Now().Sub(s.start)}
	if err := s.sink.KeyboardKeycode(kc.Evdev(), action == Press); err != nil {
		return &TransportError{Event: ev, Err: err}
	}
	s.emitted++
	s.log.Log(context.Background(), logging.LevelTrace, "Key event",
		"action", action, "keycode", uint32(kc))
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(ev)
	}
	return nil
}
