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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/unrud/eitype/config"
	"github.com/unrud/eitype/keyboard"
	"github.com/unrud/eitype/keymap"
)

const (
	evKeyA         uint32 = 30
	evKeyLeftCtrl  uint32 = 29
	evKeyLeftShift uint32 = 42
)

type keyEvent struct {
	keycode uint32
	press   bool
}

type recordingController struct {
	mu     sync.Mutex
	events []keyEvent
}

func (r *recordingController) KeyboardKeycode(keycode uint32, press bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, keyEvent{keycode, press})
	return nil
}

func (r *recordingController) recorded() []keyEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]keyEvent(nil), r.events...)
}

func newTestServer() (*typingServer, *recordingController) {
	rec := &recordingController{}
	session := keyboard.NewSession(keyboard.USKeymap(), rec, keyboard.Options{Logger: discardLogger()})
	return newTypingServer(session, discardLogger()), rec
}

func TestProcessCommand(t *testing.T) {
	s, rec := newTestServer()
	c := newClient()
	require.NoError(t, s.processCommand(c, "ta"))
	require.NoError(t, s.processCommand(c, "mctrl"))
	require.NoError(t, s.processCommand(c, "R"))
	assert.Equal(t, []keyEvent{
		{evKeyA, true}, {evKeyA, false},
		{evKeyLeftCtrl, true}, {evKeyLeftCtrl, false},
	}, rec.recorded())

	assert.EqualError(t, s.processCommand(c, ""), "empty command")
	assert.EqualError(t, s.processCommand(c, "x"), "unsupported command")
	assert.EqualError(t, s.processCommand(c, "Rctrl"), "wrong number of arguments")
	assert.EqualError(t, s.processCommand(c, "t\xff"), "invalid utf-8")
}

func TestProcessCommandUserErrors(t *testing.T) {
	s, rec := newTestServer()
	c := newClient()
	for _, command := range []string{"t€", "kbogus", "mhyper", "Mhyper", "phyper"} {
		err := s.processCommand(c, command)
		assert.Error(t, err, command)
		assert.True(t, isUserError(err), command)
	}
	assert.Empty(t, rec.recorded())
	assert.True(t, isUserError(fmt.Errorf("character: %w",
		&keyboard.MissingModifierError{Mod: keymap.ModMod5})))
	assert.False(t, isUserError(errors.New("connection reset")))
	assert.False(t, isUserError(&keyboard.TransportError{Err: errors.New("broken pipe")}))
}

func TestModifierHeldByTwoClients(t *testing.T) {
	s, rec := newTestServer()
	a, b := newClient(), newClient()
	require.NoError(t, s.processCommand(a, "mctrl"))
	require.NoError(t, s.processCommand(b, "mcontrol"))
	require.NoError(t, s.processCommand(b, "mshift"))
	assert.Equal(t, []keyEvent{{evKeyLeftCtrl, true}, {evKeyLeftShift, true}}, rec.recorded())

	// Releasing a modifier that only the other client holds does nothing.
	require.NoError(t, s.processCommand(a, "Mshift"))
	s.disconnect(a)
	assert.Len(t, rec.recorded(), 2)

	s.disconnect(b)
	assert.ElementsMatch(t, []keyEvent{
		{evKeyLeftCtrl, true}, {evKeyLeftShift, true},
		{evKeyLeftCtrl, false}, {evKeyLeftShift, false},
	}, rec.recorded())
	assert.Empty(t, s.holders)
}

func TestApplyConfig(t *testing.T) {
	s, _ := newTestServer()
	cfg := config.DefaultConfig()
	index := uint32(1)
	cfg.Keyboard.LayoutIndex = &index
	s.applyConfig(cfg)
	assert.Equal(t, keymap.Layout(1), s.session.Layout())
}

func TestChallenge(t *testing.T) {
	c, err := newChallenge("secret", bytes.NewReader([]byte("01234567")))
	require.NoError(t, err)
	assert.Equal(t, "MDEyMzQ1Njc=", c.message)
	assert.True(t, c.verify(challengeResponse(c.message, "secret")))
	assert.False(t, c.verify(challengeResponse(c.message, "wrong")))
	assert.False(t, c.verify(""))

	_, err = newChallenge("secret", bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestSecureRandBase64(t *testing.T) {
	a, err := secureRandBase64(defaultSecretLength)
	require.NoError(t, err)
	b, err := secureRandBase64(defaultSecretLength)
	require.NoError(t, err)
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}

func TestServerURL(t *testing.T) {
	tests := []struct {
		host   string
		port   int
		tls    bool
		expect string
	}{
		{"192.168.1.5", 80, false, "http://192.168.1.5/#s"},
		{"192.168.1.5", 443, true, "https://192.168.1.5/#s"},
		{"192.168.1.5", 443, false, "http://192.168.1.5:443/#s"},
		{"192.168.1.5", 8080, true, "https://192.168.1.5:8080/#s"},
		{"fe80::1", 8080, false, "http://[fe80::1]:8080/#s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, serverURL(tt.host, tt.port, tt.tls, "s"))
	}
}

func TestNewClientConfig(t *testing.T) {
	c := newClientConfig()
	assert.Contains(t, c.Modifiers, "ctrl")
	assert.Contains(t, c.Modifiers, "shift")
	assert.Contains(t, c.Keys, "return")
	assert.NotContains(t, c.Keys, "ctrl")
	for _, key := range c.Keys {
		assert.Greater(t, len([]rune(key)), 1, key)
	}
}

func TestHandler(t *testing.T) {
	s, rec := newTestServer()
	challenges := make(chan challenge, 2)
	for i := 0; i < 2; i++ {
		c, err := newChallenge("secret", strings.NewReader("abcdefghijklmnop"[i*8:]))
		require.NoError(t, err)
		challenges <- c
	}
	server := httptest.NewServer(s.mux(challenges))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	// Wrong secret closes the connection before any command runs.
	ws, err := websocket.Dial(wsURL, "", server.URL)
	require.NoError(t, err)
	var message string
	require.NoError(t, websocket.Message.Receive(ws, &message))
	require.NoError(t, websocket.Message.Send(ws, challengeResponse(message, "wrong")))
	assert.Error(t, websocket.Message.Receive(ws, &message))
	ws.Close()
	assert.Empty(t, rec.recorded())

	ws, err = websocket.Dial(wsURL, "", server.URL)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, websocket.Message.Receive(ws, &message))
	require.NoError(t, websocket.Message.Send(ws, challengeResponse(message, "secret")))
	var cfg clientConfig
	require.NoError(t, websocket.JSON.Receive(ws, &cfg))
	assert.Equal(t, newClientConfig(), cfg)

	require.NoError(t, websocket.Message.Send(ws, "mctrl"))
	require.NoError(t, websocket.Message.Send(ws, "kbogus"))
	require.NoError(t, websocket.Message.Send(ws, "ta"))
	expected := []keyEvent{{evKeyLeftCtrl, true}, {evKeyA, true}, {evKeyA, false}}
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(expected, rec.recorded())
	}, time.Second, 10*time.Millisecond)

	// Held modifiers are released when the client disconnects.
	ws.Close()
	expected = append(expected, keyEvent{evKeyLeftCtrl, false})
	assert.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(expected, rec.recorded())
	}, time.Second, 10*time.Millisecond)
}
