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
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	mathrand "math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/net/websocket"

	"github.com/unrud/eitype/config"
	"github.com/unrud/eitype/keyboard"
	"github.com/unrud/eitype/keymap"
	"github.com/unrud/eitype/terminal"
)

const (
	defaultSecretLength     int           = 8
	authenticationRateLimit time.Duration = time.Second / 10
	authenticationRateBurst int           = 10
	challengeLength         int           = 8
)

// clientConfig is sent to the web client after authentication.
type clientConfig struct {
	Keys      []string `json:"keys"`
	Modifiers []string `json:"modifiers"`
}

// newClientConfig lists the modifiers and the keys that are not
// characters, those are typed as text.
func newClientConfig() clientConfig {
	c := clientConfig{Modifiers: keyboard.ModifierNames()}
	for _, name := range keyboard.KeyNames() {
		if _, isModifier := keyboard.LookupModifier(name); isModifier || utf8.RuneCountInString(name) == 1 {
			continue
		}
		c.Keys = append(c.Keys, name)
	}
	return c
}

// typingServer serializes the requests of all clients onto one session.
// A modifier stays held while at least one client holds it.
type typingServer struct {
	mu      sync.Mutex
	session *keyboard.Session
	log     *slog.Logger
	// holders counts the clients holding each modifier key.
	holders map[uint32]int
}

func newTypingServer(session *keyboard.Session, logger *slog.Logger) *typingServer {
	return &typingServer{session: session, log: logger, holders: make(map[uint32]int)}
}

// client is the state of one websocket connection.
type client struct {
	// holds maps the evdev code of each held modifier to its name.
	holds map[uint32]string
}

func newClient() *client {
	return &client{holds: make(map[uint32]string)}
}

// processCommand runs one client command: t<text>, k<key>, m<modifier>
// (hold), M<modifier> (release), p<modifier> (tap) or R (release the
// modifiers held by c).
func (s *typingServer) processCommand(c *client, command string) error {
	if len(command) == 0 {
		return errors.New("empty command")
	}
	arg := command[1:]
	if !utf8.ValidString(arg) {
		return errors.New("invalid utf-8")
	}
	var action keyboard.Action
	switch command[0] {
	case 't':
		action = keyboard.Action{Kind: keyboard.ActionType, Arg: arg}
	case 'k':
		action = keyboard.Action{Kind: keyboard.ActionKey, Arg: arg}
	case 'p':
		action = keyboard.Action{Kind: keyboard.ActionPressModifier, Arg: arg}
	case 'm':
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.hold(c, arg)
	case 'M':
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.release(c, arg)
	case 'R':
		if arg != "" {
			return errors.New("wrong number of arguments")
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.releaseClient(c)
	default:
		return errors.New("unsupported command")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Do(action)
}

func (s *typingServer) hold(c *client, name string) error {
	mod, ok := keyboard.LookupModifier(name)
	if !ok {
		return &keyboard.UnknownModifierNameError{Name: name}
	}
	if _, held := c.holds[mod.Evdev]; held {
		return nil
	}
	if err := s.session.HoldModifier(name); err != nil {
		return err
	}
	c.holds[mod.Evdev] = name
	s.holders[mod.Evdev]++
	return nil
}

func (s *typingServer) release(c *client, name string) error {
	mod, ok := keyboard.LookupModifier(name)
	if !ok {
		return &keyboard.UnknownModifierNameError{Name: name}
	}
	if _, held := c.holds[mod.Evdev]; !held {
		return nil
	}
	delete(c.holds, mod.Evdev)
	s.holders[mod.Evdev]--
	if s.holders[mod.Evdev] > 0 {
		return nil
	}
	delete(s.holders, mod.Evdev)
	return s.session.ReleaseModifier(name)
}

func (s *typingServer) releaseClient(c *client) error {
	var errs []error
	for _, name := range c.holds {
		errs = append(errs, s.release(c, name))
	}
	return errors.Join(errs...)
}

// isUserError reports errors that only affect the current request.
func isUserError(err error) bool {
	var notFound *keymap.CharacterNotFoundError
	var noModifier *keyboard.MissingModifierError
	var unknownKey *keyboard.UnknownKeyNameError
	var unknownMod *keyboard.UnknownModifierNameError
	return errors.As(err, &notFound) || errors.As(err, &noModifier) ||
		errors.As(err, &unknownKey) || errors.As(err, &unknownMod)
}

func (s *typingServer) disconnect(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.releaseClient(c); err != nil {
		s.log.Warn("Failed to release held modifiers", "err", err)
	}
}

func (s *typingServer) applyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SetDelay(cfg.Typing.Delay())
	s.session.SetFailFast(cfg.Typing.FailFast)
	if cfg.Keyboard.LayoutIndex != nil {
		s.session.SetLayout(keymap.Layout(*cfg.Keyboard.LayoutIndex))
	}
}

type challenge struct {
	message, expectedResponse string
}

func (c challenge) verify(response string) bool {
	return hmac.Equal([]byte(c.expectedResponse), []byte(response))
}

func newChallenge(secret string, rng io.Reader) (challenge, error) {
	b := make([]byte, challengeLength)
	if _, err := io.ReadFull(rng, b); err != nil {
		return challenge{}, err
	}
	message := base64.StdEncoding.EncodeToString(b)
	return challenge{
		message:          message,
		expectedResponse: challengeResponse(message, secret),
	}, nil
}

func challengeResponse(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(message))
	mac.Write([]byte(secret))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func authenticationChallengeGenerator(ctx context.Context, secret string, challenges chan<- challenge) {
	unsecureRand := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	for {
		c, err := newChallenge(secret, unsecureRand)
		if err != nil {
			panic(err)
		}
		select {
		case challenges <- c:
		case <-ctx.Done():
			return
		}
		time.Sleep(authenticationRateLimit)
	}
}

func secureRandBase64(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (s *typingServer) handler(challenges <-chan challenge) websocket.Handler {
	return func(ws *websocket.Conn) {
		var message string
		challenge := <-challenges
		if err := websocket.Message.Send(ws, challenge.message); err != nil {
			return
		}
		if err := websocket.Message.Receive(ws, &message); err != nil {
			return
		}
		if !challenge.verify(message) {
			s.log.Info("Authentication failed", "remote", ws.Request().RemoteAddr)
			return
		}
		c := newClient()
		defer s.disconnect(c)
		websocket.JSON.Send(ws, newClientConfig())
		for {
			if err := websocket.Message.Receive(ws, &message); err != nil {
				return
			}
			if err := s.processCommand(c, message); err != nil {
				if isUserError(err) {
					s.log.Warn("Command failed", "err", err)
					continue
				}
				s.log.Error("Command failed, closing connection", "err", err)
				return
			}
		}
	}
}

func (s *typingServer) mux(challenges <-chan challenge) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", webdataHandler())
	mux.Handle("/ws", s.handler(challenges))
	return mux
}

// serverURL builds the URL shown to the user. The secret is passed in the
// fragment so it never reaches the server in a request.
func serverURL(host string, port int, tls bool, secret string) string {
	domain := host
	if port != 80 && !tls || port != 443 && tls {
		domain = net.JoinHostPort(host, strconv.Itoa(port))
	}
	scheme := "http"
	if tls {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/#%s", scheme, domain, secret)
}

// serve runs the remote typing server until SIGINT or SIGTERM. override
// reapplies the command line to reloaded configurations.
func serve(session *keyboard.Session, cfg *config.Config, configPath string,
	override func(*config.Config), logger *slog.Logger, stdout io.Writer) error {
	terminal.SetTitle(prettyAppName)
	tls := cfg.Server.CertFile != "" && cfg.Server.KeyFile != ""
	secret := cfg.Server.Secret
	if secret == "" {
		var err error
		if secret, err = secureRandBase64(defaultSecretLength); err != nil {
			return err
		}
	}
	s := newTypingServer(session, logger)

	if watcher, err := config.Watch(configPath, cfg, logger); err != nil {
		logger.Info("Not watching config file", "err", err)
	} else {
		defer watcher.Close()
		watcher.OnChange(func(cfg *config.Config) {
			override(cfg)
			s.applyConfig(cfg)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	challenges := make(chan challenge, authenticationRateBurst)
	go authenticationChallengeGenerator(ctx, secret, challenges)

	listener, err := net.Listen("tcp", cfg.Server.Bind)
	if err != nil {
		return err
	}
	addr := listener.Addr().(*net.TCPAddr)
	host := ""
	bindHost, _, err := net.SplitHostPort(cfg.Server.Bind)
	if err != nil {
		listener.Close()
		return err
	}
	if !addr.IP.IsUnspecified() {
		host = bindHost
	}
	if host == "" {
		host = findDefaultHost()
	}
	url := serverURL(host, addr.Port, tls, secret)
	fmt.Fprintln(stdout, url)
	if qrCode, err := terminal.GenerateQRCode(url, terminal.SupportsColor(os.Stdout.Fd())); err == nil {
		fmt.Fprint(stdout, qrCode)
	} else {
		logger.Warn("QR code error", "err", err)
	}
	if !tls {
		fmt.Fprintln(stdout, "▌   WARNING: TLS is not enabled    ▐")
		fmt.Fprintln(stdout, "▌Don't use in an untrusted network!▐")
	}

	server := &http.Server{Handler: s.mux(challenges)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	if tls {
		err = server.ServeTLS(listener, cfg.Server.CertFile, cfg.Server.KeyFile)
	} else {
		err = server.Serve(listener)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
