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

package inputcontrol

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/unrud/eitype/eiproto"
)

const (
	deviceKeyboard uint32 = 1

	keyReleased uint32 = 0
	keyPressed  uint32 = 1

	untilRevoked uint32 = 2

	restoreTokenFileName = "eitype_portal_restore_token"

	remoteDesktopInterface = "org.freedesktop.portal.RemoteDesktop"
)

type portalController struct {
	bus           *dbus.Conn
	remoteDesktop dbus.BusObject
	sessionHandle dbus.ObjectPath
	log           *slog.Logger
	// ei is set when the portal hands out an EIS connection.
	ei *eiController
}

func init() {
	RegisterController("portal", InitPortalController, 1)
}

func InitPortalController(opts Options) (Controller, error) {
	log := opts.logger()
	bus, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	cleanupBus := true
	defer func() {
		if cleanupBus {
			bus.Close()
		}
	}()
	err = bus.Auth(nil)
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	err = bus.Hello()
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	remoteDesktop := bus.Object("org.freedesktop.portal.Desktop",
		"/org/freedesktop/portal/desktop")
	versionV, err := remoteDesktop.GetProperty(remoteDesktopInterface + ".version")
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	version, ok := versionV.Value().(uint32)
	if !ok {
		return nil, &UnsupportedPlatformError{
			errors.New("unexpected 'version' type")}
	}
	supportsRestoreTokens := version >= 2
	supportsEIS := version >= 2
	var restoreTokenFilePath string
	var restoreToken string
	if supportsRestoreTokens {
		restoreTokenFilePath, err = restoreTokenPath()
		if err != nil {
			log.Warn("Cannot get restore token file path", "err", err)
		} else {
			restoreToken, err = readRestoreToken(restoreTokenFilePath)
			if err != nil {
				log.Debug("Failed to read restore token file", "err", err)
			}
		}
	} else {
		log.Info("Portals implementation does not support restore tokens")
	}
	availableDeviceTypesV, err := remoteDesktop.GetProperty(
		remoteDesktopInterface + ".AvailableDeviceTypes")
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	availableDeviceTypes, ok := availableDeviceTypesV.Value().(uint32)
	if !ok {
		return nil, &UnsupportedPlatformError{
			errors.New("unexpected 'AvailableDeviceTypes' return type")}
	}
	if availableDeviceTypes&deviceKeyboard == 0 {
		return nil, &UnsupportedPlatformError{
			errors.New("keyboard source type not supported")}
	}
	inVardict := map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(handleToken()),
		"session_handle_token": dbus.MakeVariant(handleToken()),
	}
	result, outVardict, err := getResponse(bus, remoteDesktop,
		remoteDesktopInterface+".CreateSession", 0, inVardict)
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	if result != 0 {
		return nil, &UnsupportedPlatformError{
			fmt.Errorf("calling 'CreateSession' failed (%v)", result)}
	}
	sessionHandleV, ok := outVardict["session_handle"]
	if !ok {
		return nil, &UnsupportedPlatformError{
			errors.New("'session_handle' missing from 'CreateSession' return value")}
	}
	sessionHandleS, ok := sessionHandleV.Value().(string)
	if !ok {
		return nil, &UnsupportedPlatformError{
			errors.New("unexpected 'session_handle' type in 'CreateSession' return value")}
	}
	sessionHandle := dbus.ObjectPath(sessionHandleS)
	inVardict = map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(handleToken()),
		"types":        dbus.MakeVariant(deviceKeyboard),
	}
	if supportsRestoreTokens {
		if restoreToken != "" {
			inVardict["restore_token"] = dbus.MakeVariant(restoreToken)
		}
		if opts.PersistPortal {
			inVardict["persist_mode"] = dbus.MakeVariant(untilRevoked)
		}
	}
	result, _, err = getResponse(bus, remoteDesktop,
		remoteDesktopInterface+".SelectDevices", 0, sessionHandle, inVardict)
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	if result != 0 {
		return nil, &UnsupportedPlatformError{
			fmt.Errorf("calling 'SelectDevices' failed (%v)", result)}
	}
	inVardict = map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(handleToken()),
	}
	result, outVardict, err = getResponse(bus, remoteDesktop,
		remoteDesktopInterface+".Start", 0, sessionHandle, "", inVardict)
	if err != nil {
		return nil, &UnsupportedPlatformError{err}
	}
	if result != 0 {
		return nil, errors.New("keyboard access denied")
	}
	if supportsRestoreTokens && opts.PersistPortal {
		restoreToken, ok := outVardict["restore_token"].Value().(string)
		if !ok {
			log.Warn("Failed to get new restore token")
		} else if restoreTokenFilePath != "" {
			if err := writeRestoreToken(restoreTokenFilePath, restoreToken); err != nil {
				log.Warn("Failed to write restore token", "err", err)
			}
		}
	}
	devicesV, ok := outVardict["devices"]
	if !ok {
		return nil, &UnsupportedPlatformError{
			errors.New("'devices' missing from 'Start' return value")}
	}
	devices, ok := devicesV.Value().(uint32)
	if !ok {
		return nil, &UnsupportedPlatformError{
			errors.New("unexpected 'devices' type in 'Start' return value")}
	}
	if devices&deviceKeyboard == 0 {
		return nil, errors.New("keyboard access denied")
	}
	p := &portalController{bus: bus, remoteDesktop: remoteDesktop,
		sessionHandle: sessionHandle, log: log}
	if supportsEIS {
		ei, err := p.connectToEIS(opts)
		if err != nil {
			log.Info("Falling back to portal key events", "err", err)
		} else {
			p.ei = ei
		}
	}
	cleanupBus = false
	return p, nil
}

func (p *portalController) connectToEIS(opts Options) (*eiController, error) {
	var fd dbus.UnixFD
	if err := p.remoteDesktop.Call(remoteDesktopInterface+".ConnectToEIS", 0,
		p.sessionHandle, map[string]dbus.Variant{}).Store(&fd); err != nil {
		return nil, err
	}
	client, err := eiproto.FromFile(os.NewFile(uintptr(fd), "eis"), opts.appName(), opts.logger())
	if err != nil {
		return nil, err
	}
	return newEIController(client)
}

func getResponse(bus *dbus.Conn, object dbus.BusObject, method string,
	flags dbus.Flags, args ...interface{}) (uint32, map[string]dbus.Variant, error) {
	ch := make(chan *dbus.Signal, 512)
	bus.Signal(ch)
	defer bus.RemoveSignal(ch)
	var requestPath dbus.ObjectPath
	if err := object.Call(method, flags, args...).Store(&requestPath); err != nil {
		return 0, nil, err
	}
	for s := range ch {
		if s.Path == requestPath && s.Name == "org.freedesktop.portal.Request.Response" {
			return parseResponse(s.Body)
		}
	}
	return 0, nil, errors.New("D-Bus connection closed")
}

func parseResponse(body []interface{}) (uint32, map[string]dbus.Variant, error) {
	if len(body) != 2 {
		return 0, nil, errors.New("unexpected 'Response' return length")
	}
	result, ok := body[0].(uint32)
	if !ok {
		return 0, nil, errors.New("unexpected 'Response' return type")
	}
	outVardict, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return 0, nil, errors.New("unexpected 'Response' return type")
	}
	return result, outVardict, nil
}

// handleToken returns a token that is valid as an element of a D-Bus
// object path.
func handleToken() string {
	return "eitype_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func restoreTokenPath() (string, error) {
	cacheDirectory, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDirectory, restoreTokenFileName), nil
}

func readRestoreToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func writeRestoreToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0600)
}

func (p *portalController) Close() error {
	var err error
	if p.ei != nil {
		err = p.ei.Close()
	}
	session := p.bus.Object("org.freedesktop.portal.Desktop", p.sessionHandle)
	if callErr := session.Call("org.freedesktop.portal.Session.Close", 0).Err; callErr != nil {
		p.log.Debug("Failed to close portal session", "err", callErr)
	}
	return errors.Join(err, p.bus.Close())
}

func (p *portalController) KeyboardKeycode(keycode uint32, press bool) error {
	if p.ei != nil {
		return p.ei.KeyboardKeycode(keycode, press)
	}
	state := keyReleased
	if press {
		state = keyPressed
	}
	inVardict := make(map[string]dbus.Variant)
	return p.remoteDesktop.Call(remoteDesktopInterface+".NotifyKeyboardKeycode",
		0, p.sessionHandle, inVardict, int32(keycode), state).Store()
}

func (p *portalController) Keymap() string {
	if p.ei != nil {
		return p.ei.Keymap()
	}
	return ""
}

func (p *portalController) ActiveLayout() (uint32, bool) {
	if p.ei != nil {
		return p.ei.ActiveLayout()
	}
	return 0, false
}
