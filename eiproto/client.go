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

// Package eiproto is a sender-side client of the libei protocol. It binds
// the keyboard capability of the first seat and sends key events to the
// resulting device.
package eiproto

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

const maxFDsPerRead = 16

var (
	ErrDevicePaused = errors.New("keyboard device is paused")
	ErrClosed       = errors.New("EI connection closed")
)

// Device is a keyboard device announced by the server.
type Device struct {
	id       uint64
	keyboard uint64
	name     string
	keymap   string
	group    uint32
	hasGroup bool
	done     bool
	resumed  bool
	emulated bool
}

func (d *Device) Name() string {
	return d.name
}

type seat struct {
	caps  map[string]uint64
	bound bool
}

type Client struct {
	conn *net.UnixConn
	name string
	log  *slog.Logger

	mu         sync.Mutex
	objects    map[uint64]string
	versions   map[string]uint32
	seats      map[uint64]*seat
	devices    map[uint64]*Device
	keyboards  map[uint64]*Device
	connection uint64
	serial     uint32
	sequence   uint32
	err        error

	// Only used by the read loop.
	in  []byte
	fds []int

	changed chan struct{}
	done    chan struct{}
}

// Dial connects to the EIS socket at path.
func Dial(path, name string, logger *slog.Logger) (*Client, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, err
	}
	return NewClient(conn, name, logger), nil
}

// FromFile uses a connected socket, e.g. one handed out by the
// RemoteDesktop portal. The file is closed.
func FromFile(f *os.File, name string, logger *slog.Logger) (*Client, error) {
	defer f.Close()
	conn, err := net.FileConn(f)
	if err != nil {
		return nil, err
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("not a unix socket: %s", f.Name())
	}
	return NewClient(unixConn, name, logger), nil
}

// NewClient starts the handshake on conn. The client announces itself
// with name.
func NewClient(conn *net.UnixConn, name string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		conn:      conn,
		name:      name,
		log:       logger,
		objects:   map[uint64]string{handshakeObject: interfaceHandshake},
		versions:  make(map[string]uint32),
		seats:     make(map[uint64]*seat),
		devices:   make(map[uint64]*Device),
		keyboards: make(map[uint64]*Device),
		changed:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// WaitKeyboard blocks until the server resumes a keyboard device.
func (c *Client) WaitKeyboard(ctx context.Context) (*Device, error) {
	for {
		c.mu.Lock()
		if c.err != nil {
			err := c.err
			c.mu.Unlock()
			return nil, err
		}
		ids := make([]uint64, 0, len(c.devices))
		for id := range c.devices {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			if d := c.devices[id]; d.keyboard != 0 && d.done && d.resumed {
				c.mu.Unlock()
				return d, nil
			}
		}
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.changed:
		}
	}
}

// Keymap returns the XKB keymap the server sent for d, or "".
func (c *Client) Keymap(d *Device) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return d.keymap
}

// Group returns the active layout index reported for d. ok is false until
// the server sends the modifier state.
func (c *Client) Group(d *Device) (group uint32, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return d.group, d.hasGroup
}

// Key sends a key event on d followed by a frame. Emulation is started on
// first use.
func (c *Client) Key(d *Device, evdevCode uint32, press bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if !d.resumed {
		return ErrDevicePaused
	}
	var msgs []*encoder
	if !d.emulated {
		c.sequence++
		msgs = append(msgs, newMessage(d.id, deviceReqStartEmulating).
			uint32(c.serial).uint32(c.sequence))
		d.emulated = true
	}
	state := keyStateReleased
	if press {
		state = keyStatePressed
	}
	msgs = append(msgs,
		newMessage(d.keyboard, keyboardReqKey).uint32(evdevCode).uint32(state),
		newMessage(d.id, deviceReqFrame).uint32(c.serial).uint64(timestamp()))
	return c.send(msgs...)
}

// StopEmulating ends the emulation sequence started by Key.
func (c *Client) StopEmulating(d *Device) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil || !d.emulated {
		return c.err
	}
	d.emulated = false
	return c.send(newMessage(d.id, deviceReqStopEmulating).uint32(c.serial))
}

// Close disconnects from the server.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.err == nil && c.connection != 0 {
		if err := c.send(newMessage(c.connection, connectionReqDisconnect)); err != nil {
			c.log.Debug("Failed to send disconnect", "err", err)
		}
	}
	if c.err == nil {
		c.err = ErrClosed
	}
	c.mu.Unlock()
	err := c.conn.Close()
	<-c.done
	for _, fd := range c.fds {
		unix.Close(fd)
	}
	c.fds = nil
	return err
}

func (c *Client) notify() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		msg, err := c.readMessage()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				err = ErrClosed
			}
			c.fail(err)
			return
		}
		c.mu.Lock()
		err = c.dispatch(msg)
		c.mu.Unlock()
		if err != nil {
			c.fail(err)
			return
		}
		c.notify()
	}
}

func (c *Client) readMessage() (message, error) {
	buf := make([]byte, 4096)
	oob := make([]byte, unix.CmsgSpace(maxFDsPerRead*4))
	for {
		msg, rest, ok, err := splitMessage(c.in)
		if err != nil {
			return message{}, err
		}
		if ok {
			c.in = rest
			return msg, nil
		}
		n, oobn, _, _, err := c.conn.ReadMsgUnix(buf, oob)
		if oobn > 0 {
			fds, parseErr := parseRights(oob[:oobn])
			c.fds = append(c.fds, fds...)
			if parseErr != nil {
				return message{}, parseErr
			}
		}
		if err != nil {
			return message{}, err
		}
		if n <= 0 {
			return message{}, io.EOF
		}
		c.in = append(c.in, buf[:n]...)
	}
}

func parseRights(oob []byte) ([]int, error) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	var result []int
	for i := range msgs {
		fds, err := unix.ParseUnixRights(&msgs[i])
		if err != nil {
			return result, err
		}
		result = append(result, fds...)
	}
	return result, nil
}

func (c *Client) takeFD() (int, bool) {
	if len(c.fds) == 0 {
		return -1, false
	}
	fd := c.fds[0]
	c.fds = c.fds[1:]
	return fd, true
}

func (c *Client) send(msgs ...*encoder) error {
	var buf []byte
	for _, msg := range msgs {
		buf = append(buf, msg.bytes()...)
	}
	if err := c.write(buf); err != nil {
		if c.err == nil {
			c.err = err
		}
		return err
	}
	return nil
}

func (c *Client) dispatch(msg message) error {
	iface, ok := c.objects[msg.object]
	if !ok {
		c.log.Debug("Event for unknown object", "object", msg.object, "opcode", msg.opcode)
		return nil
	}
	d := &decoder{buf: msg.body}
	var err error
	switch iface {
	case interfaceHandshake:
		err = c.handshakeEvent(msg.opcode, d)
	case interfaceConnection:
		err = c.connectionEvent(msg.opcode, d)
	case interfaceSeat:
		err = c.seatEvent(msg.object, msg.opcode, d)
	case interfaceDevice:
		err = c.deviceEvent(msg.object, msg.opcode, d)
	case interfaceKeyboard:
		err = c.keyboardEvent(msg.object, msg.opcode, d)
	}
	if err == nil && d.err != nil {
		err = fmt.Errorf("malformed %s event %d: %w", iface, msg.opcode, d.err)
	}
	return err
}

func (c *Client) handshakeEvent(opcode uint32, d *decoder) error {
	switch opcode {
	case handshakeEvHandshakeVersion:
		version := min(d.uint32(), handshakeVersion)
		if d.err != nil {
			return nil
		}
		msgs := []*encoder{
			newMessage(handshakeObject, handshakeReqHandshakeVersion).uint32(version),
			newMessage(handshakeObject, handshakeReqContextType).uint32(ContextTypeSender),
			newMessage(handshakeObject, handshakeReqName).string(c.name),
		}
		for _, iv := range interfaceVersions {
			msgs = append(msgs, newMessage(handshakeObject, handshakeReqInterfaceVersion).
				string(iv.name).uint32(iv.version))
		}
		msgs = append(msgs, newMessage(handshakeObject, handshakeReqFinish))
		return c.send(msgs...)
	case handshakeEvInterfaceVersion:
		name, version := d.string(), d.uint32()
		c.versions[name] = version
	case handshakeEvConnection:
		serial, id, version := d.uint32(), d.uint64(), d.uint32()
		if d.err != nil {
			return nil
		}
		c.serial = serial
		c.connection = id
		c.objects[id] = interfaceConnection
		c.log.Debug("Connected to EIS server", "version", version)
	}
	return nil
}

func (c *Client) connectionEvent(opcode uint32, d *decoder) error {
	switch opcode {
	case connectionEvDisconnected:
		_, reason, explanation := d.uint32(), d.uint32(), d.string()
		if d.err != nil {
			return nil
		}
		return &DisconnectedError{DisconnectReason(reason), explanation}
	case connectionEvSeat:
		id, _ := d.uint64(), d.uint32()
		if d.err != nil {
			return nil
		}
		c.objects[id] = interfaceSeat
		c.seats[id] = &seat{caps: make(map[string]uint64)}
	case connectionEvInvalidObject:
		_, id := d.uint32(), d.uint64()
		c.log.Warn("EIS server reported invalid object", "object", id)
	case connectionEvPing:
		id, _ := d.uint64(), d.uint32()
		if d.err != nil {
			return nil
		}
		return c.send(newMessage(id, pingpongReqDone).uint64(0))
	}
	return nil
}

func (c *Client) seatEvent(id uint64, opcode uint32, d *decoder) error {
	s := c.seats[id]
	switch opcode {
	case seatEvDestroyed:
		c.serial = d.uint32()
		delete(c.seats, id)
		delete(c.objects, id)
	case seatEvName:
		c.log.Debug("Seat announced", "name", d.string())
	case seatEvCapability:
		mask, name := d.uint64(), d.string()
		if d.err == nil {
			s.caps[name] = mask
		}
	case seatEvDone:
		mask, ok := s.caps[interfaceKeyboard]
		if !ok {
			c.log.Warn("Seat has no keyboard capability")
			return nil
		}
		if s.bound {
			return nil
		}
		s.bound = true
		return c.send(newMessage(id, seatReqBind).uint64(mask))
	case seatEvDevice:
		deviceID, _ := d.uint64(), d.uint32()
		if d.err != nil {
			return nil
		}
		c.objects[deviceID] = interfaceDevice
		c.devices[deviceID] = &Device{id: deviceID}
	}
	return nil
}

func (c *Client) deviceEvent(id uint64, opcode uint32, d *decoder) error {
	dev := c.devices[id]
	switch opcode {
	case deviceEvDestroyed:
		c.serial = d.uint32()
		delete(c.devices, id)
		delete(c.objects, id)
		if dev.keyboard != 0 {
			delete(c.keyboards, dev.keyboard)
			delete(c.objects, dev.keyboard)
		}
		dev.resumed = false
	case deviceEvName:
		dev.name = d.string()
	case deviceEvInterface:
		objectID, name, _ := d.uint64(), d.string(), d.uint32()
		if d.err != nil {
			return nil
		}
		c.objects[objectID] = name
		if name == interfaceKeyboard {
			dev.keyboard = objectID
			c.keyboards[objectID] = dev
		}
	case deviceEvDone:
		dev.done = true
	case deviceEvResumed:
		c.serial = d.uint32()
		dev.resumed = true
	case deviceEvPaused:
		c.serial = d.uint32()
		dev.resumed = false
		dev.emulated = false
	}
	return nil
}

func (c *Client) keyboardEvent(id uint64, opcode uint32, d *decoder) error {
	dev := c.keyboards[id]
	switch opcode {
	case keyboardEvDestroyed:
		c.serial = d.uint32()
		delete(c.keyboards, id)
		delete(c.objects, id)
		if dev != nil {
			dev.keyboard = 0
		}
	case keyboardEvKeymap:
		keymapType, size := d.uint32(), d.uint32()
		if d.err != nil {
			return nil
		}
		fd, ok := c.takeFD()
		if !ok {
			return errors.New("keymap event without file descriptor")
		}
		defer unix.Close(fd)
		if keymapType != KeymapTypeXKB {
			c.log.Warn("Ignoring keymap of unknown type", "type", keymapType)
			return nil
		}
		text, err := readKeymap(fd, size)
		if err != nil {
			return fmt.Errorf("failed to read keymap: %w", err)
		}
		if dev != nil {
			dev.keymap = text
		}
	case keyboardEvModifiers:
		serial, _, _, _, group := d.uint32(), d.uint32(), d.uint32(), d.uint32(), d.uint32()
		if d.err != nil {
			return nil
		}
		c.serial = serial
		if dev != nil {
			dev.group = group
			dev.hasGroup = true
		}
	}
	return nil
}

func readKeymap(fd int, size uint32) (string, error) {
	if size == 0 {
		return "", nil
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return "", err
	}
	defer unix.Munmap(data)
	text := string(data)
	if i := strings.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	return text, nil
}

// timestamp returns CLOCK_MONOTONIC in microseconds.
func timestamp() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Nano() / 1000)
}
