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

package eiproto

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize     = 16
	maxMessageSize = 1 << 16
)

var errShortMessage = errors.New("message too short")

type message struct {
	object uint64
	opcode uint32
	body   []byte
}

// splitMessage takes the first complete message from buf. ok is false when
// more data is needed.
func splitMessage(buf []byte) (msg message, rest []byte, ok bool, err error) {
	if len(buf) < headerSize {
		return message{}, buf, false, nil
	}
	length := binary.NativeEndian.Uint32(buf[8:12])
	if length < headerSize || length > maxMessageSize || length%4 != 0 {
		return message{}, buf, false, fmt.Errorf("invalid message length: %d", length)
	}
	if len(buf) < int(length) {
		return message{}, buf, false, nil
	}
	msg = message{
		object: binary.NativeEndian.Uint64(buf[0:8]),
		opcode: binary.NativeEndian.Uint32(buf[12:16]),
		body:   append([]byte(nil), buf[headerSize:length]...),
	}
	return msg, buf[length:], true, nil
}

type encoder struct {
	buf []byte
}

func newMessage(object uint64, opcode uint32) *encoder {
	e := &encoder{buf: make([]byte, headerSize, 64)}
	binary.NativeEndian.PutUint64(e.buf[0:8], object)
	binary.NativeEndian.PutUint32(e.buf[12:16], opcode)
	return e
}

func (e *encoder) uint32(v uint32) *encoder {
	e.buf = binary.NativeEndian.AppendUint32(e.buf, v)
	return e
}

func (e *encoder) uint64(v uint64) *encoder {
	e.buf = binary.NativeEndian.AppendUint64(e.buf, v)
	return e
}

// string writes the length including the NUL terminator, the bytes and
// padding to a multiple of 4.
func (e *encoder) string(s string) *encoder {
	e.uint32(uint32(len(s) + 1))
	e.buf = append(e.buf, s...)
	e.buf = append(e.buf, 0)
	for len(e.buf)%4 != 0 {
		e.buf = append(e.buf, 0)
	}
	return e
}

func (e *encoder) bytes() []byte {
	binary.NativeEndian.PutUint32(e.buf[8:12], uint32(len(e.buf)))
	return e.buf
}

type decoder struct {
	buf []byte
	err error
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if len(d.buf) < n {
		d.err = errShortMessage
		return nil
	}
	b := d.buf[:n]
	d.buf = d.buf[n:]
	return b
}

func (d *decoder) uint32() uint32 {
	if b := d.take(4); b != nil {
		return binary.NativeEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) uint64() uint64 {
	if b := d.take(8); b != nil {
		return binary.NativeEndian.Uint64(b)
	}
	return 0
}

func (d *decoder) string() string {
	n := d.uint32()
	if n == 0 {
		return ""
	}
	if n > uint32(len(d.buf)) {
		d.err = errShortMessage
		return ""
	}
	b := d.take(int((n + 3) &^ 3))
	if b == nil {
		return ""
	}
	if b[n-1] != 0 {
		d.err = errors.New("string not NUL terminated")
		return ""
	}
	return string(b[:n-1])
}
