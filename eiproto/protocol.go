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

import "fmt"

const (
	interfaceHandshake  = "ei_handshake"
	interfaceConnection = "ei_connection"
	interfaceCallback   = "ei_callback"
	interfacePingpong   = "ei_pingpong"
	interfaceSeat       = "ei_seat"
	interfaceDevice     = "ei_device"
	interfaceKeyboard   = "ei_keyboard"
)

const handshakeObject uint64 = 0

// Interface versions announced to the server.
var interfaceVersions = []struct {
	name    string
	version uint32
}{
	{interfaceConnection, 1},
	{interfaceCallback, 1},
	{interfacePingpong, 1},
	{interfaceSeat, 1},
	{interfaceDevice, 1},
	{interfaceKeyboard, 1},
}

const (
	handshakeVersion uint32 = 1

	ContextTypeReceiver uint32 = 1
	ContextTypeSender   uint32 = 2

	KeymapTypeXKB uint32 = 1

	keyStateReleased uint32 = 0
	keyStatePressed  uint32 = 1
)

// ei_handshake
const (
	handshakeReqHandshakeVersion uint32 = 0
	handshakeReqFinish           uint32 = 1
	handshakeReqContextType      uint32 = 2
	handshakeReqName             uint32 = 3
	handshakeReqInterfaceVersion uint32 = 4

	handshakeEvHandshakeVersion uint32 = 0
	handshakeEvInterfaceVersion uint32 = 1
	handshakeEvConnection       uint32 = 2
)

// ei_connection
const (
	connectionReqSync       uint32 = 0
	connectionReqDisconnect uint32 = 1

	connectionEvDisconnected  uint32 = 0
	connectionEvSeat          uint32 = 1
	connectionEvInvalidObject uint32 = 2
	connectionEvPing          uint32 = 3
)

// ei_pingpong
const pingpongReqDone uint32 = 0

// ei_seat
const (
	seatReqBind uint32 = 1

	seatEvDestroyed  uint32 = 0
	seatEvName       uint32 = 1
	seatEvCapability uint32 = 2
	seatEvDone       uint32 = 3
	seatEvDevice     uint32 = 4
)

// ei_device
const (
	deviceReqStartEmulating uint32 = 1
	deviceReqStopEmulating  uint32 = 2
	deviceReqFrame          uint32 = 3

	deviceEvDestroyed uint32 = 0
	deviceEvName      uint32 = 1
	deviceEvInterface uint32 = 5
	deviceEvDone      uint32 = 6
	deviceEvResumed   uint32 = 7
	deviceEvPaused    uint32 = 8
)

// ei_keyboard
const (
	keyboardReqKey uint32 = 1

	keyboardEvDestroyed uint32 = 0
	keyboardEvKeymap    uint32 = 1
	keyboardEvModifiers uint32 = 3
)

type DisconnectReason uint32

const (
	ReasonDisconnected DisconnectReason = iota
	ReasonError
	ReasonMode
	ReasonProtocol
	ReasonValue
	ReasonTransport
)

func (r DisconnectReason) String() string {
	switch r {
	case ReasonDisconnected:
		return "disconnected"
	case ReasonError:
		return "error"
	case ReasonMode:
		return "mode"
	case ReasonProtocol:
		return "protocol"
	case ReasonValue:
		return "value"
	case ReasonTransport:
		return "transport"
	default:
		return fmt.Sprintf("reason %d", uint32(r))
	}
}

// DisconnectedError is sent by the server before it closes the connection.
type DisconnectedError struct {
	Reason      DisconnectReason
	Explanation string
}

func (e *DisconnectedError) Error() string {
	if e.Explanation == "" {
		return fmt.Sprintf("disconnected by EIS server (%s)", e.Reason)
	}
	return fmt.Sprintf("disconnected by EIS server (%s): %s", e.Reason, e.Explanation)
}
