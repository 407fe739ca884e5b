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
	"fmt"
	"net"
	"strings"
)

var linkLocalPrefixes = [...]string{"169.254.", "fe8", "fe9", "fea", "feb"}

func isLinkLocal(ip net.IP) bool {
	for _, prefix := range linkLocalPrefixes {
		if strings.HasPrefix(ip.String(), prefix) {
			return true
		}
	}
	return false
}

// findDefaultHost returns the address that other devices most likely use
// to reach this host.
func findDefaultHost() string {
	for _, publicIP := range []string{"2001:4860:4860::8888", "8.8.8.8"} {
		conn, err := net.Dial("udp", fmt.Sprintf("[%s]:80", publicIP))
		if err != nil {
			continue
		}
		conn.Close()
		host, _, err := net.SplitHostPort(conn.LocalAddr().String())
		if err == nil {
			return host
		}
	}
	interfaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}
	var addrs []net.Addr
	for _, inter := range interfaces {
		if inter.Flags&net.FlagUp == 0 || inter.Flags&net.FlagLoopback != 0 {
			continue
		}
		interAddrs, err := inter.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, interAddrs...)
	}
	return pickHost(addrs)
}

// pickHost prefers the first address that is not link-local.
func pickHost(addrs []net.Addr) string {
	host := "localhost"
	for _, addr := range addrs {
		ip, _, err := net.ParseCIDR(addr.String())
		if err != nil {
			continue
		}
		if !isLinkLocal(ip) {
			return ip.String()
		}
		if host == "localhost" {
			host = ip.String()
		}
	}
	return host
}
