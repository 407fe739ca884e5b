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
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	writeTimeout      = 10 * time.Millisecond
	initialRetryDelay = time.Millisecond
	maxRetryDelay     = 100 * time.Millisecond
	maxWriteRetries   = 50
)

// write sends b completely. When the socket buffer stays full the write is
// retried with exponential backoff. Bytes that were written are not sent
// again.
func (c *Client) write(b []byte) error {
	delay := initialRetryDelay
	for retries := 0; ; retries++ {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return err
		}
		n, err := c.conn.Write(b)
		b = b[n:]
		if err == nil {
			return nil
		}
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			return err
		}
		if retries >= maxWriteRetries {
			return fmt.Errorf("socket buffer full after %d retries: %w", retries, err)
		}
		c.log.Debug("Socket buffer full, retrying", "delay", delay, "pending", len(b))
		time.Sleep(delay)
		delay = nextRetryDelay(delay)
	}
}

func nextRetryDelay(delay time.Duration) time.Duration {
	return min(delay*2, maxRetryDelay)
}
