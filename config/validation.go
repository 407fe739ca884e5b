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

package config

import (
	"fmt"
	"strings"

	"github.com/unrud/eitype/logging"
)

const maxDelayMs = 60 * 1000

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Keyboard.Variant != "" && c.Keyboard.Layout == "" {
		add("keyboard.variant", "requires keyboard.layout")
	}
	if c.Typing.DelayMs > maxDelayMs {
		add("typing.delay_ms", "must be at most %d", maxDelayMs)
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		add("server", "cert_file and key_file must be set together")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		add("logging.format", "%v", err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
