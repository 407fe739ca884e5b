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

package desktop

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// GNOME reads the current input source from gsettings.
type GNOME struct {
	// Output runs a command and returns its standard output. Defaults to
	// os/exec.
	Output func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func (g *GNOME) Name() string {
	return "GNOME"
}

func (g *GNOME) LayoutIndex(ctx context.Context) (uint32, error) {
	output := g.Output
	if output == nil {
		output = runCommand
	}
	out, err := output(ctx, "gsettings", "get", "org.gnome.desktop.input-sources", "current")
	if err != nil {
		return 0, err
	}
	return parseGVariantUint32(string(out))
}

// parseGVariantUint32 parses the text form of a GVariant integer such as
// "uint32 1".
func parseGVariantUint32(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		s = s[i+1:]
	}
	index, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unexpected gsettings output: %w", err)
	}
	return uint32(index), nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return out, err
}
