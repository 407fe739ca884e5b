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

// Package desktop detects the keyboard layout that is active in the
// desktop session.
package desktop

import (
	"context"
	"log/slog"
	"time"
)

const detectTimeout = 2 * time.Second

// Detector reports the index of the active layout group.
type Detector interface {
	Name() string
	LayoutIndex(ctx context.Context) (uint32, error)
}

// Detectors returns the detectors for the supported desktops, GNOME first.
func Detectors() []Detector {
	return []Detector{&GNOME{}, &KDE{}}
}

// Detect asks each detector in turn and returns the first index found.
// Failing detectors are expected on other desktops and only logged.
func Detect(ctx context.Context, logger *slog.Logger, detectors ...Detector) (uint32, bool) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, d := range detectors {
		dctx, cancel := context.WithTimeout(ctx, detectTimeout)
		index, err := d.LayoutIndex(dctx)
		cancel()
		if err != nil {
			logger.Debug("Layout detection failed", "desktop", d.Name(), "err", err)
			continue
		}
		logger.Info("Auto-detected active layout index", "desktop", d.Name(), "index", index)
		return index, true
	}
	return 0, false
}
