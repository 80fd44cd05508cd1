// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveform draws a decoded I²C bus trace.
//
// Render produces a timing diagram with the SCL and SDA lanes, one cell per
// bus event. Print writes a compact coloured strip to an ANSI terminal.
package waveform
