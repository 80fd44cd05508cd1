// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hal is a container for the hardware abstraction layer of a
// microcontroller class board: an I²C master driver, a UART driver and the
// register level plumbing they share.
//
// The drivers program memory mapped registers through regs.Block, so the same
// code runs against silicon mapped from /dev/mem or against the simulated
// controllers in halsim. simhost registers the simulated controllers with the
// periph.io registries and cmd/halctl exercises them.
package hal
