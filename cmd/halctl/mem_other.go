// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package main

import (
	"errors"

	"github.com/GermanBionicSystems/hal/board"
	"github.com/GermanBionicSystems/hal/regs"
)

func mapBlocks(c *board.Config) (regs.Block, regs.Block, func() error, error) {
	return nil, nil, nil, errors.New("-mem is only supported on linux")
}
