// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"github.com/GermanBionicSystems/hal/board"
	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/regs"
	"github.com/GermanBionicSystems/hal/uarthal"
)

// mapBlocks maps the board's I²C and UART register blocks.
func mapBlocks(c *board.Config) (regs.Block, regs.Block, func() error, error) {
	ib, err := regs.Map(c.I2C.Base, i2chal.BlockSize)
	if err != nil {
		return nil, nil, nil, err
	}
	ub, err := regs.Map(c.UART.Base, uarthal.BlockSize)
	if err != nil {
		_ = ib.Close()
		return nil, nil, nil, err
	}
	return ib, ub, func() error {
		err1 := ub.Close()
		if err2 := ib.Close(); err1 == nil {
			err1 = err2
		}
		return err1
	}, nil
}
