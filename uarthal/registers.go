// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal

import "github.com/GermanBionicSystems/hal/regs"

// Register offsets within the controller block.
const (
	RegCtrl   regs.Offset = 0x00
	RegStatus regs.Offset = 0x04
	RegData   regs.Offset = 0x08
	RegBaud   regs.Offset = 0x0C

	// BlockSize is the size of the register block in bytes.
	BlockSize = 0x10
)

// Control register bits. PARITY_EVEN and PARITY_ODD are never both set.
const (
	CtrlEnable     uint32 = 1 << 0
	CtrlParityEven uint32 = 1 << 1
	CtrlParityOdd  uint32 = 1 << 2
	CtrlStop2      uint32 = 1 << 3 // two stop bits when set
	CtrlClkEn      uint32 = 1 << 4

	ctrlParity = CtrlParityEven | CtrlParityOdd
)

// Status register bits.
const (
	StatusTxReady uint32 = 1 << 0
	StatusRxReady uint32 = 1 << 1
)

// BaudMask selects the divisor in the BAUD register.
const BaudMask uint32 = 0xFFFF
