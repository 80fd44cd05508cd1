// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chal

import "github.com/GermanBionicSystems/hal/regs"

// Register offsets within the controller block.
const (
	RegCR  regs.Offset = 0x00 // control
	RegSR  regs.Offset = 0x04 // status
	RegDR  regs.Offset = 0x08 // data
	RegCCR regs.Offset = 0x0C // clock control

	// BlockSize is the size of the register block in bytes.
	BlockSize = 0x10
)

// Control register bits.
//
// START and STOP are self clearing: the controller clears them once the
// condition has been generated on the bus.
//
// ACK is sampled when CR is written after DR has been read in receive mode:
// the write clocks out an acknowledge if ACK is set and a not-acknowledge if
// it is clear.
const (
	CREnable uint32 = 1 << 0
	CRStart  uint32 = 1 << 1
	CRStop   uint32 = 1 << 2
	CRAck    uint32 = 1 << 3
	CRFast   uint32 = 1 << 4 // fast mode (400kHz) timing
	CRAddr10 uint32 = 1 << 5 // 10 bit addressing mode
	CRClkEn  uint32 = 1 << 6 // peripheral clock gate
)

// Status register bits.
//
// ADDR, ADD10, SB and AF are cleared by writing zero to them. TXE, RXNE and
// BUSY are maintained by the controller.
const (
	SRBusy  uint32 = 1 << 0 // bus busy between start and stop
	SRTxE   uint32 = 1 << 1 // data byte transmitted and acknowledged
	SRRxNE  uint32 = 1 << 2 // data byte received
	SRAddr  uint32 = 1 << 3 // address acknowledged
	SRSB    uint32 = 1 << 4 // start condition generated
	SRAF    uint32 = 1 << 5 // acknowledge failure
	SRAdd10 uint32 = 1 << 6 // 10 bit header acknowledged
)

// Clock control register.
const (
	CCRMask  uint32 = 0x0FFF
	ccrShift        = 0
	ccrMin          = 4
)

const (
	dirWrite = 0
	dirRead  = 1

	// header10 is the reserved address prefix 11110xx of a 10 bit address
	// header byte.
	header10 byte = 0xF0
)
