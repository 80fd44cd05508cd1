// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/regs"
)

// DefaultClock is the default peripheral input clock.
const DefaultClock = 48 * physic.MegaHertz

// Dev is a handle to one UART controller.
//
// Dev is not safe for concurrent use.
type Dev struct {
	r     regs.Block
	pins  uart.Pins
	clock physic.Frequency
	cfg   Config
	ready bool
}

// New returns a handle to the controller behind r, clocked at clock.
//
// pins may be nil when the board has nothing to configure.
func New(r regs.Block, pins uart.Pins, clock physic.Frequency) *Dev {
	return &Dev{r: r, pins: pins, clock: clock}
}

func (d *Dev) String() string {
	if s, ok := d.r.(fmt.Stringer); ok {
		return "uarthal(" + s.String() + ")"
	}
	return "uarthal"
}

// EnableClock ungates the peripheral clock.
func (d *Dev) EnableClock() {
	regs.Set(d.r, RegCtrl, CtrlClkEn)
}

// Enable turns the transmitter and receiver on.
func (d *Dev) Enable() {
	regs.Set(d.r, RegCtrl, CtrlEnable)
}

// Disable turns the transmitter and receiver off.
func (d *Dev) Disable() {
	regs.Clear(d.r, RegCtrl, CtrlEnable)
}

// ConfigurePins routes RX and TX to the controller. RX is pulled up and TX
// idles high.
func (d *Dev) ConfigurePins() error {
	if d.pins == nil {
		return nil
	}
	rx := d.pins.RX()
	if err := rx.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("uarthal: %s: %w", rx, err)
	}
	tx := d.pins.TX()
	if err := tx.Out(gpio.High); err != nil {
		return fmt.Errorf("uarthal: %s: %w", tx, err)
	}
	return nil
}

// SetBaudrate programs the divisor for f.
//
// The controller oversamples 16 times; the rate actually produced must be
// within 2.5% of f.
func (d *Dev) SetBaudrate(f physic.Frequency) error {
	div, err := divisor(d.clock, f)
	if err != nil {
		return err
	}
	regs.SetField(d.r, RegBaud, BaudMask, 0, div)
	return nil
}

func divisor(clock, f physic.Frequency) (uint32, error) {
	if f <= 0 || clock <= 0 {
		return 0, fmt.Errorf("%w: %s from %s", ErrUnsupportedBaud, f, clock)
	}
	c, b := int64(clock), int64(f)
	div := (c + 8*b) / (16 * b)
	if div < 1 || div > int64(BaudMask) {
		return 0, fmt.Errorf("%w: %s from %s needs divisor %d", ErrUnsupportedBaud, f, clock, div)
	}
	actual := c / (16 * div)
	diff := actual - b
	if diff < 0 {
		diff = -diff
	}
	if diff*40 > b {
		return 0, fmt.Errorf("%w: %s from %s gives %s", ErrUnsupportedBaud, f, clock, physic.Frequency(actual))
	}
	return uint32(div), nil
}

// SetParity selects no, even or odd parity.
func (d *Dev) SetParity(p uart.Parity) error {
	var v uint32
	switch p {
	case uart.NoParity:
	case uart.Even:
		v = CtrlParityEven
	case uart.Odd:
		v = CtrlParityOdd
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedParity, byte(p))
	}
	regs.Update(d.r, RegCtrl, ctrlParity, v)
	return nil
}

// SetStopBits selects one or two stop bits.
func (d *Dev) SetStopBits(s uart.Stop) error {
	switch s {
	case uart.One:
		regs.Clear(d.r, RegCtrl, CtrlStop2)
	case uart.Two:
		regs.Set(d.r, RegCtrl, CtrlStop2)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedStopBits, s)
	}
	return nil
}

// IsTxReady returns true when the transmit buffer accepts a byte.
func (d *Dev) IsTxReady() bool {
	return regs.IsSet(d.r, RegStatus, StatusTxReady)
}

// IsRxReady returns true when a received byte is waiting.
func (d *Dev) IsRxReady() bool {
	return regs.IsSet(d.r, RegStatus, StatusRxReady)
}

// SendByte writes b to the data register.
//
// It does not check IsTxReady; a byte sent while the transmitter is busy is
// lost or corrupts the one in flight.
func (d *Dev) SendByte(b byte) {
	d.r.Store(RegData, uint32(b))
}

// ReadByte returns the data register. Without IsRxReady it may return the
// previous byte again.
func (d *Dev) ReadByte() byte {
	return byte(d.r.Load(RegData))
}
