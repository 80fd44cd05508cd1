// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/regs"
)

// DefaultTimeout is the default number of status reads allowed for a
// character to be sent or received.
const DefaultTimeout = 50000

// Config is the line configuration applied by Init.
type Config struct {
	Baud    physic.Frequency
	Parity  uart.Parity
	Stop    uart.Stop
	Timeout int
}

// DefaultConfig is 115200 bauds, 8N1.
var DefaultConfig = Config{
	Baud:    115200 * physic.Hertz,
	Parity:  uart.NoParity,
	Stop:    uart.One,
	Timeout: DefaultTimeout,
}

// Init configures and enables the controller.
//
// The controller is disabled while the line settings change. It may be
// called again to reconfigure.
func (d *Dev) Init(cfg Config) error {
	d.ready = false
	if cfg.Timeout <= 0 {
		return fmt.Errorf("uarthal: timeout must be positive, got %d", cfg.Timeout)
	}
	d.EnableClock()
	if err := d.ConfigurePins(); err != nil {
		return err
	}
	d.Disable()
	if err := d.SetBaudrate(cfg.Baud); err != nil {
		return err
	}
	if err := d.SetParity(cfg.Parity); err != nil {
		return err
	}
	if err := d.SetStopBits(cfg.Stop); err != nil {
		return err
	}
	d.Enable()
	d.cfg = cfg
	d.ready = true
	return nil
}

// Config returns the configuration applied by the last successful Init.
func (d *Dev) Config() Config {
	return d.cfg
}

// WriteChar waits for the transmitter then sends c.
func (d *Dev) WriteChar(c byte) error {
	if err := d.waitStatus(StatusTxReady); err != nil {
		return fmt.Errorf("uarthal: sending %q: %w", c, err)
	}
	d.SendByte(c)
	return nil
}

// WriteString sends s one character at a time.
func (d *Dev) WriteString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := d.WriteChar(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadChar waits for a character then returns it.
func (d *Dev) ReadChar() (byte, error) {
	if err := d.waitStatus(StatusRxReady); err != nil {
		return 0, fmt.Errorf("uarthal: receiving: %w", err)
	}
	return d.ReadByte(), nil
}

// WriteHex sends v as 8 upper case hexadecimal digits, without prefix.
func (d *Dev) WriteHex(v uint32) error {
	const digits = "0123456789ABCDEF"
	var buf [8]byte
	for i := range buf {
		buf[i] = digits[v>>(28-4*uint(i))&0xF]
	}
	return d.write(buf[:])
}

// WriteDec sends v in decimal, with a leading minus sign when negative.
func (d *Dev) WriteDec(v int) error {
	var buf [20]byte
	return d.write(strconv.AppendInt(buf[:0], int64(v), 10))
}

func (d *Dev) write(b []byte) error {
	for _, c := range b {
		if err := d.WriteChar(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dev) waitStatus(mask uint32) error {
	if !d.ready {
		return ErrNotInitialized
	}
	if _, ok := regs.Poll(d.r, RegStatus, d.cfg.Timeout, func(v uint32) bool { return v&mask != 0 }); !ok {
		return ErrTimeout
	}
	return nil
}
