// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chal

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// Bus exposes a Dev as a periph I²C bus.
//
// Transactions are serialized. Errors wrap a Status, use StatusOf to
// retrieve it.
type Bus struct {
	mu   sync.Mutex
	name string
	d    *Dev
}

// NewBus returns a bus named name driving d.
//
// d should already be initialized.
func NewBus(name string, d *Dev) *Bus {
	return &Bus{name: name, d: d}
}

func (b *Bus) String() string {
	if b.name == "" {
		return b.d.String()
	}
	return b.name
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus.
//
// The controller only has two speeds; f is rounded down to the closest one.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cfg := b.d.Config()
	if cfg.Timeout == 0 {
		cfg = DefaultConfig
	}
	switch {
	case f >= FastMode:
		cfg.Speed = FastMode
	case f >= StandardMode:
		cfg.Speed = StandardMode
	default:
		return fmt.Errorf("i2chal: %s is below the slowest supported speed %s: %w", f, StandardMode, Error)
	}
	return b.d.Init(cfg)
}

// Close implements io.Closer. It disables the controller.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.d.Halt()
}

// SCL implements i2c.Pins.
func (b *Bus) SCL() gpio.PinIO {
	if b.d.pins == nil {
		return gpio.INVALID
	}
	return b.d.pins.SCL()
}

// SDA implements i2c.Pins.
func (b *Bus) SDA() gpio.PinIO {
	if b.d.pins == nil {
		return gpio.INVALID
	}
	return b.d.pins.SDA()
}

// ReadRegister reads len(buf) bytes starting at register r of the device at
// addr.
func (b *Bus) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{r}, buf)
}

// WriteRegister writes buf starting at register r of the device at addr.
func (b *Bus) WriteRegister(addr uint8, r uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, r)
	w = append(w, buf...)
	return b.Tx(uint16(addr), w, nil)
}

var _ i2c.BusCloser = &Bus{}
var _ i2c.Pins = &Bus{}
var _ drivers.I2C = &Bus{}
