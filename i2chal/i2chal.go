// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chal

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hal/regs"
)

// AddressMode selects 7 bit or 10 bit slave addressing.
type AddressMode uint8

const (
	// Addr7Bit sends the address as a single byte.
	Addr7Bit AddressMode = iota
	// Addr10Bit sends a two byte address: a 11110xx header then the low byte.
	Addr10Bit
)

func (m AddressMode) String() string {
	switch m {
	case Addr7Bit:
		return "7bit"
	case Addr10Bit:
		return "10bit"
	default:
		return fmt.Sprintf("AddressMode(%d)", uint8(m))
	}
}

// max returns the highest address valid in this mode.
func (m AddressMode) max() uint16 {
	if m == Addr10Bit {
		return 0x3FF
	}
	return 0x7F
}

const (
	// StandardMode is the 100kHz bus speed.
	StandardMode physic.Frequency = 100 * physic.KiloHertz
	// FastMode is the 400kHz bus speed.
	FastMode physic.Frequency = 400 * physic.KiloHertz

	// DefaultTimeout is the default number of status polls allowed for each
	// wait of a transaction.
	DefaultTimeout = 50000
	// DefaultClock is the default peripheral input clock.
	DefaultClock = 48 * physic.MegaHertz
)

// Config is the configuration of the controller.
//
// It is copied by Dev.Init; changing it afterwards has no effect until Init
// is called again.
type Config struct {
	AddressMode AddressMode
	// Speed must be StandardMode or FastMode.
	Speed physic.Frequency
	// Address is the default slave address, used by Dev.Conn.
	Address uint16
	// Timeout is the number of status register polls allowed for every wait.
	Timeout int
	// Clock is the peripheral input clock the bus clock is divided from.
	Clock physic.Frequency
}

// DefaultConfig is the recommended configuration: 7 bit addresses at 100kHz.
var DefaultConfig = Config{
	AddressMode: Addr7Bit,
	Speed:       StandardMode,
	Timeout:     DefaultTimeout,
	Clock:       DefaultClock,
}

func (c *Config) validate() error {
	switch c.AddressMode {
	case Addr7Bit, Addr10Bit:
	default:
		return fmt.Errorf("i2chal: invalid address mode %s: %w", c.AddressMode, Error)
	}
	if c.Speed != StandardMode && c.Speed != FastMode {
		return fmt.Errorf("i2chal: unsupported bus speed %s: %w", c.Speed, Error)
	}
	if c.Address > c.AddressMode.max() {
		return fmt.Errorf("i2chal: address 0x%X out of range for %s addressing: %w", c.Address, c.AddressMode, Error)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("i2chal: timeout must be positive, got %d: %w", c.Timeout, Error)
	}
	if c.Clock <= 0 {
		return fmt.Errorf("i2chal: invalid peripheral clock %s: %w", c.Clock, Error)
	}
	return nil
}

// divisor returns the CCR value for the configured speed.
//
// Standard mode uses a 1:1 duty cycle (2 periods of the divided clock per
// bus clock), fast mode a 2:1 duty cycle (3 periods).
func (c *Config) divisor() (uint32, error) {
	periods := physic.Frequency(2)
	if c.Speed == FastMode {
		periods = 3
	}
	div := int64(c.Clock / (periods * c.Speed))
	if div < ccrMin || div > int64(CCRMask) {
		return 0, fmt.Errorf("i2chal: %s can't be divided down to %s (divisor %d): %w", c.Clock, c.Speed, div, Error)
	}
	return uint32(div), nil
}

// Dev is a handle to one I²C controller.
//
// Dev is not safe for concurrent use; a transaction must complete before the
// next one starts. Use Bus for a locked, periph compatible view.
type Dev struct {
	r     regs.Block
	pins  i2c.Pins
	cfg   Config
	ready bool
}

// New returns a handle to the controller behind r.
//
// pins is the board's routing for SCL and SDA; it may be nil when the board
// has nothing to configure. The controller is left untouched until Init.
func New(r regs.Block, pins i2c.Pins) *Dev {
	return &Dev{r: r, pins: pins}
}

func (d *Dev) String() string {
	if s, ok := d.r.(fmt.Stringer); ok {
		return "i2chal(" + s.String() + ")"
	}
	return "i2chal"
}

// Config returns the configuration programmed by the last successful Init.
func (d *Dev) Config() Config {
	return d.cfg
}

// Init programs the bus speed and addressing mode and enables the
// controller.
//
// It may be called again at any time between transactions to reprogram the
// controller. The configuration is read back; a controller that does not
// retain it is reported as Error and the handle stays unusable until a later
// Init succeeds.
func (d *Dev) Init(cfg Config) error {
	d.ready = false
	if err := cfg.validate(); err != nil {
		return err
	}
	div, err := cfg.divisor()
	if err != nil {
		return err
	}
	d.EnableClock()
	if err := d.ConfigurePins(); err != nil {
		return fmt.Errorf("i2chal: configuring pins: %v: %w", err, Error)
	}

	// The timing registers may only change while the controller is disabled.
	regs.Clear(d.r, RegCR, CREnable)
	regs.SetField(d.r, RegCCR, CCRMask, ccrShift, div)
	var mode uint32
	if cfg.Speed == FastMode {
		mode |= CRFast
	}
	if cfg.AddressMode == Addr10Bit {
		mode |= CRAddr10
	}
	regs.Update(d.r, RegCR, CRFast|CRAddr10|CRAck|CRStart|CRStop, mode)
	regs.Set(d.r, RegCR, CREnable)

	want := CRClkEn | CREnable | mode
	if cr := d.r.Load(RegCR); cr&(CRClkEn|CREnable|CRFast|CRAddr10) != want {
		return fmt.Errorf("i2chal: controller unresponsive, control register reads %#x, expected bits %#x: %w", cr, want, Error)
	}
	if got := regs.Field(d.r, RegCCR, CCRMask, ccrShift); got != div {
		return fmt.Errorf("i2chal: controller unresponsive, clock divisor reads %d, expected %d: %w", got, div, Error)
	}
	d.cfg = cfg
	d.ready = true
	return nil
}

// EnableClock ungates the peripheral clock. It is idempotent.
func (d *Dev) EnableClock() {
	regs.Set(d.r, RegCR, CRClkEn)
}

// ConfigurePins hands SCL and SDA to the controller: both lines are inputs
// with pull-ups, the controller drives them open drain.
func (d *Dev) ConfigurePins() error {
	if d.pins == nil {
		return nil
	}
	for _, p := range []gpio.PinIO{d.pins.SCL(), d.pins.SDA()} {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Halt disables the controller. Implements conn.Resource.
//
// The configuration is retained in the registers; Init must be called before
// the next transaction.
func (d *Dev) Halt() error {
	regs.Clear(d.r, RegCR, CREnable)
	d.ready = false
	return nil
}

// Conn returns a periph connection to the default slave address of the
// configuration.
func (d *Dev) Conn() conn.Conn {
	return &i2c.Dev{Bus: &Bus{d: d}, Addr: d.cfg.Address}
}

var _ conn.Resource = &Dev{}
