// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/regs"
	"github.com/GermanBionicSystems/hal/uarthal"
)

// Config describes a board.
type Config struct {
	Name string
	// SystemClock is the core clock.
	SystemClock physic.Frequency
	// PeripheralClock feeds both controllers.
	PeripheralClock physic.Frequency
	I2C             I2C
	UART            UART
}

// I2C describes the I²C controller.
type I2C struct {
	Base     uint64
	SCL, SDA string
	Config   i2chal.Config
}

// UART describes the UART controller.
type UART struct {
	Base   uint64
	TX, RX string
	Config uarthal.Config
}

// Default is the reference board: both clocks at 48MHz, I2C1 on GPIO6 and
// GPIO7, UART1 on GPIO9 and GPIO10.
var Default = Config{
	Name:            "reference",
	SystemClock:     48 * physic.MegaHertz,
	PeripheralClock: 48 * physic.MegaHertz,
	I2C: I2C{
		Base:   0x40005400,
		SCL:    "GPIO6",
		SDA:    "GPIO7",
		Config: i2chal.DefaultConfig,
	},
	UART: UART{
		Base:   0x40013800,
		TX:     "GPIO9",
		RX:     "GPIO10",
		Config: uarthal.DefaultConfig,
	},
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.PeripheralClock <= 0 {
		return fmt.Errorf("board: %s: invalid peripheral clock %s", c.Name, c.PeripheralClock)
	}
	if c.I2C.Base&3 != 0 || c.UART.Base&3 != 0 {
		return fmt.Errorf("board: %s: register blocks must be word aligned", c.Name)
	}
	if c.I2C.Base != 0 && c.I2C.Base == c.UART.Base {
		return fmt.Errorf("board: %s: I2C and UART share base 0x%X", c.Name, c.I2C.Base)
	}
	return nil
}

// I2CConfig returns the I²C controller settings, clocked from the
// peripheral clock.
func (c *Config) I2CConfig() i2chal.Config {
	cfg := c.I2C.Config
	cfg.Clock = c.PeripheralClock
	return cfg
}

// I2CPins looks up the I²C pins in gpioreg.
//
// It returns nil without error when the board names no pins.
func (c *Config) I2CPins() (i2c.Pins, error) {
	if c.I2C.SCL == "" && c.I2C.SDA == "" {
		return nil, nil
	}
	scl, err := lookup(c.I2C.SCL)
	if err != nil {
		return nil, err
	}
	sda, err := lookup(c.I2C.SDA)
	if err != nil {
		return nil, err
	}
	return &i2cPins{scl: scl, sda: sda}, nil
}

// UARTPins looks up the UART pins in gpioreg.
//
// It returns nil without error when the board names no pins.
func (c *Config) UARTPins() (uart.Pins, error) {
	if c.UART.TX == "" && c.UART.RX == "" {
		return nil, nil
	}
	tx, err := lookup(c.UART.TX)
	if err != nil {
		return nil, err
	}
	rx, err := lookup(c.UART.RX)
	if err != nil {
		return nil, err
	}
	return &uartPins{tx: tx, rx: rx}, nil
}

// NewI2C returns an initialized I²C controller on b wired as described.
func (c *Config) NewI2C(b regs.Block) (*i2chal.Dev, error) {
	pins, err := c.I2CPins()
	if err != nil {
		return nil, err
	}
	d := i2chal.New(b, pins)
	if err := d.Init(c.I2CConfig()); err != nil {
		return nil, err
	}
	return d, nil
}

// NewUART returns an initialized UART controller on b wired as described.
func (c *Config) NewUART(b regs.Block) (*uarthal.Dev, error) {
	pins, err := c.UARTPins()
	if err != nil {
		return nil, err
	}
	d := uarthal.New(b, pins, c.PeripheralClock)
	if err := d.Init(c.UART.Config); err != nil {
		return nil, err
	}
	return d, nil
}

// ErrPinNotFound is returned when a pin named by the board is not in gpioreg.
var ErrPinNotFound = errors.New("board: pin not found")

func lookup(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrPinNotFound)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrPinNotFound, name)
	}
	return p, nil
}

type i2cPins struct {
	scl, sda gpio.PinIO
}

func (p *i2cPins) SCL() gpio.PinIO { return p.scl }
func (p *i2cPins) SDA() gpio.PinIO { return p.sda }

type uartPins struct {
	tx, rx gpio.PinIO
}

func (p *uartPins) RX() gpio.PinIn   { return p.rx }
func (p *uartPins) TX() gpio.PinOut  { return p.tx }
func (p *uartPins) RTS() gpio.PinOut { return gpio.INVALID }
func (p *uartPins) CTS() gpio.PinIn  { return gpio.INVALID }
