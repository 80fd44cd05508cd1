// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package simhost

import (
	"fmt"

	"github.com/golang/glog"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/uart"
	"periph.io/x/conn/v3/uart/uartreg"

	"github.com/GermanBionicSystems/hal/board"
	"github.com/GermanBionicSystems/hal/halsim"
	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/uarthal"
)

// Registry names.
const (
	I2CName  = "SIMI2C1"
	UARTName = "SIMUART1"
)

// Board is the reference board with its pins renamed so they don't collide
// with the pins of a real host.
var Board = func() board.Config {
	b := board.Default
	b.Name = "simulated"
	b.I2C.SCL, b.I2C.SDA = "SIM_SCL", "SIM_SDA"
	b.UART.TX, b.UART.RX = "SIM_TX", "SIM_RX"
	return b
}()

// SensorAddr is the address of the simulated TMP102 temperature sensor
// attached by default.
const SensorAddr = 0x48

// Power-on registers of the simulated sensor: 25°C, 4Hz comparator mode,
// limits at 75°C and 80°C.
var sensorRegs = [...]uint16{0x1900, 0x60A0, 0x4B00, 0x5000}

// Opts configures the simulated host.
type Opts struct {
	Board    board.Config
	Behavior halsim.Behavior
	// Targets are attached to the I²C bus. When nil, a simulated sensor is
	// attached at SensorAddr.
	Targets map[uint16]halsim.Target
}

// DefaultOpts is the simulated board with an always ready bus.
var DefaultOpts = Opts{Board: Board, Behavior: halsim.AlwaysReady}

// Driver is the simulated host driver.
type Driver struct {
	opts   Opts
	i2c    *halsim.I2C
	uart   *halsim.UART
	sensor *halsim.WordFile
}

// Register creates the simulated controllers and registers the driver with
// driverreg.
func Register(opts *Opts) (*Driver, error) {
	d := &Driver{opts: *opts}
	d.i2c = halsim.NewI2C(opts.Behavior)
	d.uart = halsim.NewUART()
	if opts.Targets == nil {
		d.sensor = &halsim.WordFile{}
		for r, v := range sensorRegs {
			d.sensor.Set(byte(r), v)
		}
		d.i2c.Attach(SensorAddr, d.sensor)
	}
	for addr, t := range opts.Targets {
		d.i2c.Attach(addr, t)
	}
	if err := driverreg.Register(d); err != nil {
		return nil, fmt.Errorf("simhost: %w", err)
	}
	return d, nil
}

func (d *Driver) String() string {
	return "simhost"
}

// Prerequisites implements driver.Impl.
func (d *Driver) Prerequisites() []string {
	return nil
}

// After implements driver.Impl.
func (d *Driver) After() []string {
	return nil
}

// Init implements driver.Impl.
func (d *Driver) Init() (bool, error) {
	b := &d.opts.Board
	if err := b.Validate(); err != nil {
		return true, err
	}
	pins := []struct {
		name, fn string
		num      int
	}{
		{b.I2C.SCL, "I2C1_SCL", 6},
		{b.I2C.SDA, "I2C1_SDA", 7},
		{b.UART.TX, "UART1_TX", 9},
		{b.UART.RX, "UART1_RX", 10},
	}
	for _, p := range pins {
		if p.name == "" {
			continue
		}
		if err := gpioreg.Register(&gpiotest.Pin{N: p.name, Num: p.num, Fn: p.fn}); err != nil {
			return true, err
		}
	}
	if err := i2creg.Register(I2CName, nil, -1, d.openI2C); err != nil {
		return true, err
	}
	if err := uartreg.Register(UARTName, nil, -1, d.openUART); err != nil {
		return true, err
	}
	glog.V(1).Infof("simhost: registered %s and %s on board %q", I2CName, UARTName, b.Name)
	return true, nil
}

// I2C returns the simulated I²C register block.
func (d *Driver) I2C() *halsim.I2C {
	return d.i2c
}

// UART returns the simulated UART register block.
func (d *Driver) UART() *halsim.UART {
	return d.uart
}

// Sensor returns the registers of the sensor attached at SensorAddr, or nil
// when the options supplied their own targets.
func (d *Driver) Sensor() *halsim.WordFile {
	return d.sensor
}

func (d *Driver) openI2C() (i2c.BusCloser, error) {
	dev, err := d.opts.Board.NewI2C(d.i2c)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("simhost: opened %s at %s", I2CName, dev.Config().Speed)
	return i2chal.NewBus(I2CName, dev), nil
}

func (d *Driver) openUART() (uart.PortCloser, error) {
	dev, err := d.opts.Board.NewUART(d.uart)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("simhost: opened %s", UARTName)
	return uarthal.NewPort(UARTName, dev), nil
}
