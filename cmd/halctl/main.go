// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// halctl exercises the I²C and UART controllers, simulated or real.
//
// Usage:
//
//	halctl [flags] demo|scan|temp|shell|trace|console
//
// By default the controllers are simulated and registered as SIMI2C1 and
// SIMUART1. With -mem the register blocks named by the board are mapped from
// /dev/mem instead and registered as HALI2C1 and HALUART1.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/uart"
	"periph.io/x/conn/v3/uart/uartreg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/hal/board"
	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/regs"
	"github.com/GermanBionicSystems/hal/simhost"
	"github.com/GermanBionicSystems/hal/uarthal"
)

// Names used for the controllers mapped with -mem.
const (
	memI2CName  = "HALI2C1"
	memUARTName = "HALUART1"
)

var (
	boardFile = flag.String("board", "", "JSON board description; the reference board when empty")
	useMem    = flag.Bool("mem", false, "map the board's register blocks from /dev/mem instead of simulating them")
	busName   = flag.String("bus", "", "I²C bus to use; the HAL bus when empty")
	portName  = flag.String("port", "", "UART port to use; the HAL port when empty")
	sensor    = flag.Int("addr", simhost.SensorAddr, "sensor address for demo, temp and trace")
	loops     = flag.Int("n", 10, "number of demo iterations and temp readings")
	output    = flag.String("o", "trace.png", "PNG file written by trace")
)

// env is what the commands run against.
type env struct {
	board board.Config
	i2c   regs.Block
	uart  regs.Block
	sim   *simhost.Driver // nil on hardware
	out   io.Writer
	close func() error
}

func (e *env) openBus() (i2c.BusCloser, error) {
	name := *busName
	if name == "" {
		name = memI2CName
		if e.sim != nil {
			name = simhost.I2CName
		}
	}
	return i2creg.Open(name)
}

func (e *env) openPort() (uart.PortCloser, error) {
	name := *portName
	if name == "" {
		name = memUARTName
		if e.sim != nil {
			name = simhost.UARTName
		}
	}
	return uartreg.Open(name)
}

func setup() (*env, error) {
	e := &env{board: board.Default, out: colorable.NewColorableStdout(), close: func() error { return nil }}
	if *boardFile != "" {
		b, err := board.LoadFile(*boardFile)
		if err != nil {
			return nil, err
		}
		e.board = b
	}
	if *useMem {
		ib, ub, closeFn, err := mapBlocks(&e.board)
		if err != nil {
			return nil, err
		}
		e.i2c, e.uart, e.close = ib, ub, closeFn
	} else {
		opts := simhost.DefaultOpts
		if *boardFile != "" {
			b := e.board
			b.I2C.SCL, b.I2C.SDA = simhost.Board.I2C.SCL, simhost.Board.I2C.SDA
			b.UART.TX, b.UART.RX = simhost.Board.UART.TX, simhost.Board.UART.RX
			opts.Board = b
		}
		d, err := simhost.Register(&opts)
		if err != nil {
			return nil, err
		}
		d.UART().Echo = e.out
		e.sim, e.i2c, e.uart = d, d.I2C(), d.UART()
		e.board = opts.Board
	}
	state, err := host.Init()
	if err != nil {
		return nil, err
	}
	for _, f := range state.Failed {
		glog.Warningf("driver %s failed: %v", f.D, f.Err)
	}
	glog.V(1).Infof("%d drivers loaded", len(state.Loaded))
	if *useMem {
		if err := registerMem(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// registerMem makes the mapped controllers available through the periph
// registries, like simhost does for the simulated ones.
func registerMem(e *env) error {
	err := i2creg.Register(memI2CName, nil, -1, func() (i2c.BusCloser, error) {
		d, err := e.board.NewI2C(e.i2c)
		if err != nil {
			return nil, err
		}
		return i2chal.NewBus(memI2CName, d), nil
	})
	if err != nil {
		return err
	}
	return uartreg.Register(memUARTName, nil, -1, func() (uart.PortCloser, error) {
		d, err := e.board.NewUART(e.uart)
		if err != nil {
			return nil, err
		}
		return uarthal.NewPort(memUARTName, d), nil
	})
}

var commands = map[string]func(e *env, args []string) error{
	"demo":    runDemo,
	"scan":    runScan,
	"temp":    runTemp,
	"shell":   runShell,
	"trace":   runTrace,
	"console": runConsole,
}

func mainImpl() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] demo|scan|temp|shell|trace|console\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	defer glog.Flush()
	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("missing command")
	}
	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		return fmt.Errorf("unknown command %q", flag.Arg(0))
	}
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()
	return cmd(e, flag.Args()[1:])
}

func main() {
	if err := mainImpl(); err != nil {
		glog.Errorf("halctl: %v", err)
		fmt.Fprintf(os.Stderr, "halctl: %s.\n", err)
		glog.Flush()
		os.Exit(1)
	}
}
