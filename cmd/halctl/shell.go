// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/abiosoft/ishell"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/halsim"
	"github.com/GermanBionicSystems/hal/i2chal"
	"github.com/GermanBionicSystems/hal/waveform"
)

const envKey = "$env"

// session is the state shared by the shell commands.
type session struct {
	env  *env
	bus  i2c.BusCloser
	port io.Writer
}

func sessionFrom(c *ishell.Context) *session {
	return c.Get(envKey).(*session)
}

var shellCmds = []*ishell.Cmd{
	{
		Name: "ping",
		Help: "ADDR: send the address alone",
		Func: withArgs(1, func(c *ishell.Context, s *session) error {
			addr, err := parseAddr(c.Args[0])
			if err != nil {
				return err
			}
			err = s.bus.Tx(addr, nil, nil)
			c.Printf("0x%02X: %s\n", addr, i2chal.StatusOf(err))
			return nil
		}),
	},
	{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "ADDR REG [COUNT]: read COUNT bytes starting at REG",
		Func: withArgs(2, func(c *ishell.Context, s *session) error {
			addr, err := parseAddr(c.Args[0])
			if err != nil {
				return err
			}
			reg, err := parseByte(c.Args[1])
			if err != nil {
				return err
			}
			n := 1
			if len(c.Args) > 2 {
				if n, err = strconv.Atoi(c.Args[2]); err != nil || n <= 0 {
					return fmt.Errorf("invalid count %q", c.Args[2])
				}
			}
			buf := make([]byte, n)
			if err := s.bus.Tx(addr, []byte{reg}, buf); err != nil {
				return err
			}
			c.Printf("% X\n", buf)
			return nil
		}),
	},
	{
		Name:    "write",
		Aliases: []string{"w"},
		Help:    "ADDR REG BYTE...: write bytes starting at REG",
		Func: withArgs(3, func(c *ishell.Context, s *session) error {
			addr, err := parseAddr(c.Args[0])
			if err != nil {
				return err
			}
			w := make([]byte, 0, len(c.Args)-1)
			for _, a := range c.Args[1:] {
				b, err := parseByte(a)
				if err != nil {
					return err
				}
				w = append(w, b)
			}
			return s.bus.Tx(addr, w, nil)
		}),
	},
	{
		Name: "speed",
		Help: "FREQ: set the bus speed, e.g. 400kHz",
		Func: withArgs(1, func(c *ishell.Context, s *session) error {
			var f physic.Frequency
			if err := f.Set(c.Args[0]); err != nil {
				return err
			}
			return s.bus.SetSpeed(f)
		}),
	},
	{
		Name: "scan",
		Help: "list the 7 bit addresses that answer",
		Func: withArgs(0, func(c *ishell.Context, s *session) error {
			found, err := scan(s.bus)
			printScan(s.env.out, s.bus, found)
			return err
		}),
	},
	{
		Name: "send",
		Help: "TEXT...: send text on the UART",
		Func: withArgs(1, func(c *ishell.Context, s *session) error {
			for i, a := range c.Args {
				if i != 0 {
					if _, err := s.port.Write([]byte{' '}); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(s.port, a); err != nil {
					return err
				}
			}
			_, err := io.WriteString(s.port, "\r\n")
			return err
		}),
	},
	{
		Name: "behave",
		Help: "ready|nack-addr|nack-data N|never|latency N: change the simulated bus",
		Func: withArgs(1, func(c *ishell.Context, s *session) error {
			if s.env.sim == nil {
				return errSimOnly
			}
			b, err := parseBehavior(c.Args)
			if err != nil {
				return err
			}
			s.env.sim.I2C().SetBehavior(b)
			return nil
		}),
	},
	{
		Name: "trace",
		Help: "show the bus events since the last clear",
		Func: withArgs(0, func(c *ishell.Context, s *session) error {
			if s.env.sim == nil {
				return errSimOnly
			}
			return waveform.Print(s.env.out, s.env.sim.I2C().Events(), nil)
		}),
	},
	{
		Name: "clear",
		Help: "forget the recorded bus events",
		Func: withArgs(0, func(c *ishell.Context, s *session) error {
			if s.env.sim == nil {
				return errSimOnly
			}
			s.env.sim.I2C().ClearLogs()
			return nil
		}),
	},
}

var errSimOnly = errors.New("only available on the simulated bus")

// withArgs wraps a command that needs at least n arguments and reports its
// error through the shell.
func withArgs(n int, fn func(c *ishell.Context, s *session) error) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if len(c.Args) < n {
			c.Err(fmt.Errorf("%s needs at least %d argument(s)", c.Cmd.Name, n))
			return
		}
		if err := fn(c, sessionFrom(c)); err != nil {
			c.Err(err)
		}
	}
}

func parseAddr(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil || v > 0x3FF {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(v), nil
}

func parseBehavior(args []string) (halsim.Behavior, error) {
	arg := func() (int, error) {
		if len(args) < 2 {
			return 0, fmt.Errorf("%s needs a count", args[0])
		}
		return strconv.Atoi(args[1])
	}
	switch args[0] {
	case "ready":
		return halsim.AlwaysReady, nil
	case "nack-addr":
		return halsim.AddressNACK, nil
	case "nack-data":
		n, err := arg()
		if err != nil {
			return halsim.Behavior{}, err
		}
		return halsim.DataNACKAfter(n), nil
	case "never":
		return halsim.NeverReady, nil
	case "latency":
		n, err := arg()
		if err != nil {
			return halsim.Behavior{}, err
		}
		return halsim.Behavior{Latency: n}, nil
	default:
		return halsim.Behavior{}, fmt.Errorf("unknown behavior %q", args[0])
	}
}

func runShell(e *env, args []string) error {
	bus, err := e.openBus()
	if err != nil {
		return err
	}
	defer bus.Close()
	port, err := e.openPort()
	if err != nil {
		return err
	}
	defer port.Close()
	conn, err := port.Connect(e.board.UART.Config.Baud, uart.One, uart.NoParity, uart.NoFlow, 8)
	if err != nil {
		return err
	}
	w, ok := conn.(io.Writer)
	if !ok {
		return fmt.Errorf("%s is not writable", port)
	}

	sh := ishell.New()
	sh.Set(envKey, &session{env: e, bus: bus, port: w})
	sh.SetPrompt(bus.String() + " > ")
	for _, cmd := range shellCmds {
		sh.AddCmd(cmd)
	}
	if len(args) != 0 {
		return sh.Process(args...)
	}
	sh.Run()
	return nil
}
