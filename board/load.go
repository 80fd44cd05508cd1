// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package board

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/i2chal"
)

// file is the JSON layout. Missing fields keep the value of Default.
//
// Frequencies are strings with a unit, like "48MHz"; base addresses are
// strings so they can be written in hexadecimal.
type file struct {
	Name            string `json:"name"`
	SystemClock     string `json:"system_clock"`
	PeripheralClock string `json:"peripheral_clock"`
	I2C             *struct {
		Base        string `json:"base"`
		SCL         string `json:"scl"`
		SDA         string `json:"sda"`
		Speed       string `json:"speed"`
		AddressMode string `json:"address_mode"`
		Address     *int   `json:"address"`
		Timeout     int    `json:"timeout"`
	} `json:"i2c"`
	UART *struct {
		Base    string `json:"base"`
		TX      string `json:"tx"`
		RX      string `json:"rx"`
		Baud    string `json:"baud"`
		Parity  string `json:"parity"`
		Stop    int    `json:"stop"`
		Timeout int    `json:"timeout"`
	} `json:"uart"`
}

// LoadFile reads the board description in path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("board: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a JSON board description from r.
func Load(r io.Reader) (Config, error) {
	var f file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Config{}, fmt.Errorf("board: %w", err)
	}
	c := Default
	if f.Name != "" {
		c.Name = f.Name
	}
	if err := frequency(&c.SystemClock, f.SystemClock); err != nil {
		return Config{}, fmt.Errorf("board: system_clock: %w", err)
	}
	if err := frequency(&c.PeripheralClock, f.PeripheralClock); err != nil {
		return Config{}, fmt.Errorf("board: peripheral_clock: %w", err)
	}
	if i := f.I2C; i != nil {
		if err := address(&c.I2C.Base, i.Base); err != nil {
			return Config{}, fmt.Errorf("board: i2c.base: %w", err)
		}
		pin(&c.I2C.SCL, i.SCL)
		pin(&c.I2C.SDA, i.SDA)
		if err := frequency(&c.I2C.Config.Speed, i.Speed); err != nil {
			return Config{}, fmt.Errorf("board: i2c.speed: %w", err)
		}
		switch i.AddressMode {
		case "":
		case "7bit":
			c.I2C.Config.AddressMode = i2chal.Addr7Bit
		case "10bit":
			c.I2C.Config.AddressMode = i2chal.Addr10Bit
		default:
			return Config{}, fmt.Errorf("board: i2c.address_mode: unknown mode %q", i.AddressMode)
		}
		if i.Address != nil {
			if *i.Address < 0 || *i.Address > 0x3FF {
				return Config{}, fmt.Errorf("board: i2c.address: %d out of range", *i.Address)
			}
			c.I2C.Config.Address = uint16(*i.Address)
		}
		if i.Timeout != 0 {
			c.I2C.Config.Timeout = i.Timeout
		}
	}
	if u := f.UART; u != nil {
		if err := address(&c.UART.Base, u.Base); err != nil {
			return Config{}, fmt.Errorf("board: uart.base: %w", err)
		}
		pin(&c.UART.TX, u.TX)
		pin(&c.UART.RX, u.RX)
		if err := frequency(&c.UART.Config.Baud, u.Baud); err != nil {
			return Config{}, fmt.Errorf("board: uart.baud: %w", err)
		}
		switch u.Parity {
		case "":
		case "N", "E", "O":
			c.UART.Config.Parity = uart.Parity(u.Parity[0])
		default:
			return Config{}, fmt.Errorf("board: uart.parity: unknown parity %q", u.Parity)
		}
		switch u.Stop {
		case 0:
		case 1:
			c.UART.Config.Stop = uart.One
		case 2:
			c.UART.Config.Stop = uart.Two
		default:
			return Config{}, fmt.Errorf("board: uart.stop: unsupported %d", u.Stop)
		}
		if u.Timeout != 0 {
			c.UART.Config.Timeout = u.Timeout
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func frequency(dst *physic.Frequency, s string) error {
	if s == "" {
		return nil
	}
	return dst.Set(s)
}

func address(dst *uint64, s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func pin(dst *string, s string) {
	if s != "" {
		*dst = s
	}
}
