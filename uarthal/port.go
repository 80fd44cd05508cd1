// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
)

// Port exposes a Dev as a periph UART port.
type Port struct {
	mu    sync.Mutex
	name  string
	d     *Dev
	limit physic.Frequency
	conn  *portConn
}

// NewPort returns a port named name driving d.
func NewPort(name string, d *Dev) *Port {
	return &Port{name: name, d: d}
}

func (p *Port) String() string {
	if p.name == "" {
		return p.d.String()
	}
	return p.name
}

// Close implements io.Closer. It disables the controller.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.d.Disable()
	p.d.ready = false
	p.conn = nil
	return nil
}

// LimitSpeed implements uart.PortCloser.
func (p *Port) LimitSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("%w: invalid speed limit %s", ErrUnsupportedBaud, f)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limit = f
	return nil
}

// Connect implements uart.Port.
//
// Only 8 data bits without flow control are supported.
func (p *Port) Connect(f physic.Frequency, stopBit uart.Stop, parity uart.Parity, flow uart.Flow, bits int) (conn.Conn, error) {
	if bits != 8 || flow != uart.NoFlow {
		return nil, fmt.Errorf("%w: %d bits, flow %s", ErrUnsupportedFormat, bits, flow)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return nil, fmt.Errorf("uarthal: %s already connected", p)
	}
	if p.limit != 0 && f > p.limit {
		f = p.limit
	}
	cfg := p.d.Config()
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Baud = f
	cfg.Stop = stopBit
	cfg.Parity = parity
	if err := p.d.Init(cfg); err != nil {
		return nil, err
	}
	p.conn = &portConn{p: p}
	return p.conn, nil
}

// RX implements uart.Pins.
func (p *Port) RX() gpio.PinIn {
	if p.d.pins == nil {
		return gpio.INVALID
	}
	return p.d.pins.RX()
}

// TX implements uart.Pins.
func (p *Port) TX() gpio.PinOut {
	if p.d.pins == nil {
		return gpio.INVALID
	}
	return p.d.pins.TX()
}

// RTS implements uart.Pins. The controller has no flow control lines.
func (p *Port) RTS() gpio.PinOut {
	return gpio.INVALID
}

// CTS implements uart.Pins. The controller has no flow control lines.
func (p *Port) CTS() gpio.PinIn {
	return gpio.INVALID
}

// portConn is the connection returned by Port.Connect.
type portConn struct {
	p *Port
}

func (c *portConn) String() string {
	return c.p.String()
}

// Tx sends w then receives len(r) bytes.
func (c *portConn) Tx(w, r []byte) error {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	if err := c.p.d.write(w); err != nil {
		return err
	}
	for i := range r {
		b, err := c.p.d.ReadChar()
		if err != nil {
			return err
		}
		r[i] = b
	}
	return nil
}

func (c *portConn) Duplex() conn.Duplex {
	return conn.Full
}

// Write implements io.Writer.
func (c *portConn) Write(b []byte) (int, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	for i, ch := range b {
		if err := c.p.d.WriteChar(ch); err != nil {
			return i, err
		}
	}
	return len(b), nil
}

// Read implements io.Reader.
//
// It waits for the first byte, then returns what is already received
// without waiting further.
func (c *portConn) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	ch, err := c.p.d.ReadChar()
	if err != nil {
		return 0, err
	}
	b[0] = ch
	n := 1
	for n < len(b) && c.p.d.IsRxReady() {
		b[n] = c.p.d.ReadByte()
		n++
	}
	return n, nil
}

var _ uart.PortCloser = &Port{}
var _ uart.Pins = &Port{}
var _ conn.Conn = &portConn{}
var _ io.ReadWriter = &portConn{}
