// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal_test

import (
	"errors"
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/halsim"
	"github.com/GermanBionicSystems/hal/uarthal"
)

func newDriver(t *testing.T) (*uarthal.Dev, *halsim.UART) {
	t.Helper()
	sim := halsim.NewUART()
	d := uarthal.New(sim, nil, uarthal.DefaultClock)
	if err := d.Init(uarthal.DefaultConfig); err != nil {
		t.Fatal(err)
	}
	return d, sim
}

func TestInit(t *testing.T) {
	d, sim := newDriver(t)
	if got, want := sim.Load(uarthal.RegCtrl), uarthal.CtrlEnable|uarthal.CtrlClkEn; got != want {
		t.Fatalf("ctrl: wanted: %#x, got: %#x", want, got)
	}
	if got := sim.Load(uarthal.RegBaud); got != 26 {
		t.Fatalf("baud: wanted: 26, got: %d", got)
	}
	if got := d.Config(); got != uarthal.DefaultConfig {
		t.Fatalf("wanted: %#v, got: %#v", uarthal.DefaultConfig, got)
	}

	cfg := uarthal.Config{Baud: 9600 * physic.Hertz, Parity: uart.Even, Stop: uart.Two, Timeout: 10}
	if err := d.Init(cfg); err != nil {
		t.Fatal(err)
	}
	if got, want := sim.Load(uarthal.RegCtrl), uarthal.CtrlEnable|uarthal.CtrlClkEn|uarthal.CtrlParityEven|uarthal.CtrlStop2; got != want {
		t.Fatalf("ctrl: wanted: %#x, got: %#x", want, got)
	}
	if got := sim.Load(uarthal.RegBaud); got != 313 {
		t.Fatalf("baud: wanted: 313, got: %d", got)
	}

	// The controller is disabled while reconfigured.
	var sawDisabled bool
	for _, w := range sim.Writes() {
		if w.Off == uarthal.RegCtrl && w.Value&uarthal.CtrlEnable == 0 {
			sawDisabled = true
		}
	}
	if !sawDisabled {
		t.Fatal("controller never disabled")
	}

	if err := d.Init(uarthal.Config{Baud: 9600 * physic.Hertz, Parity: uart.Mark, Stop: uart.One, Timeout: 10}); !errors.Is(err, uarthal.ErrUnsupportedParity) {
		t.Fatalf("wanted: %v, got: %v", uarthal.ErrUnsupportedParity, err)
	}
	if err := d.WriteChar('a'); !errors.Is(err, uarthal.ErrNotInitialized) {
		t.Fatalf("wanted: %v, got: %v", uarthal.ErrNotInitialized, err)
	}
	if d.Init(uarthal.Config{Baud: 9600 * physic.Hertz, Parity: uart.NoParity, Stop: uart.One}) == nil {
		t.Fatal("zero timeout accepted")
	}
}

func TestWriteString(t *testing.T) {
	d, sim := newDriver(t)
	if err := d.WriteString("Hello\r\n"); err != nil {
		t.Fatal(err)
	}
	if err := d.WriteChar('!'); err != nil {
		t.Fatal(err)
	}
	if got := string(sim.Sent()); got != "Hello\r\n!" {
		t.Fatalf("got: %q", got)
	}
}

func TestWriteHex(t *testing.T) {
	for _, test := range []struct {
		v    uint32
		want string
	}{
		{0, "00000000"},
		{0x1A, "0000001A"},
		{0xDEADBEEF, "DEADBEEF"},
		{math.MaxUint32, "FFFFFFFF"},
	} {
		d, sim := newDriver(t)
		if err := d.WriteHex(test.v); err != nil {
			t.Fatal(err)
		}
		if got := string(sim.Sent()); got != test.want {
			t.Errorf("%#x: wanted: %q, got: %q", test.v, test.want, got)
		}
	}
}

func TestWriteDec(t *testing.T) {
	for _, test := range []struct {
		v    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-42, "-42"},
		{2147483647, "2147483647"},
		{-2147483648, "-2147483648"},
	} {
		d, sim := newDriver(t)
		if err := d.WriteDec(test.v); err != nil {
			t.Fatal(err)
		}
		if got := string(sim.Sent()); got != test.want {
			t.Errorf("%d: wanted: %q, got: %q", test.v, test.want, got)
		}
	}
}

func TestTimeout(t *testing.T) {
	sim := halsim.NewUART()
	d := uarthal.New(sim, nil, uarthal.DefaultClock)
	cfg := uarthal.DefaultConfig
	cfg.Timeout = 25
	if err := d.Init(cfg); err != nil {
		t.Fatal(err)
	}

	sim.SetTxReady(false)
	if err := d.WriteString("abc"); !errors.Is(err, uarthal.ErrTimeout) {
		t.Fatalf("wanted: %v, got: %v", uarthal.ErrTimeout, err)
	}
	if n := sim.StatusReads(); n != 25 {
		t.Fatalf("status reads: wanted: 25, got: %d", n)
	}
	if s := sim.Sent(); len(s) != 0 {
		t.Fatalf("unexpected bytes sent: %q", s)
	}

	if _, err := d.ReadChar(); !errors.Is(err, uarthal.ErrTimeout) {
		t.Fatalf("wanted: %v, got: %v", uarthal.ErrTimeout, err)
	}
	if n := sim.StatusReads(); n != 50 {
		t.Fatalf("status reads: wanted: 50, got: %d", n)
	}

	sim.Inject('q')
	c, err := d.ReadChar()
	if err != nil {
		t.Fatal(err)
	}
	if c != 'q' {
		t.Fatalf("wanted: 'q', got: %q", c)
	}
}

func TestTxLatency(t *testing.T) {
	d, sim := newDriver(t)
	sim.TxLatency = 3
	if err := d.WriteString("ab"); err != nil {
		t.Fatal(err)
	}
	// The second character waited for the first to shift out.
	if n := sim.StatusReads(); n != 1+4 {
		t.Fatalf("status reads: wanted: 5, got: %d", n)
	}
	if got := string(sim.Sent()); got != "ab" {
		t.Fatalf("got: %q", got)
	}
}
