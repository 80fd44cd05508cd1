// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package uarthal_test

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"

	"github.com/GermanBionicSystems/hal/halsim"
	"github.com/GermanBionicSystems/hal/uarthal"
)

type testPins struct {
	rx, tx *gpiotest.Pin
}

func (p *testPins) RX() gpio.PinIn   { return p.rx }
func (p *testPins) TX() gpio.PinOut  { return p.tx }
func (p *testPins) RTS() gpio.PinOut { return gpio.INVALID }
func (p *testPins) CTS() gpio.PinIn  { return gpio.INVALID }

func TestTxReady(t *testing.T) {
	sim := halsim.NewUART()
	d := uarthal.New(sim, nil, uarthal.DefaultClock)
	sim.SetTxReady(false)
	d.EnableClock()
	d.Enable()
	if d.IsTxReady() {
		t.Fatal("TX ready while the simulator says busy")
	}
	sim.SetTxReady(true)
	if !d.IsTxReady() {
		t.Fatal("TX not ready")
	}
	if d.IsRxReady() {
		t.Fatal("RX ready with nothing received")
	}
	sim.Inject(0x42)
	if !d.IsRxReady() {
		t.Fatal("RX not ready after a byte arrived")
	}
	if b := d.ReadByte(); b != 0x42 {
		t.Fatalf("wanted: 0x42, got: %#x", b)
	}
	if d.IsRxReady() {
		t.Fatal("RX still ready after the read")
	}
	// Stale data is returned again.
	if b := d.ReadByte(); b != 0x42 {
		t.Fatalf("wanted: 0x42, got: %#x", b)
	}
}

func TestEnableIdempotent(t *testing.T) {
	sim := halsim.NewUART()
	d := uarthal.New(sim, nil, uarthal.DefaultClock)
	d.EnableClock()
	d.Enable()
	d.Enable()
	d.EnableClock()
	if got, want := sim.Load(uarthal.RegCtrl), uarthal.CtrlEnable|uarthal.CtrlClkEn; got != want {
		t.Fatalf("wanted: %#x, got: %#x", want, got)
	}
}

func TestSetParity(t *testing.T) {
	const parityBits = uarthal.CtrlParityEven | uarthal.CtrlParityOdd
	for _, test := range []struct {
		parity uart.Parity
		want   uint32
	}{
		{uart.Even, uarthal.CtrlParityEven},
		{uart.Odd, uarthal.CtrlParityOdd},
		{uart.NoParity, 0},
	} {
		t.Run(string(rune(test.parity)), func(t *testing.T) {
			sim := halsim.NewUART()
			d := uarthal.New(sim, nil, uarthal.DefaultClock)
			d.EnableClock()
			d.Enable()
			if err := d.SetStopBits(uart.Two); err != nil {
				t.Fatal(err)
			}
			// Start from the opposite parity to check the switch clears it.
			for _, p := range []uart.Parity{uart.Odd, uart.Even, test.parity} {
				if err := d.SetParity(p); err != nil {
					t.Fatal(err)
				}
			}
			ctrl := sim.Load(uarthal.RegCtrl)
			if got := ctrl & parityBits; got != test.want {
				t.Errorf("parity bits: wanted: %#x, got: %#x", test.want, got)
			}
			// Unrelated bits survive.
			if got, want := ctrl&^parityBits, uarthal.CtrlEnable|uarthal.CtrlClkEn|uarthal.CtrlStop2; got != want {
				t.Errorf("other bits: wanted: %#x, got: %#x", want, got)
			}
		})
	}
}

func TestSetParityUnsupported(t *testing.T) {
	sim := halsim.NewUART()
	d := uarthal.New(sim, nil, uarthal.DefaultClock)
	if err := d.SetParity(uart.Even); err != nil {
		t.Fatal(err)
	}
	for _, p := range []uart.Parity{uart.Mark, uart.Space, 'X'} {
		if err := d.SetParity(p); !errors.Is(err, uarthal.ErrUnsupportedParity) {
			t.Errorf("%c: wanted: %v, got: %v", p, uarthal.ErrUnsupportedParity, err)
		}
	}
	if got := sim.Load(uarthal.RegCtrl); got != uarthal.CtrlParityEven {
		t.Errorf("wanted: %#x, got: %#x", uarthal.CtrlParityEven, got)
	}
}

func TestSetStopBits(t *testing.T) {
	sim := halsim.NewUART()
	d := uarthal.New(sim, nil, uarthal.DefaultClock)
	d.Enable()
	if err := d.SetStopBits(uart.Two); err != nil {
		t.Fatal(err)
	}
	if got, want := sim.Load(uarthal.RegCtrl), uarthal.CtrlEnable|uarthal.CtrlStop2; got != want {
		t.Errorf("wanted: %#x, got: %#x", want, got)
	}
	if err := d.SetStopBits(uart.One); err != nil {
		t.Fatal(err)
	}
	if got := sim.Load(uarthal.RegCtrl); got != uarthal.CtrlEnable {
		t.Errorf("wanted: %#x, got: %#x", uarthal.CtrlEnable, got)
	}
	if err := d.SetStopBits(uart.OneHalf); !errors.Is(err, uarthal.ErrUnsupportedStopBits) {
		t.Errorf("wanted: %v, got: %v", uarthal.ErrUnsupportedStopBits, err)
	}
}

func TestSetBaudrate(t *testing.T) {
	for _, test := range []struct {
		baud physic.Frequency
		div  uint32
	}{
		{9600 * physic.Hertz, 313},
		{115200 * physic.Hertz, 26},
		{1 * physic.MegaHertz, 3},
		{3 * physic.MegaHertz, 1},
	} {
		sim := halsim.NewUART()
		d := uarthal.New(sim, nil, uarthal.DefaultClock)
		if err := d.SetBaudrate(test.baud); err != nil {
			t.Errorf("%s: %v", test.baud, err)
			continue
		}
		if got := sim.Load(uarthal.RegBaud); got != test.div {
			t.Errorf("%s: wanted: %d, got: %d", test.baud, test.div, got)
		}
	}
	for _, baud := range []physic.Frequency{0, 4 * physic.MegaHertz, 10 * physic.Hertz, 2 * physic.MegaHertz} {
		sim := halsim.NewUART()
		d := uarthal.New(sim, nil, uarthal.DefaultClock)
		if err := d.SetBaudrate(baud); !errors.Is(err, uarthal.ErrUnsupportedBaud) {
			t.Errorf("%s: wanted: %v, got: %v", baud, uarthal.ErrUnsupportedBaud, err)
		}
		if w := sim.Writes(); len(w) != 0 {
			t.Errorf("%s: unexpected writes %v", baud, w)
		}
	}
}

func TestConfigurePins(t *testing.T) {
	p := &testPins{
		rx: &gpiotest.Pin{N: "RX", Num: 10},
		tx: &gpiotest.Pin{N: "TX", Num: 9},
	}
	d := uarthal.New(halsim.NewUART(), p, uarthal.DefaultClock)
	if err := d.ConfigurePins(); err != nil {
		t.Fatal(err)
	}
	if p.rx.P != gpio.PullUp {
		t.Errorf("RX: wanted: %s, got: %s", gpio.PullUp, p.rx.P)
	}
	if p.tx.L != gpio.High {
		t.Errorf("TX: wanted: %s, got: %s", gpio.High, p.tx.L)
	}
	if err := uarthal.New(halsim.NewUART(), nil, uarthal.DefaultClock).ConfigurePins(); err != nil {
		t.Fatal(err)
	}
}
