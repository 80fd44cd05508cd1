// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmp102

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/mmr"
	"periph.io/x/conn/v3/physic"
)

// ConversionRate is the number of conversions per second.
type ConversionRate byte

// Conversion rates. The device powers up at RateFourHertz.
const (
	RateQuarterHertz ConversionRate = iota
	RateOneHertz
	RateFourHertz
	RateEightHertz
)

// AlertMode selects how the ALERT output follows the limits.
type AlertMode byte

const (
	// ModeComparator keeps ALERT active while the temperature is above the
	// high limit, until it falls under the low limit.
	ModeComparator AlertMode = 0
	// ModeInterrupt pulses ALERT on every crossing; reading any register
	// clears it.
	ModeInterrupt AlertMode = 1
)

// Register pointers.
const (
	regTemperature byte = 0
	regConfig      byte = 1
	regLow         byte = 2
	regHigh        byte = 3
)

// Configuration register bits.
const (
	cfgShutdown uint16 = 1 << 8
	cfgTM       uint16 = 1 << 9
	cfgRateMask uint16 = 3 << 6
	cfgRateShift       = 6
)

const (
	// Resolution is the temperature of one count.
	Resolution physic.Temperature = 62500 * physic.MicroKelvin

	// MinimumTemperature is the lowest temperature the device measures.
	MinimumTemperature = physic.ZeroCelsius - 40*physic.Kelvin
	// MaximumTemperature is the highest temperature the device measures.
	MaximumTemperature = physic.ZeroCelsius + 125*physic.Kelvin
)

// Opts holds the configuration written by NewI2C.
//
// AlertLow and AlertHigh are left untouched on the device when zero.
type Opts struct {
	SampleRate ConversionRate
	AlertMode  AlertMode
	AlertLow   physic.Temperature
	AlertHigh  physic.Temperature
}

// DefaultOpts is the power-on configuration of the device.
var DefaultOpts = Opts{SampleRate: RateFourHertz, AlertMode: ModeComparator}

// Dev is a handle to a TMP102.
type Dev struct {
	mu   sync.Mutex
	c    mmr.Dev8
	opts Opts
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewI2C returns a handle to the sensor at addr on b and writes opts to it.
//
// opts may be nil to use DefaultOpts.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		c:    mmr.Dev8{Conn: &i2c.Dev{Bus: b, Addr: addr}, Order: binary.BigEndian},
		opts: *opts,
	}
	if err := d.configure(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("tmp102{%s}", d.c.Conn)
}

// Sense reads the temperature. Implements physic.SenseEnv.
//
// Pressure and humidity are not touched.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.c.ReadUint16(regTemperature)
	if err != nil {
		return fmt.Errorf("tmp102: %w", err)
	}
	e.Temperature = toTemperature(v)
	return nil
}

// SenseContinuous reads the temperature every interval until Halt is called.
// Implements physic.SenseEnv.
//
// Failed reads are skipped.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < 125*time.Millisecond {
		return nil, errors.New("tmp102: interval must be at least 125ms")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil, errors.New("tmp102: already sensing continuously")
	}
	d.stop = make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go d.loop(interval, ch, d.stop)
	return ch, nil
}

func (d *Dev) loop(interval time.Duration, ch chan<- physic.Env, stop <-chan struct{}) {
	defer d.wg.Done()
	defer close(ch)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			var e physic.Env
			if err := d.Sense(&e); err != nil {
				continue
			}
			select {
			case ch <- e:
			case <-stop:
				return
			}
		}
	}
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = Resolution
	e.Pressure = 0
	e.Humidity = 0
}

// Halt stops continuous sensing and puts the device in shutdown mode.
// Implements conn.Resource.
//
// The next NewI2C wakes it up.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.update(cfgShutdown, cfgShutdown)
}

// AlertMode returns the alert mode and limits programmed in the device.
func (d *Dev) AlertMode() (mode AlertMode, low, high physic.Temperature, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg, err := d.c.ReadUint16(regConfig)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("tmp102: %w", err)
	}
	l, err := d.c.ReadUint16(regLow)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("tmp102: %w", err)
	}
	h, err := d.c.ReadUint16(regHigh)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("tmp102: %w", err)
	}
	if cfg&cfgTM != 0 {
		mode = ModeInterrupt
	}
	return mode, toTemperature(l), toTemperature(h), nil
}

// SetAlertMode programs the limits and the alert mode.
func (d *Dev) SetAlertMode(mode AlertMode, low, high physic.Temperature) error {
	if low >= high {
		return fmt.Errorf("tmp102: low limit %s is not under high limit %s", low, high)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setLimits(low, high); err != nil {
		return err
	}
	if err := d.update(cfgTM, uint16(mode)<<9); err != nil {
		return err
	}
	d.opts.AlertMode = mode
	d.opts.AlertLow = low
	d.opts.AlertHigh = high
	return nil
}

// configure wakes the device up and writes the options.
func (d *Dev) configure() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := uint16(d.opts.SampleRate)<<cfgRateShift | uint16(d.opts.AlertMode)<<9
	if err := d.update(cfgShutdown|cfgTM|cfgRateMask, v); err != nil {
		return err
	}
	if d.opts.AlertLow == 0 && d.opts.AlertHigh == 0 {
		return nil
	}
	return d.setLimits(d.opts.AlertLow, d.opts.AlertHigh)
}

func (d *Dev) setLimits(low, high physic.Temperature) error {
	for _, l := range []struct {
		reg byte
		t   physic.Temperature
	}{{regLow, low}, {regHigh, high}} {
		if l.t == 0 {
			continue
		}
		v, err := fromTemperature(l.t)
		if err != nil {
			return err
		}
		if err := d.c.WriteUint16(l.reg, v); err != nil {
			return fmt.Errorf("tmp102: %w", err)
		}
	}
	return nil
}

// update replaces the configuration bits in mask. The register is written
// only if it changes.
func (d *Dev) update(mask, value uint16) error {
	cur, err := d.c.ReadUint16(regConfig)
	if err != nil {
		return fmt.Errorf("tmp102: %w", err)
	}
	next := cur&^mask | value&mask
	if next == cur {
		return nil
	}
	if err := d.c.WriteUint16(regConfig, next); err != nil {
		return fmt.Errorf("tmp102: %w", err)
	}
	return nil
}

// toTemperature converts a left justified 12 bit two's complement count.
func toTemperature(v uint16) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(int16(v)>>4)*Resolution
}

// fromTemperature is the inverse of toTemperature, truncating toward zero.
func fromTemperature(t physic.Temperature) (uint16, error) {
	if t < MinimumTemperature || t > MaximumTemperature {
		return 0, fmt.Errorf("tmp102: %s out of range", t)
	}
	n := int16((t - physic.ZeroCelsius) / Resolution)
	return uint16(n << 4), nil
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
