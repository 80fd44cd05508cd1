// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveform

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"github.com/maruel/ansi256"
	"golang.org/x/image/font/basicfont"

	"github.com/GermanBionicSystems/hal/halsim"
)

// Geometry of the diagram, in pixels.
const (
	cellWidth = 48
	margin    = 32
	height    = 96

	sclHigh = 14
	sclLow  = 34
	sdaHigh = 50
	sdaLow  = 70
	labelY  = 88
)

var colors = map[halsim.EventKind]color.NRGBA{
	halsim.Start:   {R: 0x20, G: 0xC0, B: 0x20, A: 0xFF},
	halsim.Restart: {R: 0x20, G: 0xA0, B: 0xA0, A: 0xFF},
	halsim.Address: {R: 0x40, G: 0x60, B: 0xFF, A: 0xFF},
	halsim.Data:    {R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF},
	halsim.Ack:     {R: 0x60, G: 0xE0, B: 0x60, A: 0xFF},
	halsim.Nack:    {R: 0xE0, G: 0x30, B: 0x30, A: 0xFF},
	halsim.Stop:    {R: 0xC0, G: 0x30, B: 0xC0, A: 0xFF},
}

// Color returns the colour used for events of kind k.
func Color(k halsim.EventKind) color.NRGBA {
	if c, ok := colors[k]; ok {
		return c
	}
	return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
}

// Render draws events as a timing diagram.
func Render(events []halsim.Event) image.Image {
	return render(events).Image()
}

// WritePNG renders events and encodes them as PNG into w.
func WritePNG(w io.Writer, events []halsim.Event) error {
	return render(events).EncodePNG(w)
}

func render(events []halsim.Event) *gg.Context {
	w := margin + cellWidth*len(events) + 8
	dc := gg.NewContext(w, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetRGB(0, 0, 0)
	dc.DrawString("SCL", 2, (sclHigh+sclLow)/2+5)
	dc.DrawString("SDA", 2, (sdaHigh+sdaLow)/2+5)

	for i, e := range events {
		x := float64(margin + i*cellWidth)
		c := Color(e.Kind)
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), 0x40)
		dc.DrawRectangle(x, 0, cellWidth, height)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1.5)
		drawSCL(dc, e.Kind, x)
		drawSDA(dc, e, x)
		dc.DrawStringAnchored(label(e), x+cellWidth/2, labelY, 0.5, 0)
	}
	return dc
}

func drawSCL(dc *gg.Context, k halsim.EventKind, x float64) {
	switch k {
	case halsim.Start, halsim.Restart, halsim.Stop:
		line(dc, x, sclHigh, x+cellWidth, sclHigh)
	default:
		// One clock pulse in the middle of the cell.
		q := float64(cellWidth) / 4
		line(dc, x, sclLow, x+q, sclLow)
		line(dc, x+q, sclLow, x+q, sclHigh)
		line(dc, x+q, sclHigh, x+3*q, sclHigh)
		line(dc, x+3*q, sclHigh, x+3*q, sclLow)
		line(dc, x+3*q, sclLow, x+cellWidth, sclLow)
	}
}

func drawSDA(dc *gg.Context, e halsim.Event, x float64) {
	mid := x + cellWidth/2
	switch e.Kind {
	case halsim.Start, halsim.Restart:
		// SDA falls while SCL is high.
		line(dc, x, sdaHigh, mid, sdaHigh)
		line(dc, mid, sdaHigh, mid, sdaLow)
		line(dc, mid, sdaLow, x+cellWidth, sdaLow)
	case halsim.Stop:
		line(dc, x, sdaLow, mid, sdaLow)
		line(dc, mid, sdaLow, mid, sdaHigh)
		line(dc, mid, sdaHigh, x+cellWidth, sdaHigh)
	case halsim.Ack:
		line(dc, x, sdaLow, x+cellWidth, sdaLow)
	case halsim.Nack:
		line(dc, x, sdaHigh, x+cellWidth, sdaHigh)
	default:
		// A byte on the bus: both levels, crossing at the edges.
		const s = 4
		line(dc, x, sdaHigh, x+s, sdaLow)
		line(dc, x, sdaLow, x+s, sdaHigh)
		line(dc, x+s, sdaHigh, x+cellWidth-s, sdaHigh)
		line(dc, x+s, sdaLow, x+cellWidth-s, sdaLow)
		line(dc, x+cellWidth-s, sdaHigh, x+cellWidth, sdaLow)
		line(dc, x+cellWidth-s, sdaLow, x+cellWidth, sdaHigh)
		dc.DrawStringAnchored(value(e), mid, (sdaHigh+sdaLow)/2, 0.5, 0.35)
	}
}

func line(dc *gg.Context, x1, y1, x2, y2 float64) {
	dc.DrawLine(x1, y1, x2, y2)
	dc.Stroke()
}

func label(e halsim.Event) string {
	switch e.Kind {
	case halsim.Address:
		if e.Read {
			return "A+R"
		}
		return "A+W"
	case halsim.Data:
		return "D"
	default:
		return e.Kind.String()
	}
}

func value(e halsim.Event) string {
	if e.Kind == halsim.Address {
		return fmt.Sprintf("%02X", e.Addr)
	}
	return fmt.Sprintf("%02X", e.Data)
}

// Print writes events as a coloured strip followed by a new line.
//
// p may be nil to use ansi256.Default. w should handle ANSI escape codes, for
// example a go-colorable writer.
func Print(w io.Writer, events []halsim.Event, p *ansi256.Palette) error {
	if p == nil {
		p = ansi256.Default
	}
	var buf bytes.Buffer
	for _, e := range events {
		_, _ = buf.WriteString(p.Block(Color(e.Kind)))
		_, _ = buf.WriteString("\033[0m")
		_, _ = buf.WriteString(e.String())
		_ = buf.WriteByte(' ')
	}
	_, _ = buf.WriteString("\033[0m\n")
	_, err := buf.WriteTo(w)
	return err
}
