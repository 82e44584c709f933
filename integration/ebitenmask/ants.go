// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenmask

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/tilemask"
)

// Dash pattern constants, in pixels.
const (
	antDash   = 6.0
	antGap    = 4.0
	antPeriod = antDash + antGap

	// antCycle is how long one full dash-length scroll takes.
	antCycle = 0.5 // seconds
)

// Ants animates marching-ants outlines: a black base line with white
// dashes whose phase scrolls continuously.
type Ants struct {
	tween *gween.Tween
	phase float64
}

// NewAnts creates an animator with the phase at rest.
func NewAnts() *Ants {
	return &Ants{tween: gween.New(0, antPeriod, antCycle, ease.Linear)}
}

// Update advances the dash phase by dt seconds, looping seamlessly.
func (a *Ants) Update(dt float32) {
	value, done := a.tween.Update(dt)
	a.phase = float64(value)
	if done {
		a.tween = gween.New(0, antPeriod, antCycle, ease.Linear)
	}
}

// Phase returns the current dash offset in pixels.
func (a *Ants) Phase() float64 { return a.phase }

// DrawContours strokes each closed polyline onto dst, shifted by
// (dx, dy), as an animated dashed outline.
func (a *Ants) DrawContours(dst *ebiten.Image, contours []tilemask.Polyline, dx, dy float64) {
	for _, c := range contours {
		if len(c) < 2 {
			continue
		}
		for i := range c {
			p := c[i]
			q := c[(i+1)%len(c)]
			vector.StrokeLine(dst,
				float32(p.X+dx), float32(p.Y+dy),
				float32(q.X+dx), float32(q.Y+dy),
				1, color.Black, false)
		}
		for _, s := range dashSegments(c, antDash, antGap, a.phase) {
			vector.StrokeLine(dst,
				float32(s.x0+dx), float32(s.y0+dy),
				float32(s.x1+dx), float32(s.y1+dy),
				1, color.White, false)
		}
	}
}

type segment struct {
	x0, y0, x1, y1 float64
}

// dashSegments cuts a closed polyline into the "on" pieces of a
// dash/gap pattern shifted by phase. Arclength is accumulated across
// vertices so dashes flow around corners instead of restarting at each
// edge.
func dashSegments(c tilemask.Polyline, dash, gap, phase float64) []segment {
	period := dash + gap
	var out []segment
	s := math.Mod(phase, period)
	if s < 0 {
		s += period
	}

	for i := range c {
		p := c[i]
		q := c[(i+1)%len(c)]
		ex := q.X - p.X
		ey := q.Y - p.Y
		length := math.Hypot(ex, ey)
		if length == 0 {
			continue
		}
		ux, uy := ex/length, ey/length

		pos := 0.0
		for pos < length {
			if s < dash {
				// In the "on" part of the pattern.
				run := math.Min(dash-s, length-pos)
				out = append(out, segment{
					x0: p.X + ux*pos, y0: p.Y + uy*pos,
					x1: p.X + ux*(pos+run), y1: p.Y + uy*(pos+run),
				})
				pos += run
				s += run
			} else {
				run := math.Min(period-s, length-pos)
				pos += run
				s += run
			}
			if s >= period {
				s -= period
			}
		}
	}
	return out
}
