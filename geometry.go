// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package xtract

// XForm is the position, size, rotation and flip state of the current shape.
// All lengths are in document units (inches).
type XForm struct {
	PinX    float64
	PinY    float64
	Width   float64
	Height  float64
	PinLocX float64
	PinLocY float64
	Angle   float64
	FlipX   bool
	FlipY   bool
}

// xformFieldsSize is seven (pad byte + f64) pairs followed by two flip bytes.
const xformFieldsSize = 7*(1+8) + 2

func readXForm(c *Cursor) (XForm, error) {
	var xf XForm
	for _, dst := range []*float64{&xf.PinX, &xf.PinY, &xf.Width, &xf.Height, &xf.PinLocX, &xf.PinLocY, &xf.Angle} {
		if err := c.Skip(1); err != nil {
			return xf, err
		}
		v, err := c.ReadF64()
		if err != nil {
			return xf, err
		}
		*dst = v
	}
	fx, err := c.ReadU8()
	if err != nil {
		return xf, err
	}
	fy, err := c.ReadU8()
	if err != nil {
		return xf, err
	}
	xf.FlipX, xf.FlipY = fx != 0, fy != 0
	return xf, nil
}

// PageState tracks the page currently open in a page stream.
type PageState struct {
	Started bool
	Width   float64 // document units, unscaled
	Height  float64
}

// pagePropsFieldsSize is pad(1) + width(8) + pad(1) + height(8).
const pagePropsFieldsSize = 1 + 8 + 1 + 8

func readPageSize(c *Cursor) (width, height float64, err error) {
	// The pad bytes carry the display unit, which is always inches here.
	if err = c.Skip(1); err != nil {
		return
	}
	if width, err = c.ReadF64(); err != nil {
		return
	}
	if err = c.Skip(1); err != nil {
		return
	}
	height, err = c.ReadF64()
	return
}

// Placement is an output-space rectangle. Y grows upwards from the bottom of
// the page.
type Placement struct {
	X, Y, Width, Height float64
}

// Place maps xf onto a page of the given height, scaling every length by scale.
func Place(xf XForm, pageHeight, scale float64) Placement {
	return Placement{
		X:      scale * (xf.PinX - xf.PinLocX),
		Y:      scale * (pageHeight - xf.PinY + xf.PinLocY - xf.Height),
		Width:  scale * xf.Width,
		Height: scale * xf.Height,
	}
}
