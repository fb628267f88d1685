// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

// Package theme reads the DrawingML theme part shipped next to XML drawings
// and answers the colour lookups made by shapes that use theme colours.
package theme

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/sassoftware/viya-vsd-xtract/logger"
)

// Colour is an opaque RGB colour.
type Colour struct {
	R, G, B uint8
}

func (c Colour) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// parseColour reads a RRGGBB hex string.
func parseColour(s string) (Colour, bool) {
	if len(s) != 6 {
		return Colour{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Colour{}, false
	}
	return Colour{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// Variation is one entry of the variation colour scheme list.
type Variation [7]*Colour

// ColourScheme holds a:clrScheme. Unset colours are nil.
type ColourScheme struct {
	Dk1        *Colour     `json:"dk1,omitempty"`
	Lt1        *Colour     `json:"lt1,omitempty"`
	Dk2        *Colour     `json:"dk2,omitempty"`
	Lt2        *Colour     `json:"lt2,omitempty"`
	Accent     [6]*Colour  `json:"accent"`
	Hlink      *Colour     `json:"hlink,omitempty"`
	FolHlink   *Colour     `json:"folHlink,omitempty"`
	Bkgnd      *Colour     `json:"bkgnd,omitempty"`
	Variations []Variation `json:"variations,omitempty"`
}

// Font is the major or minor font of a:fontScheme.
type Font struct {
	Latin string `json:"latin,omitempty"`
	EA    string `json:"ea,omitempty"`
	CS    string `json:"cs,omitempty"`
	// TypeFaces maps a script tag (e.g. "Jpan") to its typeface.
	TypeFaces map[string]string `json:"typeFaces,omitempty"`
}

type FontScheme struct {
	Major Font `json:"major"`
	Minor Font `json:"minor"`
}

// Theme is a parsed theme part.
type Theme struct {
	Colours ColourScheme `json:"colours"`
	Fonts   FontScheme   `json:"fonts"`
	// FillStyles has one slot per fill of a:fillStyleLst; only solid fills
	// carry a colour.
	FillStyles []*Colour `json:"fillStyles"`
}

// New returns an empty Theme.
func New() *Theme {
	return &Theme{}
}

// Parse reads a theme document. The document encoding is taken from its XML
// declaration. Parse replaces whatever t held before.
func (t *Theme) Parse(r io.Reader) error {
	*t = Theme{}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var stack []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("theme: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			stack = append(stack, el.Name.Local)
			t.start(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	logger.Debug(fmt.Sprintf("theme: %d variations, %d fill styles", len(t.Colours.Variations), len(t.FillStyles)), true)
	return nil
}

func within(stack []string, name string) bool {
	for _, s := range stack {
		if s == name {
			return true
		}
	}
	return false
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (t *Theme) start(stack []string, el xml.StartElement) {
	name := stack[len(stack)-1]
	parent := ""
	if len(stack) > 1 {
		parent = stack[len(stack)-2]
	}

	switch {
	case within(stack, "clrScheme"):
		if name == "variationClrScheme" {
			t.Colours.Variations = append(t.Colours.Variations, Variation{})
			return
		}
		if c, ok := elementColour(el); ok {
			if slot := t.colourSlot(parent); slot != nil {
				*slot = &c
			}
		}
	case within(stack, "fontScheme"):
		var f *Font
		switch {
		case within(stack, "majorFont"):
			f = &t.Fonts.Major
		case within(stack, "minorFont"):
			f = &t.Fonts.Minor
		default:
			return
		}
		face, ok := attr(el, "typeface")
		if !ok {
			return
		}
		switch name {
		case "latin":
			f.Latin = face
		case "ea":
			f.EA = face
		case "cs":
			f.CS = face
		case "font":
			script, ok := attr(el, "script")
			if !ok || face == "" {
				return
			}
			if f.TypeFaces == nil {
				f.TypeFaces = make(map[string]string)
			}
			f.TypeFaces[script] = face
		}
	case within(stack, "fillStyleLst"):
		if parent == "fillStyleLst" {
			t.FillStyles = append(t.FillStyles, nil)
			if name != "solidFill" {
				logger.Debug("theme: fill style skipped", "fill", name)
			}
			return
		}
		if parent == "solidFill" && len(t.FillStyles) > 0 {
			if c, ok := elementColour(el); ok {
				t.FillStyles[len(t.FillStyles)-1] = &c
			}
		}
	}
}

// colourSlot returns where a colour found under the element named parent
// belongs, or nil.
func (t *Theme) colourSlot(parent string) **Colour {
	cs := &t.Colours
	switch parent {
	case "dk1":
		return &cs.Dk1
	case "lt1":
		return &cs.Lt1
	case "dk2":
		return &cs.Dk2
	case "lt2":
		return &cs.Lt2
	case "hlink":
		return &cs.Hlink
	case "folHlink":
		return &cs.FolHlink
	case "bkgnd":
		return &cs.Bkgnd
	}
	if n, ok := indexSuffix(parent, "accent", 6); ok {
		return &cs.Accent[n]
	}
	if n, ok := indexSuffix(parent, "varColor", 7); ok && len(cs.Variations) > 0 {
		return &cs.Variations[len(cs.Variations)-1][n]
	}
	return nil
}

// indexSuffix turns "accent3" into 2 for prefix "accent".
func indexSuffix(name, prefix string, max int) (int, bool) {
	if !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(name[len(prefix):])
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n - 1, true
}

func elementColour(el xml.StartElement) (Colour, bool) {
	var key string
	switch el.Name.Local {
	case "srgbClr":
		key = "val"
	case "sysClr":
		key = "lastClr"
	default:
		return Colour{}, false
	}
	v, ok := attr(el, key)
	if !ok {
		return Colour{}, false
	}
	c, ok := parseColour(v)
	if !ok {
		logger.Debug("theme: unreadable colour ignored", "element", el.Name.Local, "value", v)
	}
	return c, ok
}

// ThemeColour resolves a theme colour index. Values 0 to 8 address the main
// scheme; 100 to 106 and 200 to 206 address the colours of variation
// variationIndex, which falls back to the first variation when out of range.
func (t *Theme) ThemeColour(value, variationIndex uint) (Colour, bool) {
	cs := &t.Colours
	var c *Colour
	switch {
	case value <= 8:
		switch value {
		case 0:
			c = cs.Dk1
		case 1:
			c = cs.Lt1
		case 8:
			c = cs.Bkgnd
		default:
			c = cs.Accent[value-2]
		}
	case len(cs.Variations) > 0:
		if variationIndex >= uint(len(cs.Variations)) {
			variationIndex = 0
		}
		v := cs.Variations[variationIndex]
		switch {
		case value >= 100 && value <= 106:
			c = v[value-100]
		case value >= 200 && value <= 206:
			c = v[value-200]
		}
	}
	if c == nil {
		return Colour{}, false
	}
	return *c, true
}

// FillStyleColour returns the colour of the 1-based fill style value.
func (t *Theme) FillStyleColour(value uint) (Colour, bool) {
	if value == 0 || value > uint(len(t.FillStyles)) {
		return Colour{}, false
	}
	c := t.FillStyles[value-1]
	if c == nil {
		return Colour{}, false
	}
	return *c, true
}
