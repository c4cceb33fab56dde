//
// SPDX-FileCopyrightText: Copyright (c) 2026 tileforge.io. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
//

// Package catalog holds the fixed tables of Windows app package asset sizes
// and the margin policy applied to each named output.
package catalog

import (
	"fmt"
	"strings"

	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// Size is a target canvas dimension in pixels.
type Size struct {
	Width  int
	Height int
}

// Margins shrink aspect-fitted content inside its canvas. 1.0 fills the full
// dimension after scaling; smaller values produce the padded plate look.
type Margins struct {
	X float64
	Y float64
}

// Entry pairs an output file name with its target size.
type Entry struct {
	Key  string
	Size Size
}

// SplashPrefix selects the splash table during resolution.
const SplashPrefix = "SplashScreen"

func sq(n int) Size { return Size{Width: n, Height: n} }

// tileEntries lists every tile asset in catalog order. Keys double as output
// file names and must stay byte-exact: app manifests reference them literally.
var tileEntries = []Entry{
	{"Square71x71Logo.scale-100.png", sq(71)},
	{"Square71x71Logo.scale-125.png", sq(89)},
	{"Square71x71Logo.scale-150.png", sq(107)},
	{"Square71x71Logo.scale-200.png", sq(142)},
	{"Square71x71Logo.scale-400.png", sq(284)},

	{"Square150x150Logo.scale-100.png", sq(150)},
	{"Square150x150Logo.scale-125.png", sq(188)},
	{"Square150x150Logo.scale-150.png", sq(225)},
	{"Square150x150Logo.scale-200.png", sq(300)},
	{"Square150x150Logo.scale-400.png", sq(600)},

	{"Wide310x150Logo.scale-100.png", Size{310, 150}},
	{"Wide310x150Logo.scale-125.png", Size{388, 188}},
	{"Wide310x150Logo.scale-150.png", Size{465, 225}},
	{"Wide310x150Logo.scale-200.png", Size{620, 300}},
	{"Wide310x150Logo.scale-400.png", Size{1240, 600}},

	{"Square310x310Logo.scale-100.png", sq(310)},
	{"Square310x310Logo.scale-125.png", sq(388)},
	{"Square310x310Logo.scale-150.png", sq(465)},
	{"Square310x310Logo.scale-200.png", sq(620)},
	{"Square310x310Logo.scale-400.png", sq(1240)},

	{"Square44x44Logo.scale-100.png", sq(44)},
	{"Square44x44Logo.scale-125.png", sq(55)},
	{"Square44x44Logo.scale-150.png", sq(66)},
	{"Square44x44Logo.scale-200.png", sq(88)},
	{"Square44x44Logo.scale-400.png", sq(176)},

	{"Square44x44Logo.targetsize-16.png", sq(16)},
	{"Square44x44Logo.targetsize-24.png", sq(24)},
	{"Square44x44Logo.targetsize-32.png", sq(32)},
	{"Square44x44Logo.targetsize-48.png", sq(48)},
	{"Square44x44Logo.targetsize-256.png", sq(256)},

	{"Square44x44Logo.targetsize-16_altform-unplated.png", sq(16)},
	{"Square44x44Logo.targetsize-24_altform-unplated.png", sq(24)},
	{"Square44x44Logo.targetsize-32_altform-unplated.png", sq(32)},
	{"Square44x44Logo.targetsize-48_altform-unplated.png", sq(48)},
	{"Square44x44Logo.targetsize-256_altform-unplated.png", sq(256)},

	{"NewStoreLogo.scale-100.png", sq(50)},
	{"NewStoreLogo.scale-125.png", sq(63)},
	{"NewStoreLogo.scale-150.png", sq(75)},
	{"NewStoreLogo.scale-200.png", sq(100)},
	{"NewStoreLogo.scale-400.png", sq(200)},
}

// splashEntries lists the splash screens, largest scale first.
var splashEntries = []Entry{
	{"SplashScreen.scale-400.png", Size{2480, 1200}},
	{"SplashScreen.scale-200.png", Size{1240, 600}},
	{"SplashScreen.scale-150.png", Size{930, 450}},
	{"SplashScreen.scale-125.png", Size{775, 375}},
	{"SplashScreen.scale-100.png", Size{620, 300}},
}

var (
	tileIndex   map[string]Size
	splashIndex map[string]Size
)

func init() {
	tileIndex = make(map[string]Size, len(tileEntries))
	for _, e := range tileEntries {
		tileIndex[e.Key] = e.Size
	}
	splashIndex = make(map[string]Size, len(splashEntries))
	for _, e := range splashEntries {
		splashIndex[e.Key] = e.Size
	}
}

// marginRule maps a key prefix to its margins. Evaluated in order; the first
// match wins, so longer prefixes must precede any shorter ones they contain.
type marginRule struct {
	prefix  string
	margins Margins
}

var marginRules = []marginRule{
	{"Square44x44Logo", Margins{0.75, 0.75}},
	{"Square71x71Logo", Margins{0.5, 0.5}},
	{"Square150x150Logo", Margins{0.33, 0.33}},
	{"Wide310x150Logo", Margins{0.33, 0.33}},
	{"Square310x310Logo", Margins{0.33, 0.33}},
	{SplashPrefix, Margins{0.33, 0.33}},
}

// MarginsFor resolves the margin policy for an output name by prefix.
// Names matching no rule fill the full canvas.
func MarginsFor(key string) Margins {
	for _, r := range marginRules {
		if strings.HasPrefix(key, r.prefix) {
			return r.margins
		}
	}
	return Margins{1.0, 1.0}
}

// Resolve looks up the target size and margins for an output name. Splash
// names resolve against the splash table, everything else against the tile
// table. An unregistered name is a caller bug, not a recoverable condition.
func Resolve(key string) (Size, Margins, error) {
	index := tileIndex
	if strings.HasPrefix(key, SplashPrefix) {
		index = splashIndex
	}
	size, ok := index[key]
	if !ok {
		return Size{}, Margins{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownSizeKey, key)
	}
	return size, MarginsFor(key), nil
}

// TileKeys returns the tile output names in catalog order.
func TileKeys() []string {
	return keysOf(tileEntries)
}

// SplashKeys returns the splash output names in catalog order.
func SplashKeys() []string {
	return keysOf(splashEntries)
}

// AllKeys returns tile keys followed by splash keys.
func AllKeys() []string {
	all := keysOf(tileEntries)
	return append(all, keysOf(splashEntries)...)
}

// TileEntries returns a copy of the tile table in catalog order.
func TileEntries() []Entry {
	out := make([]Entry, len(tileEntries))
	copy(out, tileEntries)
	return out
}

// SplashEntries returns a copy of the splash table in catalog order.
func SplashEntries() []Entry {
	out := make([]Entry, len(splashEntries))
	copy(out, splashEntries)
	return out
}

func keysOf(entries []Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}
