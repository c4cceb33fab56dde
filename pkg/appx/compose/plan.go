//
// SPDX-FileCopyrightText: Copyright (c) 2026 tileforge.io. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
//

// Package compose computes resize plans and renders icon sources onto
// target-sized canvases.
package compose

import (
	"fmt"
	"math"

	"github.com/tileforge-io/tileforge/pkg/appx/catalog"
	apperrors "github.com/tileforge-io/tileforge/pkg/appx/errors"
)

// Plan places scaled source content inside a target canvas: the content
// dimensions after fit-inside scaling and margin shrink, plus the centering
// offset from the canvas origin.
type Plan struct {
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// NewPlan computes the aspect-preserving fit of a srcW x srcH source into
// target, shrunk by margins and centered. The scale factor is the minimum of
// the width and height fit ratios, so content never exceeds the box in either
// axis. Dimensions floor; odd centering slack lands on the bottom-right edge,
// rooting content toward the top-left.
func NewPlan(srcW, srcH int, target catalog.Size, margins catalog.Margins) (Plan, error) {
	if srcW <= 0 || srcH <= 0 {
		return Plan{}, fmt.Errorf("%w: %dx%d", apperrors.ErrInvalidSourceDimensions, srcW, srcH)
	}

	scaleW := float64(target.Width) / float64(srcW)
	scaleH := float64(target.Height) / float64(srcH)
	scale := math.Min(scaleW, scaleH)

	width := int(float64(srcW) * scale * margins.X)
	height := int(float64(srcH) * scale * margins.Y)

	return Plan{
		Width:   width,
		Height:  height,
		OffsetX: (target.Width - width) / 2,
		OffsetY: (target.Height - height) / 2,
	}, nil
}
