package frame

import (
	"fmt"
	"strings"
)

// Axis identifies one independent dimension of a multi-dimensional image
// stack. The names follow the tile-source metadata convention of prefixing
// each dimension with "Index".
type Axis string

// Well-known axes. Sources may expose additional axes (for example
// "IndexXY" for multi-position scans); ParseAxis accepts any name with the
// "Index" prefix.
const (
	// AxisC is the channel axis.
	AxisC Axis = "IndexC"

	// AxisZ is the depth (focal plane) axis.
	AxisZ Axis = "IndexZ"

	// AxisT is the time axis.
	AxisT Axis = "IndexT"

	// AxisXY is the multi-position (stage location) axis.
	AxisXY Axis = "IndexXY"
)

// ParseAxis validates an axis name from metadata.
//
// Axis names must start with "Index" followed by at least one character,
// e.g. "IndexC" or "IndexZ". Returns an error for anything else.
func ParseAxis(name string) (Axis, error) {
	if !strings.HasPrefix(name, "Index") || len(name) == len("Index") {
		return "", fmt.Errorf("invalid axis name %q: must be \"Index\" followed by a dimension name", name)
	}
	return Axis(name), nil
}

// AxisDescriptor describes one axis of an image: its length and its weight
// in the linear frame number.
//
// For a well-formed image the strides form a mixed-radix encoding: sorted
// by stride ascending, each stride equals the product of the ranges of all
// axes with smaller strides. New validates this at construction.
type AxisDescriptor struct {
	// Axis is the axis identifier, e.g. AxisC or AxisZ.
	Axis Axis

	// Range is the number of positions on this axis. Must be >= 1.
	Range int

	// Stride is the multiplier converting this axis's index into its
	// contribution to the linear frame number. Must be >= 1.
	Stride int
}

// axisState pairs a descriptor with its current position. The current
// index is always in [0, Range).
type axisState struct {
	AxisDescriptor
	current int
}
