package frame

// Default intensity bounds. A channel at these bounds needs no rescaling,
// so BandSpecs omits min/max for it and the backend can skip the rescale
// pass entirely.
const (
	// DefaultMin is the default lower intensity bound.
	DefaultMin = 0.0

	// DefaultMax is the default upper intensity bound.
	DefaultMax = 1.0
)

// ChannelInfo holds one named channel's compositing state.
//
// ChannelInfo entries are created once per channel when a viewer session
// opens and mutated in place through the model as the user changes
// enablement, false color, or intensity bounds.
type ChannelInfo struct {
	// Name is the channel's display name, e.g. "DAPI" or "Band 1".
	Name string

	// Number is the channel's position on the channel axis (0-indexed).
	Number int

	// Enabled reports whether the channel contributes to the composite.
	Enabled bool

	// FalseColor is the hex color the channel is mapped through, e.g.
	// "#ff0000". Empty means the backend's default (grayscale).
	FalseColor string

	// Min and Max are normalized intensity bounds in [0, 1] with
	// Min <= Max. Values outside [Min, Max] are clamped by the backend.
	Min float64
	Max float64
}

// StylePatch is a partial update to a channel's style. Nil fields are left
// unchanged.
//
// Example:
//
//	// change only the false color
//	err := m.SetChannelStyle("DAPI", frame.StylePatch{FalseColor: frame.String("#0000ff")})
//
//	// tighten the intensity window
//	err = m.SetChannelStyle("DAPI", frame.StylePatch{
//	    Min: frame.Float(0.1),
//	    Max: frame.Float(0.9),
//	})
type StylePatch struct {
	// FalseColor replaces the channel's false color when non-nil.
	// Set to a pointer to "" to clear it.
	FalseColor *string

	// Min replaces the lower intensity bound when non-nil.
	Min *float64

	// Max replaces the upper intensity bound when non-nil.
	Max *float64
}

// BandSpec describes one band of a composite: which frame to read and how
// to map its intensities. A list of BandSpecs is the style descriptor
// handed to the rendering backend.
//
// Palette is empty unless the channel has a false color. Min and Max are
// nil when the channel sits at the default bounds, signalling the backend
// that no rescale is needed.
type BandSpec struct {
	// Frame is the linear frame number to composite.
	Frame int `json:"frame"`

	// Palette is the hex color the band is mapped through, if any.
	Palette string `json:"palette,omitempty"`

	// Min is the normalized lower intensity bound, if not at default.
	Min *float64 `json:"min,omitempty"`

	// Max is the normalized upper intensity bound, if not at default.
	Max *float64 `json:"max,omitempty"`
}

// String returns a pointer to s, for use in StylePatch literals.
func String(s string) *string { return &s }

// Float returns a pointer to f, for use in StylePatch literals.
func Float(f float64) *float64 { return &f }
