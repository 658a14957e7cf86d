package frame

import (
	"fmt"
	"sort"
)

// Mode selects how channels may be enabled.
type Mode int

const (
	// ModeSingle views one channel at a time: enabling a channel
	// disables every other one.
	ModeSingle Mode = iota

	// ModeComposite blends any non-empty subset of channels.
	ModeComposite
)

// String returns "single" or "composite".
func (m Mode) String() string {
	if m == ModeSingle {
		return "single"
	}
	return "composite"
}

// Event is a notification emitted after a successful mutation. The
// concrete types are FrameChanged and StyleChanged.
type Event interface{ isEvent() }

// FrameChanged is emitted when the linear frame number changes, either
// through SetAxisCurrent or SetLinearFrame.
type FrameChanged struct {
	// Frame is the new linear frame number.
	Frame int
}

// StyleChanged is emitted when channel enablement, mode, or channel style
// changes, i.e. whenever BandSpecs would return something different.
type StyleChanged struct{}

func (FrameChanged) isEvent() {}
func (StyleChanged) isEvent() {}

// Model maintains the axis positions and channel compositing state of one
// viewer session and converts user edits into either a linear frame number
// or a band-spec style descriptor.
//
// Create a Model with New, which validates the caller-supplied metadata.
// All operations reject invalid input without mutating state. The Model is
// not safe for concurrent use.
type Model struct {
	// axes sorted by stride ascending; the order is the mixed-radix
	// digit order, least significant first.
	axes   []axisState
	byAxis map[Axis]*axisState

	channels []*ChannelInfo
	byName   map[string]*ChannelInfo

	mode Mode
	subs []func(Event)
}

// New creates a Model from image metadata.
//
// Validation at construction:
//   - every axis has Range >= 1 and Stride >= 1, no duplicate names;
//   - strides form a consistent mixed-radix encoding: sorted by stride
//     ascending, each stride equals the product of the ranges of all axes
//     before it (so SetAxisCurrent and SetLinearFrame are exact inverses);
//   - channel names and numbers are unique, numbers are non-negative and,
//     when a channel axis is present, smaller than its range;
//   - channel Min/Max are valid bounds;
//   - at least one channel is enabled (the first channel is enabled when
//     none are); in ModeSingle only the first enabled channel stays on.
//
// The axes and channels slices are copied; the caller keeps ownership of
// its inputs.
func New(axes []AxisDescriptor, channels []ChannelInfo, mode Mode) (*Model, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("at least one axis is required")
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("at least one channel is required")
	}

	m := &Model{
		axes:   make([]axisState, 0, len(axes)),
		byAxis: make(map[Axis]*axisState, len(axes)),
		mode:   mode,
	}

	for _, d := range axes {
		if _, err := ParseAxis(string(d.Axis)); err != nil {
			return nil, err
		}
		if d.Range < 1 {
			return nil, fmt.Errorf("axis %s: range %d must be >= 1", d.Axis, d.Range)
		}
		if d.Stride < 1 {
			return nil, fmt.Errorf("axis %s: stride %d must be >= 1", d.Axis, d.Stride)
		}
		if _, dup := m.byAxis[d.Axis]; dup {
			return nil, fmt.Errorf("duplicate axis %s", d.Axis)
		}
		m.axes = append(m.axes, axisState{AxisDescriptor: d})
		m.byAxis[d.Axis] = nil // placeholder, repointed after sorting
	}

	sort.Slice(m.axes, func(i, j int) bool { return m.axes[i].Stride < m.axes[j].Stride })

	// Mixed-radix consistency: each stride must be the product of the
	// ranges of all shorter axes, otherwise the two update paths (axis
	// assignment vs. frame-driven recomputation) disagree.
	expected := 1
	for i := range m.axes {
		a := &m.axes[i]
		if a.Stride != expected {
			return nil, fmt.Errorf("axis %s: stride %d inconsistent with preceding ranges (want %d)",
				a.Axis, a.Stride, expected)
		}
		expected *= a.Range
		m.byAxis[a.Axis] = a
	}

	m.channels = make([]*ChannelInfo, 0, len(channels))
	m.byName = make(map[string]*ChannelInfo, len(channels))
	numbers := make(map[int]string, len(channels))

	channelAxis := m.byAxis[AxisC]
	for _, info := range channels {
		if info.Name == "" {
			return nil, fmt.Errorf("channel with empty name")
		}
		if _, dup := m.byName[info.Name]; dup {
			return nil, fmt.Errorf("duplicate channel name %q", info.Name)
		}
		if other, dup := numbers[info.Number]; dup {
			return nil, fmt.Errorf("channels %q and %q share number %d", other, info.Name, info.Number)
		}
		if info.Number < 0 {
			return nil, fmt.Errorf("channel %q: number %d must be >= 0", info.Name, info.Number)
		}
		if channelAxis != nil && info.Number >= channelAxis.Range {
			return nil, fmt.Errorf("channel %q: number %d exceeds channel axis range %d",
				info.Name, info.Number, channelAxis.Range)
		}
		if info.Min < 0 || info.Max > 1 || info.Min > info.Max {
			return nil, &InvalidRangeError{Name: info.Name, Min: info.Min, Max: info.Max}
		}
		c := info
		m.channels = append(m.channels, &c)
		m.byName[info.Name] = &c
		numbers[info.Number] = info.Name
	}

	sort.Slice(m.channels, func(i, j int) bool { return m.channels[i].Number < m.channels[j].Number })

	m.normalizeEnabled()
	return m, nil
}

// normalizeEnabled enforces the enablement invariants for the current
// mode: at least one channel on, and in single mode exactly one.
func (m *Model) normalizeEnabled() {
	first := -1
	for i, c := range m.channels {
		if c.Enabled {
			first = i
			break
		}
	}
	if first == -1 {
		m.channels[0].Enabled = true
		first = 0
	}
	if m.mode == ModeSingle {
		for i, c := range m.channels {
			c.Enabled = i == first
		}
	}
}

// Subscribe registers fn to be called after every successful mutation.
// Callbacks run synchronously on the mutating goroutine, in registration
// order. The view layer uses this to stay decoupled from the model.
func (m *Model) Subscribe(fn func(Event)) {
	m.subs = append(m.subs, fn)
}

func (m *Model) notify(e Event) {
	for _, fn := range m.subs {
		fn(e)
	}
}

// Mode returns the current selection mode.
func (m *Model) Mode() Mode { return m.mode }

// SetMode switches between single and composite selection. Switching to
// ModeSingle collapses the enabled set to the lowest-numbered enabled
// channel.
func (m *Model) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	m.normalizeEnabled()
	m.notify(StyleChanged{})
}

// Axes returns the axis descriptors ordered by stride ascending.
func (m *Model) Axes() []AxisDescriptor {
	out := make([]AxisDescriptor, len(m.axes))
	for i, a := range m.axes {
		out[i] = a.AxisDescriptor
	}
	return out
}

// AxisCurrent returns the current index on the given axis.
func (m *Model) AxisCurrent(axis Axis) (int, error) {
	a, ok := m.byAxis[axis]
	if !ok {
		return 0, &InvalidAxisError{Axis: axis}
	}
	return a.current, nil
}

// LinearFrame returns the current linear frame number, the weighted sum of
// every axis's current*stride.
func (m *Model) LinearFrame() int {
	n := 0
	for i := range m.axes {
		n += m.axes[i].current * m.axes[i].Stride
	}
	return n
}

// MaxFrame returns the largest valid linear frame number.
func (m *Model) MaxFrame() int {
	n := 1
	for i := range m.axes {
		n *= m.axes[i].Range
	}
	return n - 1
}

// SetAxisCurrent moves one axis to the given index and returns the
// resulting linear frame number.
//
// Fails with InvalidAxisError if the axis is unknown and OutOfRangeError
// if value is outside [0, Range); state is unchanged on failure.
func (m *Model) SetAxisCurrent(axis Axis, value int) (int, error) {
	a, ok := m.byAxis[axis]
	if !ok {
		return 0, &InvalidAxisError{Axis: axis}
	}
	if value < 0 || value >= a.Range {
		return 0, &OutOfRangeError{Subject: string(axis), Value: value, Max: a.Range - 1}
	}
	if a.current == value {
		return m.LinearFrame(), nil
	}
	a.current = value
	n := m.LinearFrame()
	m.notify(FrameChanged{Frame: n})
	return n, nil
}

// SetLinearFrame moves every axis to match the given linear frame number:
// current = (frame / stride) mod range. This is the inverse of the
// weighted sum, exact because New validated the mixed-radix encoding.
//
// Fails with OutOfRangeError if frame is outside [0, MaxFrame()].
func (m *Model) SetLinearFrame(frameNumber int) error {
	if frameNumber < 0 || frameNumber > m.MaxFrame() {
		return &OutOfRangeError{Subject: "frame", Value: frameNumber, Max: m.MaxFrame()}
	}
	changed := false
	for i := range m.axes {
		a := &m.axes[i]
		cur := (frameNumber / a.Stride) % a.Range
		if cur != a.current {
			a.current = cur
			changed = true
		}
	}
	if changed {
		m.notify(FrameChanged{Frame: frameNumber})
	}
	return nil
}

// Channels returns the channels ordered by number ascending. The returned
// entries are snapshots; mutate through the model, not the copies.
func (m *Model) Channels() []ChannelInfo {
	out := make([]ChannelInfo, len(m.channels))
	for i, c := range m.channels {
		out[i] = *c
	}
	return out
}

// Channel returns a snapshot of one channel's state.
func (m *Model) Channel(name string) (ChannelInfo, error) {
	c, ok := m.byName[name]
	if !ok {
		return ChannelInfo{}, &InvalidChannelError{Name: name}
	}
	return *c, nil
}

// ToggleChannelEnabled enables or disables one channel.
//
// In ModeSingle, enabling a channel disables every other one. Disabling
// the last enabled channel fails with LastChannelError in both modes;
// state is unchanged on failure.
func (m *Model) ToggleChannelEnabled(name string, enabled bool) error {
	c, ok := m.byName[name]
	if !ok {
		return &InvalidChannelError{Name: name}
	}
	if !enabled {
		if c.Enabled && m.enabledCount() == 1 {
			return &LastChannelError{Name: name}
		}
		if !c.Enabled {
			return nil
		}
		c.Enabled = false
		m.notify(StyleChanged{})
		return nil
	}

	changed := !c.Enabled
	if m.mode == ModeSingle {
		for _, other := range m.channels {
			if other != c && other.Enabled {
				other.Enabled = false
				changed = true
			}
		}
	}
	c.Enabled = true
	if changed {
		m.notify(StyleChanged{})
	}
	return nil
}

func (m *Model) enabledCount() int {
	n := 0
	for _, c := range m.channels {
		if c.Enabled {
			n++
		}
	}
	return n
}

// SetChannelStyle applies a partial style update to one channel.
//
// The resulting bounds must satisfy 0 <= min <= max <= 1, otherwise the
// call fails with InvalidRangeError and nothing is changed.
func (m *Model) SetChannelStyle(name string, patch StylePatch) error {
	c, ok := m.byName[name]
	if !ok {
		return &InvalidChannelError{Name: name}
	}

	min, max := c.Min, c.Max
	if patch.Min != nil {
		min = *patch.Min
	}
	if patch.Max != nil {
		max = *patch.Max
	}
	if min < 0 || max > 1 || min > max {
		return &InvalidRangeError{Name: name, Min: min, Max: max}
	}

	changed := min != c.Min || max != c.Max
	c.Min, c.Max = min, max
	if patch.FalseColor != nil && *patch.FalseColor != c.FalseColor {
		c.FalseColor = *patch.FalseColor
		changed = true
	}
	if changed {
		m.notify(StyleChanged{})
	}
	return nil
}

// BandSpecs builds the style descriptor for the enabled channels, ordered
// by channel number ascending.
//
// Each band's frame is the current linear frame with the channel axis
// forced to the channel's number; without a channel axis every band reads
// the current frame. Palette is set only when the channel has a false
// color, and min/max are omitted when the channel sits at the default
// bounds so the backend can skip rescaling.
func (m *Model) BandSpecs() []BandSpec {
	specs := make([]BandSpec, 0, len(m.channels))
	for _, c := range m.channels {
		if !c.Enabled {
			continue
		}
		spec := BandSpec{
			Frame:   m.FrameForChannel(c.Number),
			Palette: c.FalseColor,
		}
		if c.Min != DefaultMin || c.Max != DefaultMax {
			min, max := c.Min, c.Max
			spec.Min = &min
			spec.Max = &max
		}
		specs = append(specs, spec)
	}
	return specs
}

// FrameForChannel returns the linear frame number with the channel axis
// forced to the given channel number and every other axis at its current
// index. Without a channel axis it returns the current frame. The model is
// not mutated; callers use this to read one channel's frame regardless of
// which channels are enabled.
func (m *Model) FrameForChannel(number int) int {
	n := 0
	for i := range m.axes {
		a := &m.axes[i]
		cur := a.current
		if a.Axis == AxisC {
			cur = number
		}
		n += cur * a.Stride
	}
	return n
}
