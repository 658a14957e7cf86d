// Package frame implements the frame/channel index model for a
// multi-dimensional image viewer.
//
// A multi-dimensional image stores one 2-D plane per combination of axis
// indices (channel, Z-depth, time, ...). The server addresses planes by a
// single linear frame number; this package converts between the two views
// and tracks which channels are composited and how.
//
// # Axes
//
// Each axis has a range (number of positions) and a stride (its weight in
// the linear frame number). The linear frame number is always the sum over
// axes of current*stride:
//
//	axes := []frame.AxisDescriptor{
//	    {Axis: frame.AxisC, Range: 3, Stride: 1},
//	    {Axis: frame.AxisZ, Range: 10, Stride: 3},
//	}
//	m, _ := frame.New(axes, channels, frame.ModeComposite)
//
//	n, _ := m.SetAxisCurrent(frame.AxisZ, 4) // n == 12
//	_ = m.SetLinearFrame(13)                 // IndexC=1, IndexZ=4
//
// # Channels
//
// Channels carry compositing state: enabled flag, false color, and
// normalized intensity bounds. BandSpecs turns the enabled set into the
// style descriptor consumed by a rendering backend:
//
//	_ = m.ToggleChannelEnabled("DAPI", true)
//	_ = m.SetChannelStyle("DAPI", frame.StylePatch{FalseColor: frame.String("#0000ff")})
//	specs := m.BandSpecs()
//
// All operations are synchronous and validate their input before mutating;
// a failed call leaves the model unchanged. The model is not safe for
// concurrent use; a viewer session mutates it from a single goroutine.
package frame
