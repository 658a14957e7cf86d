package frame

import "fmt"

// InvalidAxisError is returned when an operation names an axis the model
// does not have.
type InvalidAxisError struct {
	// Axis is the unknown axis.
	Axis Axis
}

func (e *InvalidAxisError) Error() string {
	return fmt.Sprintf("unknown axis %q", string(e.Axis))
}

// OutOfRangeError is returned when an axis index or linear frame number is
// outside its valid bounds. Bounds are inclusive.
type OutOfRangeError struct {
	// Subject is the axis name, or "frame" for linear frame numbers.
	Subject string

	// Value is the rejected value.
	Value int

	// Max is the largest valid value (the smallest is always 0).
	Max int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s value %d out of range [0, %d]", e.Subject, e.Value, e.Max)
}

// InvalidChannelError is returned when an operation names a channel the
// model does not have.
type InvalidChannelError struct {
	// Name is the unknown channel name.
	Name string
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("unknown channel %q", e.Name)
}

// LastChannelError is returned when disabling a channel would leave
// nothing to render. At least one channel is always enabled.
type LastChannelError struct {
	// Name is the channel that was refused disabling.
	Name string
}

func (e *LastChannelError) Error() string {
	return fmt.Sprintf("cannot disable %q: it is the last enabled channel", e.Name)
}

// InvalidRangeError is returned when a style patch would leave a channel
// with intensity bounds outside [0, 1] or with min > max.
type InvalidRangeError struct {
	// Name is the channel the patch targeted.
	Name string

	// Min and Max are the rejected resulting bounds.
	Min float64
	Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid intensity range [%g, %g] for channel %q: need 0 <= min <= max <= 1",
		e.Min, e.Max, e.Name)
}
