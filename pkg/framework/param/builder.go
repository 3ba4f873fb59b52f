package param

import "math"

// Builder provides a fluent API for creating parameters
type Builder struct {
	param        *Parameter
	defaultPlain float64
}

// New creates a new parameter builder. The key is the stable identifier
// used for persistence and lookups.
func New(id uint32, key, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:        id,
			Key:       key,
			Name:      name,
			ShortName: name,
			Min:       0,
			Max:       1,
			Skew:      1,
			Flags:     CanAutomate,
		},
	}
}

// ShortName sets the short name
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Skew sets the skew factor applied when normalizing. Factors below 1 give
// more of the normalized range to the low end.
func (b *Builder) Skew(factor float64) *Builder {
	if factor > 0 && !math.IsInf(factor, 0) {
		b.param.Skew = factor
	}
	return b
}

// Default sets the default value (in plain range, not normalized)
func (b *Builder) Default(value float64) *Builder {
	b.defaultPlain = value
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// Flags sets parameter flags
func (b *Builder) Flags(flags uint32) *Builder {
	b.param.Flags = flags
	return b
}

// Smoothing sets how audio-side consumers ramp toward new values.
func (b *Builder) Smoothing(kind SmoothingType, ms float64) *Builder {
	b.param.Smoothing = kind
	b.param.SmoothingMs = ms
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= IsReadOnly
	b.param.Flags &^= CanAutomate
	return b
}

// Hidden marks the parameter as hidden
func (b *Builder) Hidden() *Builder {
	b.param.Flags |= IsHidden
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	b.param.DefaultValue = b.param.Normalize(b.defaultPlain)
	b.param.SetValue(b.param.DefaultValue)
	return b.param
}
