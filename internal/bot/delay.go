package bot

import "time"

// Bounds of the simulated typing delay before a bot reply.
const (
	MinReplyDelay = 1000 * time.Millisecond
	MaxReplyDelay = 3000 * time.Millisecond
)

// Delay draws reply delays uniformly from [Min, Max) at millisecond
// granularity.
type Delay struct {
	Min time.Duration
	Max time.Duration
	src Source
}

// NewDelay returns a Delay over [minDelay, maxDelay). A nil src uses NewSource.
func NewDelay(minDelay, maxDelay time.Duration, src Source) *Delay {
	if src == nil {
		src = NewSource()
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Delay{Min: minDelay, Max: maxDelay, src: src}
}

// DefaultDelay returns the 1s to 3s typing delay.
func DefaultDelay(src Source) *Delay {
	return NewDelay(MinReplyDelay, MaxReplyDelay, src)
}

// Next returns the delay for one reply. A range narrower than a millisecond
// always yields Min.
func (d *Delay) Next() time.Duration {
	steps := int((d.Max - d.Min) / time.Millisecond)
	if steps <= 0 {
		return d.Min
	}
	return d.Min + time.Duration(d.src.IntN(steps))*time.Millisecond
}
