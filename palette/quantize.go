package palette

import (
	"math"
	"strings"

	"github.com/voxelsplace/voxexport/errs"
)

// Strategy selects the distance used by a Quantizer.
type Strategy int

const (
	// Balanced is a weighted RGB distance with a strong category penalty.
	Balanced Strategy = iota
	// HuePriority compares in HSB space and keeps hue above all else.
	HuePriority
)

func (s Strategy) String() string {
	if s == HuePriority {
		return "hue"
	}
	return "balanced"
}

// ParseStrategy accepts "balanced" or "hue".
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "balanced", "a":
		return Balanced, nil
	case "hue", "hue-priority", "b":
		return HuePriority, nil
	}
	return 0, errs.Config("strategy", "unknown quantizer strategy %q", name)
}

const (
	// colored inputs are those above this saturation
	coloredSaturation = 0.05
	grayPenaltyRGB    = 10000
	grayPenaltyHSB    = 1000
)

// Quantizer picks the closest palette entry for an RGB color.
type Quantizer struct {
	reg      *Registry
	strategy Strategy
	hasColor bool
}

// NewQuantizer binds a registry to a strategy.
func NewQuantizer(reg *Registry, strategy Strategy) (*Quantizer, error) {
	if reg == nil || reg.Len() == 0 {
		return nil, errs.Config("palette", "no entries")
	}
	if strategy != Balanced && strategy != HuePriority {
		return nil, errs.Config("strategy", "unknown quantizer strategy %d", strategy)
	}
	q := &Quantizer{reg: reg, strategy: strategy}
	for _, e := range reg.entries {
		if !e.Gray {
			q.hasColor = true
			break
		}
	}
	return q, nil
}

func (q *Quantizer) Strategy() Strategy { return q.strategy }

func (q *Quantizer) Registry() *Registry { return q.reg }

// Closest returns the entry minimizing the strategy's distance. Ties go to
// the entry registered first.
func (q *Quantizer) Closest(c RGB) Entry {
	h, s, b := c.HSB()
	colored := q.hasColor && s > coloredSaturation

	best := 0
	bestDist := math.Inf(1)
	for i, e := range q.reg.entries {
		var d float64
		if q.strategy == HuePriority {
			d = hueDistance(h, s, b, e)
			if colored && e.Gray {
				d += grayPenaltyHSB
			}
		} else {
			d = rgbDistance(c, e)
			if colored && e.Gray {
				d += grayPenaltyRGB
			}
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return q.reg.entries[best]
}

func rgbDistance(c RGB, e Entry) float64 {
	dr := float64(e.RGB.R) - float64(c.R)
	dg := float64(e.RGB.G) - float64(c.G)
	db := float64(e.RGB.B) - float64(c.B)
	return 0.30*dr*dr + 0.59*dg*dg + 0.11*db*db + e.Category.Penalty()*50
}

func hueDistance(h, s, b float64, e Entry) float64 {
	th, ts, tb := e.HSB()
	var d float64
	if s < 0.1 {
		d = 2*math.Abs(b-tb) + 5*ts
	} else {
		dh := math.Abs(h - th)
		if dh > 0.5 {
			dh = 1 - dh
		}
		d = 4*dh + 2*math.Abs(s-ts) + math.Abs(b-tb)
	}
	return d + e.Category.Penalty()*0.1
}
