package downmix

import (
	"fmt"
	"strings"
)

// dialogueBoostWeight is the attenuation applied to every non-center input
// channel. The center channel passes at full gain so dialogue stays
// intelligible on stereo playback.
const dialogueBoostWeight = 0.30

// Shape identifies which mixing formula applies to a track.
type Shape string

const (
	// ShapeNone means the original channel layout is preserved.
	ShapeNone Shape = "none"
	// Shape51 is the 5.1 dialogue-boost formula.
	Shape51 Shape = "5.1"
	// Shape71 is the 7.1 dialogue-boost formula.
	Shape71 Shape = "7.1"
	// ShapeGeneric is a uniform N-to-stereo fold for irregular layouts,
	// a lower-quality fallback rather than an error.
	ShapeGeneric Shape = "generic"
)

// Coefficient is one weighted input-channel contribution to an output
// channel. Channel uses ffmpeg channel names (FC, FL, BL, SL, ...).
type Coefficient struct {
	Channel string
	Weight  float64
}

// Formula is an immutable description of a channel mix down to stereo.
// Left and Right are empty for ShapeNone and ShapeGeneric.
type Formula struct {
	Shape Shape
	Left  []Coefficient
	Right []Coefficient
}

// Plan selects the downmix formula for a track. Custom formulas apply only
// when a downmix was requested and the source has at least six channels;
// everything else keeps its original layout.
func Plan(channelCount int, downmixRequested bool) Formula {
	if !downmixRequested || channelCount < 6 {
		return Formula{Shape: ShapeNone}
	}
	switch channelCount {
	case 6:
		return Formula{
			Shape: Shape51,
			Left:  []Coefficient{{"FC", 1.0}, {"FL", dialogueBoostWeight}, {"BL", dialogueBoostWeight}},
			Right: []Coefficient{{"FC", 1.0}, {"FR", dialogueBoostWeight}, {"BR", dialogueBoostWeight}},
		}
	case 8:
		return Formula{
			Shape: Shape71,
			Left:  []Coefficient{{"FC", 1.0}, {"FL", dialogueBoostWeight}, {"BL", dialogueBoostWeight}, {"SL", dialogueBoostWeight}},
			Right: []Coefficient{{"FC", 1.0}, {"FR", dialogueBoostWeight}, {"BR", dialogueBoostWeight}, {"SR", dialogueBoostWeight}},
		}
	default:
		return Formula{Shape: ShapeGeneric}
	}
}

// Mixes reports whether applying the formula changes the channel layout.
func (f Formula) Mixes() bool {
	return f.Shape != ShapeNone
}

// PanFilter renders the formula as an ffmpeg pan audio filter. ShapeGeneric
// and ShapeNone have no pan expression; generic folds use plain `-ac 2`.
func (f Formula) PanFilter() string {
	if f.Shape != Shape51 && f.Shape != Shape71 {
		return ""
	}
	return "pan=stereo|FL=" + renderSum(f.Left) + "|FR=" + renderSum(f.Right)
}

func renderSum(coefficients []Coefficient) string {
	terms := make([]string, 0, len(coefficients))
	for _, c := range coefficients {
		if c.Weight == 1.0 {
			terms = append(terms, c.Channel)
			continue
		}
		terms = append(terms, fmt.Sprintf("%.2f*%s", c.Weight, c.Channel))
	}
	return strings.Join(terms, "+")
}
