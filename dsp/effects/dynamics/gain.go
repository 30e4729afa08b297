package dynamics

import (
	"github.com/cwbudde/algo-pedal/dsp/core"
	"github.com/cwbudde/algo-pedal/dsp/effects/internal/fastmath"
)

// Knee selects the width of the transition region around the threshold.
type Knee int

const (
	// KneeHard switches abruptly from unity gain to full ratio.
	KneeHard Knee = iota
	// KneeMedium blends over 6 dB.
	KneeMedium
	// KneeSoft blends over 12 dB.
	KneeSoft
)

func (k Knee) String() string {
	switch k {
	case KneeHard:
		return "hard"
	case KneeMedium:
		return "medium"
	case KneeSoft:
		return "soft"
	default:
		return "unknown"
	}
}

// WidthDB returns the knee width in dB.
func (k Knee) WidthDB() float64 {
	switch k {
	case KneeMedium:
		return 6
	case KneeSoft:
		return 12
	default:
		return 0
	}
}

// GainDB returns the gain change in dB (zero or negative) for an envelope
// level envDB against threshDB.
//
// With kneeDB <= 0 the knee is hard: no change at or below the threshold and
// threshDB + (envDB-threshDB)/ratio - envDB above it. Otherwise a quadratic
// blend (1/ratio - 1)*x²/(2*kneeDB), x = envDB - threshDB + kneeDB/2, covers
// the kneeDB-wide region centred on the threshold.
func GainDB(envDB, threshDB, ratio, kneeDB float64) float64 {
	over := envDB - threshDB

	if kneeDB <= 0 {
		if over <= 0 {
			return 0
		}
		return over/ratio - over
	}

	half := kneeDB / 2
	switch {
	case over < -half:
		return 0
	case over > half:
		return over/ratio - over
	default:
		x := over + half
		return (1/ratio - 1) * x * x / (2 * kneeDB)
	}
}

// toDB converts a linear level to dB with core.LogEpsilon added first.
func toDB(linear float64) float64 {
	return 20 * fastmath.Log10(linear+core.LogEpsilon)
}

// fromDB converts dB to a linear gain.
func fromDB(db float64) float64 {
	return fastmath.Pow10(db / 20)
}
