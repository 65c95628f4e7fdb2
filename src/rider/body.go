package rider

import (
	"math"
	"math/rand/v2"
)

const (
	meanHeight   = 1.7
	meanWeight   = 85.0
	bmiDiffLimit = 10.0
	// waist diameter of a normal build, from circumference / pi
	normalWaistDiam = 0.9 / math.Pi
)

// Body holds display attributes. Weight also feeds the riding weight statistic.
type Body struct {
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
}

func newBody(rnd *rand.Rand) Body {
	height := clamp(gaussian(rnd, meanHeight, 0.5), 1, 2.2)
	weight := clamp(gaussian(rnd, meanWeight, 10), 30, 150)
	bmi := weight / (height * height)
	bmiDiff := clamp(bmi-25, -bmiDiffLimit, bmiDiffLimit)
	widthMultiple := mapRange(bmiDiff, -bmiDiffLimit, bmiDiffLimit, 0.7, 2.1)
	return Body{
		Height: height,
		Weight: weight,
		Width:  normalWaistDiam * widthMultiple,
	}
}

func gaussian(rnd *rand.Rand, mean, sd float64) float64 {
	return rnd.NormFloat64()*sd + mean
}

func clamp(v, lo, hi float64) float64 {
	return min(hi, max(lo, v))
}

// mapRange maps v linearly from [inLo, inHi] onto [outLo, outHi].
func mapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	return outLo + (v-inLo)/(inHi-inLo)*(outHi-outLo)
}

// fuzz returns a uniform offset in [-half, half).
func fuzz(rnd *rand.Rand, half float64) float64 {
	return mapRange(rnd.Float64(), 0, 1, -half, half)
}

// randomSign returns -1 or 1 with equal probability.
func randomSign(rnd *rand.Rand) float64 {
	if rnd.IntN(2) == 0 {
		return -1
	}
	return 1
}
