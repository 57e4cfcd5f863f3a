package number

import (
	"math"
	"strconv"
)

var epsilon float64 = 0.000001

func ToFixed(val float64, places int) (newVal float64) {
	roundOn := 0.5
	var round float64
	pow := math.Pow(10, float64(places))
	digit := pow * val
	_, div := math.Modf(digit)
	if div >= roundOn {
		round = math.Ceil(digit)
	} else {
		round = math.Floor(digit)
	}
	newVal = round / pow
	return
}

func FloatToStr(f float64, places int) string {
	return strconv.FormatFloat(f, 'f', places, 64)
}

func DegreeToRadian(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

func RadianToDegree(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

func IsZero(f float64) bool {
	return math.Abs(f) < epsilon
}

func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}

	if val > max {
		return max
	}

	return val
}

// Clamp01 restricts val to the unit interval
func Clamp01(val float64) float64 {
	return Clamp(val, 0, 1)
}
