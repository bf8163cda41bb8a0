// Package color converts between the color spaces the Hue bridge understands.
// Hue color lights take CIE 1931 xy chromaticity coordinates; white-spectrum
// lights take color temperature in mireds.
package color

import "math"

// D65 white point, returned for black input where chromaticity is undefined.
const (
	whiteX = 0.3127
	whiteY = 0.3290
)

// RGBToXY converts RGB values to CIE 1931 xy chromaticity coordinates using
// the Wide RGB D65 conversion matrix Hue bulbs are calibrated for.
func RGBToXY(r, g, b uint8) (x, y float64) {
	// Normalize RGB
	rf := float64(r) / 255.0
	gf := float64(g) / 255.0
	bf := float64(b) / 255.0

	// Apply gamma correction
	rf = applyGamma(rf)
	gf = applyGamma(gf)
	bf = applyGamma(bf)

	// Convert to XYZ
	X := rf*0.664511 + gf*0.154324 + bf*0.162028
	Y := rf*0.283881 + gf*0.668433 + bf*0.047685
	Z := rf*0.000088 + gf*0.072310 + bf*0.986039

	// Calculate xy chromaticity
	sum := X + Y + Z
	if sum == 0 {
		return whiteX, whiteY
	}

	return X / sum, Y / sum
}

// applyGamma applies gamma correction for sRGB
func applyGamma(value float64) float64 {
	if value > 0.04045 {
		return math.Pow((value+0.055)/1.055, 2.4)
	}
	return value / 12.92
}

// KelvinToMired converts a color temperature in Kelvin to the mired scale
// used by the Hue API. Mired = 1,000,000 / Kelvin.
func KelvinToMired(kelvin int) uint16 {
	return uint16(1000000 / kelvin)
}

// MiredToKelvin is the inverse of KelvinToMired.
func MiredToKelvin(mired uint16) int {
	return 1000000 / int(mired)
}

// ValidBrightness reports whether bri is an acceptable Hue brightness (0-254).
func ValidBrightness(bri int) bool {
	return bri >= 0 && bri <= 254
}

// ValidKelvin reports whether a color temperature is within the range Hue
// white-spectrum lights support (2000K-6500K).
func ValidKelvin(kelvin int) bool {
	return kelvin >= 2000 && kelvin <= 6500
}

// ValidRGB reports whether all components are within 0-255.
func ValidRGB(r, g, b int) bool {
	for _, c := range []int{r, g, b} {
		if c < 0 || c > 255 {
			return false
		}
	}
	return true
}

// BrightnessPercent renders a 0-254 brightness as a whole percentage.
func BrightnessPercent(bri int) int {
	return int(math.Round(float64(bri) / 254.0 * 100))
}
