package weather

import "strconv"

// TemperatureSensor reads the room temperature in degrees Fahrenheit.
type TemperatureSensor interface {
	ReadFahrenheit() (float32, error)
}

// FahrenheitToCelsius converts f from Fahrenheit.
func FahrenheitToCelsius(f float32) float32 {
	return (f - 32) * 5 / 9
}

// AppendCelsius converts f to Celsius and appends it with one decimal and a
// trailing "C", e.g. 212 -> "100.0C". It does not allocate when dst has
// room, so it is safe to call with a preallocated print buffer.
func AppendCelsius(dst []byte, f float32) []byte {
	const floatNoExp = 'f'
	c := FahrenheitToCelsius(f)
	// Values that round to zero print without a sign.
	if c > -0.05 && c < 0.05 {
		c = 0
	}
	dst = strconv.AppendFloat(dst, float64(c), floatNoExp, 1, 32)
	return append(dst, 'C')
}
