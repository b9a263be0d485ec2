// Package weather holds the city records shown by the display and the room
// temperature sensor.
package weather

import (
	"errors"

	"github.com/harveysanders/picoweather/fsm"
)

// Field capacities in bytes.
const (
	NameLen        = 50
	TemperatureLen = 7
	ConditionLen   = 100
	HumidityLen    = 20
)

var ErrFieldTooLong = errors.New("weather: field exceeds capacity")

// FieldError names the City field that did not fit.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return ErrFieldTooLong.Error() + ": " + e.Field }

func (e *FieldError) Is(target error) bool { return target == ErrFieldTooLong }

// City is one page of weather data. Values are display-ready strings.
type City struct {
	Name        string
	Temperature string
	Condition   string // Selects the icon. See display.IconFor.
	Humidity    string
}

// NewCity returns a City after checking every field fits its capacity.
func NewCity(name, temperature, condition, humidity string) (City, error) {
	switch {
	case len(name) > NameLen:
		return City{}, &FieldError{Field: "name"}
	case len(temperature) > TemperatureLen:
		return City{}, &FieldError{Field: "temperature"}
	case len(condition) > ConditionLen:
		return City{}, &FieldError{Field: "condition"}
	case len(humidity) > HumidityLen:
		return City{}, &FieldError{Field: "humidity"}
	}
	return City{
		Name:        name,
		Temperature: temperature,
		Condition:   condition,
		Humidity:    humidity,
	}, nil
}

// Cities holds the four city records in page order.
type Cities [4]City

// Seed returns the fixed city data. It is called once at startup and the
// result is never modified.
func Seed() Cities {
	return Cities{
		mustCity("ROME", "17.3C", "Partly cloudy", "Hum: 63%"),
		mustCity("MOSCOW", "-2.4C", "Cloudy", "Hum: 81%"),
		mustCity("TOKYO", "15.6C", "Rainy", "Hum: 77%"),
		mustCity("NEW YORK", "12.8C", "Sunny", "Hum: 54%"),
	}
}

// For returns the record for a city page. ok is false for the room
// temperature page and invalid states.
func (c *Cities) For(s fsm.State) (city City, ok bool) {
	switch s {
	case fsm.StateRome:
		return c[0], true
	case fsm.StateMoscow:
		return c[1], true
	case fsm.StateTokyo:
		return c[2], true
	case fsm.StateNewYork:
		return c[3], true
	}
	return City{}, false
}

func mustCity(name, temperature, condition, humidity string) City {
	c, err := NewCity(name, temperature, condition, humidity)
	if err != nil {
		panic(err)
	}
	return c
}
