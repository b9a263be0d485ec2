//go:build tinygo

package weather

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/dht"
)

// DHTSensor wraps a DHT11 temperature and humidity sensor with throttling and caching.
// It automatically limits queries to respect the DHT11's minimum 2-second read interval.
type DHTSensor struct {
	dev             dht.Device    // Underlying DHT11 device driver.
	cachedTemp      float32       // Last successfully read temperature, Fahrenheit.
	lastReadTime    time.Time     // Timestamp of the last successful sensor read.
	minReadInterval time.Duration // Minimum time between sensor reads. Cached values are returned inside the interval.
	hasValidCache   bool          // Indicates whether a cached value is available.
}

// NewDHTSensor returns a DHT11 reader on pin.
func NewDHTSensor(pin machine.Pin) *DHTSensor {
	return &DHTSensor{
		dev: dht.New(pin, dht.DHT11),
		// DHT11 requires minimum 2s between reads
		minReadInterval: 2 * time.Second,
	}
}

// ReadFahrenheit implements TemperatureSensor. Inside the throttle window, or
// when the sensor errors after a good read, the cached value is returned.
// The error is still reported in the second case.
func (s *DHTSensor) ReadFahrenheit() (float32, error) {
	now := time.Now()
	if s.hasValidCache && now.Sub(s.lastReadTime) < s.minReadInterval {
		return s.cachedTemp, nil
	}

	err := s.dev.ReadMeasurements()
	if err != nil {
		return s.cachedTemp, err
	}
	temp, err := s.dev.TemperatureFloat(dht.F)
	if err != nil {
		return s.cachedTemp, err
	}

	s.cachedTemp = temp
	s.lastReadTime = now
	s.hasValidCache = true
	return temp, nil
}
