package cities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCity is returned by Validate for unusable city entries.
var ErrInvalidCity = errors.New("invalid city")

// City is a named point whose name doubles as the output file stem.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Default returns the compiled-in list of cities, in export order.
func Default() []City {
	return []City{
		{Name: "New York", Latitude: 40.7128, Longitude: -74.0060},
		{Name: "Los Angeles", Latitude: 34.0522, Longitude: -118.2437},
		{Name: "Chicago", Latitude: 41.8781, Longitude: -87.6298},
		{Name: "Houston", Latitude: 29.7604, Longitude: -95.3698},
		{Name: "Phoenix", Latitude: 33.4484, Longitude: -112.0740},
		{Name: "Philadelphia", Latitude: 39.9526, Longitude: -75.1652},
		{Name: "San Antonio", Latitude: 29.4241, Longitude: -98.4936},
		{Name: "San Diego", Latitude: 32.7157, Longitude: -117.1611},
		{Name: "Dallas", Latitude: 32.7767, Longitude: -96.7970},
		{Name: "San Jose", Latitude: 37.3382, Longitude: -121.8863},
	}
}

// Validate checks that the name is a usable file stem and the coordinates are decimal degrees.
func (c City) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidCity)
	case c.Name == "." || c.Name == "..", strings.ContainsAny(c.Name, `/\`+"\x00"):
		return fmt.Errorf("%w: %q is not a valid file name", ErrInvalidCity, c.Name)
	case c.Latitude < -90 || c.Latitude > 90:
		return fmt.Errorf("%w: %q latitude %v out of range", ErrInvalidCity, c.Name, c.Latitude)
	case c.Longitude < -180 || c.Longitude > 180:
		return fmt.Errorf("%w: %q longitude %v out of range", ErrInvalidCity, c.Name, c.Longitude)
	}
	return nil
}
