package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Location is a geocoded GeoJSON-style point persisted as JSONB. The
// coordinates pair is [longitude, latitude].
type Location struct {
	Type             string     `json:"type"`
	Coordinates      [2]float64 `json:"coordinates"`
	FormattedAddress string     `json:"formattedAddress"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Zipcode          string     `json:"zipcode"`
	Country          string     `json:"country"`
}

// Value marshals the location into JSON for Postgres.
func (l Location) Value() (driver.Value, error) {
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes JSONB into the location.
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("location: unsupported scan type %T", value)
	}

	var result Location
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*l = result
	return nil
}

// Lng returns the longitude component.
func (l Location) Lng() float64 {
	return l.Coordinates[0]
}

// Lat returns the latitude component.
func (l Location) Lat() float64 {
	return l.Coordinates[1]
}
