package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// WaterTestResults holds the chemistry readings captured during a service
// visit. Readings are optional; a nil pointer means the technician did not
// record that value.
type WaterTestResults struct {
	PH          *float64 `json:"ph,omitempty"`
	Chlorine    *float64 `json:"chlorine,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Value marshals the readings into JSON for the database.
func (w WaterTestResults) Value() (driver.Value, error) {
	buf, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes a JSON column into the readings.
func (w *WaterTestResults) Scan(value interface{}) error {
	if value == nil {
		*w = WaterTestResults{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("water test results: unsupported scan type %T", value)
	}

	result := WaterTestResults{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*w = result
	return nil
}
