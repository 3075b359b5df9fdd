package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CategoryScores breaks a feedback rating down by category. Scores run 0-5
// where 0 means the client left that category unrated.
type CategoryScores struct {
	Professionalism int `json:"professionalism"`
	QualityOfWork   int `json:"quality_of_work"`
	Timeliness      int `json:"timeliness"`
	Communication   int `json:"communication"`
}

// Value marshals the scores into JSON for the database.
func (c CategoryScores) Value() (driver.Value, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Scan decodes a JSON column into the scores.
func (c *CategoryScores) Scan(value interface{}) error {
	if value == nil {
		*c = CategoryScores{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("category scores: unsupported scan type %T", value)
	}

	result := CategoryScores{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*c = result
	return nil
}
