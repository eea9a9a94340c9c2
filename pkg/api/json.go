package api

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

type JSON json.RawMessage

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal json value: %v", value)
	}

	result := json.RawMessage{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Value return json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (m JSON) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON sets *m to a copy of data.
func (m *JSON) UnmarshalJSON(data []byte) error {
	if m == nil {
		return errors.New("api.JSON: UnmarshalJSON on nil pointer")
	}
	*m = append((*m)[0:0], data...)
	return nil
}

func (m JSON) Object() (map[string]interface{}, error) {
	if m == nil {
		return nil, nil
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(m, &result)
	return result, err
}

// StringMap decodes the column into a flat string-to-string map, the shape
// used by audit entry details and connector mapping columns.
func (m JSON) StringMap() (map[string]string, error) {
	if m == nil {
		return nil, nil
	}

	result := map[string]string{}
	err := json.Unmarshal(m, &result)
	return result, err
}

// MarshalStringMap encodes a flat string-to-string map into a JSON column.
func MarshalStringMap(values map[string]string) (JSON, error) {
	if values == nil {
		return nil, nil
	}
	bytes, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	return JSON(bytes), nil
}
