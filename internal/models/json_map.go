package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a JSON object column. It is stored as text so the same
// model works on postgres and sqlite.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
	*m = nil
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, m)
}

// String returns the value under key when it is a string
func (m JSONMap) String(key string) string {
	s, _ := m[key].(string)
	return s
}
