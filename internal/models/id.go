package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a product. It is an opaque token; ids made only of decimal
// digits (without a leading zero) are written to JSON as numbers so that
// sequential ids read as integers on the wire.
type ID string

// String returns the raw token.
func (id ID) String() string {
	return string(id)
}

// IsNumeric reports whether id is a canonical unsigned decimal integer.
func (id ID) IsNumeric() bool {
	s := string(id)
	if s == "" || len(s) > 20 {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler. Both numbers and strings are accepted.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid product id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}
