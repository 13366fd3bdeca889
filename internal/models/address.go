package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// DonorAddress is a tagged union: older donor records carried a single
// free-text address string, newer ones a structured object. The JSON input
// may be either shape; Display() is the one normalization point.
type DonorAddress struct {
	Legacy string `json:"legacy,omitempty"`

	Line    string `json:"line,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// IsLegacy reports whether the address carries only the free-text form.
func (a DonorAddress) IsLegacy() bool {
	return a.Legacy != "" && a.Line == "" && a.City == "" && a.Pincode == ""
}

// IsZero reports whether no address was supplied at all.
func (a DonorAddress) IsZero() bool {
	return a == DonorAddress{}
}

// Display normalizes either variant to a single display string.
func (a DonorAddress) Display() string {
	if a.IsLegacy() {
		return a.Legacy
	}
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Line, a.City, a.State, a.Country, a.Pincode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// UnmarshalJSON accepts either a bare JSON string (legacy) or an object.
func (a *DonorAddress) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*a = DonorAddress{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = DonorAddress{Legacy: s}
		return nil
	}
	type plain DonorAddress
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = DonorAddress(p)
	return nil
}

// Value stores the address as a JSON column.
func (a DonorAddress) Value() (driver.Value, error) {
	if a.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(struct {
		Legacy  string `json:"legacy,omitempty"`
		Line    string `json:"line,omitempty"`
		City    string `json:"city,omitempty"`
		State   string `json:"state,omitempty"`
		Country string `json:"country,omitempty"`
		Pincode string `json:"pincode,omitempty"`
	}(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan loads the address back from its JSON column.
func (a *DonorAddress) Scan(src interface{}) error {
	if src == nil {
		*a = DonorAddress{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return a.UnmarshalJSON(v)
	case string:
		return a.UnmarshalJSON([]byte(v))
	default:
		return errors.New("unsupported donor address column type")
	}
}
