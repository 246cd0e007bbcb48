package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a float64 metric that may be missing.
// Missing values are NaN in memory and null on the wire.
type Number float64

// NaN returns a missing Number
func NaN() Number {
	return Number(math.NaN())
}

// IsNaN reports whether the value is missing
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// Float returns the raw float64 (NaN when missing)
func (n Number) Float() float64 {
	return float64(n)
}

// MarshalJSON writes null for missing or infinite values
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts numbers, numeric strings and null.
// The provider sends some columns as strings ("12,5" included).
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = NaN()
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" || strings.EqualFold(s, "nan") {
			*n = NaN()
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
