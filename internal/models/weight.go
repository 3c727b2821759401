package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Weight is an ordering rank among siblings. Zero means unset.
type Weight int

// IsSet reports whether a usable rank was supplied
func (w Weight) IsSet() bool {
	return w > 0
}

// UnmarshalJSON accepts numbers, numeric strings, blank strings and null.
// Blank and null decode to an unset weight.
func (w *Weight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*w = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*w = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid weight %q", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		*w = 0
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	*w = Weight(math.Round(f))
	return nil
}
