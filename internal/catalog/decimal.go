package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimal is a fixed-point amount held as minor units (hundredths).
// Prices, ratings and cost fields all travel over the wire as base-10
// strings with two fraction digits ("500.00"); internally they are plain
// integers so comparisons never go through repeated string parsing.
//
// Decoding is deliberately forgiving: a malformed or missing value becomes
// zero instead of an error. Sorting and range filters rely on this: a
// product with a broken price sorts as if it were free rather than
// poisoning the whole result set.
type Decimal int64

// ParseDecimal converts a decimal string to minor units. Invalid input
// yields zero.
func ParseDecimal(s string) Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return DecimalFromFloat(f)
}

// DecimalFromFloat converts a float amount (e.g. 500.5) to minor units.
func DecimalFromFloat(f float64) Decimal {
	return Decimal(math.Round(f * 100))
}

// Float64 returns the amount in major units for numeric comparison.
func (d Decimal) Float64() float64 {
	return float64(d) / 100
}

// String renders the amount with two fraction digits.
func (d Decimal) String() string {
	neg := d < 0
	if neg {
		d = -d
	}
	s := fmt.Sprintf("%d.%02d", int64(d)/100, int64(d)%100)
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON encodes the amount as a decimal string, matching the
// catalog's wire format.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a decimal string or a bare number. Anything else
// decodes to zero without error.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*d = ParseDecimal(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = DecimalFromFloat(f)
		return nil
	}
	*d = 0
	return nil
}
