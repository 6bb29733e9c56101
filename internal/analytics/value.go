// Package analytics derives trend statistics and display windows from a
// user's weight series. Everything here is pure; callers load the series.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"
)

// Placeholder is rendered for statistics that are not defined.
const Placeholder = "n/a"

// Value is a statistic that may be undefined for lack of history.
type Value struct {
	Num     float64
	Defined bool
}

// Undefined is the sentinel for a statistic without enough data.
var Undefined = Value{}

// Of returns a defined Value.
func Of(v float64) Value {
	return Value{Num: v, Defined: true}
}

// Format renders the value with the given fmt layout, or Placeholder.
func (v Value) Format(layout string) string {
	if !v.Defined {
		return Placeholder
	}
	return fmt.Sprintf(layout, v.Num)
}

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(v.Num)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Undefined
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = Of(n)
	return nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
