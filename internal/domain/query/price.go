package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/comidalab/buscaplato/internal/domain/catalog"
)

// PriceLimit is a price cap expressed either as a literal ARS amount or as a
// catalog percentile label like "p35", resolved at search time against the
// catalog's sorted price distribution.
type PriceLimit struct {
	literal    float64
	percentile int // 1..100 when set, 0 for literal limits
}

// LiteralPrice creates a literal ARS price cap.
func LiteralPrice(v float64) PriceLimit {
	return PriceLimit{literal: v}
}

// PercentilePrice creates a percentile-labelled price cap ("p35" -> 35).
func PercentilePrice(pct int) PriceLimit {
	return PriceLimit{percentile: pct}
}

// IsPercentile reports whether the limit is a percentile label.
func (l PriceLimit) IsPercentile() bool { return l.percentile > 0 }

// Resolve turns the limit into a literal amount. Percentile labels are looked
// up in the catalog index; ok is false when the catalog is empty.
func (l PriceLimit) Resolve(idx *catalog.Index) (float64, bool) {
	if !l.IsPercentile() {
		return l.literal, true
	}
	return idx.PricePercentile(float64(l.percentile) / 100.0)
}

// String renders "p35" for percentile limits and the plain amount otherwise.
func (l PriceLimit) String() string {
	if l.IsPercentile() {
		return fmt.Sprintf("p%d", l.percentile)
	}
	return strconv.FormatFloat(l.literal, 'f', -1, 64)
}

// MarshalJSON emits a JSON string for percentile labels and a number for
// literal caps, matching the wire format of the filters payload.
func (l PriceLimit) MarshalJSON() ([]byte, error) {
	if l.IsPercentile() {
		return json.Marshal(l.String())
	}
	return json.Marshal(l.literal)
}

// UnmarshalJSON accepts either a number or a "pNN" string.
func (l *PriceLimit) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*l = LiteralPrice(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("price limit must be a number or a percentile label: %w", err)
	}
	parsed, err := ParsePriceLimit(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParsePriceLimit parses "pNN" labels and plain numeric strings.
func ParsePriceLimit(s string) (PriceLimit, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "p") {
		pct, err := strconv.Atoi(s[1:])
		if err != nil || pct <= 0 || pct > 100 {
			return PriceLimit{}, fmt.Errorf("invalid percentile label %q", s)
		}
		return PercentilePrice(pct), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return PriceLimit{}, fmt.Errorf("invalid price limit %q", s)
	}
	return LiteralPrice(v), nil
}
