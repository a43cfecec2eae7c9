package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// TripRequest is the inbound planning request. Source, TransportMode and
// Preferences are optional; when any of them is set the extended prompt is used.
type TripRequest struct {
	Source        string `json:"source,omitempty"`
	Destination   string `json:"destination" validate:"required"`
	Budget        Amount `json:"budget" validate:"required,gt=0"`
	People        Amount `json:"people" validate:"required,gt=0"`
	Days          Amount `json:"days" validate:"required,gt=0"`
	TransportMode string `json:"transportMode,omitempty"`
	Preferences   string `json:"preferences,omitempty"`
}

// Extended reports whether the request carries origin/transport/preference details.
func (r TripRequest) Extended() bool {
	return r.Source != "" || r.TransportMode != "" || r.Preferences != ""
}

// Normalize trims the free-text fields in place.
func (r *TripRequest) Normalize() {
	r.Source = strings.TrimSpace(r.Source)
	r.Destination = strings.TrimSpace(r.Destination)
	r.TransportMode = strings.TrimSpace(r.TransportMode)
	r.Preferences = strings.TrimSpace(r.Preferences)
}

var ErrNotANumber = errors.New("not a number")

// Amount is a whole number that clients may send either as a JSON number or
// as a numeric string ("15000"). Only the integer part is kept.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return ErrNotANumber
		}
		if strings.TrimSpace(s) == "" {
			// empty string is falsy, same as absent
			*a = 0
			return nil
		}
		n, err := leadingInt(s)
		if err != nil {
			return err
		}
		*a = Amount(n)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return ErrNotANumber
	}
	*a = Amount(int64(f))
	return nil
}

func (a Amount) Int() int { return int(a) }

// leadingInt parses an optional sign followed by digits, ignoring any trailing text.
func leadingInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, ErrNotANumber
	}
	return strconv.ParseInt(s[:end], 10, 64)
}

// BudgetTier is the coarse budget classification used to frame the prompt.
type BudgetTier string

const (
	TierLow    BudgetTier = "Low"
	TierMedium BudgetTier = "Medium"
	TierHigh   BudgetTier = "High"
)

// Plan is a validated request plus its derived tier.
type Plan struct {
	TripRequest
	Tier BudgetTier
}
