package page

import (
	"encoding/json"
	"strconv"
)

// Breakpoint names a viewport-width tier.
type Breakpoint string

const (
	Desktop Breakpoint = "desktop"
	Tablet  Breakpoint = "tablet"
	Mobile  Breakpoint = "mobile"
)

// Breakpoints lists the tiers from widest to narrowest, which is also cascade order.
var Breakpoints = []Breakpoint{Desktop, Tablet, Mobile}

// ParseBreakpoint maps a request value onto a breakpoint, defaulting to desktop.
func ParseBreakpoint(s string) Breakpoint {
	switch Breakpoint(s) {
	case Tablet:
		return Tablet
	case Mobile:
		return Mobile
	default:
		return Desktop
	}
}

// StyleState names an interaction state bucket.
type StyleState string

const (
	StateDefault StyleState = "default"
	StateHover   StyleState = "hover"
)

// StyleStates lists every interaction state.
var StyleStates = []StyleState{StateDefault, StateHover}

// StyleMap is a flat attribute-name to value map.
type StyleMap map[string]string

// UnmarshalJSON accepts numbers and booleans as values and stores their text form.
func (m *StyleMap) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(StyleMap, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
		default:
			b, _ := json.Marshal(val)
			out[k] = string(b)
		}
	}
	*m = out
	return nil
}

// Clone returns a shallow copy of the map.
func (m StyleMap) Clone() StyleMap {
	out := make(StyleMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge copies every key of src over m.
func (m StyleMap) Merge(src StyleMap) {
	for k, v := range src {
		m[k] = v
	}
}

// Styles holds per-breakpoint, per-state style buckets.
type Styles map[Breakpoint]map[StyleState]StyleMap

// NewStyles returns styles with every breakpoint and state bucket initialized.
func NewStyles() Styles {
	return Styles(nil).Ensure()
}

// Ensure returns s with all six buckets present, allocating what is missing.
func (s Styles) Ensure() Styles {
	if s == nil {
		s = make(Styles, len(Breakpoints))
	}
	for _, bp := range Breakpoints {
		if s[bp] == nil {
			s[bp] = make(map[StyleState]StyleMap, len(StyleStates))
		}
		for _, st := range StyleStates {
			if s[bp][st] == nil {
				s[bp][st] = StyleMap{}
			}
		}
	}
	return s
}

// Bucket returns the map for a breakpoint and state, or nil.
func (s Styles) Bucket(bp Breakpoint, st StyleState) StyleMap {
	if s == nil || s[bp] == nil {
		return nil
	}
	return s[bp][st]
}

// Clone deep copies all buckets.
func (s Styles) Clone() Styles {
	out := make(Styles, len(s))
	for bp, states := range s {
		cp := make(map[StyleState]StyleMap, len(states))
		for st, m := range states {
			cp[st] = m.Clone()
		}
		out[bp] = cp
	}
	return out.Ensure()
}
