package schedule

import (
	"fmt"
	"slices"
	"strings"
)

// DayPolicy decides what happens when a move pushes an entry past either end
// of the day labels.
type DayPolicy string

const (
	DayReject    DayPolicy = "reject"    // refuse the move
	DayClamp     DayPolicy = "clamp"     // stop at the first/last day
	DayWrap      DayPolicy = "wrap"      // continue from the other end of the week
	DayUnguarded DayPolicy = "unguarded" // leave the day empty
)

// ParseDayPolicy parses a policy name.
func ParseDayPolicy(s string) (DayPolicy, error) {
	p := DayPolicy(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case DayReject, DayClamp, DayWrap, DayUnguarded:
		return p, nil
	case "":
		return DayReject, nil
	default:
		return "", fmt.Errorf("unknown day policy %q", s)
	}
}

// Policy bundles the move guards applied by the store.
type Policy struct {
	Days               DayPolicy
	AllowNegativeSlots bool
}

// DefaultPolicy rejects moves that leave the week or go above slot zero.
func DefaultPolicy() Policy {
	return Policy{Days: DayReject}
}

// moved returns a copy of e shifted by the given offsets.
func (e *Entry) moved(days []string, dayOffset, timeOffset int, p Policy) (*Entry, error) {
	day, err := shiftDay(days, e.Day, dayOffset, p.Days)
	if err != nil {
		return nil, err
	}

	next := e.clone()
	next.Day = day
	for i, slot := range e.Range {
		s := slot + timeOffset
		if s < 0 && !p.AllowNegativeSlots {
			return nil, fmt.Errorf("%w: slot %d shifted by %d", ErrNegativeSlot, slot, timeOffset)
		}
		next.Range[i] = s
	}
	return next, nil
}

func shiftDay(days []string, current string, offset int, policy DayPolicy) (string, error) {
	n := len(days)
	idx := slices.Index(days, current)

	if policy == DayUnguarded {
		// An unknown day indexes from -1, like an unchecked lookup would.
		target := idx + offset
		if target < 0 || target >= n {
			return "", nil
		}
		return days[target], nil
	}

	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownDay, current)
	}
	target := idx + offset
	if target >= 0 && target < n {
		return days[target], nil
	}

	switch policy {
	case DayClamp:
		return days[max(0, min(target, n-1))], nil
	case DayWrap:
		return days[((target%n)+n)%n], nil
	default:
		return "", fmt.Errorf("%w: %s%+d", ErrDayOutOfRange, current, offset)
	}
}
