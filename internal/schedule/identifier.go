package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// IDDelimiter separates table id and entry index in a drag identifier.
const IDDelimiter = ":"

// FormatID builds the drag identifier "<tableID>:<index>".
func FormatID(tableID string, index int) string {
	return tableID + IDDelimiter + strconv.Itoa(index)
}

// ParseID splits a drag identifier on its first delimiter.
// An identifier without delimiter yields the whole string as table id and an
// empty index. Anything after the index stays in it, so "t1:0:x" has index
// "0:x" and does not name an entry.
func ParseID(id string) (tableID, index string) {
	tableID, index, _ = strings.Cut(id, IDDelimiter)
	return tableID, index
}

// ParseIndex converts the index part of an identifier.
func ParseIndex(index string) (int, bool) {
	if index == "" {
		return 0, false
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ParseRange parses a slot list such as "3", "3-5" or "1,4,6" for a grid of
// the given number of slots. Spans are bounded before they are expanded.
func ParseRange(s string, gridSlots int) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyRange
	}
	var slots []int
	for _, part := range strings.Split(s, ",") {
		lo, hi, isSpan := strings.Cut(strings.TrimSpace(part), "-")
		first, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("invalid slot %q", part)
		}
		last := first
		if isSpan {
			if last, err = strconv.Atoi(hi); err != nil || last < first {
				return nil, fmt.Errorf("invalid slot span %q", part)
			}
		}
		if last >= gridSlots {
			return nil, fmt.Errorf("%w: %d (grid has %d slots)", ErrSlotOutOfRange, last, gridSlots)
		}
		for v := first; v <= last; v++ {
			slots = append(slots, v)
		}
	}
	return slots, nil
}
