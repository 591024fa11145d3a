package reconcile

import (
	"sort"
	"strings"

	"sheet-sync/core/utils"
)

// Range is an inclusive run of consecutive terminal numbers.
type Range struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Ranges is an ordered set of non-overlapping, non-adjacent runs.
type Ranges []Range

// ParseID extracts a terminal number from a single cell value.
// Non-digit runes are ignored; a cell with no digits reports ok=false.
func ParseID(raw string) (int, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0, false
	}
	return utils.ToInt(digits), true
}

// ParseIDs extracts terminal numbers from a list of cell values,
// dropping values that carry no digits.
func ParseIDs(values []string) []int {
	ids := make([]int, 0, len(values))
	for _, v := range values {
		if id, ok := ParseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// CompressIDs folds a list of terminal numbers into sorted, de-duplicated
// inclusive ranges. Consecutive numbers merge into one range; a lone
// number becomes a single-element range.
func CompressIDs(ids []int) Ranges {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(ids))
	uniq := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Ints(uniq)

	var out Ranges
	lo, hi := uniq[0], uniq[0]
	for _, id := range uniq[1:] {
		if id == hi+1 {
			hi = id
			continue
		}
		out = append(out, Range{Low: lo, High: hi})
		lo, hi = id, id
	}
	out = append(out, Range{Low: lo, High: hi})
	return out
}

// String renders ranges in the operator report form, for example
// "(1–3) (7–8) (15)". Runs are joined by a single space; single-element
// runs omit the dash.
func (rs Ranges) String() string {
	if len(rs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, " ")
}

// String renders one range as "(lo–hi)", or "(lo)" when lo equals hi.
func (r Range) String() string {
	if r.Low == r.High {
		return "(" + utils.ToString(r.Low) + ")"
	}
	return "(" + utils.ToString(r.Low) + "–" + utils.ToString(r.High) + ")"
}
