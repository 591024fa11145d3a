package reconcile

import (
	"sort"
	"strings"
)

// ApplyResult reports what Apply actually mutated.
type ApplyResult struct {
	// Summary repeats the plan's aggregate counts.
	Summary Summary `json:"summary"`

	// InsertedRows lists the target rows chosen for inserts, in the
	// order they were placed. Callers use it to restyle fresh rows.
	InsertedRows []int `json:"inserted_rows,omitempty"`
}

// Apply executes a plan against the target. Mutations run in a fixed
// order: in-place updates and clears first, then deletes bottom-up so
// remaining row numbers stay valid, then inserts against the live table
// so rows blanked moments ago can be recycled by the first-empty policy.
func (p *Plan) Apply(target Table) ApplyResult {
	res := ApplyResult{Summary: p.Summary}

	for _, a := range p.Actions {
		if a.Type == ActionUpdate || a.Type == ActionClear {
			writeCells(target, a.Row, a.Cells)
		}
	}

	var doomed []int
	for _, a := range p.Actions {
		if a.Type == ActionDelete {
			doomed = append(doomed, a.Row)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(doomed)))
	for _, row := range doomed {
		target.DeleteRow(row)
	}

	alloc := newRowAllocator(target, p.rules, p.layout)
	for _, a := range p.Actions {
		if a.Type != ActionInsert {
			continue
		}
		row := alloc.next()
		writeCells(target, row, a.Cells)
		res.InsertedRows = append(res.InsertedRows, row)
	}

	return res
}

func writeCells(t Table, row int, cells []CellWrite) {
	for _, cw := range cells {
		t.SetCell(row, cw.Col, cw.Value)
	}
}

// rowAllocator picks target rows for inserted keys according to the
// insert policy. It queries the live table, so rows freed by clears or
// deletes earlier in the same apply are eligible again.
type rowAllocator struct {
	target Table
	lay    layout
	policy InsertPolicy
	cursor int
	tail   int
	start  int
}

func newRowAllocator(target Table, rules Rules, lay layout) *rowAllocator {
	return &rowAllocator{
		target: target,
		lay:    lay,
		policy: rules.Insert,
		cursor: rules.DataStartRow,
		start:  rules.DataStartRow,
	}
}

func (ra *rowAllocator) next() int {
	if ra.policy == InsertFirstEmpty {
		maxRow := ra.target.MaxRow()
		for row := ra.cursor; row <= maxRow; row++ {
			if ra.rowFree(row) {
				ra.cursor = row + 1
				return row
			}
		}
		ra.cursor = maxRow + 1
		if ra.tail == 0 {
			// past every occupied row, residue rows included
			ra.tail = maxRow + 1
		}
	}
	if ra.tail == 0 {
		ra.tail = ra.target.LastRow(ra.lay.tgtKey, ra.start) + 1
	}
	if ra.tail < ra.start {
		ra.tail = ra.start
	}
	row := ra.tail
	ra.tail++
	return row
}

// rowFree reports whether a row can take an inserted key. The key cell
// and every configured cell must be blank, guarded ones included, so a
// new key never adopts another row's leftover reviewer notes.
func (ra *rowAllocator) rowFree(row int) bool {
	if strings.TrimSpace(ra.target.Cell(row, ra.lay.tgtKey)) != "" {
		return false
	}
	for _, bc := range ra.lay.cols {
		if bc.tgtCol == 0 {
			continue
		}
		if strings.TrimSpace(ra.target.Cell(row, bc.tgtCol)) != "" {
			return false
		}
	}
	return true
}
