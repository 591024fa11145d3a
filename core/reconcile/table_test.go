package reconcile

import (
	"strings"

	"sheet-sync/core/utils"
)

// memTable is an in-memory Table for engine tests. Row 1 is the header.
type memTable struct {
	name string
	rows [][]string
}

func newMemTable(name string, rows ...[]string) *memTable {
	return &memTable{name: name, rows: rows}
}

func (m *memTable) Name() string { return m.name }

func (m *memTable) Header() map[string]int {
	h := make(map[string]int)
	if len(m.rows) == 0 {
		return h
	}
	for i, cell := range m.rows[0] {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, ok := h[name]; !ok {
			h[name] = i + 1
		}
	}
	return h
}

func (m *memTable) Cell(row, col int) string {
	if row < 1 || row > len(m.rows) {
		return ""
	}
	r := m.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

func (m *memTable) SetCell(row, col int, value any) {
	for len(m.rows) < row {
		m.rows = append(m.rows, nil)
	}
	r := m.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	if value == nil {
		r[col-1] = ""
	} else {
		r[col-1] = utils.ToString(value)
	}
	m.rows[row-1] = r
}

func (m *memTable) LastRow(keyCol, startRow int) int {
	last := startRow - 1
	for row := startRow; row <= len(m.rows); row++ {
		if strings.TrimSpace(m.Cell(row, keyCol)) != "" {
			last = row
		}
	}
	return last
}

func (m *memTable) MaxRow() int { return len(m.rows) }

func (m *memTable) DeleteRow(row int) {
	if row < 1 || row > len(m.rows) {
		return
	}
	m.rows = append(m.rows[:row-1], m.rows[row:]...)
}

func (m *memTable) EnsureColumn(name string) int {
	if col, ok := m.Header()[name]; ok {
		return col
	}
	if len(m.rows) == 0 {
		m.rows = append(m.rows, nil)
	}
	m.rows[0] = append(m.rows[0], name)
	return len(m.rows[0])
}

// row returns a copy of a 1-based row for assertions.
func (m *memTable) row(row int) []string {
	if row < 1 || row > len(m.rows) {
		return nil
	}
	return append([]string(nil), m.rows[row-1]...)
}
