package xlsx

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is a view of one worksheet, addressed by 1-based row and column.
// It satisfies the reconcile.Table contract. Headers live in row 1.
type Sheet struct {
	wb        *Workbook
	name      string
	headerRow int
}

// Name returns the worksheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Header maps trimmed header text to its 1-based column. On duplicate
// headers the first occurrence wins.
func (s *Sheet) Header() map[string]int {
	hdr := make(map[string]int)
	for col, raw := range s.headerCells() {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := hdr[name]; !ok {
			hdr[name] = col + 1
		}
	}
	return hdr
}

// Cell returns the raw string value of a cell, empty when blank.
func (s *Sheet) Cell(row, col int) string {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	v, err := s.wb.f.GetCellValue(s.name, axis)
	if err != nil {
		return ""
	}
	return v
}

// SetCell writes a value. Nil blanks the cell. The workbook is marked
// dirty; write failures are latched and surface from Workbook.Bytes.
func (s *Sheet) SetCell(row, col int, value any) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.wb.note(err)
		return
	}
	s.wb.note(s.wb.f.SetCellValue(s.name, axis, value))
	s.wb.dirty = true
}

// LastRow returns the last row at or after startRow whose key cell is
// non-empty, or startRow-1 when there is none.
func (s *Sheet) LastRow(keyCol, startRow int) int {
	last := startRow - 1
	maxRow := s.MaxRow()
	for row := startRow; row <= maxRow; row++ {
		if strings.TrimSpace(s.Cell(row, keyCol)) != "" {
			last = row
		}
	}
	return last
}

// MaxRow returns the last row carrying any value.
func (s *Sheet) MaxRow() int {
	rows, err := s.wb.f.GetRows(s.name)
	if err != nil {
		return 0
	}
	return len(rows)
}

// DeleteRow removes a row, shifting the rows below it up.
func (s *Sheet) DeleteRow(row int) {
	s.wb.note(s.wb.f.RemoveRow(s.name, row))
	s.wb.dirty = true
}

// EnsureColumn returns the column of a header, appending a new header
// cell after the last occupied one when absent. The new header copies
// the style and column width of its left neighbor, so grown tables keep
// looking like the hand-built ones.
func (s *Sheet) EnsureColumn(name string) int {
	if col, ok := s.Header()[name]; ok {
		return col
	}

	lastCol := len(s.headerCells())
	newCol := lastCol + 1

	axis, err := excelize.CoordinatesToCellName(newCol, s.headerRow)
	if err != nil {
		s.wb.note(err)
		return newCol
	}
	s.wb.note(s.wb.f.SetCellValue(s.name, axis, name))
	s.wb.dirty = true

	if lastCol >= 1 {
		s.copyHeaderLook(lastCol, newCol)
	}
	return newCol
}

// LastHeaderCol returns the number of occupied header cells.
func (s *Sheet) LastHeaderCol() int {
	return len(s.headerCells())
}

func (s *Sheet) headerCells() []string {
	rows, err := s.wb.f.GetRows(s.name)
	if err != nil || len(rows) < s.headerRow {
		return nil
	}
	return rows[s.headerRow-1]
}
