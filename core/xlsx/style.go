package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Fill colors for flag columns, matching the palette operators already
// use by hand: gray for blank, green for 1, red for 0.
const (
	fillBlank = "EDEDED"
	fillTrue  = "C6EFCE"
	fillFalse = "FFC7CE"
)

// CopyRowStyle clones per-cell styles and the row height from a template
// row onto another row. Cell values are left alone.
func (s *Sheet) CopyRowStyle(from, to int) {
	cols := s.LastHeaderCol()
	for col := 1; col <= cols; col++ {
		fromAxis, err := excelize.CoordinatesToCellName(col, from)
		if err != nil {
			continue
		}
		toAxis, err := excelize.CoordinatesToCellName(col, to)
		if err != nil {
			continue
		}
		styleID, err := s.wb.f.GetCellStyle(s.name, fromAxis)
		if err != nil {
			continue
		}
		s.wb.note(s.wb.f.SetCellStyle(s.name, toAxis, toAxis, styleID))
	}

	if h, err := s.wb.f.GetRowHeight(s.name, from); err == nil {
		s.wb.note(s.wb.f.SetRowHeight(s.name, to, h))
	}
	s.wb.dirty = true
}

// copyHeaderLook copies the header cell style and column width from one
// column to another.
func (s *Sheet) copyHeaderLook(fromCol, toCol int) {
	fromAxis, err := excelize.CoordinatesToCellName(fromCol, s.headerRow)
	if err != nil {
		return
	}
	toAxis, err := excelize.CoordinatesToCellName(toCol, s.headerRow)
	if err != nil {
		return
	}
	if styleID, err := s.wb.f.GetCellStyle(s.name, fromAxis); err == nil {
		s.wb.note(s.wb.f.SetCellStyle(s.name, toAxis, toAxis, styleID))
	}

	fromName, err := excelize.ColumnNumberToName(fromCol)
	if err != nil {
		return
	}
	toName, err := excelize.ColumnNumberToName(toCol)
	if err != nil {
		return
	}
	if width, err := s.wb.f.GetColWidth(s.name, fromName); err == nil {
		s.wb.note(s.wb.f.SetColWidth(s.name, toName, toName, width))
	}
}

// ApplyBoolFormat installs the three conditional fills on a 0/1 flag
// column over the given row span: gray when blank, green when 1, red
// when 0.
func (s *Sheet) ApplyBoolFormat(col, startRow, endRow int) error {
	if endRow < startRow {
		endRow = startRow
	}

	colName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return fmt.Errorf("flag column %d: %w", col, err)
	}

	blank, err := s.wb.f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillBlank}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("conditional style: %w", err)
	}
	green, err := s.wb.f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillTrue}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("conditional style: %w", err)
	}
	red, err := s.wb.f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{fillFalse}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("conditional style: %w", err)
	}

	first := fmt.Sprintf("%s%d", colName, startRow)
	area := fmt.Sprintf("%s%d:%s%d", colName, startRow, colName, endRow)

	opts := []excelize.ConditionalFormatOptions{
		{Type: "formula", Criteria: fmt.Sprintf("LEN(TRIM(%s))=0", first), Format: &blank},
		{Type: "formula", Criteria: fmt.Sprintf("%s=1", first), Format: &green},
		{Type: "formula", Criteria: fmt.Sprintf("%s=0", first), Format: &red},
	}
	if err := s.wb.f.SetConditionalFormat(s.name, area, opts); err != nil {
		return fmt.Errorf("conditional format on %s: %w", area, err)
	}
	s.wb.dirty = true
	return nil
}
