package xlsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testSheet(t *testing.T, rows [][]any) *Sheet {
	t.Helper()

	wb := buildWorkbook(t, "СВОДНАЯ", rows)
	s, err := wb.Sheet("СВОДНАЯ")
	require.NoError(t, err)
	return s
}

func TestSheet_Header(t *testing.T) {
	s := testSheet(t, [][]any{
		{" Агент ID ", "МТС ID", "", "МТС ID", "GUID"},
	})

	hdr := s.Header()
	assert.Equal(t, 1, hdr["Агент ID"], "header text is trimmed")
	assert.Equal(t, 2, hdr["МТС ID"], "first duplicate wins")
	assert.Equal(t, 5, hdr["GUID"])
	assert.NotContains(t, hdr, "")
}

func TestSheet_LastRowIgnoresKeylessTail(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент", "Город"},
		{"A-1", "Tver"},
		{"", "residue"},
		{"A-3", ""},
		{"", "more residue"},
	})

	assert.Equal(t, 4, s.LastRow(1, 2), "last keyed row")
	assert.Equal(t, 5, s.MaxRow(), "residue still counts for extent")
}

func TestSheet_LastRowOnEmptySheet(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент"},
	})

	assert.Equal(t, 1, s.LastRow(1, 2))
}

func TestSheet_SetCellNilBlanks(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент"},
		{"A-1"},
	})

	s.SetCell(2, 1, nil)
	assert.Equal(t, "", s.Cell(2, 1))
}

func TestSheet_DeleteRowShiftsRowsUp(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент"},
		{"A-1"},
		{"A-2"},
		{"A-3"},
	})

	s.DeleteRow(2)

	assert.Equal(t, "A-2", s.Cell(2, 1))
	assert.Equal(t, "A-3", s.Cell(3, 1))
	assert.Equal(t, 3, s.MaxRow())
}

func TestSheet_EnsureColumn(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент", "МТС"},
	})

	assert.Equal(t, 2, s.EnsureColumn("МТС"), "existing column is reused")

	got := s.EnsureColumn("Терминалы")
	assert.Equal(t, 3, got)
	assert.Equal(t, "Терминалы", s.Cell(1, 3))

	// a second call finds the freshly added header
	assert.Equal(t, 3, s.EnsureColumn("Терминалы"))
}

func TestSheet_EnsureColumnCopiesHeaderLook(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент"},
	})

	styleID, err := s.wb.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	require.NoError(t, err)
	require.NoError(t, s.wb.f.SetCellStyle("СВОДНАЯ", "A1", "A1", styleID))
	require.NoError(t, s.wb.f.SetColWidth("СВОДНАЯ", "A", "A", 33))

	col := s.EnsureColumn("GUID")
	require.Equal(t, 2, col)

	copied, err := s.wb.f.GetCellStyle("СВОДНАЯ", "B1")
	require.NoError(t, err)
	assert.Equal(t, styleID, copied)

	width, err := s.wb.f.GetColWidth("СВОДНАЯ", "B")
	require.NoError(t, err)
	assert.InDelta(t, 33, width, 0.01)
}

func TestSheet_CopyRowStyle(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент", "Город"},
		{"A-1", "Tver"},
	})

	styleID, err := s.wb.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	require.NoError(t, err)
	require.NoError(t, s.wb.f.SetCellStyle("СВОДНАЯ", "A2", "B2", styleID))
	require.NoError(t, s.wb.f.SetRowHeight("СВОДНАЯ", 2, 21))

	s.CopyRowStyle(2, 5)

	for _, axis := range []string{"A5", "B5"} {
		copied, err := s.wb.f.GetCellStyle("СВОДНАЯ", axis)
		require.NoError(t, err)
		assert.Equal(t, styleID, copied, axis)
	}

	h, err := s.wb.f.GetRowHeight("СВОДНАЯ", 5)
	require.NoError(t, err)
	assert.InDelta(t, 21, h, 0.01)
}

func TestSheet_ApplyBoolFormat(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент", "Сертификат"},
		{"A-1", 1},
		{"A-2", 0},
		{"A-3", ""},
	})

	require.NoError(t, s.ApplyBoolFormat(2, 2, 4))

	formats, err := s.wb.f.GetConditionalFormats("СВОДНАЯ")
	require.NoError(t, err)
	require.Contains(t, formats, "B2:B4")
	assert.Len(t, formats["B2:B4"], 3)
}

func TestSheet_ApplyBoolFormatClampsEmptyRange(t *testing.T) {
	s := testSheet(t, [][]any{
		{"Агент", "Сертификат"},
	})

	// no data rows yet: the span degrades to the single first data row
	require.NoError(t, s.ApplyBoolFormat(2, 2, 1))

	formats, err := s.wb.f.GetConditionalFormats("СВОДНАЯ")
	require.NoError(t, err)
	require.Contains(t, formats, "B2:B2")
}
