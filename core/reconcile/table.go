package reconcile

// Table is the narrow worksheet contract the engine plans and applies
// against. core/xlsx provides the real implementation; tests use an
// in-memory one. Rows and columns are 1-based throughout.
type Table interface {
	// Name returns the worksheet name, used in error messages.
	Name() string

	// Header maps trimmed header-row text to its 1-based column.
	// On duplicate headers the first occurrence wins.
	Header() map[string]int

	// Cell returns the raw string value of a cell, empty when blank.
	Cell(row, col int) string

	// SetCell writes a value. Nil blanks the cell.
	SetCell(row, col int, value any)

	// LastRow returns the last row at or after startRow whose key cell
	// is non-empty, or startRow-1 when there is none.
	LastRow(keyCol, startRow int) int

	// MaxRow returns the last row carrying any value.
	MaxRow() int

	// DeleteRow removes a row, shifting the rows below it up.
	DeleteRow(row int)

	// EnsureColumn returns the column for a header, appending a new
	// header cell after the last occupied one when absent.
	EnsureColumn(name string) int
}
