package xlsx

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound is returned when a workbook lacks a requested sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is an in-memory .xlsx file. It remembers whether any of its
// sheets were mutated, and it latches the first write error so a broken
// workbook can never be serialized and uploaded half-written.
type Workbook struct {
	f     *excelize.File
	dirty bool
	err   error
}

// OpenWorkbook parses workbook bytes, typically fresh from storage.
func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// NewWorkbook creates an empty workbook with excelize's default sheet.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// Sheet returns a view of an existing worksheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	idx, err := w.f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return &Sheet{wb: w, name: name, headerRow: 1}, nil
}

// HasSheet reports whether the workbook contains a worksheet.
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// CreateSheet adds a worksheet and returns its view. Existing sheets
// are returned as-is, so it is safe to call on every run.
func (w *Workbook) CreateSheet(name string) (*Sheet, error) {
	if w.HasSheet(name) {
		return w.Sheet(name)
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	w.dirty = true
	return &Sheet{wb: w, name: name, headerRow: 1}, nil
}

// SheetNames lists the workbook's worksheets in file order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Dirty reports whether any sheet was mutated since opening.
func (w *Workbook) Dirty() bool {
	return w.dirty
}

// Bytes serializes the workbook. It fails if any earlier cell write
// failed, rather than producing a workbook with silent holes.
func (w *Workbook) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, fmt.Errorf("workbook has a failed write: %w", w.err)
	}
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying file resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// note latches the first mutation error.
func (w *Workbook) note(err error) {
	if err != nil && w.err == nil {
		w.err = err
	}
}
