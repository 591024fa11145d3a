// Package xlsx wraps excelize behind the small worksheet surface the
// rest of the application needs: open a workbook from bytes, address
// cells by 1-based row and column, and serialize back to bytes.
//
// # Workbooks and sheets
//
// A Workbook is an in-memory .xlsx file, usually built from bytes that
// just came out of storage. Sheet values are thin views into one
// worksheet; they satisfy the reconcile.Table contract, so the engine
// never sees excelize types. The workbook tracks a dirty flag across
// all of its sheets, which is what lets a run skip the upload when
// nothing changed.
//
// # Styling
//
// Two styling helpers cover what operators expect from the maintained
// workbooks: CopyRowStyle clones a template row's cell styles and
// height onto freshly inserted rows, and ApplyBoolFormat installs the
// gray/green/red conditional fills on 0/1 flag columns.
package xlsx
