package reconcile

import (
	"fmt"
	"strings"
)

// Kind classifies how a synchronized column's value is derived from the
// source row and how it is written into the target.
type Kind string

const (
	// KindText copies the source cell as trimmed text.
	KindText Kind = "text"

	// KindID copies the source cell through NormalizeID.
	KindID Kind = "id"

	// KindBool copies the source cell through NormalizeBool and writes
	// 0 or 1. Unrecognized values are skipped, never coerced.
	KindBool Kind = "bool"

	// KindCertFlag derives 0 or 1 from a free-text comment column via
	// CertFlagFromComment. The comment column is named by Column.Source.
	KindCertFlag Kind = "cert_flag"

	// KindRanges collects numeric IDs from the named source column across
	// every source row sharing the key and writes them as compressed
	// ranges, e.g. "(1–3) (7–8) (15)".
	KindRanges Kind = "ranges"

	// KindGuarded marks a target column that is never overwritten for
	// matched rows. On insert it receives Column.InsertValue, if set.
	KindGuarded Kind = "guarded"
)

// Column describes one synchronized target column.
type Column struct {
	// Name is the target header text.
	Name string `json:"name"`

	// Source is the source header the value derives from.
	// Empty means the source header equals Name.
	Source string `json:"source,omitempty"`

	// SourceAliases lists alternate source headers tried in order when
	// the primary source header is absent. Legacy exports rename columns.
	SourceAliases []string `json:"source_aliases,omitempty"`

	// Kind selects the value derivation.
	Kind Kind `json:"kind"`

	// Optional marks a column that may be absent. A missing optional
	// source column reads as empty; a missing optional target column is
	// skipped entirely. Missing required columns abort the run.
	Optional bool `json:"optional,omitempty"`

	// InsertValue initializes a guarded column on freshly inserted rows.
	// Nil leaves the cell untouched.
	InsertValue any `json:"insert_value,omitempty"`
}

// sourceNames returns the source headers to try, in priority order.
func (c Column) sourceNames() []string {
	primary := c.Source
	if primary == "" {
		primary = c.Name
	}
	return append([]string{primary}, c.SourceAliases...)
}

// TargetOnlyPolicy decides the fate of target rows whose key no longer
// appears in the source.
type TargetOnlyPolicy string

const (
	// TargetOnlyKeep leaves the row untouched.
	TargetOnlyKeep TargetOnlyPolicy = "keep"
	// TargetOnlyClear blanks the synchronized cells but keeps the row.
	TargetOnlyClear TargetOnlyPolicy = "clear"
	// TargetOnlyDelete removes the row entirely.
	TargetOnlyDelete TargetOnlyPolicy = "delete"
)

// InsertPolicy decides where new rows are placed.
type InsertPolicy string

const (
	// InsertFirstEmpty reuses the first row whose synchronized cells are
	// all empty, falling back to appending. Cleared rows get recycled.
	InsertFirstEmpty InsertPolicy = "first_empty"
	// InsertAppend always places new rows after the last data row.
	InsertAppend InsertPolicy = "append"
)

// Rules is the immutable configuration for one reconciliation.
type Rules struct {
	// Key is the target header of the match key column.
	Key string `json:"key"`

	// SourceKey overrides the source header of the key column.
	// Empty means it equals Key.
	SourceKey string `json:"source_key,omitempty"`

	// Columns lists every synchronized target column.
	Columns []Column `json:"columns"`

	// HeaderRow is the 1-based row holding headers. Zero means 1.
	HeaderRow int `json:"header_row,omitempty"`

	// DataStartRow is the first 1-based data row. Zero means HeaderRow+1.
	DataStartRow int `json:"data_start_row,omitempty"`

	// TargetOnly is the policy for rows no longer present in the source.
	// Empty means TargetOnlyKeep.
	TargetOnly TargetOnlyPolicy `json:"target_only,omitempty"`

	// Insert is the row placement policy. Empty means InsertFirstEmpty.
	Insert InsertPolicy `json:"insert,omitempty"`

	// MatchedOnly restricts the run to updating matched rows. No rows
	// are inserted and target-only rows are always kept.
	MatchedOnly bool `json:"matched_only,omitempty"`

	// ClearStray blanks residue values in synchronized cells of rows
	// that have an empty key. Off by default: keyless rows are invisible
	// to the run unless this is explicitly enabled.
	ClearStray bool `json:"clear_stray,omitempty"`
}

// withDefaults returns a copy with zero values replaced by defaults.
func (r Rules) withDefaults() Rules {
	if r.HeaderRow == 0 {
		r.HeaderRow = 1
	}
	if r.DataStartRow == 0 {
		r.DataStartRow = r.HeaderRow + 1
	}
	if r.TargetOnly == "" {
		r.TargetOnly = TargetOnlyKeep
	}
	if r.Insert == "" {
		r.Insert = InsertFirstEmpty
	}
	return r
}

// Validate reports configuration mistakes that no sheet content can fix.
func (r Rules) Validate() error {
	r = r.withDefaults()

	if strings.TrimSpace(r.Key) == "" {
		return fmt.Errorf("rules: key column is not set")
	}
	if len(r.Columns) == 0 {
		return fmt.Errorf("rules: no columns configured")
	}
	if r.DataStartRow <= r.HeaderRow {
		return fmt.Errorf("rules: data start row %d must be below header row %d", r.DataStartRow, r.HeaderRow)
	}
	switch r.TargetOnly {
	case TargetOnlyKeep, TargetOnlyClear, TargetOnlyDelete:
	default:
		return fmt.Errorf("rules: unknown target-only policy %q", r.TargetOnly)
	}
	switch r.Insert {
	case InsertFirstEmpty, InsertAppend:
	default:
		return fmt.Errorf("rules: unknown insert policy %q", r.Insert)
	}

	writesKey := false
	for i, c := range r.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("rules: column %d has no name", i)
		}
		switch c.Kind {
		case KindText, KindID, KindBool, KindGuarded:
		case KindCertFlag, KindRanges:
			if c.Source == "" {
				return fmt.Errorf("rules: column %q of kind %q needs an explicit source column", c.Name, c.Kind)
			}
		default:
			return fmt.Errorf("rules: column %q has unknown kind %q", c.Name, c.Kind)
		}
		if c.Name == r.Key && c.Kind != KindGuarded {
			writesKey = true
		}
	}
	if !r.MatchedOnly && !writesKey {
		return fmt.Errorf("rules: key column %q must be among the synchronized columns when inserts are possible", r.Key)
	}
	return nil
}

// MissingColumnsError aborts a run before any mutation when a sheet
// lacks required columns. All missing names are reported at once.
type MissingColumnsError struct {
	// Sheet is the name of the offending worksheet.
	Sheet string `json:"sheet"`

	// Columns lists every missing required header.
	Columns []string `json:"columns"`
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("sheet %q is missing required columns: %s", e.Sheet, strings.Join(e.Columns, ", "))
}

// ActionType represents the type of a planned mutation.
type ActionType string

const (
	// ActionUpdate rewrites the synchronized cells of a matched row.
	ActionUpdate ActionType = "update"
	// ActionInsert places a new row for a source-only key.
	ActionInsert ActionType = "insert"
	// ActionClear blanks the synchronized cells of a row.
	ActionClear ActionType = "clear"
	// ActionDelete removes a target-only row.
	ActionDelete ActionType = "delete"
)

// CellWrite is one pending cell mutation. A nil Value clears the cell.
type CellWrite struct {
	// Col is the 1-based target column.
	Col int

	// Value is written as-is; flags are numeric 0/1, IDs and text are
	// strings, nil blanks the cell.
	Value any
}

// Action represents one planned row mutation.
type Action struct {
	// Type specifies the mutation to perform.
	Type ActionType `json:"type"`

	// Key is the row's match key. Empty for stray-row clears.
	Key string `json:"key,omitempty"`

	// Row is the 1-based target row. Zero for inserts, whose final row
	// is chosen at apply time by the insert policy.
	Row int `json:"row,omitempty"`

	// Reason explains the action, e.g. the list of changed columns.
	Reason string `json:"reason,omitempty"`

	// Cells holds the pending writes for update, insert and clear actions.
	Cells []CellWrite `json:"-"`
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	// SourceKeys is the number of distinct non-empty keys in the source.
	SourceKeys int `json:"source_keys"`

	// Matched counts target rows whose key exists in the source,
	// including rows that needed no change.
	Matched int `json:"matched"`

	// Updated counts matched rows with at least one differing cell.
	Updated int `json:"updated"`

	// Inserted counts rows planned for source-only keys.
	Inserted int `json:"inserted"`

	// Cleared counts rows whose synchronized cells get blanked.
	Cleared int `json:"cleared"`

	// Deleted counts rows planned for removal.
	Deleted int `json:"deleted"`
}

// Plan contains every mutation a reconciliation would perform, computed
// without touching the target. Applying the plan is a separate step, so
// a dry run is simply a plan that never gets applied.
type Plan struct {
	// Actions lists planned mutations in planning order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	rules  Rules
	layout layout
}
