package reconcile

import (
	"strings"

	"sheet-sync/core/utils"
)

// boundColumn is a Column resolved against both sheets. A zero srcCol or
// tgtCol means the optional column is absent on that side.
type boundColumn struct {
	Column
	srcCol int
	tgtCol int
}

// layout is the column geometry a plan was built against.
type layout struct {
	srcKey int
	tgtKey int
	cols   []boundColumn
}

// record is the merged source state for one key.
type record struct {
	row    int
	values map[string]any
}

// BuildPlan computes every mutation needed to bring the target in line
// with the source, without touching either sheet. Planning fails before
// producing any action when a required column is missing on either side,
// so a run never mutates a structurally broken workbook.
func BuildPlan(source, target Table, rules Rules) (*Plan, error) {
	rules = rules.withDefaults()
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	lay, err := bind(source, target, rules)
	if err != nil {
		return nil, err
	}

	recs, order := scanSource(source, rules, lay)

	plan := &Plan{rules: rules, layout: lay}
	plan.Summary.SourceKeys = len(order)

	matched := make(map[string]bool, len(order))

	scanEnd := target.LastRow(lay.tgtKey, rules.DataStartRow)
	if rules.ClearStray {
		if mr := target.MaxRow(); mr > scanEnd {
			scanEnd = mr
		}
	}

	for row := rules.DataStartRow; row <= scanEnd; row++ {
		key := strings.TrimSpace(target.Cell(row, lay.tgtKey))

		if key == "" {
			if rules.ClearStray {
				plan.addClear(target, row, "", "residue in keyless row")
			}
			continue
		}

		rec, inSource := recs[key]
		if !inSource {
			if rules.MatchedOnly {
				continue
			}
			switch rules.TargetOnly {
			case TargetOnlyClear:
				plan.addClear(target, row, key, "key absent from source")
			case TargetOnlyDelete:
				plan.Actions = append(plan.Actions, Action{
					Type:   ActionDelete,
					Key:    key,
					Row:    row,
					Reason: "key absent from source",
				})
				plan.Summary.Deleted++
			}
			continue
		}

		if !matched[key] {
			matched[key] = true
			plan.Summary.Matched++
		}

		cells, changed := diffRow(target, row, rec, lay)
		if len(changed) > 0 {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionUpdate,
				Key:    key,
				Row:    row,
				Reason: "changed: " + strings.Join(changed, ", "),
				Cells:  cells,
			})
			plan.Summary.Updated++
		}
	}

	if !rules.MatchedOnly {
		for _, key := range order {
			if matched[key] {
				continue
			}
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionInsert,
				Key:    key,
				Reason: "key absent from target",
				Cells:  insertCells(recs[key], lay),
			})
			plan.Summary.Inserted++
		}
	}

	return plan, nil
}

// bind resolves every configured column against both headers and reports
// all missing required columns of a sheet in one error.
func bind(source, target Table, rules Rules) (layout, error) {
	srcHdr := source.Header()
	tgtHdr := target.Header()

	var lay layout
	var missingSrc, missingTgt []string

	srcKeyName := rules.SourceKey
	if srcKeyName == "" {
		srcKeyName = rules.Key
	}
	lay.srcKey = srcHdr[srcKeyName]
	if lay.srcKey == 0 {
		missingSrc = appendMissing(missingSrc, srcKeyName)
	}
	lay.tgtKey = tgtHdr[rules.Key]
	if lay.tgtKey == 0 {
		missingTgt = appendMissing(missingTgt, rules.Key)
	}

	for _, c := range rules.Columns {
		bc := boundColumn{Column: c}

		if c.Kind != KindGuarded {
			for _, name := range c.sourceNames() {
				if col := srcHdr[name]; col != 0 {
					bc.srcCol = col
					break
				}
			}
			if bc.srcCol == 0 && !c.Optional {
				missingSrc = appendMissing(missingSrc, c.sourceNames()[0])
			}
		}

		bc.tgtCol = tgtHdr[c.Name]
		if bc.tgtCol == 0 && !c.Optional {
			missingTgt = appendMissing(missingTgt, c.Name)
		}

		lay.cols = append(lay.cols, bc)
	}

	if len(missingSrc) > 0 {
		return layout{}, &MissingColumnsError{Sheet: source.Name(), Columns: missingSrc}
	}
	if len(missingTgt) > 0 {
		return layout{}, &MissingColumnsError{Sheet: target.Name(), Columns: missingTgt}
	}
	return lay, nil
}

// scanSource builds one record per distinct key. The first occurrence of
// a key wins; later duplicates are ignored except for ranges columns,
// which accumulate IDs across every row sharing the key. Rows with an
// empty key cell are invisible to the run.
func scanSource(source Table, rules Rules, lay layout) (map[string]*record, []string) {
	recs := make(map[string]*record)
	idsByKey := make(map[string][]int)
	var order []string

	last := source.LastRow(lay.srcKey, rules.DataStartRow)
	for row := rules.DataStartRow; row <= last; row++ {
		key := strings.TrimSpace(source.Cell(row, lay.srcKey))
		if key == "" {
			continue
		}

		for _, bc := range lay.cols {
			if bc.Kind == KindRanges && bc.srcCol != 0 {
				if id, ok := ParseID(source.Cell(row, bc.srcCol)); ok {
					idsByKey[key] = append(idsByKey[key], id)
				}
			}
		}

		if _, dup := recs[key]; dup {
			continue
		}

		rec := &record{row: row, values: make(map[string]any, len(lay.cols))}
		for _, bc := range lay.cols {
			switch bc.Kind {
			case KindText:
				rec.values[bc.Name] = strings.TrimSpace(cellOrEmpty(source, row, bc.srcCol))
			case KindID:
				rec.values[bc.Name] = NormalizeID(cellOrEmpty(source, row, bc.srcCol))
			case KindBool:
				if bc.srcCol != 0 {
					if v, ok := NormalizeBool(source.Cell(row, bc.srcCol)); ok {
						rec.values[bc.Name] = v
					}
				}
			case KindCertFlag:
				rec.values[bc.Name] = CertFlagFromComment(cellOrEmpty(source, row, bc.srcCol))
			}
		}
		recs[key] = rec
		order = append(order, key)
	}

	for _, bc := range lay.cols {
		if bc.Kind != KindRanges {
			continue
		}
		for key, rec := range recs {
			rec.values[bc.Name] = CompressIDs(idsByKey[key]).String()
		}
	}

	return recs, order
}

func cellOrEmpty(t Table, row, col int) string {
	if col == 0 {
		return ""
	}
	return t.Cell(row, col)
}

func appendMissing(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}

// diffRow compares a matched target row with its source record. It
// returns the full set of writes for the row plus the names of columns
// whose canonical source value differs from the raw target cell. An
// equal row yields no changed names and must not be written.
func diffRow(target Table, row int, rec *record, lay layout) ([]CellWrite, []string) {
	var cells []CellWrite
	var changed []string

	for _, bc := range lay.cols {
		if bc.Kind == KindGuarded || bc.tgtCol == 0 {
			continue
		}
		want, ok := rec.values[bc.Name]
		if !ok {
			continue
		}
		cells = append(cells, CellWrite{Col: bc.tgtCol, Value: want})
		if utils.ToString(want) != target.Cell(row, bc.tgtCol) {
			changed = append(changed, bc.Name)
		}
	}
	return cells, changed
}

// insertCells builds the writes for a fresh row: every synchronized
// column gets its source value and guarded columns get their configured
// initial value, if any.
func insertCells(rec *record, lay layout) []CellWrite {
	var cells []CellWrite
	for _, bc := range lay.cols {
		if bc.tgtCol == 0 {
			continue
		}
		if bc.Kind == KindGuarded {
			if bc.InsertValue != nil {
				cells = append(cells, CellWrite{Col: bc.tgtCol, Value: bc.InsertValue})
			}
			continue
		}
		if want, ok := rec.values[bc.Name]; ok {
			cells = append(cells, CellWrite{Col: bc.tgtCol, Value: want})
		}
	}
	return cells
}

// addClear plans a clear action for a row, skipping rows whose
// synchronized cells are already blank so reruns stay no-ops. Guarded
// cells are left alone: their content is owned by reviewers, not by the
// source.
func (p *Plan) addClear(target Table, row int, key, reason string) {
	var cells []CellWrite
	dirty := false
	for _, bc := range p.layout.cols {
		if bc.Kind == KindGuarded || bc.tgtCol == 0 {
			continue
		}
		cells = append(cells, CellWrite{Col: bc.tgtCol, Value: nil})
		if strings.TrimSpace(target.Cell(row, bc.tgtCol)) != "" {
			dirty = true
		}
	}
	if !dirty {
		return
	}
	p.Actions = append(p.Actions, Action{
		Type:   ActionClear,
		Key:    key,
		Row:    row,
		Reason: reason,
		Cells:  cells,
	})
	p.Summary.Cleared++
}
