package reconcile

import (
	"strings"

	"sheet-sync/core/utils"
)

// KeyReport describes the state of a single key on both sides of a
// reconciliation, without planning or applying anything else.
type KeyReport struct {
	// Key is the looked-up match key.
	Key string `json:"key"`

	// InSource reports whether the key appears in the source sheet.
	InSource bool `json:"in_source"`

	// InTarget reports whether the key appears in the target sheet.
	InTarget bool `json:"in_target"`

	// SourceRow is the first source row carrying the key, 0 when absent.
	SourceRow int `json:"source_row,omitempty"`

	// TargetRow is the first target row carrying the key, 0 when absent.
	TargetRow int `json:"target_row,omitempty"`

	// Values holds the canonical source value per synchronized column.
	Values map[string]string `json:"values,omitempty"`

	// Current holds the raw target cell per synchronized column.
	Current map[string]string `json:"current,omitempty"`

	// Changed lists columns where Values and Current disagree.
	Changed []string `json:"changed,omitempty"`
}

// LookupKey reports how one key would reconcile under the given rules.
// It shares the column binding and source normalization with BuildPlan,
// so the report shows exactly what a run would read and write.
func LookupKey(source, target Table, rules Rules, key string) (*KeyReport, error) {
	rules = rules.withDefaults()
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	lay, err := bind(source, target, rules)
	if err != nil {
		return nil, err
	}

	key = strings.TrimSpace(key)
	report := &KeyReport{Key: key}

	recs, _ := scanSource(source, rules, lay)
	rec, ok := recs[key]
	if ok {
		report.InSource = true
		report.SourceRow = rec.row
		report.Values = make(map[string]string, len(rec.values))
		for name, v := range rec.values {
			report.Values[name] = utils.ToString(v)
		}
	}

	last := target.LastRow(lay.tgtKey, rules.DataStartRow)
	for row := rules.DataStartRow; row <= last; row++ {
		if strings.TrimSpace(target.Cell(row, lay.tgtKey)) != key {
			continue
		}
		report.InTarget = true
		report.TargetRow = row
		break
	}

	if report.InTarget {
		report.Current = make(map[string]string, len(lay.cols))
		for _, bc := range lay.cols {
			if bc.tgtCol == 0 {
				continue
			}
			report.Current[bc.Name] = target.Cell(report.TargetRow, bc.tgtCol)
		}
		if rec != nil {
			_, report.Changed = diffRow(target, report.TargetRow, rec, lay)
		}
	}

	return report, nil
}
