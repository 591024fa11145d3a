package journal

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
)

// columnInfo matches the output of SHOW COLUMNS.
type columnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // Pointer because NULL default is possible
	Extra   string
}

// SchemaReport strictly types the result of a journal schema check.
type SchemaReport struct {
	Table          string   `json:"table"`
	Matched        bool     `json:"matched"`
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
}

// VerifySchema compares the sync_runs table against the Run model, using
// the GORM tags as the source of truth. Extra columns in the table are
// tolerated; missing columns and type drift are not.
func VerifySchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Table:          Run{}.TableName(),
		Matched:        true,
		MissingColumns: []string{},
		TypeMismatches: []string{},
	}

	actual, err := tableColumns(db, report.Table)
	if err != nil {
		return nil, err
	}

	actualMap := make(map[string]columnInfo, len(actual))
	for _, col := range actual {
		actualMap[col.Field] = col
	}

	val := reflect.TypeOf(Run{})
	for i := 0; i < val.NumField(); i++ {
		tag := val.Field(i).Tag.Get("gorm")

		colName := parseGormColumn(tag)
		if colName == "" {
			continue
		}

		actCol, exists := actualMap[colName]
		if !exists {
			report.MissingColumns = append(report.MissingColumns, colName)
			report.Matched = false
			continue
		}

		// Only columns with an explicit type tag are type checked.
		expType := strings.ToLower(parseGormType(tag))
		if expType == "" {
			continue
		}
		if !strings.Contains(actCol.Type, expType) {
			mismatch := fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type)
			report.TypeMismatches = append(report.TypeMismatches, mismatch)
			report.Matched = false
		}
	}

	return report, nil
}

// tableColumns retrieves the column definitions for a given table.
func tableColumns(db *gorm.DB, tableName string) ([]columnInfo, error) {
	var columns []columnInfo
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	// Normalize for comparison
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
