package checks

import (
	"fmt"

	"tiretrack/core/database"

	"gorm.io/gorm"
)

// requiredColumns lists the columns the scan flow reads and writes. A
// deployment missing any of them fails before the first scan does, so the
// check surfaces it up front.
var requiredColumns = map[string][]string{
	"notes": {
		"id", "kind", "name", "status", "created_at",
	},
	"note_details": {
		"id", "note_id", "code", "target_quantity",
		"fulfilled_quantity", "series_list", "status", "version",
	},
}

// SchemaReport lists missing columns per table.
type SchemaReport struct {
	Missing map[string][]string `json:"missing,omitempty"`
	OK      bool                `json:"ok"`
}

// CheckSchema compares the live schema against the columns the application
// requires. Extra columns are ignored.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	report := &SchemaReport{Missing: make(map[string][]string), OK: true}

	for table, required := range requiredColumns {
		columns, err := database.GetTableColumns(db, table)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
		}

		present := make(map[string]bool, len(columns))
		for _, col := range columns {
			present[col.Field] = true
		}
		for _, name := range required {
			if !present[name] {
				report.Missing[table] = append(report.Missing[table], name)
				report.OK = false
			}
		}
	}

	if report.OK {
		report.Missing = nil
	}
	return report, nil
}
