package csvtable

import "github.com/powerhouse-inc/go-datatable"

// Records converts parsed CSV rows with a header row into
// table rows, see datatable.StringRecords.
func Records(rows [][]string) []map[string]any {
	return datatable.StringRecords(rows)
}
