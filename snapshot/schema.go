package snapshot

import (
	"fmt"
	"strings"
)

/*
	The read source's headers drift: tabs get re-created by hand and the
	same column shows up as "author", "author_id" or "user" depending on
	who rebuilt the sheet last. Each decoder declares a Schema listing,
	per canonical field, every spelling seen so far. Resolution against
	the actual header happens once per table, decoders then address
	cells by canonical field name only.
*/

type Column struct {
	Field    string
	Aliases  []string
	Required bool
}

type Schema struct {
	Name    string
	Columns []Column
}

// ColumnIndex maps canonical field names to header positions. Absent
// optional fields map to -1.
type ColumnIndex map[string]int

// Resolve matches the schema against a header. Header cells are
// compared case-insensitively with spaces folded to underscores. A
// missing required column fails the whole table.
func (s Schema) Resolve(header []string) (ColumnIndex, error) {
	position := make(map[string]int, len(header))
	for i, cell := range header {
		key := normalizeHeaderCell(cell)
		if _, taken := position[key]; !taken {
			position[key] = i
		}
	}

	index := make(ColumnIndex, len(s.Columns))
	for _, column := range s.Columns {
		index[column.Field] = -1
		for _, alias := range column.Aliases {
			if i, ok := position[alias]; ok {
				index[column.Field] = i
				break
			}
		}
		if index[column.Field] == -1 && column.Required {
			return nil, fmt.Errorf("%s: missing required column %q", s.Name, column.Field)
		}
	}
	return index, nil
}

// Get returns the cell for a canonical field, or "" when the column is
// absent from this table.
func (ix ColumnIndex) Get(row []string, field string) string {
	i, ok := ix[field]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeHeaderCell(cell string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(cell)), " ", "_")
}
