package snapshot

import (
	"encoding/csv"
	"strings"

	"github.com/pkg/errors"
)

// ParseCSV parses a CSV tab export. The reader is deliberately lax:
// ragged rows are handled by NormalizeRows and stray quotes are common
// in hand-typed cells.
func ParseCSV(source string, body []byte) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}
	if len(records) == 0 {
		return nil, &ParseError{Source: source, Err: errors.New("empty table")}
	}

	table := &Table{Source: source, Header: records[0], Rows: records[1:]}
	table.NormalizeRows()
	return table, nil
}
