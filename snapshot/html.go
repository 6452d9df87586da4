package snapshot

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// ParseHTMLTable parses a published-to-web tab, which arrives as an
// HTML page whose first <table> holds the data. The first row is the
// header whether the publisher emitted <th> or <td> cells.
func ParseHTMLTable(source string, body []byte) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	tableSel := doc.Find("table").First()
	if tableSel.Length() == 0 {
		return nil, &ParseError{Source: source, Err: errors.New("no table in document")}
	}

	var rows [][]string
	tableSel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cleanCell(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	if len(rows) == 0 {
		return nil, &ParseError{Source: source, Err: errors.New("empty table")}
	}

	table := &Table{Source: source, Header: rows[0], Rows: rows[1:]}
	table.NormalizeRows()
	return table, nil
}

// cleanCell trims whitespace and the non-breaking spaces the publisher
// uses to render blank cells.
func cleanCell(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, " ", " "))
}
