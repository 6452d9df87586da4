package snapshot

import (
	"github.com/sirupsen/logrus"

	Logger "github.com/gridfeed/gridfeed/utils/log"
)

// Table is one tab of the read source, parsed but not yet decoded into
// typed records.
type Table struct {
	Source string
	Header []string
	Rows   [][]string
}

/*
	NormalizeRows reshapes raw rows against the header before decoding:

	  - rows wider than twice the header are dropped outright, that
	    degree of mismatch means an unescaped delimiter shredded the row
	    and every cell after the break is misaligned
	  - rows at most twice the header width are truncated to it
	  - short rows are padded with empty cells

	The sheet is hand-edited, so both directions happen in practice.
*/
func (t *Table) NormalizeRows() {
	width := len(t.Header)
	if width == 0 {
		return
	}
	kept := t.Rows[:0]
	for i, row := range t.Rows {
		if len(row) > 2*width {
			Logger.Log.WithFields(logrus.Fields{"source": t.Source}).
				Warnf("dropping corrupt row %d: %d fields against %d columns", i+1, len(row), width)
			continue
		}
		if len(row) > width {
			row = row[:width]
		}
		for len(row) < width {
			row = append(row, "")
		}
		kept = append(kept, row)
	}
	t.Rows = kept
}
