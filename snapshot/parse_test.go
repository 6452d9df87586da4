package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	body := []byte("id,author,content\np1,u1,\"hello, world\"\np2,u2\n")
	table, err := ParseCSV("posts", body)

	assert.Nil(t, err)
	assert.Equal(t, []string{"id", "author", "content"}, table.Header)
	assert.Equal(t, [][]string{
		{"p1", "u1", "hello, world"},
		{"p2", "u2", ""},
	}, table.Rows)
}

func TestParseCSVEmptyBody(t *testing.T) {
	_, err := ParseCSV("posts", []byte(""))

	parseErr, ok := err.(*ParseError)
	assert.True(t, ok)
	assert.Equal(t, "posts", parseErr.Source)
}

func TestParseHTMLTable(t *testing.T) {
	body := []byte(`<html><body>
		<table>
			<tr><th>id</th><th>author</th><th>content</th></tr>
			<tr><td>p1</td><td>u1</td><td>hello</td></tr>
			<tr><td>p2</td><td>u2</td><td>&nbsp;</td></tr>
		</table>
	</body></html>`)
	table, err := ParseHTMLTable("posts", body)

	assert.Nil(t, err)
	assert.Equal(t, []string{"id", "author", "content"}, table.Header)
	assert.Equal(t, [][]string{
		{"p1", "u1", "hello"},
		{"p2", "u2", ""},
	}, table.Rows)
}

func TestParseHTMLTableNoTable(t *testing.T) {
	_, err := ParseHTMLTable("posts", []byte("<html><body><p>moved</p></body></html>"))

	_, ok := err.(*ParseError)
	assert.True(t, ok)
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, looksLikeHTML([]byte("<html>"), ""))
	assert.True(t, looksLikeHTML([]byte("id,author"), "text/html; charset=utf-8"))
	assert.False(t, looksLikeHTML([]byte("id,author\np1,u1"), "text/csv"))
}
