package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/coursedoc/internal/doctree"
)

// CSVParser reads a course outline kept as a spreadsheet. Each row is
// kind,title[,text] where kind is a node type (course, section, chapter,
// paragraph, notion, exercise), a heading rank 1..6, or "text" for a body
// block. A header row starting with "type" or "kind" is skipped.
type CSVParser struct{}

var csvRanks = map[string]int{
	"course":    1,
	"section":   2,
	"chapter":   3,
	"paragraph": 4,
	"notion":    5,
	"exercise":  6,
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		switch strings.ToLower(strings.TrimSpace(records[0][0])) {
		case "type", "kind":
			records = records[1:]
		}
	}

	b := doctree.NewBuilder()
	for i, row := range records {
		kind := strings.ToLower(strings.TrimSpace(row[0]))
		title, text := cell(row, 1), cell(row, 2)

		if kind == "text" || kind == "" {
			b.Text(strings.TrimSpace(title + "\n" + text))
			continue
		}
		rank, ok := csvRanks[kind]
		if !ok {
			n, err := strconv.Atoi(kind)
			if err != nil || n < 1 || n > 6 {
				return nil, fmt.Errorf("row %d: unknown kind %q", i+1, row[0])
			}
			rank = n
		}
		b.Heading(rank, title)
		b.Text(text)
	}
	return newResult(b.Root(), filename), nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
