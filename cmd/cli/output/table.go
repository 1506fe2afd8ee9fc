package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable prints a pretty table to w.
func RenderTable(w io.Writer, headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

// RenderRecords prints one row per record, taking the given columns from each.
// Missing values print empty.
func RenderRecords(w io.Writer, columns []string, records []map[string]any) {
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := make([]interface{}, len(columns))
		for i, col := range columns {
			if v, ok := rec[col]; ok && v != nil {
				row[i] = v
			} else {
				row[i] = ""
			}
		}
		rows = append(rows, row)
	}
	RenderTable(w, columns, rows)
}

// RenderJSON pretty-prints v.
func RenderJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
