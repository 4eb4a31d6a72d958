package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// column describes one table column; numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
}

var (
	listColumns = []column{
		{"ID", true}, {"Title", false}, {"Platform", false}, {"Status", false},
		{"Tier", false}, {"Hours", true}, {"Press", true}, {"Users", true},
	}
	searchColumns = []column{
		{"ID", true}, {"Name", false}, {"Year", true}, {"Role", false},
		{"Press", true}, {"Platforms", false},
	}
	dlcColumns = []column{{"DLC", false}, {"Owned", false}}
)

// renderTable draws rows with rounded borders when styled and as bare
// aligned columns otherwise.
func renderTable(columns []column, rows [][]string, styled bool) string {
	if len(columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(tableStyle(styled))

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, Align: text.AlignLeft}
		if col.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		cells := make(table.Row, len(columns))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		tw.AppendRow(cells)
	}
	return tw.Render() + "\n"
}

func tableStyle(styled bool) table.Style {
	if styled {
		return table.StyleRounded
	}
	style := table.StyleDefault
	style.Options = table.OptionsNoBordersAndSeparators
	style.Format.Header = text.FormatDefault
	return style
}
