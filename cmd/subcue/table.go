package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subcue/internal/api"
	"subcue/internal/language"
	"subcue/internal/srt"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// maxTextWidth wraps long cue lines inside table cells.
const maxTextWidth = 48

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			WidthMax:         maxTextWidth,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderCueTable(cues []srt.Cue) string {
	rows := make([][]string, 0, len(cues))
	for _, cue := range cues {
		rows = append(rows, []string{
			fmt.Sprintf("%d", cue.ID),
			srt.FormatTimecode(cue.Start),
			srt.FormatTimecode(cue.End),
			cue.Primary,
			cue.Secondary,
		})
	}
	return renderTable(
		[]string{"ID", "Start", "End", "Primary", "Secondary"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func renderDiagnosticTable(diags []srt.Diagnostic) string {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.Block),
			fmt.Sprintf("%d", d.Line),
			string(d.Reason),
			d.Text,
		})
	}
	return renderTable(
		[]string{"Block", "Line", "Reason", "First line"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
	)
}

func renderTrackTable(tracks []api.Track) string {
	rows := make([][]string, 0, len(tracks))
	for _, tr := range tracks {
		rows = append(rows, []string{
			tr.ID,
			tr.Title,
			language.DisplayName(tr.Language),
			fmt.Sprintf("%d", tr.Size),
			tr.UpdatedAt,
			tr.Source,
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Language", "Bytes", "Updated", "Source"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}
