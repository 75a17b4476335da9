package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	return tw
}

func writeFetchTable(w io.Writer, results []models.FetchResult) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"SOURCE", "STATUS", "RECORDS", "ELAPSED", "ERROR"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})
	ok := 0
	for _, r := range results {
		status := text.FgRed.Sprint("failed")
		if r.OK {
			status = text.FgGreen.Sprint("ok")
			ok++
		}
		tw.AppendRow(table.Row{r.Source, status, r.Records, r.Elapsed, r.Error})
	}
	tw.AppendFooter(table.Row{"", "", ok, "", ""})
	tw.Render()
}

func writeReportsTable(w io.Writer, entries []models.ReportEntry) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"DATE", "TYPE", "NAME", "URL"})
	for _, e := range entries {
		tw.AppendRow(table.Row{e.Date, e.Type, e.TypeDisplay + " / " + e.TypeDisplayEn, e.URL})
	}
	tw.Render()
}

func writeDigestTable(w io.Writer, d models.Digest) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"TAG", "SUMMARY", "SUMMARY (EN)"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 50},
		{Number: 3, WidthMax: 60},
	})
	for _, n := range d.CoreNews {
		tw.AppendRow(table.Row{n.Tag, n.Summary, n.SummaryEn})
	}
	tw.Render()

	if len(d.FocusAreas) == 0 {
		return
	}
	fa := newTable(w)
	fa.AppendHeader(table.Row{"FOCUS", "REASON"})
	fa.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 70}})
	for _, f := range d.FocusAreas {
		fa.AppendRow(table.Row{f.Title + " / " + f.TitleEn, f.Reason})
	}
	fa.Render()
}
