package shell

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ytget/ytdl-shell/internal/model"
)

// Alignment selects how a table column is justified
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// PrintInfo writes the labelled metadata block
func PrintInfo(w io.Writer, info *model.VideoInfo) {
	fmt.Fprintln(w, "\nVideo Information:")
	fmt.Fprintf(w, "Title: %s\n", info.Title)
	fmt.Fprintf(w, "Duration: %s seconds\n", info.DurationString())
	fmt.Fprintf(w, "Uploader: %s\n", info.Uploader)
	fmt.Fprintf(w, "Views: %s\n", info.ViewCountString())
	fmt.Fprintf(w, "Upload Date: %s\n", info.UploadDate)
}

// PrintInfoTable writes the metadata as a two-column table
func PrintInfoTable(w io.Writer, info *model.VideoInfo) {
	rows := [][]string{
		{"Title", info.Title},
		{"Duration", info.ClockDuration()},
		{"Uploader", info.Uploader},
		{"Views", info.HumanViewCount()},
		{"Upload Date", info.UploadDate},
	}
	fmt.Fprintln(w, RenderTable([]string{"Field", "Value"}, rows, nil))
}

// RenderTable renders rows under headers. Missing cells render empty.
func RenderTable(headers []string, rows [][]string, aligns []Alignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
