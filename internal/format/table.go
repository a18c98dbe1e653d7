// Package format renders keyframe listings for the command line, as either
// an aligned table or JSON.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/fyrelab/dejong/internal/util"
)

// KeyframeRow is one keyframe's listing entry.
type KeyframeRow struct {
	Index        int     `json:"index"`
	StartTime    float64 `json:"start_time"`
	Duration     float64 `json:"duration"`
	SplinePoints int     `json:"spline_points"`
	HasThumbnail bool    `json:"has_thumbnail"`
	Summary      string  `json:"summary"`
}

// TableFormatter prints keyframe rows as a bordered table.
type TableFormatter struct {
	headers []string
}

// NewTableFormatter creates a table formatter with the keyframe column set.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"#", "Start", "Duration", "Spline", "Thumb", "Params"},
	}
}

// Format writes the rows plus a total-length footer to w.
func (f *TableFormatter) Format(w io.Writer, rows []KeyframeRow) error {
	widths := f.calculateColumnWidths(rows)

	f.printBorder(w, widths, "top")
	f.printRow(w, f.headers, widths)
	f.printBorder(w, widths, "middle")

	var total float64
	for _, row := range rows {
		f.printRow(w, f.cells(row), widths)
		total += row.Duration
	}

	f.printBorder(w, widths, "middle")
	f.printRow(w, []string{"", "Total", util.FormatSeconds(total), "", "", ""}, widths)
	f.printBorder(w, widths, "bottom")
	return nil
}

func (f *TableFormatter) cells(row KeyframeRow) []string {
	thumb := "-"
	if row.HasThumbnail {
		thumb = "yes"
	}
	return []string{
		fmt.Sprintf("%d", row.Index),
		util.FormatSeconds(row.StartTime),
		util.FormatSeconds(row.Duration),
		fmt.Sprintf("%d pts", row.SplinePoints),
		thumb,
		row.Summary,
	}
}

// calculateColumnWidths sizes each column to its widest cell, with a small
// floor for readability. Widths use display width so non-ASCII summaries
// stay aligned.
func (f *TableFormatter) calculateColumnWidths(rows []KeyframeRow) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}

	for _, row := range rows {
		for i, value := range f.cells(row) {
			if w := runewidth.StringWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < 5 {
			widths[i] = 5
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(w io.Writer, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	fmt.Fprint(w, left)
	for i, width := range widths {
		fmt.Fprint(w, strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			fmt.Fprint(w, middle)
		}
	}
	fmt.Fprintln(w, right)
}

// printRow prints one row, padding cells to their column's display width.
func (f *TableFormatter) printRow(w io.Writer, values []string, widths []int) {
	fmt.Fprint(w, "│")
	for i, value := range values {
		padding := widths[i] - runewidth.StringWidth(value)
		if padding < 0 {
			padding = 0
		}
		fmt.Fprintf(w, " %s%s │", value, strings.Repeat(" ", padding))
	}
	fmt.Fprintln(w)
}
