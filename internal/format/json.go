package format

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// JSONFormatter prints keyframe rows as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the rows to w.
func (f *JSONFormatter) Format(w io.Writer, rows []KeyframeRow) error {
	if rows == nil {
		rows = []KeyframeRow{}
	}
	data, err := sonic.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
