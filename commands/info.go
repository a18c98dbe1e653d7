package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrelab/dejong/internal/animation"
	"github.com/fyrelab/dejong/internal/format"
	"github.com/fyrelab/dejong/internal/render"
)

var (
	infoOutput string

	infoCmd = &cobra.Command{
		Use:   "info FILE",
		Short: "List the keyframes of an animation file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "table",
		"Output format (table, json)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	initLogging()

	anim := animation.New()
	if err := anim.LoadFile(expandPath(args[0])); err != nil {
		return err
	}

	rows := buildKeyframeRows(anim)

	switch infoOutput {
	case "table":
		return format.NewTableFormatter().Format(os.Stdout, rows)
	case "json":
		return format.NewJSONFormatter().Format(os.Stdout, rows)
	default:
		return fmt.Errorf("unknown output format %q", infoOutput)
	}
}

// buildKeyframeRows flattens an animation into listing rows.
func buildKeyframeRows(anim *animation.Animation) []format.KeyframeRow {
	store := anim.Store()
	rows := make([]format.KeyframeRow, 0, store.Len())

	for ref := store.First(); ref != animation.NoRef; ref = store.Next(ref) {
		row := format.KeyframeRow{
			Index:        int(ref),
			StartTime:    anim.StartTime(ref),
			Duration:     store.Duration(ref),
			HasThumbnail: store.Thumbnail(ref) != nil,
		}
		if curve := store.Spline(ref); curve != nil {
			row.SplinePoints = len(curve.Points())
		}
		if params := store.Params(ref); params != nil {
			p := render.Parse(params)
			row.Summary = fmt.Sprintf("a=%.3f b=%.3f c=%.3f d=%.3f", p.A, p.B, p.C, p.D)
		}
		rows = append(rows, row)
	}
	return rows
}
