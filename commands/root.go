// Package commands wires the dejong CLI: noninteractive rendering of single
// images and keyframe animation files.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrelab/dejong/internal/render"
	"github.com/fyrelab/dejong/internal/util"
)

var (
	// Logging related
	debug bool

	// Parameter sources
	paramFile string

	// Single-image rendering
	outputFile string

	// Individual parameter overrides, applied in flag order on top of the
	// defaults (or the loaded parameter file).
	paramFlags = map[string]*string{}

	rootCmd = &cobra.Command{
		Use:   "dejong [flags]",
		Short: "Peter de Jong attractor renderer and keyframe animation tool",
		Long: `dejong renders images of the Peter de Jong attractor and plays back
keyframe animation files (.dja).

With --output, renders a single image from the given parameters. Animation
files are handled by the subcommands.

Examples:
  dejong -o out.png -a 1.4 -b -2.3 --size 800          # Render one image
  dejong -o out.png -i params.txt --density 50000       # Render from a parameter file
  dejong info flight.dja                                # List an animation's keyframes
  dejong render flight.dja --fps 24 --out frames/       # Render animation frames
  dejong watch flight.dja --fps 24 --out frames/        # Re-render whenever the file changes`,
		RunE: runRoot,
	}
)

const defaultLogFile = "~/.dejong/logs/app.log"

// paramFlagNames maps flag names to parameter keys, in the order they are
// registered.
var paramFlagNames = []struct {
	flag, key, shorthand, usage string
}{
	{"a", "a", "a", "Set the 'a' coefficient"},
	{"b", "b", "b", "Set the 'b' coefficient"},
	{"c", "c", "c", "Set the 'c' coefficient"},
	{"d", "d", "d", "Set the 'd' coefficient"},
	{"x-offset", "xoffset", "x", "Set the X offset"},
	{"y-offset", "yoffset", "y", "Set the Y offset"},
	{"zoom", "zoom", "z", "Set the zoom factor"},
	{"rotation", "rotation", "r", "Set the rotation, in radians"},
	{"blur-radius", "blur_radius", "", "Set the blur radius"},
	{"blur-ratio", "blur_ratio", "", "Set the blur ratio"},
	{"exposure", "exposure", "e", "Set the image exposure"},
	{"gamma", "gamma", "g", "Set the image gamma correction"},
	{"foreground", "fgcolor", "", "Set the foreground color (#RRGGBB)"},
	{"background", "bgcolor", "", "Set the background color (#RRGGBB)"},
	{"fg-alpha", "fgalpha", "", "Set the foreground alpha (0-65535)"},
	{"bg-alpha", "bgalpha", "", "Set the background alpha (0-65535)"},
	{"clamped", "clamped", "", "Clamp the image to the foreground color (0 or 1)"},
	{"tileable", "tileable", "", "Wrap at the edges to generate a tileable image (0 or 1)"},
	{"size", "size", "s", "Set the image size in pixels, WIDTH or WIDTHxHEIGHT"},
	{"oversample", "oversample", "", "Compute at an integer multiple of the output resolution"},
	{"density", "target_density", "t", "Peak density to stop noninteractive rendering at"},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	rootCmd.Flags().StringVarP(&paramFile, "read", "i", "",
		"Load parameters from a key = value text file")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "",
		"Render an image with the provided settings and write it in PNG format to FILE")

	for _, pf := range paramFlagNames {
		value := paramFlags[pf.key]
		if value == nil {
			value = new(string)
			paramFlags[pf.key] = value
		}
		if pf.shorthand != "" {
			rootCmd.Flags().StringVarP(value, pf.flag, pf.shorthand, "", pf.usage)
		} else {
			rootCmd.Flags().StringVar(value, pf.flag, "", pf.usage)
		}
	}
}

// initLogging sets up the global logger. Called by every command.
func initLogging() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		logFile = ""
	}
	util.InitLogger(logLevel, logFile, debug)
}

// gatherParams resolves the effective parameter set: defaults, then the
// parameter file, then individual flag overrides.
func gatherParams() (render.Params, error) {
	p := render.Default()

	if paramFile != "" {
		data, err := os.ReadFile(expandPath(paramFile))
		if err != nil {
			return p, fmt.Errorf("reading parameter file: %w", err)
		}
		p = render.Parse(data)
	}

	for key, value := range paramFlags {
		if *value == "" {
			continue
		}
		if err := p.Set(key, *value); err != nil {
			return p, err
		}
	}
	return p, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	initLogging()

	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}
	if outputFile == "" {
		return cmd.Help()
	}

	p, err := gatherParams()
	if err != nil {
		return err
	}
	return renderStill(p, expandPath(outputFile))
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
