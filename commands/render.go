package commands

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fyrelab/dejong/internal/animation"
	"github.com/fyrelab/dejong/internal/render"
	"github.com/fyrelab/dejong/internal/util"
)

var (
	renderFPS        float64
	renderOutDir     string
	renderSize       string
	renderIterations int

	renderCmd = &cobra.Command{
		Use:   "render FILE",
		Short: "Render an animation file to numbered PNG frames",
		Long: `Loads a keyframe animation file, walks its timeline at the given frame
rate, and renders each frame's interpolated parameters to a numbered PNG in
the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runRender,
	}
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Float64Var(&renderFPS, "fps", 24,
		"Frames per second to sample the timeline at")
	renderCmd.Flags().StringVar(&renderOutDir, "out", "frames",
		"Directory to write frame_NNNNNN.png files into")
	renderCmd.Flags().StringVar(&renderSize, "size", "",
		"Frame size in pixels, WIDTH or WIDTHxHEIGHT (defaults to the keyframes' own size)")
	renderCmd.Flags().IntVar(&renderIterations, "max-iterations", 5000000,
		"Iteration budget per frame")
}

func runRender(cmd *cobra.Command, args []string) error {
	initLogging()

	anim := animation.New()
	if err := anim.LoadFile(expandPath(args[0])); err != nil {
		return err
	}
	return renderAnimation(anim, expandPath(renderOutDir))
}

// renderAnimation walks the timeline and writes one PNG per frame.
func renderAnimation(anim *animation.Animation, outDir string) error {
	if renderFPS <= 0 {
		return fmt.Errorf("frame rate must be positive, got %v", renderFPS)
	}
	if anim.Store().Len() == 0 {
		return fmt.Errorf("animation has no keyframes")
	}
	if err := ensureDir(outDir); err != nil {
		return err
	}

	totalFrames := int(math.Round(anim.TotalLength() * renderFPS))
	util.LogInfof("Rendering %d frames at %g fps to %s", totalFrames, renderFPS, outDir)

	start := time.Now()
	it := anim.IterFirst()
	frame := 0
	for {
		blend, _, ok := it.ReadFrame(renderFPS)
		if !ok {
			break
		}

		p := render.InterpolateLinear(blend.Alpha,
			render.Parse(blend.From), render.Parse(blend.To))
		if renderSize != "" {
			if err := p.Set("size", renderSize); err != nil {
				return err
			}
		}

		img := render.Render(p, renderIterations)
		path := filepath.Join(outDir, fmt.Sprintf("frame_%06d.png", frame))
		if err := writePNG(path, img); err != nil {
			return err
		}

		frame++
		printProgress(frame, totalFrames, start)
	}
	finishProgress()

	util.LogInfof("Rendered %d frames in %s", frame, util.FormatClock(time.Since(start)))
	return nil
}

// renderStill renders a single image to the target density, showing the
// original's progress doodads while the user waits.
func renderStill(p render.Params, path string) error {
	f := render.NewFrame(p)
	target := p.TargetDensity
	start := time.Now()

	const batch = 1000000
	for f.Density() < target {
		f.Iterate(batch)

		elapsed := time.Since(start)
		if elapsed <= 0 || f.Density() == 0 {
			continue
		}
		// Density increases roughly linearly with iterations, which makes
		// this a fair time estimate.
		remaining := time.Duration(float64(elapsed)*float64(target)/float64(f.Density())) - elapsed
		line := fmt.Sprintf("%6.02f%%   %.3e   %.2e/sec   %6d / %d   %s / %s",
			100*float64(f.Density())/float64(target),
			f.Iterations(), f.Iterations()/elapsed.Seconds(),
			f.Density(), target,
			util.FormatClock(elapsed), util.FormatClock(remaining))
		printStatusLine(line)
	}
	finishProgress()

	fmt.Println("Creating image...")
	return writePNG(path, f.Image())
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// printProgress shows frame-rendering progress with a time estimate.
func printProgress(done, total int, start time.Time) {
	elapsed := time.Since(start)
	var remaining time.Duration
	if done > 0 {
		remaining = time.Duration(float64(elapsed)*float64(total)/float64(done)) - elapsed
	}
	printStatusLine(fmt.Sprintf("frame %d / %d   %s / %s",
		done, total, util.FormatClock(elapsed), util.FormatClock(remaining)))
}

// printStatusLine writes a single status line, overwriting the previous one
// when stdout is a terminal and trimming to the terminal width.
func printStatusLine(line string) {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if w > 0 && len(line) > w-1 {
			line = line[:w-1]
		}
		fmt.Printf("\r%s\x1b[K", line)
		return
	}
	fmt.Println(line)
}

// finishProgress terminates the in-place status line.
func finishProgress() {
	if _, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		fmt.Println()
	}
}
