package commands

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/fyrelab/dejong/internal/animation"
	"github.com/fyrelab/dejong/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-render an animation whenever the file changes",
	Long: `Renders the animation once, then watches the file and re-renders on every
change. Useful alongside an editor that saves .dja files. Rendering flags
match the render command.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Float64Var(&renderFPS, "fps", 24,
		"Frames per second to sample the timeline at")
	watchCmd.Flags().StringVar(&renderOutDir, "out", "frames",
		"Directory to write frame_NNNNNN.png files into")
	watchCmd.Flags().StringVar(&renderSize, "size", "",
		"Frame size in pixels, WIDTH or WIDTHxHEIGHT")
	watchCmd.Flags().IntVar(&renderIterations, "max-iterations", 5000000,
		"Iteration budget per frame")
}

func runWatch(cmd *cobra.Command, args []string) error {
	initLogging()
	path := expandPath(args[0])

	renderOnce(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Editors often produce a burst of write events per save; coalesce them
	// before re-rendering.
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				util.LogDebugf("File event: %s", event)
				pending = time.After(250 * time.Millisecond)
			}
			// Some editors replace the file on save, which drops the watch.
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				time.Sleep(100 * time.Millisecond)
				if err := watcher.Add(path); err == nil {
					pending = time.After(250 * time.Millisecond)
				}
			}

		case <-pending:
			pending = nil
			renderOnce(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			util.LogWarnf("Watch error: %v", err)

		case <-sigCh:
			return nil
		}
	}
}

// renderOnce loads and renders the animation, logging failures instead of
// exiting so a half-written file does not kill the watch loop.
func renderOnce(path string) {
	anim := animation.New()
	if err := anim.LoadFile(path); err != nil {
		util.LogWarnf("Not rendering: %v", err)
		return
	}
	if err := renderAnimation(anim, expandPath(renderOutDir)); err != nil {
		util.LogWarnf("Render failed: %v", err)
	}
}
