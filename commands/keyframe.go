package commands

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrelab/dejong/internal/animation"
	"github.com/fyrelab/dejong/internal/render"
	"github.com/fyrelab/dejong/internal/util"
)

var (
	keyframeDuration  float64
	keyframeThumbSize int

	keyframeCmd = &cobra.Command{
		Use:   "keyframe",
		Short: "Edit the keyframes of an animation file",
	}

	keyframeAddCmd = &cobra.Command{
		Use:   "add FILE",
		Short: "Append a keyframe to an animation file",
		Long: `Appends a keyframe built from the current parameters (defaults, then
--read, then individual flags) to the animation file, creating the file if it
does not exist. A preview thumbnail is rendered and stored alongside the
parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: runKeyframeAdd,
	}
)

func init() {
	rootCmd.AddCommand(keyframeCmd)
	keyframeCmd.AddCommand(keyframeAddCmd)

	keyframeAddCmd.Flags().StringVarP(&paramFile, "read", "i", "",
		"Load parameters from a key = value text file")
	keyframeAddCmd.Flags().Float64Var(&keyframeDuration, "duration", animation.DefaultDuration,
		"Outgoing transition duration in seconds")
	keyframeAddCmd.Flags().IntVar(&keyframeThumbSize, "thumb-size", 128,
		"Thumbnail size in pixels (0 disables the thumbnail)")

	for _, pf := range paramFlagNames {
		value := paramFlags[pf.key]
		if value == nil {
			value = new(string)
			paramFlags[pf.key] = value
		}
		keyframeAddCmd.Flags().StringVar(value, pf.flag, "", pf.usage)
	}
}

func runKeyframeAdd(cmd *cobra.Command, args []string) error {
	initLogging()
	path := expandPath(args[0])

	anim := animation.New()
	if err := anim.LoadFile(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	p, err := gatherParams()
	if err != nil {
		return err
	}
	if keyframeDuration < 0 {
		return fmt.Errorf("duration must not be negative, got %v", keyframeDuration)
	}

	var thumb image.Image
	if keyframeThumbSize > 0 {
		thumb = render.MakeThumbnail(p, keyframeThumbSize, keyframeThumbSize)
	}

	ref := anim.AppendKeyframe(p.Marshal(), thumb)
	anim.Store().SetDuration(ref, keyframeDuration)

	if err := anim.SaveFile(path); err != nil {
		return err
	}

	util.LogInfof("Appended keyframe %d to %s (total length %s)",
		ref, path, util.FormatSeconds(anim.TotalLength()))
	fmt.Printf("Keyframe %d appended, animation is now %s long\n",
		ref, util.FormatSeconds(anim.TotalLength()))
	return nil
}
