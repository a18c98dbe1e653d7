// Package animation implements the keyframe timeline: an ordered store of
// parameter snapshots with per-segment durations and interpolation curves,
// persistence in a chunked binary file format, and a seekable cursor that
// resolves a wall-clock time to a pair of interpolation endpoints and a
// blend factor.
package animation

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/fyrelab/dejong/internal/chunked"
	"github.com/fyrelab/dejong/internal/spline"
	"github.com/fyrelab/dejong/internal/util"
)

// Signature identifies an animation file. The byte string is preserved
// bit-for-bit from existing files.
const Signature = "de Jong Explorer Animation\n\r\xFF\n"

// Chunk vocabulary for the animation file format.
var (
	tagKeyframeStart = chunked.MakeTag("KfrS") // begin a new keyframe definition
	tagKeyframeEnd   = chunked.MakeTag("KfrE") // end a keyframe definition
	tagParams        = chunked.MakeTag("djPR") // rendering parameters, as text
	tagThumbnail     = chunked.MakeTag("djTH") // thumbnail, as a PNG image
	tagSpline        = chunked.MakeTag("splC") // spline control points
	tagDuration      = chunked.MakeTag("dura") // transition duration, as a double
)

// Animation owns a keyframe store and provides persistence and timeline
// queries over it. It is not safe for concurrent use; callers sharing one
// across goroutines must serialize access themselves.
type Animation struct {
	store Store
}

// New creates an empty animation.
func New() *Animation {
	return &Animation{}
}

// Store exposes the underlying keyframe store.
func (a *Animation) Store() *Store {
	return &a.store
}

// AppendKeyframe appends a keyframe carrying the given parameter blob and
// thumbnail, with default duration and spline, and returns its ref.
func (a *Animation) AppendKeyframe(params []byte, thumbnail image.Image) Ref {
	ref := a.store.AppendDefault()
	a.store.SetParams(ref, params)
	a.store.SetThumbnail(ref, thumbnail)
	return ref
}

// Clear removes all keyframes.
func (a *Animation) Clear() {
	a.store.Clear()
}

// TotalLength returns the animation's length in seconds: the sum of all
// keyframe durations.
func (a *Animation) TotalLength() float64 {
	var total float64
	for ref := a.store.First(); ref != NoRef; ref = a.store.Next(ref) {
		total += a.store.Duration(ref)
	}
	return total
}

// StartTime returns the absolute time in seconds at which the keyframe
// begins: the sum of the durations of all keyframes before it.
func (a *Animation) StartTime(ref Ref) float64 {
	var total float64
	for cur := a.store.First(); cur != NoRef && cur != ref; cur = a.store.Next(cur) {
		total += a.store.Duration(cur)
	}
	return total
}

// Load replaces the animation's contents with the chunk stream read from r.
// The store is cleared only after the signature verifies, so a file of the
// wrong type leaves the animation untouched. Per-chunk problems — a
// malformed duration, an unknown tag, an attribute chunk outside an open
// keyframe block — are logged and skipped; the rest of the file is still
// applied.
func (a *Animation) Load(r io.Reader) error {
	cr := chunked.NewReader(r)
	if err := cr.ReadSignature([]byte(Signature)); err != nil {
		return err
	}

	a.store.Clear()
	current := NoRef

	for {
		tag, payload, err := cr.ReadChunk()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading animation chunk: %w", err)
		}

		switch tag {
		case tagKeyframeStart:
			current = a.store.AppendDefault()

		case tagKeyframeEnd:
			current = NoRef

		case tagParams, tagThumbnail, tagSpline, tagDuration:
			if current == NoRef {
				util.LogWarnf("Chunk %q outside a keyframe block, ignoring", tag)
				continue
			}
			a.applyAttribute(current, tag, payload)

		default:
			util.LogWarnf("Unknown chunk type %q (%d bytes), ignoring", tag, len(payload))
		}
	}
}

// applyAttribute applies one attribute chunk to the open keyframe.
func (a *Animation) applyAttribute(ref Ref, tag chunked.Tag, payload []byte) {
	switch tag {
	case tagParams:
		// The payload length is authoritative; the text is not
		// null-terminated.
		a.store.SetParams(ref, payload)

	case tagThumbnail:
		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			util.LogWarnf("Undecodable thumbnail chunk: %v", err)
			return
		}
		a.store.SetThumbnail(ref, img)

	case tagDuration:
		if len(payload) != 8 {
			util.LogWarnf("Duration chunk is incorrectly sized, %d bytes instead of 8", len(payload))
			return
		}
		a.store.SetDuration(ref, math.Float64frombits(binary.BigEndian.Uint64(payload)))

	case tagSpline:
		curve, err := spline.Deserialize(payload)
		if err != nil {
			util.LogWarnf("Malformed spline chunk: %v", err)
			return
		}
		a.store.SetSpline(ref, curve)
	}
}

// Save writes the animation as a chunk stream. Each keyframe becomes a block
// bracketed by start and end markers; optional fields that are unset are
// simply omitted, so readers must not assume a fixed field order inside a
// block.
func (a *Animation) Save(w io.Writer) error {
	cw := chunked.NewWriter(w)
	if err := cw.WriteSignature([]byte(Signature)); err != nil {
		return err
	}

	for ref := a.store.First(); ref != NoRef; ref = a.store.Next(ref) {
		if err := cw.WriteChunk(tagKeyframeStart, nil); err != nil {
			return err
		}

		if params := a.store.Params(ref); params != nil {
			if err := cw.WriteChunk(tagParams, params); err != nil {
				return err
			}
		}

		if thumb := a.store.Thumbnail(ref); thumb != nil {
			var buf bytes.Buffer
			if err := png.Encode(&buf, thumb); err != nil {
				util.LogWarnf("Could not encode thumbnail for keyframe %d: %v", ref, err)
			} else if err := cw.WriteChunk(tagThumbnail, buf.Bytes()); err != nil {
				return err
			}
		}

		var duration [8]byte
		binary.BigEndian.PutUint64(duration[:], math.Float64bits(a.store.Duration(ref)))
		if err := cw.WriteChunk(tagDuration, duration[:]); err != nil {
			return err
		}

		if curve := a.store.Spline(ref); curve != nil {
			if err := cw.WriteChunk(tagSpline, curve.Serialize()); err != nil {
				return err
			}
		}

		if err := cw.WriteChunk(tagKeyframeEnd, nil); err != nil {
			return err
		}
	}

	return nil
}

// LoadFile loads the animation from the named file.
func (a *Animation) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.Load(f); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// SaveFile writes the animation to the named file.
func (a *Animation) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return f.Close()
}
