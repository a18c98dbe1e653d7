package animation

import (
	"image"

	"github.com/fyrelab/dejong/internal/spline"
)

// DefaultDuration is the outgoing transition length, in seconds, given to
// newly appended keyframes.
const DefaultDuration = 5.0

// Ref is a stable reference to a keyframe: its index in the store. All
// outstanding refs are invalidated by Clear.
type Ref int

// NoRef marks the absence of a keyframe, e.g. Next past the last row.
const NoRef Ref = -1

// Keyframe is one row of the timeline. Duration and Spline are always
// present (defaulted on creation); Params and Thumbnail are nil until set,
// which happens transiently during an incremental load.
type Keyframe struct {
	Params    []byte
	Thumbnail image.Image
	Duration  float64
	Spline    *spline.Spline
}

// Store is an insertion-ordered sequence of keyframes. Ordering is mutated
// only by append and clear; there is no reordering or interior deletion.
type Store struct {
	rows []Keyframe
}

// Len returns the number of keyframes.
func (s *Store) Len() int {
	return len(s.rows)
}

// AppendDefault appends a keyframe with the default duration and the smooth
// template spline, and returns its ref. Params and thumbnail start unset.
func (s *Store) AppendDefault() Ref {
	s.rows = append(s.rows, Keyframe{
		Duration: DefaultDuration,
		Spline:   spline.TemplateSmooth(),
	})
	return Ref(len(s.rows) - 1)
}

// Clear removes all keyframes. Refs obtained before the call must not be
// used afterwards.
func (s *Store) Clear() {
	s.rows = nil
}

// First returns the first keyframe's ref, or NoRef on an empty store.
func (s *Store) First() Ref {
	if len(s.rows) == 0 {
		return NoRef
	}
	return 0
}

// Next returns the ref following ref, or NoRef past the end. Traversal is
// forward-only.
func (s *Store) Next(ref Ref) Ref {
	if next := ref + 1; int(next) < len(s.rows) {
		return next
	}
	return NoRef
}

// Last returns the final keyframe's ref, or NoRef on an empty store.
func (s *Store) Last() Ref {
	if len(s.rows) == 0 {
		return NoRef
	}
	return Ref(len(s.rows) - 1)
}

// Accessors below index the row directly; refs must come from this store and
// be younger than the last Clear.

// Params returns the keyframe's parameter blob, nil if not set.
func (s *Store) Params(ref Ref) []byte {
	return s.rows[ref].Params
}

// SetParams stores a private copy of the parameter blob.
func (s *Store) SetParams(ref Ref, params []byte) {
	s.rows[ref].Params = append([]byte(nil), params...)
}

// Thumbnail returns the keyframe's preview image, nil if not set.
func (s *Store) Thumbnail(ref Ref) image.Image {
	return s.rows[ref].Thumbnail
}

// SetThumbnail attaches a preview image to the keyframe.
func (s *Store) SetThumbnail(ref Ref, img image.Image) {
	s.rows[ref].Thumbnail = img
}

// Duration returns the keyframe's outgoing transition length in seconds.
func (s *Store) Duration(ref Ref) float64 {
	return s.rows[ref].Duration
}

// SetDuration sets the outgoing transition length. Negative values are
// clamped to zero; zero-length segments are permitted and collapse instantly
// during seeks.
func (s *Store) SetDuration(ref Ref, seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	s.rows[ref].Duration = seconds
}

// Spline returns the keyframe's interpolation curve.
func (s *Store) Spline(ref Ref) *spline.Spline {
	return s.rows[ref].Spline
}

// SetSpline sets the keyframe's interpolation curve. A nil curve is ignored
// so the always-present invariant holds.
func (s *Store) SetSpline(ref Ref, curve *spline.Spline) {
	if curve == nil {
		return
	}
	s.rows[ref].Spline = curve
}
