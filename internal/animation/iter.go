package animation

// Iter is a transient cursor over an animation's timeline. It tracks the
// current keyframe and the offset in seconds past that keyframe's start, and
// becomes invalid once advanced past the last keyframe. Iters are not
// persisted and are cheap to recreate.
type Iter struct {
	anim      *Animation
	valid     bool
	current   Ref
	timeAfter float64
}

// Blend is a resolved timeline position: the two interpolation endpoints and
// the blend factor between them, after the keyframe's spline has been
// applied. For the last keyframe From and To are the same blob.
type Blend struct {
	From  []byte
	To    []byte
	Alpha float64
}

// IterFirst returns an iterator positioned at the start of the animation.
// The iterator is invalid if the animation has no keyframes.
func (a *Animation) IterFirst() *Iter {
	it := &Iter{anim: a}
	it.seekFirst()
	return it
}

// IterAt returns an iterator positioned at the given absolute time in
// seconds.
func (a *Animation) IterAt(t float64) *Iter {
	it := a.IterFirst()
	it.SeekRelative(t)
	return it
}

// Valid reports whether the iterator points at a keyframe.
func (it *Iter) Valid() bool {
	return it.valid
}

// Current returns the keyframe under the cursor, NoRef if invalid.
func (it *Iter) Current() Ref {
	if !it.valid {
		return NoRef
	}
	return it.current
}

// TimeAfterKeyframe returns the offset in seconds past the current
// keyframe's start.
func (it *Iter) TimeAfterKeyframe() float64 {
	return it.timeAfter
}

func (it *Iter) seekFirst() {
	it.current = it.anim.store.First()
	it.valid = it.current != NoRef
	it.timeAfter = 0
}

// SeekRelative moves the cursor forward or backward by delta seconds. The
// offset is adjusted first, then normalized against the segment list:
// overshooting a keyframe's duration advances to the next keyframe, and a
// negative offset restarts from the first keyframe and walks forward, since
// the store has no backward traversal primitive. Zero-duration keyframes are
// traversed instantly so they can never stall the loop.
func (it *Iter) SeekRelative(delta float64) {
	it.timeAfter += delta

	for it.valid {
		duration := it.anim.store.Duration(it.current)

		switch {
		case duration <= 0, it.timeAfter >= duration:
			next := it.anim.store.Next(it.current)
			if next == NoRef {
				it.valid = false
				return
			}
			it.current = next
			if duration > 0 {
				it.timeAfter -= duration
			}

		case it.timeAfter < 0:
			it.seekFirst()

		default:
			return
		}
	}
}

// At resolves the cursor into a Blend: the current keyframe's params, the
// next keyframe's params (or the current ones again at the end of the
// timeline), and the spline-shaped blend factor. It reports false on an
// invalid iterator.
func (it *Iter) At() (Blend, bool) {
	if !it.valid {
		return Blend{}, false
	}

	store := &it.anim.store
	from := store.Params(it.current)
	to := from
	if next := store.Next(it.current); next != NoRef {
		to = store.Params(next)
	}

	// Alpha is 0 at the current keyframe and 1 at the next, increasing
	// linearly; the keyframe's spline then reshapes it. A zero-duration
	// keyframe pins alpha to 0 rather than dividing by zero.
	alpha := 0.0
	if duration := store.Duration(it.current); duration > 0 {
		alpha = it.timeAfter / duration
	}
	alpha = store.Spline(it.current).Evaluate(alpha)

	return Blend{From: from, To: to, Alpha: alpha}, true
}

// ReadFrame resolves one frame of playback: the blend state at the cursor
// and the blend state 1/frameRate seconds later, advancing the cursor in the
// process. When the step runs off the end of the timeline the end state is
// clamped to the last keyframe, so an animation of length L played at rate R
// yields round(L*R) frames before ReadFrame reports false.
func (it *Iter) ReadFrame(frameRate float64) (start, end Blend, ok bool) {
	if !it.valid || frameRate <= 0 {
		return Blend{}, Blend{}, false
	}

	start, _ = it.At()
	it.SeekRelative(1 / frameRate)

	if it.valid {
		end, _ = it.At()
		return start, end, true
	}

	last := it.anim.store.Last()
	if last == NoRef {
		return Blend{}, Blend{}, false
	}
	params := it.anim.store.Params(last)
	return start, Blend{From: params, To: params, Alpha: 1}, true
}
