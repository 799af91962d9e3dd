// Package anim advances object animation clips.
package anim

import (
	"fmt"

	"github.com/vovakirdan/rulestage/internal/world"
)

// Update clears last frame's animation edge flags and advances every
// playing animation by dt seconds.
func Update(objs *world.Objects, dt float64) {
	objs.Each(func(o *world.Object) {
		Advance(&o.Anim, dt)
	})
}

// Advance steps one animation. Frames advance on a timer derived from FPS;
// reaching the end either wraps (counting a loop) or stops playback.
func Advance(a *world.Animation, dt float64) {
	a.FrameChanged = false
	a.Started = false
	a.Ended = false
	a.Looped = false

	if a.StartPending {
		a.StartPending = false
		a.Started = true
	}
	if !a.Playing || a.Frames <= 0 || a.FPS <= 0 || dt <= 0 {
		return
	}

	frameDur := 1 / a.FPS
	a.Timer += dt
	for a.Timer >= frameDur && a.Playing {
		a.Timer -= frameDur
		step(a)
	}
}

func step(a *world.Animation) {
	a.FrameChanged = true
	if a.Reverse {
		a.Frame--
		if a.Frame >= 0 {
			return
		}
		if a.Loop {
			a.Frame = a.Frames - 1
			a.LoopCount++
			a.Looped = true
			return
		}
		a.Frame = 0
	} else {
		a.Frame++
		if a.Frame < a.Frames {
			return
		}
		if a.Loop {
			a.Frame = 0
			a.LoopCount++
			a.Looped = true
			return
		}
		a.Frame = a.Frames - 1
	}
	a.Playing = false
	a.Ended = true
	a.Timer = 0
}

// Switch starts the named clip from its first frame.
func Switch(o *world.Object, clip string) error {
	c, ok := o.Clips[clip]
	if !ok {
		return fmt.Errorf("anim: object %q has no clip %q", o.ID, clip)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("anim: clip %q has no frames", clip)
	}
	o.Anim = world.Animation{
		Clip:         clip,
		Frames:       c.Frames,
		FPS:          c.FPS,
		Loop:         c.Loop,
		Reverse:      c.Reverse,
		Playing:      true,
		StartPending: true,
	}
	if c.Reverse {
		o.Anim.Frame = c.Frames - 1
	}
	return nil
}

// Stop halts playback on the current frame.
func Stop(o *world.Object) {
	o.Anim.Playing = false
	o.Anim.Timer = 0
}
