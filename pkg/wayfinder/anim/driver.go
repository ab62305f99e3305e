package anim

import "time"

// Engine schedules per-frame steps. A step receives the time elapsed since the
// previous frame and returns true once it is done. The returned cancel func
// removes the step; calling it after the step finished is harmless.
type Engine interface {
	Schedule(step func(dt time.Duration) (done bool)) (cancel func())
}

// Driver is a frame-stepped Engine. It is not safe for concurrent use: the
// host calls Advance from the UI thread once per frame.
type Driver struct {
	tasks []*task
}

type task struct {
	step func(time.Duration) bool
	done bool
}

// NewDriver creates an idle driver.
func NewDriver() *Driver {
	return &Driver{}
}

func (d *Driver) Schedule(step func(dt time.Duration) bool) func() {
	t := &task{step: step}
	d.tasks = append(d.tasks, t)
	return func() { t.done = true }
}

// Advance runs one frame. Steps scheduled while the frame runs start on the
// next frame.
func (d *Driver) Advance(dt time.Duration) {
	current := d.tasks
	for _, t := range current {
		if t.done {
			continue
		}
		if t.step(dt) {
			t.done = true
		}
	}

	live := d.tasks[:0]
	for _, t := range d.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	clear(d.tasks[len(live):])
	d.tasks = live
}

// Active returns the number of pending steps.
func (d *Driver) Active() int {
	n := 0
	for _, t := range d.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// Settle advances in frame sized steps until nothing is pending or maxFrames
// frames ran. It returns the number of frames advanced.
func (d *Driver) Settle(frame time.Duration, maxFrames int) int {
	n := 0
	for d.Active() > 0 && n < maxFrames {
		d.Advance(frame)
		n++
	}
	return n
}
