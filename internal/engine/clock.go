package engine

import (
	"sort"
	"sync"
	"time"
)

// StepFunc advances the simulation by one tick. Returning false ends the loop.
type StepFunc func(now time.Time) bool

// Clock drives a StepFunc at a fixed cadence.
type Clock interface {
	Start(step StepFunc) Handle
}

// Handle controls a running clock loop.
//
// Stop guarantees that no step is invoked after it returns. It waits for a
// step that is already running on another goroutine, so a step must never
// call Stop on its own handle; it returns false instead.
type Handle interface {
	Stop()
}

// Interval returns a clock that invokes the step once per period on its own
// goroutine. Ticks never overlap: a slow step delays the next one.
func Interval(period time.Duration) Clock {
	if period <= 0 {
		period = 16 * time.Millisecond
	}
	return intervalClock{period: period}
}

type intervalClock struct {
	period time.Duration
}

func (c intervalClock) Start(step StepFunc) Handle {
	h := &intervalHandle{done: make(chan struct{})}
	ticker := time.NewTicker(c.period)
	go h.run(ticker, step)
	return h
}

type intervalHandle struct {
	mu      sync.Mutex // held while a step runs
	stopped bool
	done    chan struct{}
	once    sync.Once
}

func (h *intervalHandle) run(ticker *time.Ticker, step StepFunc) {
	defer ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			h.mu.Lock()
			if h.stopped {
				h.mu.Unlock()
				return
			}
			if !step(now) {
				h.stopped = true
				h.mu.Unlock()
				return
			}
			h.mu.Unlock()
		}
	}
}

func (h *intervalHandle) Stop() {
	h.once.Do(func() { close(h.done) })
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
}

// FrameID identifies a pending frame request.
type FrameID uint64

// FrameSource delivers display-refresh callbacks. Each request fires at most
// once; the receiver must request again to keep receiving frames.
type FrameSource interface {
	RequestFrame(cb func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// FrameSynced returns a clock that steps once per frame delivered by src.
// The loop ends by not re-requesting the next frame.
func FrameSynced(src FrameSource) Clock {
	return frameClock{src: src}
}

type frameClock struct {
	src FrameSource
}

func (c frameClock) Start(step StepFunc) Handle {
	h := &frameHandle{src: c.src, step: step}
	h.mu.Lock()
	h.pending = c.src.RequestFrame(h.frame)
	h.mu.Unlock()
	return h
}

type frameHandle struct {
	mu      sync.Mutex
	src     FrameSource
	step    StepFunc
	pending FrameID
	stopped bool
}

func (h *frameHandle) frame(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	if !h.step(now) {
		h.stopped = true
		return
	}
	h.pending = h.src.RequestFrame(h.frame)
}

func (h *frameHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	h.src.CancelFrame(h.pending)
}

// ManualFrames is a FrameSource advanced explicitly by the caller.
// It is used by tests and headless hosts to drive frames deterministically.
type ManualFrames struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]func(time.Time)
}

// NewManualFrames creates an empty manual frame source.
func NewManualFrames() *ManualFrames {
	return &ManualFrames{pending: make(map[FrameID]func(time.Time))}
}

func (m *ManualFrames) RequestFrame(cb func(now time.Time)) FrameID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.pending[m.next] = cb
	return m.next
}

func (m *ManualFrames) CancelFrame(id FrameID) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

// Pending returns the number of outstanding frame requests.
func (m *ManualFrames) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance fires every callback that was pending when it was called, in
// request order, and returns how many fired. Requests made by the callbacks
// wait for the next Advance.
func (m *ManualFrames) Advance(now time.Time) int {
	cbs := m.take()
	for _, cb := range cbs {
		cb(now)
	}
	return len(cbs)
}

func (m *ManualFrames) take() []func(time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return drain(m.pending)
}

// drain empties pending and returns its callbacks ordered by id.
func drain(pending map[FrameID]func(time.Time)) []func(time.Time) {
	ids := make([]FrameID, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	cbs := make([]func(time.Time), 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, pending[id])
		delete(pending, id)
	}
	return cbs
}

// VSync is a FrameSource that fires pending frames at a fixed refresh rate.
// Its ticker goroutine runs only while requests are outstanding.
type VSync struct {
	interval time.Duration
	mu       sync.Mutex
	next     FrameID
	pending  map[FrameID]func(time.Time)
	running  bool
}

// NewVSync creates a frame source refreshing hz times per second.
func NewVSync(hz int) *VSync {
	if hz <= 0 {
		hz = 60
	}
	return &VSync{
		interval: time.Second / time.Duration(hz),
		pending:  make(map[FrameID]func(time.Time)),
	}
}

func (v *VSync) RequestFrame(cb func(now time.Time)) FrameID {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.next++
	v.pending[v.next] = cb
	if !v.running {
		v.running = true
		go v.loop()
	}
	return v.next
}

func (v *VSync) CancelFrame(id FrameID) {
	v.mu.Lock()
	delete(v.pending, id)
	v.mu.Unlock()
}

func (v *VSync) loop() {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	for now := range ticker.C {
		v.mu.Lock()
		if len(v.pending) == 0 {
			v.running = false
			v.mu.Unlock()
			return
		}
		cbs := drain(v.pending)
		v.mu.Unlock()

		for _, cb := range cbs {
			cb(now)
		}
	}
}
