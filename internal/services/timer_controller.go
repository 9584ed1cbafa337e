package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// SystemTicker adapts time.Ticker to ports.Ticker.
func SystemTicker(interval time.Duration) ports.Ticker {
	return &systemTicker{t: time.NewTicker(interval)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

// TimerOption configures a TimerController.
type TimerOption func(*TimerController)

// WithTickerFactory replaces the one-second ticker. A nil factory selects
// manual mode, where time only advances through Tick.
func WithTickerFactory(f ports.TickerFactory) TimerOption {
	return func(c *TimerController) { c.newTicker = f }
}

// WithNotifier sets the sink for interval-complete notifications.
func WithNotifier(n ports.IntervalNotifier) TimerOption {
	return func(c *TimerController) { c.notifier = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) TimerOption {
	return func(c *TimerController) { c.logger = l }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) TimerOption {
	return func(c *TimerController) { c.now = now }
}

// TimerController drives the focus-timer state machine. It owns the tick
// loop, the notification sink and the listeners; all state changes go
// through its methods.
//
// At most one tick loop runs at a time. Listeners are called without the
// lock held and must not call Close. Change listeners run on the goroutine
// that caused the change. Interval listeners run there too for manual
// ticks, and on a delivery goroutine behind the tick loop otherwise.
type TimerController struct {
	mu            sync.Mutex
	state         domain.TimerState
	settings      domain.TimerSettings
	task          *domain.Task
	lastNotifyErr error

	newTicker ports.TickerFactory
	notifier  ports.IntervalNotifier
	logger    *slog.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool

	changeListeners   []func(ports.TimerSnapshot)
	completeListeners []func(ports.IntervalEvent, error)
	errorListeners    []func(error)
}

// NewTimerController creates a stopped pomodoro timer using settings.
func NewTimerController(settings domain.TimerSettings, opts ...TimerOption) (*TimerController, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &TimerController{
		state:     domain.NewTimerState(settings),
		settings:  settings,
		newTicker: SystemTicker,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// OnChange registers a listener called after every state change.
func (c *TimerController) OnChange(fn func(ports.TimerSnapshot)) {
	c.mu.Lock()
	c.changeListeners = append(c.changeListeners, fn)
	c.mu.Unlock()
}

// OnIntervalComplete registers a listener called after each zero crossing,
// once the notification attempt has finished. err is the wrapped
// notification failure, or nil.
func (c *TimerController) OnIntervalComplete(fn func(ports.IntervalEvent, error)) {
	c.mu.Lock()
	c.completeListeners = append(c.completeListeners, fn)
	c.mu.Unlock()
}

// OnNotifyError registers a listener for notification failures.
func (c *TimerController) OnNotifyError(fn func(error)) {
	c.mu.Lock()
	c.errorListeners = append(c.errorListeners, fn)
	c.mu.Unlock()
}

// Toggle starts a stopped timer or pauses a running one.
func (c *TimerController) Toggle() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Toggle()
	if c.state.IsRunning {
		c.startLocked()
	} else {
		c.stopLocked()
	}
	c.mu.Unlock()
	c.emitChange()
}

// Start resumes the countdown if it is stopped.
func (c *TimerController) Start() {
	c.mu.Lock()
	running := c.state.IsRunning
	c.mu.Unlock()
	if !running {
		c.Toggle()
	}
}

// Pause stops the countdown if it is running.
func (c *TimerController) Pause() {
	c.mu.Lock()
	running := c.state.IsRunning
	c.mu.Unlock()
	if running {
		c.Toggle()
	}
}

// Reset stops the timer and restores the full length of the current mode.
func (c *TimerController) Reset() {
	c.mu.Lock()
	c.stopLocked()
	c.state.Reset(c.settings)
	c.mu.Unlock()
	c.emitChange()
}

// SwitchMode stops the timer and enters mode at full length.
func (c *TimerController) SwitchMode(mode domain.TimerMode) {
	c.mu.Lock()
	c.stopLocked()
	c.state.SwitchMode(mode, c.settings)
	c.mu.Unlock()
	c.emitChange()
}

// UpdateSettings accepts new durations and auto-start flags. Invalid
// settings are rejected and the previous ones kept. Accepted settings apply
// from the next mode entry; a stopped, untouched countdown is re-seeded
// right away.
func (c *TimerController) UpdateSettings(settings domain.TimerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.settings = settings
	reseeded := c.state.ApplySettings(settings)
	c.mu.Unlock()

	c.logger.Debug("timer settings updated", "reseeded", reseeded)
	c.emitChange()
	return nil
}

// SetTask links the interval in progress to a task. Nil clears it.
func (c *TimerController) SetTask(task *domain.Task) {
	c.mu.Lock()
	c.task = task
	c.mu.Unlock()
	c.emitChange()
}

// Tick advances the timer by one second. It is how time moves in manual
// mode and is otherwise called by the tick loop.
func (c *TimerController) Tick() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	event := c.advanceLocked()
	c.mu.Unlock()
	c.afterTick(event)
}

// Snapshot returns a copy of the current state.
func (c *TimerController) Snapshot() ports.TimerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops the tick loop and waits for it to exit. It is safe to call
// more than once.
func (c *TimerController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopLocked()
	c.cancel()
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *TimerController) snapshotLocked() ports.TimerSnapshot {
	return ports.TimerSnapshot{
		State:           c.state,
		Settings:        c.settings,
		Task:            c.task,
		Progress:        c.state.ProgressPercent(),
		LastNotifyError: c.lastNotifyErr,
	}
}

// startLocked launches the tick loop unless one is already running.
func (c *TimerController) startLocked() {
	if c.done != nil || c.newTicker == nil {
		return
	}
	c.gen++
	done := make(chan struct{})
	c.done = done
	ticker := c.newTicker(time.Second)

	c.wg.Add(1)
	go c.loop(c.gen, ticker, done)
}

// stopLocked signals the tick loop to exit and invalidates in-flight ticks.
func (c *TimerController) stopLocked() {
	c.gen++
	if c.done != nil {
		close(c.done)
		c.done = nil
	}
}

// loop counts down on the ticker. Completed intervals are handed to a
// separate goroutine so a slow notifier or listener never delays a tick.
func (c *TimerController) loop(gen uint64, ticker ports.Ticker, done <-chan struct{}) {
	defer c.wg.Done()
	defer ticker.Stop()

	events := make(chan ports.IntervalEvent, 8)
	c.wg.Add(1)
	go c.deliverLoop(events)
	defer close(events)

	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			c.mu.Lock()
			if gen != c.gen || c.closed {
				c.mu.Unlock()
				return
			}
			event := c.advanceLocked()
			stopped := c.done == nil
			c.mu.Unlock()

			if event != nil {
				events <- *event
			}
			c.emitChange()
			if stopped {
				return
			}
		}
	}
}

// advanceLocked applies one tick. On a zero crossing it returns the event
// to deliver and stops the loop unless the next mode auto-started.
func (c *TimerController) advanceLocked() *ports.IntervalEvent {
	planned := c.state.TotalSeconds
	done := c.state.Tick(c.settings)
	if done == nil {
		return nil
	}
	if !c.state.IsRunning {
		c.stopLocked()
	}

	return &ports.IntervalEvent{
		Completed:      done.Completed,
		Next:           done.Next,
		Cycles:         done.Cycles,
		AutoStarted:    done.AutoStarted,
		PlannedSeconds: planned,
		Task:           c.task,
		At:             c.now(),
	}
}

func (c *TimerController) afterTick(event *ports.IntervalEvent) {
	if event != nil {
		c.deliver(*event)
	}
	c.emitChange()
}

// deliverLoop delivers events in order until the loop closes the channel.
func (c *TimerController) deliverLoop(events <-chan ports.IntervalEvent) {
	defer c.wg.Done()
	for event := range events {
		c.deliver(event)
		c.emitChange()
	}
}

// deliver notifies the sink and listeners of a completed interval. A
// failing sink is reported but never undoes the transition.
func (c *TimerController) deliver(event ports.IntervalEvent) {
	var notifyErr error
	if c.notifier != nil {
		if err := c.notifier.NotifyIntervalComplete(c.ctx, event); err != nil {
			notifyErr = fmt.Errorf("%w: %w", domain.ErrNotificationFailed, err)
		}
	}

	c.mu.Lock()
	c.lastNotifyErr = notifyErr
	completeListeners := append([]func(ports.IntervalEvent, error){}, c.completeListeners...)
	errorListeners := append([]func(error){}, c.errorListeners...)
	c.mu.Unlock()

	c.logger.Info("interval complete",
		"completed", string(event.Completed),
		"next", string(event.Next),
		"cycles", event.Cycles,
		"auto_started", event.AutoStarted,
	)

	if notifyErr != nil {
		c.logger.Warn("interval notification failed", "mode", string(event.Completed), "error", notifyErr)
		for _, fn := range errorListeners {
			fn(notifyErr)
		}
	}
	for _, fn := range completeListeners {
		fn(event, notifyErr)
	}
}

func (c *TimerController) emitChange() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	listeners := append([]func(ports.TimerSnapshot){}, c.changeListeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// Ensure TimerController implements ports.FocusTimer.
var _ ports.FocusTimer = (*TimerController)(nil)
