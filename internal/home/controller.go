package home

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jask/lunarhome/internal/prefs"
)

var (
	// ErrNoDisplay means the view layer handed to Create is missing.
	ErrNoDisplay = errors.New("home: display sinks unavailable")
	// ErrNoSession means a lifecycle call arrived outside Create..Destroy.
	ErrNoSession = errors.New("home: no active session")

	errNoStore = errors.New("home: todo store not configured")
)

const (
	clockLayout12 = "3:04 PM"
	clockLayout24 = "15:04"

	defaultDateLayout = "Mon, 02 Jan"
)

// ClockSink shows the current time using a Go time layout.
type ClockSink interface {
	SetClockLayout(layout string)
}

// DateSink shows the current date using a Go time layout.
type DateSink interface {
	SetDateLayout(layout string)
}

// Display is the set of sinks one home screen instance exposes.
type Display interface {
	Clock() ClockSink
	Date() DateSink
	Battery() ProgressSink
	Todos() ListSink
}

// HidePolicy decides what happens to the battery listener when the screen
// stops being visible without being destroyed.
type HidePolicy string

const (
	HideKeep   HidePolicy = "keep"
	HideDetach HidePolicy = "detach"
)

// ParseHidePolicy maps a setting value to a policy, defaulting to HideKeep.
func ParseHidePolicy(s string) HidePolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(HideDetach)) {
		return HideDetach
	}
	return HideKeep
}

// Deps are the collaborators a Controller needs.
type Deps struct {
	Prefs   prefs.Store
	Todos   TodoStore
	Battery Registrar
	Logger  *slog.Logger
}

type session struct {
	display Display
	battery *BatteryBridge
	router  *GestureRouter
	level   LockLevel
	hide    HidePolicy
	visible bool
}

// Controller binds one home screen's lifecycle to its system resources.
type Controller struct {
	ctx    context.Context
	deps   Deps
	todos  *TodoBridge
	logger *slog.Logger
	sess   *session
}

func NewController(ctx context.Context, deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if deps.Prefs == nil {
		deps.Prefs = prefs.Map{}
	}
	return &Controller{
		ctx:    ctx,
		deps:   deps,
		todos:  NewTodoBridge(deps.Todos, logger),
		logger: logger,
	}
}

// Create starts a session: reads the lock level once, configures the clock
// and date sinks and builds the gesture router. The battery listener is not
// attached until BecomeVisible. Creating over a live session tears the old
// one down first.
//
// A nil display, or one that no longer hands out its battery or list sink,
// yields ErrNoDisplay. A non-nil interface wrapping a nil pointer is not
// detected; hosts must pass a live display.
func (c *Controller) Create(display Display, nav Navigator) error {
	if display == nil || display.Battery() == nil || display.Todos() == nil {
		return ErrNoDisplay
	}
	if c.sess != nil {
		c.logger.Warn("create over live session, destroying previous")
		c.Destroy()
	}

	if r, ok := c.deps.Prefs.(prefs.Reloader); ok {
		if err := r.Reload(); err != nil {
			c.logger.Warn("settings reload failed, using last known values", "error", err)
		}
	}
	p := c.deps.Prefs
	level := LockLevel(p.Int(prefs.KeyLockLevel, int(LockNone)))

	if clock := display.Clock(); clock != nil {
		layout := clockLayout12
		if p.Bool(prefs.KeyClock24h, false) {
			layout = clockLayout24
		}
		clock.SetClockLayout(layout)
	}
	if date := display.Date(); date != nil {
		date.SetDateLayout(p.String(prefs.KeyDateFormat, defaultDateLayout))
	}

	s := &session{
		display: display,
		battery: NewBatteryBridge(c.deps.Battery, c.logger),
		level:   level,
		hide:    ParseHidePolicy(p.String(prefs.KeyHidePolicy, string(HideKeep))),
	}
	s.router = NewGestureRouter(level, nav, func() { c.todos.Refresh(c.ctx, display.Todos()) }, c.logger)
	c.sess = s

	c.logger.Info("home session created", "lock_level", int(level), "hide_policy", s.hide)
	return nil
}

// BecomeVisible attaches the battery listener, if needed, and reloads the
// to-do list so both reflect the current state.
func (c *Controller) BecomeVisible() error {
	s := c.sess
	if s == nil {
		return ErrNoSession
	}
	s.battery.Attach(s.display.Battery())
	s.visible = true
	c.todos.Refresh(c.ctx, s.display.Todos())
	return nil
}

// LoseVisibility keeps the battery listener under HideKeep and releases it
// under HideDetach.
func (c *Controller) LoseVisibility() {
	s := c.sess
	if s == nil {
		return
	}
	s.visible = false
	if s.hide == HideDetach {
		s.battery.Detach()
	}
}

// Destroy releases the battery listener and discards the session. It never
// fails; calling it without a session or without an attached listener is
// only logged.
func (c *Controller) Destroy() {
	s := c.sess
	if s == nil {
		c.logger.Debug("destroy without session")
		return
	}
	if !s.battery.Attached() {
		c.logger.Debug("destroy without attached battery listener")
	}
	s.battery.Detach()
	c.sess = nil
	c.logger.Info("home session destroyed")
}

// OnGesture routes a gesture through the current session's router.
func (c *Controller) OnGesture(ev GestureEvent) Action {
	if c.sess == nil {
		return ActionNone
	}
	return c.sess.router.OnGesture(ev)
}

func (c *Controller) LockLevel() LockLevel {
	if c.sess == nil {
		return LockNone
	}
	return c.sess.level
}

func (c *Controller) Visible() bool { return c.sess != nil && c.sess.visible }

func (c *Controller) BatteryAttached() bool { return c.sess != nil && c.sess.battery.Attached() }

func (c *Controller) Active() bool { return c.sess != nil }
