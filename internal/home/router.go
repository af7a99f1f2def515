package home

import (
	"log/slog"
	"sort"
)

type Region string

const (
	RegionBackground Region = "background"
	RegionBattery    Region = "battery"
	RegionTodoList   Region = "todoList"
)

type Gesture string

const (
	GestureTap       Gesture = "tap"
	GestureDoubleTap Gesture = "double-tap"
	GestureSwipeUp   Gesture = "swipe-up"
	GestureSwipeDown Gesture = "swipe-down"
	GestureLongPress Gesture = "long-press"
)

// GestureEvent is one recognised gesture and the region it landed in.
type GestureEvent struct {
	Region  Region
	Gesture Gesture
}

// Action is a logical command the router dispatches.
type Action string

const (
	ActionNone         Action = ""
	ActionNoOp         Action = "no-op"
	ActionOpenSettings Action = "open-settings"
	ActionSwitchScreen Action = "switch-screen"
	ActionOpenDrawer   Action = "open-drawer"
	ActionRefreshList  Action = "refresh-list"
)

// IsNavigation reports whether the action only moves between screens.
func (a Action) IsNavigation() bool {
	return a == ActionSwitchScreen || a == ActionOpenDrawer
}

// Navigator receives fire-and-forget navigation commands. Results are never
// observed; failing to navigate is the host's problem.
type Navigator interface {
	SwitchScreen()
	OpenSettings()
	OpenAppDrawer()
}

type routeKey struct {
	region  Region
	gesture Gesture
}

var routes = map[routeKey]Action{
	{RegionBackground, GestureSwipeUp}:   ActionSwitchScreen,
	{RegionBackground, GestureSwipeDown}: ActionOpenDrawer,
	{RegionBackground, GestureDoubleTap}: ActionOpenDrawer,
	{RegionBackground, GestureLongPress}: ActionOpenSettings,
	{RegionBattery, GestureTap}:          ActionOpenSettings,
	{RegionBattery, GestureDoubleTap}:    ActionNoOp,
	{RegionBattery, GestureLongPress}:    ActionOpenSettings,
	{RegionTodoList, GestureTap}:         ActionRefreshList,
	{RegionTodoList, GestureSwipeUp}:     ActionSwitchScreen,
	{RegionTodoList, GestureSwipeDown}:   ActionRefreshList,
	{RegionTodoList, GestureLongPress}:   ActionOpenSettings,
}

// Route is one row of the routing table.
type Route struct {
	Region  Region
	Gesture Gesture
	Action  Action
}

// Lookup returns the action mapped to a region and gesture.
func Lookup(region Region, gesture Gesture) (Action, bool) {
	a, ok := routes[routeKey{region, gesture}]
	return a, ok
}

// Table enumerates the routing table in a stable order.
func Table() []Route {
	out := make([]Route, 0, len(routes))
	for k, a := range routes {
		out = append(out, Route{Region: k.region, Gesture: k.gesture, Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Region != out[j].Region {
			return out[i].Region < out[j].Region
		}
		return out[i].Gesture < out[j].Gesture
	})
	return out
}

// GestureRouter maps gestures to actions for one lock level.
type GestureRouter struct {
	level   LockLevel
	nav     Navigator
	refresh func()
	logger  *slog.Logger
}

// NewGestureRouter binds a router to a lock level. refresh runs for
// ActionRefreshList and may be nil.
func NewGestureRouter(level LockLevel, nav Navigator, refresh func(), logger *slog.Logger) *GestureRouter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GestureRouter{level: level, nav: nav, refresh: refresh, logger: logger}
}

// OnGesture dispatches the event and returns the action it ran, or
// ActionNone when the event was swallowed.
func (r *GestureRouter) OnGesture(ev GestureEvent) Action {
	if !IsActionAllowed(ev.Region, ev.Gesture, r.level) {
		r.logger.Debug("gesture denied",
			"region", ev.Region,
			"gesture", ev.Gesture,
			"lock_level", int(r.level))
		return ActionNone
	}
	action, _ := Lookup(ev.Region, ev.Gesture)
	switch action {
	case ActionSwitchScreen:
		if r.nav != nil {
			r.nav.SwitchScreen()
		}
	case ActionOpenDrawer:
		if r.nav != nil {
			r.nav.OpenAppDrawer()
		}
	case ActionOpenSettings:
		if r.nav != nil {
			r.nav.OpenSettings()
		}
	case ActionRefreshList:
		if r.refresh != nil {
			r.refresh()
		}
	}
	r.logger.Debug("gesture dispatched", "region", ev.Region, "gesture", ev.Gesture, "action", action)
	return action
}
