package home

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jask/lunarhome/internal/database/repository"
	"github.com/jask/lunarhome/internal/prefs"
)

type reloadingPrefs struct {
	prefs.Map
	reloads int
	err     error
}

func (p *reloadingPrefs) Reload() error {
	p.reloads++
	return p.err
}

func newTestController(p prefs.Store, store TodoStore, reg Registrar) *Controller {
	return NewController(context.Background(), Deps{Prefs: p, Todos: store, Battery: reg})
}

func TestRepeatedVisibilityRegistersOnce(t *testing.T) {
	reg := newFakeRegistrar()
	c := newTestController(prefs.Map{}, &fakeStore{}, reg)
	if err := c.Create(newFakeDisplay(), &fakeNav{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(reg.registered) != 0 {
		t.Fatalf("create must not attach the battery listener")
	}

	for i := 0; i < 4; i++ {
		if err := c.BecomeVisible(); err != nil {
			t.Fatalf("visible: %v", err)
		}
		c.LoseVisibility()
	}
	if len(reg.registered) != 1 {
		t.Fatalf("registered %d times, want 1", len(reg.registered))
	}
	if !c.BatteryAttached() {
		t.Fatalf("keep policy must hold the listener while hidden")
	}

	c.Destroy()
	if len(reg.unregistered) != 1 {
		t.Fatalf("unregistered %d times, want 1", len(reg.unregistered))
	}
	c.Destroy()
	if len(reg.unregistered) != 1 {
		t.Fatalf("second destroy unregistered again")
	}
	if len(reg.live) != 0 {
		t.Fatalf("leaked registrations: %d", len(reg.live))
	}
}

func TestDestroyWithoutVisibility(t *testing.T) {
	reg := newFakeRegistrar()
	c := newTestController(prefs.Map{}, &fakeStore{}, reg)
	c.Destroy()
	if err := c.Create(newFakeDisplay(), nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	c.Destroy()
	if len(reg.unregistered) != 0 {
		t.Fatalf("nothing was attached, nothing to release")
	}
	if c.Active() {
		t.Fatalf("session should be discarded")
	}
}

func TestBecomeVisibleRefreshesAndShowsBattery(t *testing.T) {
	reg := newFakeRegistrar()
	store := &fakeStore{results: [][]repository.Todo{
		{{ID: "1", Text: "A"}, {ID: "2", Text: "B"}},
		{{ID: "1", Text: "A"}},
	}}
	d := newFakeDisplay()
	c := newTestController(prefs.Map{}, store, reg)
	if err := c.Create(d, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("create must not read the store")
	}

	_ = c.BecomeVisible()
	reg.emit(3, 4)
	c.LoseVisibility()
	_ = c.BecomeVisible()

	if len(d.list.sets) != 2 {
		t.Fatalf("list rebound %d times", len(d.list.sets))
	}
	if got := texts(d.list.sets[1]); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("second visibility saw %v", got)
	}
	if !reflect.DeepEqual(d.battery.values, []int{75}) {
		t.Fatalf("battery sink saw %v", d.battery.values)
	}
}

func TestDetachPolicyReleasesOnHide(t *testing.T) {
	reg := newFakeRegistrar()
	p := prefs.Map{prefs.KeyHidePolicy: "detach"}
	c := newTestController(p, &fakeStore{}, reg)
	if err := c.Create(newFakeDisplay(), nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	_ = c.BecomeVisible()
	c.LoseVisibility()
	if c.BatteryAttached() || c.Visible() {
		t.Fatalf("detach policy should release on hide")
	}
	_ = c.BecomeVisible()
	c.Destroy()

	if len(reg.registered) != 2 || len(reg.unregistered) != 2 {
		t.Fatalf("register %d / unregister %d, want 2/2", len(reg.registered), len(reg.unregistered))
	}
	if len(reg.live) != 0 {
		t.Fatalf("leaked registrations: %d", len(reg.live))
	}
}

func TestCreateReadsSettingsOnce(t *testing.T) {
	p := &reloadingPrefs{Map: prefs.Map{
		prefs.KeyLockLevel:  1,
		prefs.KeyClock24h:   true,
		prefs.KeyDateFormat: "2006-01-02",
	}}
	nav := &fakeNav{}
	d := newFakeDisplay()
	c := newTestController(p, &fakeStore{}, newFakeRegistrar())
	if err := c.Create(d, nav); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.reloads != 1 {
		t.Fatalf("reloads = %d", p.reloads)
	}
	if d.clockLayout != "15:04" || d.dateLayout != "2006-01-02" {
		t.Fatalf("layouts = %q %q", d.clockLayout, d.dateLayout)
	}
	if c.LockLevel() != LockGestures {
		t.Fatalf("lock level = %d", c.LockLevel())
	}

	// Changing the stored value mid-session has no effect until the next Create.
	p.Map[prefs.KeyLockLevel] = 0
	if got := c.OnGesture(GestureEvent{RegionBattery, GestureTap}); got != ActionNone {
		t.Fatalf("battery tap under lock should be swallowed, got %q", got)
	}
	if got := c.OnGesture(GestureEvent{RegionBackground, GestureSwipeUp}); got != ActionSwitchScreen {
		t.Fatalf("background swipe-up under lock: %q", got)
	}

	if err := c.Create(d, nav); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if got := c.OnGesture(GestureEvent{RegionBattery, GestureTap}); got != ActionOpenSettings {
		t.Fatalf("after recreate got %q", got)
	}
	if !reflect.DeepEqual(nav.calls, []string{"switch", "settings"}) {
		t.Fatalf("navigator calls = %v", nav.calls)
	}
}

func TestCreateSurvivesReloadFailure(t *testing.T) {
	p := &reloadingPrefs{Map: prefs.Map{}, err: errors.New("bad toml")}
	d := newFakeDisplay()
	c := newTestController(p, &fakeStore{}, newFakeRegistrar())
	if err := c.Create(d, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.clockLayout != "3:04 PM" || d.dateLayout != "Mon, 02 Jan" {
		t.Fatalf("defaults not applied: %q %q", d.clockLayout, d.dateLayout)
	}
}

func TestRecreateReleasesPreviousSession(t *testing.T) {
	reg := newFakeRegistrar()
	c := newTestController(prefs.Map{}, &fakeStore{}, reg)
	_ = c.Create(newFakeDisplay(), nil)
	_ = c.BecomeVisible()
	_ = c.Create(newFakeDisplay(), nil)
	_ = c.BecomeVisible()
	c.Destroy()

	if len(reg.live) != 0 {
		t.Fatalf("leaked registrations: %d", len(reg.live))
	}
	if len(reg.registered) != 2 || len(reg.unregistered) != 2 {
		t.Fatalf("register %d / unregister %d", len(reg.registered), len(reg.unregistered))
	}
}

func TestLifecycleErrors(t *testing.T) {
	c := newTestController(nil, nil, nil)
	if err := c.Create(nil, nil); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("create(nil) = %v", err)
	}
	if err := c.BecomeVisible(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("visible without session = %v", err)
	}
	c.LoseVisibility()
	c.Destroy()
	if got := c.OnGesture(GestureEvent{RegionBackground, GestureSwipeUp}); got != ActionNone {
		t.Fatalf("gesture without session = %q", got)
	}
}

func TestStoreFailureDuringVisibility(t *testing.T) {
	d := newFakeDisplay()
	c := newTestController(prefs.Map{}, &fakeStore{err: errors.New("disk gone")}, newFakeRegistrar())
	_ = c.Create(d, nil)
	if err := c.BecomeVisible(); err != nil {
		t.Fatalf("store failure must not escape: %v", err)
	}
	if len(d.list.sets) != 1 || len(d.list.sets[0]) != 0 {
		t.Fatalf("want one empty bind, got %#v", d.list.sets)
	}
}

func TestRefreshGestureRebindsList(t *testing.T) {
	store := &fakeStore{results: [][]repository.Todo{{{Text: "A"}}, {{Text: "A"}, {Text: "C"}}}}
	d := newFakeDisplay()
	c := newTestController(prefs.Map{}, store, newFakeRegistrar())
	_ = c.Create(d, nil)
	_ = c.BecomeVisible()

	if got := c.OnGesture(GestureEvent{RegionTodoList, GestureSwipeDown}); got != ActionRefreshList {
		t.Fatalf("got %q", got)
	}
	if got := texts(d.list.sets[len(d.list.sets)-1]); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Fatalf("list after refresh gesture = %v", got)
	}
}

type sinklessDisplay struct{ *fakeDisplay }

func (sinklessDisplay) Todos() ListSink { return nil }

func TestCreateRejectsDisplayWithoutSinks(t *testing.T) {
	reg := newFakeRegistrar()
	c := newTestController(prefs.Map{}, &fakeStore{}, reg)
	if err := c.Create(sinklessDisplay{newFakeDisplay()}, nil); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("create with missing list sink = %v", err)
	}
	if c.Active() {
		t.Fatalf("no session should exist after a rejected create")
	}
}
