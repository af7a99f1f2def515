package home

import (
	"context"
	"errors"

	"github.com/jask/lunarhome/internal/database/repository"
)

type fakeRegistrar struct {
	registered   []Receiver
	unregistered []Receiver
	live         map[Receiver]bool
	registerErr  error
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{live: map[Receiver]bool{}}
}

func (f *fakeRegistrar) Register(r Receiver) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, r)
	f.live[r] = true
	return nil
}

func (f *fakeRegistrar) Unregister(r Receiver) error {
	f.unregistered = append(f.unregistered, r)
	if !f.live[r] {
		return errors.New("receiver not registered")
	}
	delete(f.live, r)
	return nil
}

// emit plays the system broadcast to every live receiver.
func (f *fakeRegistrar) emit(level, scale int) {
	for r := range f.live {
		r.OnBatteryChanged(level, scale)
	}
}

type fakeNav struct {
	calls []string
}

func (n *fakeNav) SwitchScreen()  { n.calls = append(n.calls, "switch") }
func (n *fakeNav) OpenSettings()  { n.calls = append(n.calls, "settings") }
func (n *fakeNav) OpenAppDrawer() { n.calls = append(n.calls, "drawer") }

type fakeStore struct {
	results [][]repository.Todo
	err     error
	calls   int
}

func (s *fakeStore) GetAll(context.Context) ([]repository.Todo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.results) == 0 {
		return nil, nil
	}
	next := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return next, nil
}

type progressRecorder struct{ values []int }

func (p *progressRecorder) SetProgress(v int) { p.values = append(p.values, v) }

type listRecorder struct{ sets [][]repository.Todo }

func (l *listRecorder) SetItems(items []repository.Todo) { l.sets = append(l.sets, items) }

type fakeDisplay struct {
	clockLayout string
	dateLayout  string
	battery     *progressRecorder
	list        *listRecorder
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{battery: &progressRecorder{}, list: &listRecorder{}}
}

func (d *fakeDisplay) SetClockLayout(l string) { d.clockLayout = l }
func (d *fakeDisplay) SetDateLayout(l string)  { d.dateLayout = l }
func (d *fakeDisplay) Clock() ClockSink        { return d }
func (d *fakeDisplay) Date() DateSink          { return d }
func (d *fakeDisplay) Battery() ProgressSink   { return d.battery }
func (d *fakeDisplay) Todos() ListSink         { return d.list }

func texts(items []repository.Todo) []string {
	out := make([]string, 0, len(items))
	for _, t := range items {
		out = append(out, t.Text)
	}
	return out
}
