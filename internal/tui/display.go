package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"

	"github.com/jask/lunarhome/internal/database/repository"
	"github.com/jask/lunarhome/internal/home"
)

// clockView holds the layouts the controller configured.
type clockView struct {
	clockLayout string
	dateLayout  string
}

func (c *clockView) SetClockLayout(layout string) { c.clockLayout = layout }
func (c *clockView) SetDateLayout(layout string)  { c.dateLayout = layout }

type batteryView struct {
	bar     progress.Model
	percent int
	known   bool
}

func newBatteryView() *batteryView {
	return &batteryView{bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage())}
}

func (b *batteryView) SetProgress(percent int) {
	b.percent = percent
	b.known = true
}

func (b *batteryView) View() string {
	if !b.known {
		return mutedStyle.Render("battery --")
	}
	return b.bar.ViewAs(float64(b.percent)/100) + " " + batteryStyle(b.percent).Render(fmt.Sprintf("%3d%%", b.percent))
}

type todoItem struct {
	repository.Todo
}

func (t todoItem) Title() string {
	if t.Done {
		return "[x] " + t.Text
	}
	return "[ ] " + t.Text
}

func (t todoItem) Description() string { return shortID(t.ID) }
func (t todoItem) FilterValue() string { return t.Text }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type todoView struct {
	list  list.Model
	items []repository.Todo
}

func newTodoView() *todoView {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	l := list.New(nil, d, 40, 8)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowFilter(false)
	l.DisableQuitKeybindings()
	return &todoView{list: l}
}

// SetItems rebinds the whole list.
func (t *todoView) SetItems(items []repository.Todo) {
	t.items = items
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, todoItem{it})
	}
	t.list.SetItems(li)
}

func (t *todoView) counts() (open, done int) {
	for _, it := range t.items {
		if it.Done {
			done++
		} else {
			open++
		}
	}
	return open, done
}

func (t *todoView) View() string {
	if len(t.items) == 0 {
		return mutedStyle.Render("no todos")
	}
	return t.list.View()
}

// display is the home screen's set of sinks.
type display struct {
	clock   *clockView
	battery *batteryView
	todos   *todoView
}

func newDisplay() *display {
	return &display{clock: &clockView{}, battery: newBatteryView(), todos: newTodoView()}
}

func (d *display) Clock() home.ClockSink      { return d.clock }
func (d *display) Date() home.DateSink        { return d.clock }
func (d *display) Battery() home.ProgressSink { return d.battery }
func (d *display) Todos() home.ListSink       { return d.todos }
