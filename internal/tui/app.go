package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/lunarhome/internal/battery"
	"github.com/jask/lunarhome/internal/config"
	"github.com/jask/lunarhome/internal/home"
	"github.com/jask/lunarhome/internal/prefs"
)

// BatterySource is a battery registrar the app polls from its event loop.
type BatterySource interface {
	home.Registrar
	Poll()
}

// Deps are the collaborators the app wires into the home controller.
type Deps struct {
	Prefs   prefs.Store
	Todos   home.TodoStore
	Battery BatterySource
	Logger  *slog.Logger
}

type screen string

const (
	screenHome   screen = "home"
	screenFeed   screen = "feed"
	screenDrawer screen = "drawer"
)

var regions = []home.Region{home.RegionBackground, home.RegionBattery, home.RegionTodoList}

// Row layout of the home screen, used to map mouse events to regions.
const (
	rowBattery = 4
	rowListTop = 6
)

type clockTickMsg time.Time

type batteryTickMsg struct{}

type settingsClosedMsg struct{ err error }

type appExitedMsg struct {
	name string
	err  error
}

// App is the bubbletea host for the home screen. It owns the display sinks,
// recognises gestures and acts as the navigator for the controller.
type App struct {
	ctx     context.Context
	cfg     config.Config
	ctrl    *home.Controller
	battery BatterySource
	logger  *slog.Logger
	keys    keyMap
	disp    *display
	drawer  drawerModel
	taps    tapRecognizer
	tz      *time.Location
	now     func() time.Time
	clock   time.Time
	screen  screen
	focus   int
	width   int
	height  int
	pending []tea.Cmd
}

func New(ctx context.Context, cfg config.Config, deps Deps) *App {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &App{
		ctx:     ctx,
		cfg:     cfg,
		battery: deps.Battery,
		logger:  logger,
		keys:    defaultKeys(),
		disp:    newDisplay(),
		drawer:  newDrawer(cfg.Apps, cfg.Drawer),
		taps:    tapRecognizer{window: doubleTapWindow},
		tz:      cfg.Location(),
		now:     time.Now,
		screen:  screenHome,
		width:   80,
		height:  24,
	}
	var registrar home.Registrar
	if deps.Battery != nil {
		registrar = deps.Battery
	}
	a.ctrl = home.NewController(ctx, home.Deps{
		Prefs:   deps.Prefs,
		Todos:   deps.Todos,
		Battery: registrar,
		Logger:  logger,
	})
	return a
}

func (a *App) Init() tea.Cmd {
	a.clock = a.now()
	if err := a.ctrl.Create(a.disp, a); err != nil {
		a.logger.Error("home create failed", "error", err)
		return tea.Quit
	}
	a.showHome()
	return tea.Batch(a.clockTick(), a.batteryTick())
}

// Close ends the session. Safe to call more than once.
func (a *App) Close() {
	a.ctrl.Destroy()
}

func (a *App) clockTick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func (a *App) batteryTick() tea.Cmd {
	if a.battery == nil {
		return nil
	}
	every := a.cfg.Battery.PollInterval
	if every <= 0 {
		every = 5 * time.Second
	}
	return tea.Tick(every, func(time.Time) tea.Msg { return batteryTickMsg{} })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.disp.todos.list.SetSize(max(m.Width-4, 10), a.listHeight())
		a.drawer.width = m.Width
	case clockTickMsg:
		a.clock = time.Time(m)
		a.queue(a.clockTick())
	case batteryTickMsg:
		if a.battery != nil {
			a.battery.Poll()
		}
		a.queue(a.batteryTick())
	case tea.FocusMsg:
		if a.screen == screenHome {
			a.showHome()
		}
	case tea.BlurMsg:
		a.taps.cancel()
		if a.screen == screenHome {
			a.ctrl.LoseVisibility()
		}
	case tapConfirmMsg:
		// A tap still pending when home was left belongs to a screen that is
		// no longer shown.
		if region, ok := a.taps.confirm(m); ok && a.screen == screenHome {
			a.gesture(region, home.GestureTap)
		}
	case settingsClosedMsg:
		if m.err != nil {
			a.logger.Warn("settings editor exited with error", "error", m.err)
		}
		a.recreate()
	case appExitedMsg:
		if m.err != nil {
			a.logger.Warn("app exited with error", "app", m.name, "error", m.err)
		}
		a.showHome()
	case tea.MouseMsg:
		if a.screen == screenHome {
			a.handleMouse(m)
		}
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) && (m.String() == "ctrl+c" || a.screen != screenDrawer || !a.drawer.searching()) {
			a.Close()
			return a, tea.Quit
		}
		switch a.screen {
		case screenFeed:
			a.handleFeedKey(m)
		case screenDrawer:
			a.handleDrawerKey(m)
		default:
			a.handleHomeKey(m)
		}
	}
	return a, a.flush()
}

func (a *App) queue(cmd tea.Cmd) {
	if cmd != nil {
		a.pending = append(a.pending, cmd)
	}
}

func (a *App) flush() tea.Cmd {
	cmds := a.pending
	a.pending = nil
	return tea.Batch(cmds...)
}

func (a *App) handleHomeKey(m tea.KeyMsg) {
	switch {
	case key.Matches(m, a.keys.NextFocus):
		a.focus = (a.focus + 1) % len(regions)
	case key.Matches(m, a.keys.PrevFocus):
		a.focus = (a.focus + len(regions) - 1) % len(regions)
	case key.Matches(m, a.keys.Tap):
		a.tap(regions[a.focus])
	case key.Matches(m, a.keys.LongPress):
		a.gesture(regions[a.focus], home.GestureLongPress)
	case key.Matches(m, a.keys.SwipeUp):
		a.gesture(regions[a.focus], home.GestureSwipeUp)
	case key.Matches(m, a.keys.SwipeDown):
		a.gesture(regions[a.focus], home.GestureSwipeDown)
	case key.Matches(m, a.keys.Up, a.keys.Down):
		if regions[a.focus] == home.RegionTodoList {
			var cmd tea.Cmd
			a.disp.todos.list, cmd = a.disp.todos.list.Update(m)
			a.queue(cmd)
		}
	}
}

func (a *App) handleFeedKey(m tea.KeyMsg) {
	if key.Matches(m, a.keys.Back, a.keys.SwipeUp) {
		a.showHome()
	}
}

func (a *App) handleDrawerKey(m tea.KeyMsg) {
	switch {
	case key.Matches(m, a.keys.Back):
		a.drawer.input.Blur()
		a.showHome()
	case key.Matches(m, a.keys.Launch):
		if app, ok := a.drawer.selected(); ok {
			a.launch(app)
		}
	case a.drawer.searching():
		switch m.String() {
		case "up":
			a.drawer.moveRow(-1)
		case "down":
			a.drawer.moveRow(1)
		default:
			a.updateDrawerInput(m)
		}
	case key.Matches(m, a.keys.Search):
		a.queue(a.drawer.search())
	case key.Matches(m, a.keys.Up):
		a.drawer.moveRow(-1)
	case key.Matches(m, a.keys.Down):
		a.drawer.moveRow(1)
	case key.Matches(m, a.keys.Left):
		a.drawer.move(-1)
	case key.Matches(m, a.keys.Right):
		a.drawer.move(1)
	}
}

func (a *App) updateDrawerInput(m tea.KeyMsg) {
	var cmd tea.Cmd
	a.drawer.input, cmd = a.drawer.input.Update(m)
	a.drawer.filter()
	a.queue(cmd)
	if app, ok := a.drawer.quickLaunch(); ok {
		a.launch(app)
	}
}

func (a *App) handleMouse(m tea.MouseMsg) {
	region := a.regionAt(m.Y)
	switch {
	case m.Button == tea.MouseButtonWheelUp:
		a.gesture(region, home.GestureSwipeUp)
	case m.Button == tea.MouseButtonWheelDown:
		a.gesture(region, home.GestureSwipeDown)
	case m.Action != tea.MouseActionPress:
		return
	case m.Button == tea.MouseButtonLeft:
		a.focusRegion(region)
		a.tap(region)
	case m.Button == tea.MouseButtonRight:
		a.focusRegion(region)
		a.gesture(region, home.GestureLongPress)
	}
}

func (a *App) regionAt(y int) home.Region {
	switch {
	case y == rowBattery:
		return home.RegionBattery
	case y >= rowListTop && y < rowListTop+a.listHeight():
		return home.RegionTodoList
	}
	return home.RegionBackground
}

func (a *App) focusRegion(r home.Region) {
	for i, x := range regions {
		if x == r {
			a.focus = i
		}
	}
}

func (a *App) listHeight() int {
	return max(a.height-rowListTop-3, 3)
}

func (a *App) tap(region home.Region) {
	res := a.taps.press(region)
	if res.flushed != "" {
		a.gesture(res.flushed, home.GestureTap)
	}
	if res.double {
		a.gesture(region, home.GestureDoubleTap)
		return
	}
	a.queue(res.wait)
}

func (a *App) gesture(region home.Region, g home.Gesture) home.Action {
	return a.ctrl.OnGesture(home.GestureEvent{Region: region, Gesture: g})
}

// showHome makes the home screen current and visible again.
func (a *App) showHome() {
	a.screen = screenHome
	if err := a.ctrl.BecomeVisible(); err != nil {
		a.logger.Warn("home visible failed", "error", err)
	}
}

func (a *App) leaveHome(to screen) {
	a.taps.cancel()
	a.ctrl.LoseVisibility()
	a.screen = to
}

// recreate rebuilds the session so edited settings take effect.
func (a *App) recreate() {
	a.screen = screenHome
	if err := a.ctrl.Create(a.disp, a); err != nil {
		a.logger.Error("home recreate failed", "error", err)
		return
	}
	a.showHome()
}

// SwitchScreen implements home.Navigator.
func (a *App) SwitchScreen() {
	if a.screen == screenHome {
		a.leaveHome(screenFeed)
	}
}

// OpenAppDrawer implements home.Navigator.
func (a *App) OpenAppDrawer() {
	a.leaveHome(screenDrawer)
	a.queue(a.drawer.reset())
}

// OpenSettings implements home.Navigator. The config file is opened in the
// user's editor; the session is rebuilt when the editor exits.
func (a *App) OpenSettings() {
	args := editorCommand(a.cfg.Settings.Editor)
	cmd := exec.Command(args[0], append(args[1:], config.Path())...)
	a.taps.cancel()
	a.ctrl.LoseVisibility()
	a.queue(tea.ExecProcess(cmd, func(err error) tea.Msg { return settingsClosedMsg{err: err} }))
}

func (a *App) launch(app config.AppEntry) {
	a.drawer.input.Blur()
	cmd := exec.Command("sh", "-c", app.Command)
	name := app.Name
	a.logger.Info("launching app", "app", name)
	a.queue(tea.ExecProcess(cmd, func(err error) tea.Msg { return appExitedMsg{name: name, err: err} }))
}

func editorCommand(configured string) []string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if f := strings.Fields(candidate); len(f) > 0 {
			return f
		}
	}
	return []string{"vi"}
}

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenFeed:
		body = a.renderFeed()
	case screenDrawer:
		body = a.drawer.View() + "\n\n" + helpLine(a.keys.Back, a.keys.Search, a.keys.Launch)
	default:
		body = a.renderHome()
	}
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, a.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (a *App) label(r home.Region, text string) string {
	if regions[a.focus] == r {
		return focusedRegionStyle.Render("▸ " + text)
	}
	return regionStyle.Render("  " + text)
}

func (a *App) renderHome() string {
	now := a.clock.In(a.tz)
	lines := []string{
		"",
		"  " + clockStyle.Render(now.Format(a.disp.clock.clockLayout)),
		"  " + dateStyle.Render(now.Format(a.disp.clock.dateLayout)),
		"",
		a.label(home.RegionBattery, "") + a.disp.battery.View(),
		a.label(home.RegionTodoList, "todos"),
		a.disp.todos.View(),
		"",
	}
	footer := a.label(home.RegionBackground, "home")
	if a.ctrl.LockLevel().Locked() {
		footer += "  " + lockStyle.Render(fmt.Sprintf("locked (%d)", a.ctrl.LockLevel()))
	}
	help := helpLine(a.keys.NextFocus, a.keys.Tap, a.keys.LongPress, a.keys.SwipeUp, a.keys.SwipeDown, a.keys.Quit)
	return strings.Join(append(lines, footer, help), "\n")
}

func (a *App) renderFeed() string {
	now := a.clock.In(a.tz)
	open, done := a.disp.todos.counts()
	batteryLine := "battery: unknown"
	if a.disp.battery.known {
		batteryLine = fmt.Sprintf("battery: %d%%", a.disp.battery.percent)
	}
	if s, ok := a.battery.(*battery.Sysfs); ok {
		if rd, ok := s.Last(); ok && rd.Status != "" {
			batteryLine += " (" + strings.ToLower(rd.Status) + ")"
		}
	}
	lines := []string{
		headerStyle.Render(now.Format("Monday, 2 January 2006")),
		"",
		batteryLine,
		fmt.Sprintf("todos: %d open, %d done", open, done),
		"",
		helpLine(a.keys.Back, a.keys.SwipeUp),
	}
	return strings.Join(lines, "\n")
}
