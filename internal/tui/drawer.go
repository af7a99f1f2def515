package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/lunarhome/internal/config"
)

// rankApps orders apps for a query: prefix matches, then substring matches,
// then near-miss prefixes within a small edit distance. Apps matching none
// of these are dropped.
func rankApps(query string, apps []config.AppEntry) []config.AppEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	qr := []rune(q)
	type scored struct {
		app   config.AppEntry
		score int
	}
	var out []scored
	for _, a := range apps {
		name := strings.ToLower(a.Name)
		switch {
		case q == "" || strings.HasPrefix(name, q):
			out = append(out, scored{a, 0})
		case strings.Contains(name, q):
			out = append(out, scored{a, 1})
		default:
			head := []rune(name)
			head = head[:min(len(head), len(qr))]
			d := levenshtein.ComputeDistance(q, string(head))
			if d <= len(qr)/3 {
				out = append(out, scored{a, 2 + d})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score < out[j].score
		}
		return strings.ToLower(out[i].app.Name) < strings.ToLower(out[j].app.Name)
	})
	res := make([]config.AppEntry, 0, len(out))
	for _, s := range out {
		res = append(res, s.app)
	}
	return res
}

func alignment(s string) lipgloss.Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre":
		return lipgloss.Center
	case "right":
		return lipgloss.Right
	}
	return lipgloss.Left
}

type drawerModel struct {
	apps    []config.AppEntry
	opts    config.DrawerConfig
	input   textinput.Model
	matches []config.AppEntry
	cursor  int
	width   int
}

func newDrawer(apps []config.AppEntry, opts config.DrawerConfig) drawerModel {
	if opts.Columns < 1 {
		opts.Columns = 1
	}
	in := textinput.New()
	in.Placeholder = "search apps"
	in.Prompt = "> "
	d := drawerModel{apps: apps, opts: opts, input: in}
	d.filter()
	return d
}

// reset clears the query. With auto search on, the search box takes focus
// straight away and the returned command starts the cursor blinking.
func (d *drawerModel) reset() tea.Cmd {
	d.input.SetValue("")
	d.cursor = 0
	d.filter()
	if d.opts.AutoSearch {
		return d.search()
	}
	d.input.Blur()
	return nil
}

func (d *drawerModel) search() tea.Cmd {
	d.input.Focus()
	return textinput.Blink
}

func (d *drawerModel) searching() bool { return d.input.Focused() }

func (d *drawerModel) filter() {
	d.matches = rankApps(d.input.Value(), d.apps)
	if d.cursor >= len(d.matches) {
		d.cursor = 0
	}
}

func (d *drawerModel) selected() (config.AppEntry, bool) {
	if d.cursor < 0 || d.cursor >= len(d.matches) {
		return config.AppEntry{}, false
	}
	return d.matches[d.cursor], true
}

// quickLaunch reports the app to start when a non-empty query has narrowed
// the drawer down to one entry.
func (d *drawerModel) quickLaunch() (config.AppEntry, bool) {
	if !d.opts.QuickLaunch || strings.TrimSpace(d.input.Value()) == "" || len(d.matches) != 1 {
		return config.AppEntry{}, false
	}
	return d.matches[0], true
}

func (d *drawerModel) move(delta int) {
	if len(d.matches) == 0 {
		return
	}
	d.cursor = ((d.cursor+delta)%len(d.matches) + len(d.matches)) % len(d.matches)
}

// moveRow steps one grid row; in list layout that is one entry.
func (d *drawerModel) moveRow(dir int) { d.move(dir * d.opts.Columns) }

func (d drawerModel) cellWidth() int {
	w := d.width
	if w <= 0 {
		w = 80
	}
	return max((w-2)/d.opts.Columns, 8)
}

func (d drawerModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("apps"))
	b.WriteString("\n")
	if d.searching() || d.input.Value() != "" {
		b.WriteString(d.input.View())
	} else {
		b.WriteString(mutedStyle.Render("/ to search"))
	}
	b.WriteString("\n\n")
	if len(d.matches) == 0 {
		if len(d.apps) == 0 {
			b.WriteString(mutedStyle.Render("no apps configured, add [[apps]] entries to the config"))
		} else {
			b.WriteString(mutedStyle.Render("no match"))
		}
		return b.String()
	}

	cell := lipgloss.NewStyle().Width(d.cellWidth()).Align(alignment(d.opts.Align))
	var rows []string
	for start := 0; start < len(d.matches); start += d.opts.Columns {
		end := min(start+d.opts.Columns, len(d.matches))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			name := d.matches[i].Name
			if i == d.cursor {
				cells = append(cells, cell.Render(selectedStyle.Render("> "+name)))
				continue
			}
			cells = append(cells, cell.Render("  "+name))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	b.WriteString(strings.Join(rows, "\n"))
	return b.String()
}
