package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/lunarhome/internal/home"
)

const doubleTapWindow = 400 * time.Millisecond

// tapConfirmMsg fires when the double-tap window for a pending tap closes.
type tapConfirmMsg struct{ seq int }

// tapRecognizer turns taps into tap or double-tap. A single tap is only
// reported once the window has passed without a second one.
type tapRecognizer struct {
	window  time.Duration
	seq     int
	pending bool
	region  home.Region
}

type tapResult struct {
	double  bool
	flushed home.Region // earlier pending tap in another region, reported as a tap
	wait    tea.Cmd
}

func (t *tapRecognizer) press(region home.Region) tapResult {
	var res tapResult
	if t.pending {
		if t.region == region {
			t.pending = false
			res.double = true
			return res
		}
		res.flushed = t.region
	}
	t.seq++
	t.pending = true
	t.region = region
	seq := t.seq
	res.wait = tea.Tick(t.window, func(time.Time) tea.Msg { return tapConfirmMsg{seq: seq} })
	return res
}

// confirm resolves a pending tap. Stale confirmations are ignored.
func (t *tapRecognizer) confirm(m tapConfirmMsg) (home.Region, bool) {
	if !t.pending || m.seq != t.seq {
		return "", false
	}
	t.pending = false
	return t.region, true
}

// cancel drops a pending tap so its confirmation is ignored.
func (t *tapRecognizer) cancel() { t.pending = false }
