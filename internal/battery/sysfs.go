package battery

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jask/lunarhome/internal/home"
)

var (
	ErrAlreadyRegistered = errors.New("battery: receiver already registered")
	ErrNotRegistered     = errors.New("battery: receiver not registered")
	ErrNoBattery         = errors.New("battery: no battery power supply found")
)

// Reading is one snapshot of a power supply.
type Reading struct {
	Supply string
	Level  int
	Scale  int
	Status string
}

// Sysfs delivers battery changes read from /sys/class/power_supply. It has no
// goroutine of its own: the host calls Poll from its event loop and
// receivers are notified inline, only when the reading changed.
type Sysfs struct {
	root      string
	logger    *slog.Logger
	receivers []home.Receiver
	last      Reading
	haveLast  bool
}

func NewSysfs(root string, logger *slog.Logger) *Sysfs {
	if root == "" {
		root = "/sys/class/power_supply"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sysfs{root: root, logger: logger}
}

// Register adds r and immediately hands it the current reading, the way a
// sticky system broadcast does.
func (s *Sysfs) Register(r home.Receiver) error {
	for _, existing := range s.receivers {
		if existing == r {
			return ErrAlreadyRegistered
		}
	}
	s.receivers = append(s.receivers, r)
	s.logger.Debug("battery receiver registered", "receivers", len(s.receivers))

	rd, err := s.Read()
	if err != nil {
		s.logger.Debug("battery read failed", "root", s.root, "error", err)
		return nil
	}
	s.last, s.haveLast = rd, true
	r.OnBatteryChanged(rd.Level, rd.Scale)
	return nil
}

func (s *Sysfs) Unregister(r home.Receiver) error {
	for i, existing := range s.receivers {
		if existing == r {
			s.receivers = append(s.receivers[:i], s.receivers[i+1:]...)
			s.logger.Debug("battery receiver unregistered", "receivers", len(s.receivers))
			return nil
		}
	}
	return ErrNotRegistered
}

// Receivers reports how many receivers are registered.
func (s *Sysfs) Receivers() int { return len(s.receivers) }

// Last returns the most recent successful reading.
func (s *Sysfs) Last() (Reading, bool) { return s.last, s.haveLast }

// Poll re-reads the supply and notifies receivers if anything changed.
// Without receivers it does not touch the filesystem.
func (s *Sysfs) Poll() {
	if len(s.receivers) == 0 {
		return
	}
	rd, err := s.Read()
	if err != nil {
		return
	}
	if s.haveLast && rd == s.last {
		return
	}
	s.last, s.haveLast = rd, true
	for _, r := range s.receivers {
		r.OnBatteryChanged(rd.Level, rd.Scale)
	}
}

// Read returns the first battery supply under root, by name.
func (s *Sysfs) Read() (Reading, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return Reading{}, fmt.Errorf("read power supplies: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		dir := filepath.Join(s.root, name)
		if !strings.EqualFold(readString(dir, "type"), "battery") {
			continue
		}
		level, scale, ok := readLevel(dir)
		if !ok {
			continue
		}
		return Reading{Supply: name, Level: level, Scale: scale, Status: readString(dir, "status")}, nil
	}
	return Reading{}, ErrNoBattery
}

// readLevel prefers capacity (already a percentage) and falls back to the
// energy or charge counters some drivers expose instead.
func readLevel(dir string) (level, scale int, ok bool) {
	if c, ok := readInt(dir, "capacity"); ok {
		return c, 100, true
	}
	for _, pair := range [][2]string{{"energy_now", "energy_full"}, {"charge_now", "charge_full"}} {
		now, okNow := readInt(dir, pair[0])
		full, okFull := readInt(dir, pair[1])
		if okNow && okFull && full > 0 {
			return now, full, true
		}
	}
	return 0, 0, false
}

func readString(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readInt(dir, name string) (int, bool) {
	v := readString(dir, name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
