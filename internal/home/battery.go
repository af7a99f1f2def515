package home

import "log/slog"

// ProgressSink displays a 0-100 value.
type ProgressSink interface {
	SetProgress(percent int)
}

// Receiver gets raw battery notifications from a Registrar.
type Receiver interface {
	OnBatteryChanged(level, scale int)
}

// Registrar is the system battery notification source.
type Registrar interface {
	Register(r Receiver) error
	Unregister(r Receiver) error
}

// Percent converts a level/scale pair into a clamped percentage.
func Percent(level, scale int) int {
	if scale <= 0 {
		return 0
	}
	p := level * 100 / scale
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// registration is the handle for one live Register call. It is the only
// Receiver the bridge ever hands to the registrar.
type registration struct {
	sink ProgressSink
}

func (r *registration) OnBatteryChanged(level, scale int) {
	r.sink.SetProgress(Percent(level, scale))
}

// BatteryBridge owns at most one registration at a time.
type BatteryBridge struct {
	registrar Registrar
	logger    *slog.Logger
	reg       *registration
}

func NewBatteryBridge(registrar Registrar, logger *slog.Logger) *BatteryBridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BatteryBridge{registrar: registrar, logger: logger}
}

// Attach registers a receiver feeding sink. It does nothing when already
// attached, whatever sink is passed.
func (b *BatteryBridge) Attach(sink ProgressSink) {
	if b.reg != nil {
		return
	}
	if b.registrar == nil || sink == nil {
		b.logger.Warn("battery attach skipped", "has_registrar", b.registrar != nil, "has_sink", sink != nil)
		return
	}
	reg := &registration{sink: sink}
	if err := b.registrar.Register(reg); err != nil {
		b.logger.Warn("battery register failed", "error", err)
		return
	}
	b.reg = reg
}

// Detach releases the registration if there is one.
func (b *BatteryBridge) Detach() {
	if b.reg == nil {
		return
	}
	reg := b.reg
	b.reg = nil
	if err := b.registrar.Unregister(reg); err != nil {
		b.logger.Warn("battery unregister failed", "error", err)
	}
}

func (b *BatteryBridge) Attached() bool { return b.reg != nil }
