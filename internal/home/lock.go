package home

// LockLevel is the persisted gesture lock setting.
type LockLevel int

const (
	LockNone     LockLevel = 0
	LockGestures LockLevel = 1
	LockConfirm  LockLevel = 2
)

// Locked reports whether gestures are restricted. Anything other than
// LockNone counts, including out-of-range values read from disk.
func (l LockLevel) Locked() bool { return l != LockNone }

// IsActionAllowed decides whether a gesture in a region may run its action
// under the given lock level. Pairs missing from the routing table are
// always denied.
func IsActionAllowed(region Region, gesture Gesture, level LockLevel) bool {
	action, ok := routes[routeKey{region, gesture}]
	if !ok {
		return false
	}
	if !level.Locked() {
		return true
	}
	return region == RegionBackground && action.IsNavigation()
}
