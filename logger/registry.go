package logger

import "sync"

// state holds the process-wide logger and per-component overrides. Init
// and SetGlobalLogger may run after components resolved their loggers, so
// Get is best called at construction time, after bootstrap.
var state = struct {
	sync.RWMutex
	global    *Logger
	overrides map[string]*Logger
}{overrides: map[string]*Logger{}}

// SetGlobalLogger replaces the global logger. nil restores the lazy default.
func SetGlobalLogger(l *Logger) {
	state.Lock()
	state.global = l
	state.Unlock()
}

// GetGlobalLogger returns the global logger, creating a console default on
// first use.
func GetGlobalLogger() *Logger {
	state.RLock()
	l := state.global
	state.RUnlock()
	if l != nil {
		return l
	}

	state.Lock()
	defer state.Unlock()
	if state.global == nil {
		state.global = NewDefault("default")
	}
	return state.global
}

// Register routes Get(name) to l, e.g. to capture one component's output
// in a test. A nil l removes the override.
func Register(name string, l *Logger) {
	state.Lock()
	defer state.Unlock()
	if l == nil {
		delete(state.overrides, name)
		return
	}
	state.overrides[name] = l
}

// Get returns the logger for a component: its override when registered,
// otherwise the global logger tagged with name.
func Get(name string) *Logger {
	state.RLock()
	l, ok := state.overrides[name]
	state.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}
