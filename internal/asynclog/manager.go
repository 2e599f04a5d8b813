package asynclog

import "sync"

// Manager is the process-wide named-logger registry. Components pull their
// logger by name instead of threading a *Logger through every constructor,
// mirroring the original design's Manager singleton.
type Manager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
	def     *Logger
}

var (
	globalManager     *Manager
	globalManagerOnce sync.Once
)

// GlobalManager returns the process-wide Manager, creating it (with a
// default stdout logger named "default") on first use.
func GlobalManager() *Manager {
	globalManagerOnce.Do(func() {
		globalManager = NewManager()
	})
	return globalManager
}

// NewManager creates an empty registry with a default stdout-backed logger.
// Most callers should use GlobalManager; NewManager exists directly for
// tests that want an isolated registry.
func NewManager() *Manager {
	m := &Manager{loggers: make(map[string]*Logger)}
	m.def = NewLoggerBuilder("default").Build()
	m.loggers["default"] = m.def
	return m
}

// AddLogger registers logger under name, replacing and closing any prior
// logger already registered under that name.
func (m *Manager) AddLogger(name string, logger *Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.loggers[name]; ok && old != logger {
		old.Close() //nolint:errcheck
	}
	m.loggers[name] = logger
}

// Exists reports whether a logger is registered under name.
func (m *Manager) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.loggers[name]
	return ok
}

// GetLogger returns the logger registered under name, or the default logger
// if name is not registered.
func (m *Manager) GetLogger(name string) *Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.loggers[name]; ok {
		return l
	}
	return m.def
}

// DefaultLogger returns the registry's fallback logger.
func (m *Manager) DefaultLogger() *Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def
}

// SetDefaultLogger replaces the fallback logger returned by GetLogger for
// unregistered names and by DefaultLogger, closing the logger previously
// registered under "default".
func (m *Manager) SetDefaultLogger(logger *Logger) {
	m.AddLogger("default", logger)
	m.mu.Lock()
	m.def = logger
	m.mu.Unlock()
}

// Shutdown closes every registered logger. Safe to call once during process
// teardown; loggers shared under multiple names are closed only once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	closed := make(map[*Logger]bool)
	for _, l := range m.loggers {
		if closed[l] {
			continue
		}
		closed[l] = true
		l.Close() //nolint:errcheck
	}
}
