// Package connectivity tracks network reachability as reported by the
// browser.
package connectivity

import "sync"

// Monitor holds the reachability flag. It is updated only by external
// became-online / became-offline signals and read synchronously before a
// lookup is issued. No polling, no retry-on-reconnect.
type Monitor struct {
	mu     sync.Mutex
	online bool
}

// New creates a monitor. The flag starts online; the browser reports its
// actual state on page load.
func New() *Monitor {
	return &Monitor{online: true}
}

// SetOnline records a became-reachable signal.
func (m *Monitor) SetOnline() {
	m.mu.Lock()
	m.online = true
	m.mu.Unlock()
}

// SetOffline records a became-unreachable signal.
func (m *Monitor) SetOffline() {
	m.mu.Lock()
	m.online = false
	m.mu.Unlock()
}

// Online reports the current flag.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}
