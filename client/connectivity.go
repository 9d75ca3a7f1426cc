package client

import "sync"

// Connectivity is the online/offline observable. The store polls Online
// before each mutation and subscribes for reconnect-triggered replay.
type Connectivity interface {
	Online() bool
	OnReconnect(fn func())
}

// Monitor is a flag-backed Connectivity implementation. Whatever watches
// the actual network feeds SetOnline; an offline-to-online transition fires
// every subscribed callback synchronously, in subscription order.
type Monitor struct {
	mu     sync.Mutex
	online bool
	subs   []func()
}

func NewMonitor(online bool) *Monitor {
	return &Monitor{online: online}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *Monitor) OnReconnect(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	reconnected := online && !m.online
	m.online = online
	subs := make([]func(), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if reconnected {
		for _, fn := range subs {
			fn()
		}
	}
}
