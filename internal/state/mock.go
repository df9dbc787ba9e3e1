package state

import "sync"

// Mock is an in-memory state store for tests. Saves apply immediately
// instead of being debounced.
type Mock struct {
	mu     sync.Mutex
	queue  *QueueState
	saves  int
	GetErr error
}

func NewMock() *Mock {
	return &Mock{}
}

// Seed preloads the queue state returned by GetQueue.
func (m *Mock) Seed(state QueueState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = &state
}

func (m *Mock) SaveQueue(state QueueState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = &state
	m.saves++
}

func (m *Mock) GetQueue() (*QueueState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.queue == nil {
		return &QueueState{CurrentIndex: -1, Volume: -1, PreviousVolume: 80}, nil
	}
	state := *m.queue
	return &state, nil
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error { return nil }

// Saved returns the last saved queue state, or nil.
func (m *Mock) Saved() *QueueState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queue == nil {
		return nil
	}
	state := *m.queue
	return &state
}

// SaveCount returns how many times SaveQueue was called.
func (m *Mock) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
