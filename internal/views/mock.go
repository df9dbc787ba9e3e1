package views

import (
	"context"
	"sync"
)

// Mock records view reports for tests. FailTimes lets a test simulate
// transient failures before a report goes through.
type Mock struct {
	mu        sync.Mutex
	reports   []Report
	attempts  int
	FailTimes int   // fail this many calls before succeeding
	Err       error // error returned by the failing calls
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Report(_ context.Context, r Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.FailTimes != 0 {
		m.FailTimes--
		return m.Err
	}
	m.reports = append(m.reports, r)
	return nil
}

// Reports returns every successfully recorded report, in order.
func (m *Mock) Reports() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Report, len(m.reports))
	copy(out, m.reports)
	return out
}

// Attempts returns the total number of Report calls, failures included.
func (m *Mock) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}
