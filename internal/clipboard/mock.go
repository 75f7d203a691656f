package clipboard

import "sync"

// Mock is an in-memory clipboard for testing. It records every write.
type Mock struct {
	mu     sync.Mutex
	writes []string

	// Err, when set, is returned from every WriteText call.
	Err error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, text)
	return m.Err
}

// Writes returns a copy of every text passed to WriteText, in order.
func (m *Mock) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}
