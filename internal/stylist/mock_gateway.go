package stylist

import (
	"context"
	"sync"
)

// MockGateway is a test double for Gateway. Each method can be overridden
// with a custom function; if not overridden, methods return sensible
// defaults. Thread-safe for use in concurrent tests.
type MockGateway struct {
	DescribeItemFunc func(ctx context.Context, image []byte) (*ItemReport, error)
	ConverseFunc     func(ctx context.Context, message string, history []Turn, image []byte) (*StylistReply, error)
	IllustrateFunc   func(ctx context.Context, prompt string, aspectRatio string) ([]byte, error)

	mu sync.Mutex

	// Calls tracks all method invocations for assertions.
	Calls []MockCall
}

// MockCall records a method call for test assertions.
type MockCall struct {
	Method string
	Args   []any
}

// Ensure MockGateway implements Gateway
var _ Gateway = (*MockGateway)(nil)

func (m *MockGateway) DescribeItem(ctx context.Context, image []byte) (*ItemReport, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "DescribeItem"})
	fn := m.DescribeItemFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, image)
	}
	return &ItemReport{}, nil
}

func (m *MockGateway) Converse(ctx context.Context, message string, history []Turn, image []byte) (*StylistReply, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Converse", Args: []any{message}})
	fn := m.ConverseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, message, history, image)
	}
	return &StylistReply{}, nil
}

func (m *MockGateway) Illustrate(ctx context.Context, prompt string, aspectRatio string) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "Illustrate", Args: []any{prompt, aspectRatio}})
	fn := m.IllustrateFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt, aspectRatio)
	}
	return []byte("image-bytes"), nil
}

// CallCount returns how many times the named method was invoked.
func (m *MockGateway) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}
