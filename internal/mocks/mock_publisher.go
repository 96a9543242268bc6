package mocks

import (
	"context"
	"sync"
)

type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

// MockPublisher records every event it is asked to publish.
type MockPublisher struct {
	mu     sync.Mutex
	Err    error
	Events []PublishedEvent
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = append(m.Events, PublishedEvent{RoutingKey: routingKey, Payload: payload})

	return m.Err
}

func (m *MockPublisher) Close() error {
	return nil
}

func (m *MockPublisher) RoutingKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, len(m.Events))
	for i, e := range m.Events {
		keys[i] = e.RoutingKey
	}

	return keys
}

func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = nil
}
