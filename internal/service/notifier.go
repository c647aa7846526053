package service

// ─────────────────────────────────────────────────────────────
// Notifier — decouples services from the device fleet
// ─────────────────────────────────────────────────────────────

// Notifier flags the devices showing a design after the design changed.
// Services receive this interface instead of a device store, which
// makes them independently testable with a mock notifier.
type Notifier interface {
	// DesignChanged returns how many devices were flagged for refresh.
	DesignChanged(designID string) (int, error)
}

// MockNotifier is a test-friendly Notifier that records all calls.
type MockNotifier struct {
	DesignIDs []string
	Err       error
}

func (m *MockNotifier) DesignChanged(designID string) (int, error) {
	m.DesignIDs = append(m.DesignIDs, designID)
	return len(m.DesignIDs), m.Err
}
