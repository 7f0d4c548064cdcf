package logger

import (
	"fmt"
	"strings"
	"sync"
)

// MockLogger records formatted messages per level. Safe for concurrent use.
type MockLogger struct {
	mu            sync.Mutex
	DebugMessages []string
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		DebugMessages: make([]string, 0),
		InfoMessages:  make([]string, 0),
		WarnMessages:  make([]string, 0),
		ErrorMessages: make([]string, 0),
	}
}

func (m *MockLogger) Debugf(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugMessages = append(m.DebugMessages, fmt.Sprintf(template, args...))
}

func (m *MockLogger) Infof(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoMessages = append(m.InfoMessages, fmt.Sprintf(template, args...))
}

func (m *MockLogger) Warnf(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarnMessages = append(m.WarnMessages, fmt.Sprintf(template, args...))
}

func (m *MockLogger) Errorf(template string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMessages = append(m.ErrorMessages, fmt.Sprintf(template, args...))
}

// Fatalf records the message as an error; it does not exit.
func (m *MockLogger) Fatalf(template string, args ...interface{}) {
	m.Errorf(template, args...)
}

func (m *MockLogger) Sync() error { return nil }

func (m *MockLogger) Close() error { return nil }

// Contains reports whether any recorded message, at any level, contains substr.
func (m *MockLogger) Contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msgs := range [][]string{m.DebugMessages, m.InfoMessages, m.WarnMessages, m.ErrorMessages} {
		for _, msg := range msgs {
			if strings.Contains(msg, substr) {
				return true
			}
		}
	}
	return false
}
