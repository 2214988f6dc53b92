package types

// MockLogger discards everything. It is used by tests that do not assert on log output.
type MockLogger struct{}

func (m *MockLogger) Debug(msg string, fields ...interface{})  {}
func (m *MockLogger) Info(msg string, fields ...interface{})   {}
func (m *MockLogger) Warn(msg string, fields ...interface{})   {}
func (m *MockLogger) Error(msg string, fields ...interface{})  {}
func (m *MockLogger) Fatalf(msg string, fields ...interface{}) {}
