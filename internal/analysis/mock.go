package analysis

import "context"

// MockAnalyzer permite tests sin llamar al servicio real.
type MockAnalyzer struct {
	Result BehaviorResult
	Err    error
}

func (m *MockAnalyzer) AnalyzeBehavior(ctx context.Context, req BehaviorRequest) (BehaviorResult, error) {
	return m.Result, m.Err
}
