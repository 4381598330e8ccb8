package recurrence

// EngineConfig holds configuration options for the recurrence engine.
type EngineConfig struct {
	// DefaultEndDate bounds generation when a rule carries no end date.
	// It is a fixed calendar date (ISO YYYY-MM-DD), deliberately not
	// derived from the current time: expansion must stay a pure function
	// of its inputs.
	DefaultEndDate string

	// MaxSteps caps the combined work of one expansion: every emitted
	// instance and every strict-mode period skipped counts against it.
	// Exceeding the cap cuts generation short rather than erroring.
	MaxSteps int
}

// DefaultEngineConfig provides the defaults used by NewEngine.
var DefaultEngineConfig = EngineConfig{
	DefaultEndDate: "2025-10-30",
	MaxSteps:       1000,
}

// NewEngineWithConfig creates a recurrence engine with custom configuration.
// Zero-value fields fall back to DefaultEngineConfig.
func NewEngineWithConfig(config EngineConfig) *Engine {
	if config.DefaultEndDate == "" {
		config.DefaultEndDate = DefaultEngineConfig.DefaultEndDate
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultEngineConfig.MaxSteps
	}
	return &Engine{config: config}
}
