package calculation

// CalculationError reports a failure inside the model pipeline.
type CalculationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}
