package harness

// RecordTrace is one replicated record as the trace shows it.
type RecordTrace struct {
	Seq      int64  `json:"seq"`
	Owner    string `json:"owner"`
	Property uint32 `json:"prop"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`

	// Value is the record's wire form.
	Value any `json:"value"`
}

// TickTrace is one replication tick.
type TickTrace struct {
	Tick    int64         `json:"tick"`
	Records []RecordTrace `json:"records"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step behaved as expected.
	Pass bool `json:"pass"`

	// Ticks holds one entry per tick step that produced a batch.
	Ticks []TickTrace `json:"ticks"`

	// Errors contains failed expectations, one per message.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final maps every property path to its display string after the
	// last step.
	Final map[string]string `json:"final"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Ticks:  []TickTrace{},
		Errors: []string{},
		Final:  make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Records returns the total number of replicated records.
func (r *Result) Records() int {
	n := 0
	for _, t := range r.Ticks {
		n += len(t.Records)
	}
	return n
}
