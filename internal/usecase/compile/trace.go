package compile

import "fmt"

// Trace is the ordered, human-readable explanation log ("plan") accumulated
// while compiling a query. Rules append one line per firing, in firing order.
type Trace struct {
	steps []string
}

// Addf appends a formatted step.
func (t *Trace) Addf(format string, args ...any) {
	t.steps = append(t.steps, fmt.Sprintf(format, args...))
}

// Steps returns the accumulated lines.
func (t *Trace) Steps() []string {
	if t == nil {
		return nil
	}
	return t.steps
}
