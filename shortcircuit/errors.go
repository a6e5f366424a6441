package shortcircuit

import "errors"

// ErrZ0Required is returned when a 1F/2FG fault is solved without
// z0_bus availability; callers should have already rejected this at
// the eligibility stage (§4.5), but Solve enforces it independently.
var ErrZ0Required = errors.New("shortcircuit: zero-sequence impedance required for unbalanced fault")
