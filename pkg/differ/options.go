package differ

import "github.com/agentstation/skillmatrix/pkg/skills"

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithIgnoredFields sets secondary fields to ignore when classifying a
// record as changed
func WithIgnoredFields(fields ...skills.Field) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithThreshold sets the near-duplicate threshold used for added labels
func WithThreshold(threshold float64) Option {
	return func(d *differ) {
		d.threshold = threshold
	}
}
