package grouping

import (
	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

// options configures tree builds.
type options struct {
	categoryPriority []string
}

func defaultOptions() *options {
	return &options{
		categoryPriority: append([]string(nil), constants.CategoryPriority...),
	}
}

// Option is a function that configures Build and Manager.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns grouping options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithCategoryPriority sets the category tie-break list. Categories not
// listed sort after all listed ones.
func WithCategoryPriority(categories []string) Option {
	return func(o *options) error {
		if len(categories) == 0 {
			return &errors.ValidationError{
				Field:   "category_priority",
				Message: "cannot be empty",
			}
		}
		o.categoryPriority = append([]string(nil), categories...)
		return nil
	}
}
