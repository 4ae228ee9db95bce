package session

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/grouping"
	"github.com/agentstation/skillmatrix/pkg/identity"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// options configures a Session.
type options struct {
	id               string
	threshold        float64
	categoryPriority []string
	ignoredFields    []skills.Field
	remapper         identity.Remapper
	logger           *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		threshold: constants.DefaultSimilarityThreshold,
		remapper:  identity.SequenceRemapper{},
		logger:    logging.Default(),
	}
}

// Option is a function that configures a Session.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns session options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

func (o *options) groupingOptions() []grouping.Option {
	if len(o.categoryPriority) == 0 {
		return nil
	}
	return []grouping.Option{grouping.WithCategoryPriority(o.categoryPriority)}
}

func (o *options) differOptions() []differ.Option {
	opts := []differ.Option{differ.WithThreshold(o.threshold)}
	if len(o.ignoredFields) > 0 {
		opts = append(opts, differ.WithIgnoredFields(o.ignoredFields...))
	}
	return opts
}

// WithID sets the session id used in logs and reports. It defaults to the
// session start time.
func WithID(id string) Option {
	return func(o *options) error {
		o.id = id
		return nil
	}
}

// WithSimilarityThreshold sets the near-duplicate threshold.
func WithSimilarityThreshold(threshold float64) Option {
	return func(o *options) error {
		if err := duplicates.ValidateThreshold(threshold); err != nil {
			return err
		}
		o.threshold = threshold
		return nil
	}
}

// WithCategoryPriority sets the category tie-break list for group sorting.
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

// WithIgnoredFields excludes secondary fields from change detection.
func WithIgnoredFields(fields ...skills.Field) Option {
	return func(o *options) error {
		o.ignoredFields = append(o.ignoredFields, fields...)
		return nil
	}
}

// WithRemapper sets the strategy that picks canonical ids at commit.
func WithRemapper(remapper identity.Remapper) Option {
	return func(o *options) error {
		if remapper == nil {
			return &errors.ValidationError{
				Field:   "remapper",
				Message: "cannot be nil",
			}
		}
		o.remapper = remapper
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}
