package skillmatrix

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/identity"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/session"
)

// config holds the engine configuration.
type config struct {
	store            Store
	threshold        *float64
	categoryPriority []string
	remapper         identity.Remapper
	logger           *zerolog.Logger
}

func defaultConfig() *config {
	return &config{logger: logging.Default()}
}

func (c *config) sessionOptions() []session.Option {
	opts := []session.Option{session.WithLogger(c.logger)}
	if c.threshold != nil {
		opts = append(opts, session.WithSimilarityThreshold(*c.threshold))
	}
	if len(c.categoryPriority) > 0 {
		opts = append(opts, session.WithCategoryPriority(c.categoryPriority))
	}
	if c.remapper != nil {
		opts = append(opts, session.WithRemapper(c.remapper))
	}
	return opts
}

// Option is a function that configures an Engine.
type Option func(*config) error

// WithStore sets the store baselines are loaded from and commits go to.
func WithStore(store Store) Option {
	return func(c *config) error {
		if store == nil {
			return &errors.ValidationError{Field: "store", Message: "cannot be nil"}
		}
		c.store = store
		return nil
	}
}

// WithSimilarityThreshold sets the near-duplicate threshold of every session.
func WithSimilarityThreshold(threshold float64) Option {
	return func(c *config) error {
		if threshold <= 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "similarity_threshold",
				Value:   threshold,
				Message: "must be in (0, 1]",
			}
		}
		c.threshold = &threshold
		return nil
	}
}

// WithCategoryPriority sets the category tie-break list for group sorting.
func WithCategoryPriority(categories ...string) Option {
	return func(c *config) error {
		if len(categories) == 0 {
			return &errors.ValidationError{Field: "category_priority", Message: "cannot be empty"}
		}
		c.categoryPriority = append([]string(nil), categories...)
		return nil
	}
}

// WithRemapper sets how placeholder ids become canonical ids at commit.
func WithRemapper(remapper identity.Remapper) Option {
	return func(c *config) error {
		if remapper == nil {
			return &errors.ValidationError{Field: "remapper", Message: "cannot be nil"}
		}
		c.remapper = remapper
		return nil
	}
}

// WithLogger sets the logger sessions log to.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}
