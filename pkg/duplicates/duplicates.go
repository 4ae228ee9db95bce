// Package duplicates flags newly introduced taxonomy labels that look like
// a typo or naming drift of an existing label at the same level.
//
// Every new label is scored against every existing one, so the cost is
// O(len(new) × len(existing)). That is comfortable for tens to low hundreds
// of labels per level and is not memoized; revisit if label counts grow by
// orders of magnitude.
package duplicates

import (
	"sort"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/similarity"
)

// Match is a candidate duplicate: a new label and the existing label it
// resembles.
type Match struct {
	New        string  `json:"new" yaml:"new"`
	Existing   string  `json:"existing" yaml:"existing"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

type options struct {
	threshold float64
	scorer    func(a, b string) float64
}

// Option configures FindSimilar.
type Option func(*options)

// WithThreshold sets the lowest score reported. Values outside (0,1] are
// ignored; use ValidateThreshold to reject them at configuration time.
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		if ValidateThreshold(threshold) == nil {
			o.threshold = threshold
		}
	}
}

// WithScorer replaces the similarity function.
func WithScorer(scorer func(a, b string) float64) Option {
	return func(o *options) {
		if scorer != nil {
			o.scorer = scorer
		}
	}
}

// ValidateThreshold checks a configured threshold.
func ValidateThreshold(threshold float64) error {
	if threshold <= 0 || threshold > 1 {
		return errors.NewConfigError("duplicates", "similarity threshold must be in (0,1]", nil)
	}
	return nil
}

// FindSimilar returns every pair whose score is at least the threshold and
// below an exact match, highest score first. Ties keep input order.
func FindSimilar(newLabels, existingLabels []string, opts ...Option) []Match {
	o := &options{
		threshold: constants.DefaultSimilarityThreshold,
		scorer:    similarity.Score,
	}
	for _, opt := range opts {
		opt(o)
	}

	matches := []Match{}
	for _, n := range newLabels {
		for _, e := range existingLabels {
			s := o.scorer(n, e)
			if s < o.threshold || s >= constants.ExactMatchScore {
				continue
			}
			matches = append(matches, Match{New: n, Existing: e, Similarity: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}
