package roster

import "github.com/okian/pokelookup/pkg/logger"

// DefaultTargetVersion is the past_types marker whose overrides describe the
// generation-III typing (the fairy retcon was introduced after generation V).
const DefaultTargetVersion = "generation-v"

// Option applies a configuration option to a Roster being loaded.
type Option func(*Roster)

// WithTargetVersion sets the version marker whose overrides replace the
// current types. Empty values are ignored.
func WithTargetVersion(version string) Option {
	return func(r *Roster) {
		if version != "" {
			r.targetVersion = version
		}
	}
}

// WithMinSimilarity sets the fuzzy score floor below which Find reports
// not-found. Values outside [0, 1] are ignored.
func WithMinSimilarity(score float64) Option {
	return func(r *Roster) {
		if score >= 0 && score <= 1 {
			r.minSimilarity = score
		}
	}
}

// WithLogger sets the logger used to report dropped records.
func WithLogger(l logger.Logger) Option {
	return func(r *Roster) {
		if l != nil {
			r.logger = l
		}
	}
}
