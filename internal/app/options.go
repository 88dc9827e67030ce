package service

import (
	"time"

	"github.com/okian/pokelookup/internal/adapters/mq/worker"
	"github.com/okian/pokelookup/internal/adapters/render"
	"github.com/okian/pokelookup/internal/adapters/repository"
	"github.com/okian/pokelookup/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the document cache used by Reload and Refresh.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithFetcher sets the upstream client used by Refresh.
func WithFetcher(f worker.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithTargetVersion selects which historical type overrides apply.
func WithTargetVersion(version string) Option {
	return func(s *Service) {
		if version != "" {
			s.targetVersion = version
		}
	}
}

// WithMinSimilarity sets the fuzzy match floor.
func WithMinSimilarity(score float64) Option {
	return func(s *Service) {
		if score >= 0 && score <= 1 {
			s.minSimilarity = score
		}
	}
}

// WithPokedexRange sets the inclusive range fetched by Refresh.
func WithPokedexRange(start, end int) Option {
	return func(s *Service) {
		if start > 0 && end >= start {
			s.pokedexStart, s.pokedexEnd = start, end
		}
	}
}

// WithFetchWorkers sets the number of concurrent downloads.
func WithFetchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchWorkers = n
		}
	}
}

// WithFetchRetries sets how often a failed download is retried.
func WithFetchRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.fetchRetries = n
		}
	}
}

// WithFetchBackoff sets the base delay between retries.
func WithFetchBackoff(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.fetchBackoff = d
		}
	}
}

// WithFractionStyle sets how non-integer multipliers are rendered.
func WithFractionStyle(style render.Style) Option {
	return func(s *Service) {
		if style != "" {
			s.style = style
		}
	}
}
