package gaszip

import (
	"github.com/vitwit/gaszip/logger"
	"github.com/vitwit/gaszip/metrics"
	"github.com/vitwit/gaszip/registry"
)

type Option func(*GasZip)

func WithLogger(l logger.Logger) Option {
	return func(g *GasZip) {
		g.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(g *GasZip) {
		g.metrics = r
	}
}

// WithRegistry replaces the embedded chain registry.
func WithRegistry(r *registry.Registry) Option {
	return func(g *GasZip) {
		g.registry = r
	}
}
