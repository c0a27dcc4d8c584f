// Package fingerprint computes content hashes used to vary capability URLs
// when a file changes. A fingerprint carries no authorization weight.
package fingerprint

import (
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/preview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/utils"
)

// None is returned whenever a file cannot be hashed
const None = "none"

// Fingerprinter hashes file contents in fixed-size chunks
type Fingerprinter struct {
	hasher    *utils.Hasher
	chunkSize int
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// New creates a fingerprinter for the given algorithm
func New(algorithm utils.HashAlgorithm, logger *zap.Logger) *Fingerprinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fingerprinter{
		hasher:    utils.NewHasher(algorithm),
		chunkSize: utils.DefaultChunkSize,
		logger:    logger,
	}
}

// WithMetrics attaches a metrics collector
func (f *Fingerprinter) WithMetrics(metrics *monitoring.Metrics) *Fingerprinter {
	f.metrics = metrics
	return f
}

// Algorithm returns the configured digest algorithm
func (f *Fingerprinter) Algorithm() utils.HashAlgorithm {
	return f.hasher.Algorithm()
}

// Fingerprint returns the hex digest of the file at path, or None on any failure
func (f *Fingerprinter) Fingerprint(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return f.fail(path, err)
	}
	defer file.Close()

	sum, err := f.hasher.HashReader(file, f.chunkSize)
	if err != nil {
		return f.fail(path, err)
	}
	return sum
}

func (f *Fingerprinter) fail(path string, err error) string {
	f.logger.Debug("fingerprint unavailable", zap.String("file", path), zap.Error(err))
	f.metrics.IncFingerprintFailures()
	return None
}
