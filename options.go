package peakprophet

import (
	"time"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	strategy string

	msWeight   *float64
	rtWeight   *float64
	lmaxWeight *float64

	mzTolDa  *float64
	mzTolPPM *float64

	rtSigma     *float64
	lambdaSigma *float64

	workers int

	addrs    []string
	password string
	runTTL   time.Duration
}

// WithStrategy selects the assignment strategy: "hungarian" (default) or
// "greedy".
func WithStrategy(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.strategy = name
	})
}

// WithWeights overrides the channel weights. Defaults: ms 0.5, rt 0.3,
// lmax 0.2. Weights need not sum to 1.
func WithWeights(ms, rt, lmax float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.msWeight = &ms
		c.rtWeight = &rt
		c.lmaxWeight = &lmax
	})
}

// WithToleranceDa sets an absolute spectral alignment window in daltons.
// Default: 0.01 Da. Mutually exclusive with WithTolerancePPM.
func WithToleranceDa(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.mzTolDa = &v
	})
}

// WithTolerancePPM sets a relative spectral alignment window in
// parts-per-million. Mutually exclusive with WithToleranceDa.
func WithTolerancePPM(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.mzTolPPM = &v
	})
}

// WithRTSigma sets the Gaussian width for retention-time proximity, in
// minutes. Default: 0.5.
func WithRTSigma(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.rtSigma = &v
	})
}

// WithLambdaSigma sets the Gaussian width for absorption-maximum proximity,
// in nm. Default: 15.
func WithLambdaSigma(v float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.lambdaSigma = &v
	})
}

// WithWorkers sets matrix-build parallelism. Default: number of CPUs.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithRedis connects a Redis (or Valkey) instance for run persistence.
// Without it, Match still works but runs are not stored.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRunTTL limits how long stored runs are kept. Zero keeps them forever.
func WithRunTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.runTTL = ttl
	})
}
