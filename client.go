package peakprophet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/natelgrw/peak-prophet/internal/db"
	dbRedis "github.com/natelgrw/peak-prophet/internal/db/redis"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
	runrepo "github.com/natelgrw/peak-prophet/internal/repository/run"
	"github.com/natelgrw/peak-prophet/internal/usecase/assign"
)

const defaultReadinessTimeout = 10 * time.Second

// ErrNoPersistence is returned by run operations when no database was
// configured (see WithRedis).
var ErrNoPersistence = errors.New("peakprophet: run persistence not configured")

// Client is the peakprophet SDK entry point. It runs the matching engine
// in-process; a database is only needed for run persistence.
type Client struct {
	svc    *assign.Service
	params match.Params
	store  db.Store
	runs   *runrepo.Repo
}

// New creates a Client. Without options it matches with the default
// parameters and no persistence.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	params, err := cfg.matchParams()
	if err != nil {
		return nil, err
	}

	strategy, err := assign.ForName(cfg.strategy)
	if err != nil {
		return nil, fmt.Errorf("peakprophet: %w", err)
	}

	svc := assign.New(strategy)
	if cfg.workers > 0 {
		svc = svc.WithWorkers(cfg.workers)
	}

	c := &Client{svc: svc, params: params}

	if len(cfg.addrs) > 0 {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("peakprophet: create store: %w", err)
		}
		if err := store.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("peakprophet: database not ready: %w", err)
		}
		c.store = store
		c.runs = runrepo.New(store, cfg.runTTL)
	}

	return c, nil
}

func (cfg *clientConfig) matchParams() (match.Params, error) {
	params := match.DefaultParams()
	if cfg.msWeight != nil {
		params.Weights[match.ChannelMS] = *cfg.msWeight
	}
	if cfg.rtWeight != nil {
		params.Weights[match.ChannelRT] = *cfg.rtWeight
	}
	if cfg.lmaxWeight != nil {
		params.Weights[match.ChannelLambdaMax] = *cfg.lmaxWeight
	}
	if cfg.mzTolDa != nil && cfg.mzTolPPM != nil {
		return match.Params{}, fmt.Errorf("peakprophet: WithToleranceDa and WithTolerancePPM are mutually exclusive")
	}
	if cfg.mzTolDa != nil {
		params.Tolerance = match.AbsoluteDa(*cfg.mzTolDa)
	}
	if cfg.mzTolPPM != nil {
		params.Tolerance = match.PartsPerMillion(*cfg.mzTolPPM)
	}
	if cfg.rtSigma != nil {
		params.RTSigma = *cfg.rtSigma
	}
	if cfg.lambdaSigma != nil {
		params.LambdaSigma = *cfg.lambdaSigma
	}
	if err := params.Validate(); err != nil {
		return match.Params{}, fmt.Errorf("peakprophet: %w", err)
	}
	return params, nil
}

// Match scores every (predicted, observed) pair and solves the one-to-one
// assignment. When persistence is configured the run is stored and its ID
// returned on the result.
func (c *Client) Match(ctx context.Context, preds []Predicted, obs []Observed) (*Result, error) {
	res, err := c.svc.Match(predictedToInternal(preds), observedToInternal(obs), c.params)
	if err != nil {
		return nil, fmt.Errorf("peakprophet: %w", err)
	}

	runID := ""
	if c.runs != nil {
		runID = uuid.NewString()
		if err := c.runs.Save(ctx, runID, res); err != nil {
			return nil, fmt.Errorf("peakprophet: persist run: %w", err)
		}
	}

	return resultFromInternal(runID, res), nil
}

// GetRun returns a stored run by ID. Requires persistence.
func (c *Client) GetRun(ctx context.Context, id string) (*Result, error) {
	if c.runs == nil {
		return nil, ErrNoPersistence
	}
	res, err := c.runs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("peakprophet: %w", err)
	}
	return resultFromInternal(id, res), nil
}

// ListRuns returns summaries of all stored runs, newest first. Requires
// persistence.
func (c *Client) ListRuns(ctx context.Context) ([]RunSummary, error) {
	if c.runs == nil {
		return nil, ErrNoPersistence
	}
	summaries, err := c.runs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("peakprophet: %w", err)
	}
	out := make([]RunSummary, len(summaries))
	for i, s := range summaries {
		out[i] = RunSummary{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			Strategy:  s.Strategy,
			Degraded:  s.Degraded,
			Total:     s.Total,
			Predicted: s.Predicted,
			Observed:  s.Observed,
			Matched:   s.Matched,
		}
	}
	return out, nil
}

// DeleteRun removes a stored run. Requires persistence.
func (c *Client) DeleteRun(ctx context.Context, id string) error {
	if c.runs == nil {
		return ErrNoPersistence
	}
	if err := c.runs.Delete(ctx, id); err != nil {
		return fmt.Errorf("peakprophet: %w", err)
	}
	return nil
}

// Close releases the database connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
