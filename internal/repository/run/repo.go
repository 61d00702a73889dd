// Package run persists completed match runs so assignments stay auditable
// after the fact.
package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/natelgrw/peak-prophet/internal/db"
	"github.com/natelgrw/peak-prophet/internal/domain"
	"github.com/natelgrw/peak-prophet/internal/domain/match"
)

const keyPrefix = "peakprophet:runs:"

// store is the consumer interface for run persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo stores match runs as JSON values.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a run repository. A zero ttl keeps runs forever.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Save persists a run under the given ID.
func (r *Repo) Save(ctx context.Context, id string, res *match.Result) error {
	data, err := json.Marshal(buildDoc(id, res))
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", id, err)
	}
	key := keyPrefix + id
	if r.ttl > 0 {
		if err := r.store.SetWithTTL(ctx, key, data, r.ttl); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns a stored run by ID.
func (r *Repo) Get(ctx context.Context, id string) (*match.Result, error) {
	raw, err := r.store.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	var doc runDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", id, err)
	}
	return doc.toResult(), nil
}

// Delete removes a stored run. Missing runs are not an error.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("del run %s: %w", id, err)
	}
	return nil
}

// List returns summaries of all stored runs, newest first.
func (r *Repo) List(ctx context.Context) ([]Summary, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}

	summaries := make([]Summary, 0, len(keys))
	for _, key := range keys {
		raw, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // expired between SCAN and GET
			}
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		var doc runDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", key, err)
		}
		summaries = append(summaries, doc.summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}
