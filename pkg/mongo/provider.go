package mongo

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Provider is a lazily-initialized shared database handle. The first caller
// establishes the pooled connection; concurrent callers during establishment
// await the same in-flight initialization instead of racing to create
// duplicate pools. A failed attempt clears the state so the next caller
// retries instead of caching the failure forever.
type Provider struct {
	cfg Config

	mu  sync.Mutex
	db  *mongo.Database
	err error
	ch  chan struct{}
}

// NewProvider creates a provider for the given configuration. No connection
// is made until the first Database call.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// Database returns the shared database handle, connecting on first use.
func (p *Provider) Database(ctx context.Context) (*mongo.Database, error) {
	p.mu.Lock()
	if p.db != nil {
		db := p.db
		p.mu.Unlock()
		return db, nil
	}

	if p.ch == nil {
		// First caller: start the connection attempt.
		ch := make(chan struct{})
		p.ch = ch
		p.mu.Unlock()

		db, err := NewWithDatabase(ctx, p.cfg)

		p.mu.Lock()
		if err != nil {
			p.err = err
			p.ch = nil // allow a later caller to retry
		} else {
			p.db = db
			p.err = nil
		}
		close(ch)
		p.mu.Unlock()
		return db, err
	}

	// Another caller is connecting; wait for it.
	ch := p.ch
	p.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db != nil {
		return p.db, nil
	}
	if p.err != nil {
		return nil, p.err
	}
	return nil, ErrFailedToConnect
}
