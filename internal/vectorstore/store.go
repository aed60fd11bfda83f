// Package vectorstore keeps exactly one embedding vector per profile or posting and
// recomputes it lazily when the owner's canonical content hash changes.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/cache"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/canonical"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/logger"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/providers/embedding"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/postgres"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

// Recorder stores one log entry per recompute attempt.
type Recorder interface {
	Start(ctx context.Context, l *models.RefreshLog) error
	Finish(ctx context.Context, attemptID, status, model, errMsg string, latencyMS int64) error
}

type Result struct {
	Kind   models.EntityKind
	ID     string
	Vector []float32
	// Stale is set when the vector does not match the current content hash.
	Stale bool
	// Computed is set when this call (or the flight it joined) invoked the gateway.
	Computed bool
}

type BatchResult struct {
	Result *Result
	Err    error
}

type Options struct {
	Cache       *cache.VectorCache
	Recorder    Recorder
	Logger      *logrus.Logger
	Concurrency int
	// RefreshTimeout bounds one shared recompute, independent of the callers waiting on it.
	RefreshTimeout time.Duration
}

type Store struct {
	repo     postgres.EmbeddingRepository
	gateway  embedding.Gateway
	cache    *cache.VectorCache
	recorder Recorder
	log      *logrus.Logger
	limit    int
	timeout  time.Duration

	group singleflight.Group
	now   func() time.Time
}

func New(repo postgres.EmbeddingRepository, gw embedding.Gateway, opts Options) *Store {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 8
	}
	return &Store{
		repo:     repo,
		gateway:  gw,
		cache:    opts.Cache,
		recorder: opts.Recorder,
		log:      logger.OrDiscard(opts.Logger),
		limit:    limit,
		timeout:  opts.RefreshTimeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Model is the embedding model currently used for recomputation.
func (s *Store) Model() string { return s.gateway.Model() }

// EnsureFresh returns a vector for doc, recomputing it when the stored one is missing or
// was computed from different content. On gateway failure the last known vector is
// returned flagged stale; without one the error is EmbeddingUnavailable.
func (s *Store) EnsureFresh(ctx context.Context, doc canonical.Document) (*Result, error) {
	const op = "VectorStore.EnsureFresh"

	if doc.Text == "" {
		return &Result{Kind: doc.Kind, ID: doc.ID}, nil
	}

	current, err := s.lookup(ctx, doc.Kind, doc.ID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load vector", err)
	}
	if s.isFresh(current, doc.Hash) {
		return &Result{Kind: doc.Kind, ID: doc.ID, Vector: current.Vector.Slice()}, nil
	}

	// the flight outlives any single caller; each caller only stops waiting on its own ctx
	ch := s.group.DoChan(doc.Key(), func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, s.timeout)
			defer cancel()
		}
		return s.recompute(fctx, doc)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		res = singleflight.Result{Err: ctx.Err()}
	}
	if res.Err != nil {
		if current != nil && len(current.Vector.Slice()) > 0 {
			return &Result{Kind: doc.Kind, ID: doc.ID, Vector: current.Vector.Slice(), Stale: true}, nil
		}
		return nil, utils.E(utils.CodeEmbeddingUnavailable, op, "no vector available", res.Err)
	}

	fresh := res.Val.(*models.EmbeddingVector)
	return &Result{
		Kind:     doc.Kind,
		ID:       doc.ID,
		Vector:   fresh.Vector.Slice(),
		Stale:    fresh.ContentHash != doc.Hash,
		Computed: true,
	}, nil
}

// EnsureFreshBatch runs EnsureFresh over independent entities with bounded parallelism.
// Results are aligned with docs; a failure of one entity never fails the others.
func (s *Store) EnsureFreshBatch(ctx context.Context, docs []canonical.Document) []BatchResult {
	out := make([]BatchResult, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i := range docs {
		g.Go(func() error {
			res, err := s.EnsureFresh(gctx, docs[i])
			out[i] = BatchResult{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Get returns the stored vector regardless of freshness.
func (s *Store) Get(ctx context.Context, kind models.EntityKind, id string) (*models.EmbeddingVector, error) {
	v, err := s.lookup(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, utils.ErrNotFound
	}
	return v, nil
}

// Invalidate drops the cached copy so the next read goes to Postgres.
func (s *Store) Invalidate(ctx context.Context, kind models.EntityKind, id string) error {
	return s.cache.Invalidate(ctx, kind, id)
}

func (s *Store) isFresh(v *models.EmbeddingVector, hash string) bool {
	if v == nil || v.ContentHash != hash {
		return false
	}
	// vectors from another model live in a different space
	return v.Model == "" || v.Model == s.gateway.Model()
}

func (s *Store) lookup(ctx context.Context, kind models.EntityKind, id string) (*models.EmbeddingVector, error) {
	entry, hit, err := s.cache.Get(ctx, kind, id)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"owner_kind": kind, "owner_id": id}).Warn("vector cache read failed")
	}
	if hit {
		return &models.EmbeddingVector{
			OwnerKind:   kind,
			OwnerID:     id,
			Vector:      pgvector.NewVector(entry.Vector),
			ContentHash: entry.ContentHash,
			Model:       entry.Model,
			UpdatedAt:   entry.UpdatedAt,
		}, nil
	}

	v, err := s.repo.Get(ctx, kind, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.fillCache(ctx, v)
	return v, nil
}

func (s *Store) recompute(ctx context.Context, doc canonical.Document) (*models.EmbeddingVector, error) {
	log := s.log.WithFields(logrus.Fields{
		"owner_kind":   doc.Kind,
		"owner_id":     doc.ID,
		"content_hash": doc.Hash,
	})

	// a flight that finished just before this one may already have stored the vector
	if v, err := s.repo.Get(ctx, doc.Kind, doc.ID); err == nil && s.isFresh(v, doc.Hash) {
		return v, nil
	}

	attemptID := uuid.NewString()
	s.recordStart(ctx, log, &models.RefreshLog{
		AttemptID:   attemptID,
		OwnerKind:   string(doc.Kind),
		OwnerID:     doc.ID,
		ContentHash: doc.Hash,
		Model:       s.gateway.Model(),
	})

	start := time.Now()
	vec, err := s.gateway.Embed(ctx, doc.Text)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		log.WithError(err).WithField("latency_ms", latency).Warn("embedding gateway failed")
		s.recordFinish(ctx, log, attemptID, models.RefreshFailed, err.Error(), latency)
		return nil, fmt.Errorf("%w: %v", utils.ErrEmbeddingUnavailable, err)
	}

	v := &models.EmbeddingVector{
		OwnerKind:   doc.Kind,
		OwnerID:     doc.ID,
		Vector:      pgvector.NewVector(vec),
		ContentHash: doc.Hash,
		Model:       s.gateway.Model(),
		UpdatedAt:   s.now(),
	}
	if err := s.repo.Upsert(ctx, v); err != nil {
		// the vector is still usable for this request; the next one retries persistence
		log.WithError(err).Error("persist embedding vector failed")
	} else {
		s.fillCache(ctx, v)
	}

	s.recordFinish(ctx, log, attemptID, models.RefreshDone, "", latency)
	log.WithField("latency_ms", latency).Debug("embedding vector refreshed")
	return v, nil
}

func (s *Store) fillCache(ctx context.Context, v *models.EmbeddingVector) {
	err := s.cache.Set(ctx, v.OwnerKind, v.OwnerID, &cache.VectorEntry{
		Vector:      v.Vector.Slice(),
		ContentHash: v.ContentHash,
		Model:       v.Model,
		UpdatedAt:   v.UpdatedAt,
	})
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"owner_kind": v.OwnerKind, "owner_id": v.OwnerID}).Warn("vector cache write failed")
	}
}

func (s *Store) recordStart(ctx context.Context, log *logrus.Entry, l *models.RefreshLog) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Start(ctx, l); err != nil {
		log.WithError(err).Debug("refresh log start failed")
	}
}

func (s *Store) recordFinish(ctx context.Context, log *logrus.Entry, attemptID, status, errMsg string, latencyMS int64) {
	if s.recorder == nil {
		return
	}
	// the attempt's own deadline may already have passed
	if err := s.recorder.Finish(context.WithoutCancel(ctx), attemptID, status, s.gateway.Model(), errMsg, latencyMS); err != nil {
		log.WithError(err).Debug("refresh log finish failed")
	}
}
