package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/utils"
)

type memProfileRepo struct {
	mu   sync.Mutex
	rows map[string]models.Profile
}

func newMemProfileRepo() *memProfileRepo { return &memProfileRepo{rows: map[string]models.Profile{}} }

func (m *memProfileRepo) GetByID(_ context.Context, id string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (m *memProfileRepo) Upsert(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = *p
	return nil
}

func (m *memProfileRepo) SetVisibility(_ context.Context, id string, v models.Visibility) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	p.Visibility = v
	m.rows[id] = p
	return nil
}

func (m *memProfileRepo) ListPublic(_ context.Context, limit, offset int) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Profile
	for _, p := range m.rows {
		if p.Visibility == models.VisibilityPublic {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return pageOf(out, limit, offset), nil
}

type memPostingRepo struct {
	mu   sync.Mutex
	rows map[string]models.Posting
}

func newMemPostingRepo() *memPostingRepo { return &memPostingRepo{rows: map[string]models.Posting{}} }

func (m *memPostingRepo) GetByID(_ context.Context, id string) (*models.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &j, nil
}

func (m *memPostingRepo) Upsert(_ context.Context, j *models.Posting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[j.ID] = *j
	return nil
}

func (m *memPostingRepo) SetStatus(_ context.Context, id string, st models.PostingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	j.Status = st
	m.rows[id] = j
	return nil
}

func (m *memPostingRepo) ListPublished(_ context.Context, limit, offset int) ([]models.Posting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Posting
	for _, j := range m.rows {
		if j.Status == models.PostingPublished {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].UpdatedAt.Equal(out[k].UpdatedAt) {
			return out[i].UpdatedAt.After(out[k].UpdatedAt)
		}
		return out[i].ID < out[k].ID
	})
	return pageOf(out, limit, offset), nil
}

func pageOf[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	end := min(offset+limit, len(in))
	return in[offset:end]
}

type memEmbeddingRepo struct {
	mu   sync.Mutex
	rows map[string]models.EmbeddingVector
}

func newMemEmbeddingRepo() *memEmbeddingRepo {
	return &memEmbeddingRepo{rows: map[string]models.EmbeddingVector{}}
}

func (m *memEmbeddingRepo) Get(_ context.Context, kind models.EntityKind, id string) (*models.EmbeddingVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[string(kind)+":"+id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &v, nil
}

func (m *memEmbeddingRepo) Upsert(_ context.Context, v *models.EmbeddingVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[string(v.OwnerKind)+":"+v.OwnerID] = *v
	return nil
}

// textGateway returns a fixed vector per canonical text. Texts marked slow block until
// the call's context is done.
type textGateway struct {
	mu      sync.Mutex
	vectors map[string][]float32
	slow    map[string]bool
	fail    bool
	calls   int
}

func newTextGateway() *textGateway {
	return &textGateway{vectors: map[string][]float32{}, slow: map[string]bool{}}
}

func (g *textGateway) Model() string { return "text-gateway" }

func (g *textGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	g.mu.Lock()
	g.calls++
	slow := g.slow[text]
	vec, ok := g.vectors[text]
	fail := g.fail
	g.mu.Unlock()

	if slow {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if fail {
		return nil, errors.New("gateway unavailable")
	}
	if !ok {
		return nil, errors.New("unknown text")
	}
	return vec, nil
}

func (g *textGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, kind models.EntityKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, string(kind)+":"+id)
	return nil
}

type fakeQueue struct {
	mu    sync.Mutex
	items []string
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, kind models.EntityKind, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.items = append(q.items, string(kind)+":"+id)
	return nil
}

type fakeIndexer struct {
	profiles map[string]models.Visibility
	postings map[string]models.PostingStatus
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{profiles: map[string]models.Visibility{}, postings: map[string]models.PostingStatus{}}
}

func (f *fakeIndexer) PutProfile(p *models.Profile) error {
	f.profiles[p.ID] = p.Visibility
	return nil
}

func (f *fakeIndexer) PutPosting(j *models.Posting) error {
	f.postings[j.ID] = j.Status
	return nil
}
