package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/canonical"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

// Index is an in-memory keyword index over the canonical text of one entity kind.
type Index struct {
	kind  models.EntityKind
	index bleve.Index
}

type document struct {
	Title   string
	Content string
}

type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

func NewIndex(kind models.EntityKind) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create %s index: %w", kind, err)
	}
	return &Index{kind: kind, index: idx}, nil
}

// buildIndexMapping uses the English analyzer for titles so role names stem.
func buildIndexMapping() mapping.IndexMapping {
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = "en"

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", titleFieldMapping)
	docMapping.AddFieldMappingsAt("Content", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

func (i *Index) Kind() models.EntityKind { return i.kind }

func (i *Index) Close() error {
	return i.index.Close()
}

// PutProfile indexes p when it is public and removes it otherwise.
func (i *Index) PutProfile(p *models.Profile) error {
	if p.Visibility != models.VisibilityPublic {
		return i.Delete(p.ID)
	}
	doc := canonical.Profile(p)
	return i.index.Index(p.ID, document{Title: p.Name, Content: doc.Text})
}

// PutPosting indexes j when it is published and removes it otherwise.
func (i *Index) PutPosting(j *models.Posting) error {
	if j.Status != models.PostingPublished {
		return i.Delete(j.ID)
	}
	doc := canonical.Posting(j)
	return i.index.Index(j.ID, document{Title: j.Title, Content: doc.Text})
}

func (i *Index) Delete(id string) error {
	return i.index.Delete(id)
}

func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

// Search runs a match query and returns up to limit hits plus the total hit count.
func (i *Index) Search(ctx context.Context, q string, limit int) ([]Hit, uint64, error) {
	query := bleve.NewMatchQuery(q)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, res.Total, nil
}
