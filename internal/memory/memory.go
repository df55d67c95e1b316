// Package memory keeps confirmed session digests in a small vector store so
// new interviews can surface similar past products.
package memory

import (
	"context"
	"fmt"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/reqpilot/internal/digest"
)

const collectionName = "digests"

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Name() string
}

// Result pairs a remembered digest with its similarity to the query.
type Result struct {
	SessionID   string  `json:"session_id"`
	ProductType string  `json:"product_type"`
	CoreGoal    string  `json:"core_goal"`
	Text        string  `json:"text"`
	ConfirmedAt string  `json:"confirmed_at"`
	Similarity  float32 `json:"similarity"`
}

// Store is an in-memory chromem collection of confirmed digests.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	embed      chromem.EmbeddingFunc
}

// NewStore creates the digest memory over the given embedder.
func NewStore(embedder Embedder) (*Store, error) {
	db := chromem.NewDB()
	ef := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &Store{db: db, collection: col, embed: ef}, nil
}

// RecordDigest stores one confirmed digest, keyed by session ID so a
// re-confirmed session overwrites its earlier entry.
func (s *Store) RecordDigest(ctx context.Context, d digest.Digest) error {
	doc := chromem.Document{
		ID:      d.SessionID,
		Content: d.Text(),
		Metadata: map[string]string{
			"product_type": d.ProductType,
			"core_goal":    d.CoreGoal,
			"confirmed_at": d.ConfirmedAt.Format(time.RFC3339),
		},
	}
	if err := s.collection.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
		return fmt.Errorf("adding digest: %w", err)
	}
	return nil
}

// Search finds remembered digests similar to the query text.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			SessionID:   r.ID,
			ProductType: r.Metadata["product_type"],
			CoreGoal:    r.Metadata["core_goal"],
			Text:        r.Content,
			ConfirmedAt: r.Metadata["confirmed_at"],
			Similarity:  r.Similarity,
		}
	}
	return out, nil
}

// Count returns how many digests are remembered.
func (s *Store) Count() int {
	return s.collection.Count()
}

// Persist saves the collection to the given directory.
func (s *Store) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+"/digests.gob", false, "")
}

// Load restores a previously persisted collection. The collection handle is
// re-bound because the import replaces it inside the DB.
func (s *Store) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(dir+"/digests.gob", ""); err != nil {
		return err
	}

	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embed)
	if err != nil {
		return fmt.Errorf("rebinding collection: %w", err)
	}
	s.collection = col
	return nil
}
