package search

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	bsearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	// DefaultLimit is used when a caller asks for a non-positive number of hits.
	DefaultLimit = 10

	defaultNameBoost        = 3
	defaultServiceBoost     = 2
	defaultDescriptionBoost = 1

	fieldName        = "name"
	fieldService     = "service"
	fieldDescription = "description"
)

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("search: searcher closed")

// Document is a single searchable tool.
type Document struct {
	// ID uniquely identifies the document, typically "service:tool".
	ID          string
	Service     string
	Name        string
	Description string
}

// Hit is a ranked search result.
type Hit struct {
	Document
	Score float64
}

// BM25Config tunes ranking and indexing limits. Zero values select defaults.
type BM25Config struct {
	NameBoost        float64
	ServiceBoost     float64
	DescriptionBoost float64

	// MaxDocs caps the number of documents indexed (0 = unlimited).
	MaxDocs int
	// MaxDocTextLen truncates descriptions before indexing (0 = unlimited).
	MaxDocTextLen int
}

func (c BM25Config) withDefaults() BM25Config {
	if c.NameBoost <= 0 {
		c.NameBoost = defaultNameBoost
	}
	if c.ServiceBoost <= 0 {
		c.ServiceBoost = defaultServiceBoost
	}
	if c.DescriptionBoost <= 0 {
		c.DescriptionBoost = defaultDescriptionBoost
	}
	return c
}

// BM25Searcher ranks documents with a Bleve in-memory index.
type BM25Searcher struct {
	cfg BM25Config

	mu          sync.RWMutex
	fingerprint string
	index       bleve.Index
	docs        map[string]Document
	closed      bool
}

// NewBM25Searcher creates a searcher with the given configuration.
func NewBM25Searcher(cfg BM25Config) *BM25Searcher {
	return &BM25Searcher{cfg: cfg.withDefaults()}
}

// Search returns up to limit hits for queryText over docs.
func (s *BM25Searcher) Search(queryText string, limit int, docs []Document) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if s.cfg.MaxDocs > 0 && len(docs) > s.cfg.MaxDocs {
		docs = docs[:s.cfg.MaxDocs]
	}

	queryText = strings.TrimSpace(queryText)
	if queryText == "" {
		return firstN(docs, limit), nil
	}
	if len(docs) == 0 {
		return []Hit{}, nil
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(queryText), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	for {
		idx, byID, err := s.ensureIndex(docs)
		if err != nil {
			return nil, err
		}

		s.mu.RLock()
		if s.closed {
			s.mu.RUnlock()
			return nil, ErrClosed
		}
		if s.index != idx {
			// rebuilt by a concurrent caller with a different document set
			s.mu.RUnlock()
			continue
		}
		res, err := idx.Search(req)
		s.mu.RUnlock()
		if err != nil {
			return nil, fmt.Errorf("search: query %q: %w", queryText, err)
		}
		return collectHits(res.Hits, byID), nil
	}
}

func collectHits(matches []*bsearch.DocumentMatch, byID map[string]Document) []Hit {
	hits := make([]Hit, 0, len(matches))
	for _, match := range matches {
		doc, ok := byID[match.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Document: doc, Score: match.Score})
	}
	return hits
}

// Close releases the cached index.
func (s *BM25Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.releaseLocked()
}

func (s *BM25Searcher) buildQuery(text string) query.Query {
	name := bleve.NewMatchQuery(text)
	name.SetField(fieldName)
	name.SetBoost(s.cfg.NameBoost)

	service := bleve.NewMatchQuery(text)
	service.SetField(fieldService)
	service.SetBoost(s.cfg.ServiceBoost)

	description := bleve.NewMatchQuery(text)
	description.SetField(fieldDescription)
	description.SetBoost(s.cfg.DescriptionBoost)

	return bleve.NewDisjunctionQuery(name, service, description)
}

func (s *BM25Searcher) ensureIndex(docs []Document) (bleve.Index, map[string]Document, error) {
	fp := computeFingerprint(docs)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, nil, ErrClosed
	}
	if s.index != nil && s.fingerprint == fp {
		idx, byID := s.index, s.docs
		s.mu.RUnlock()
		return idx, byID, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, nil, ErrClosed
	}
	if s.index != nil && s.fingerprint == fp {
		return s.index, s.docs, nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, nil, fmt.Errorf("search: create index: %w", err)
	}

	byID := make(map[string]Document, len(docs))
	batch := idx.NewBatch()
	for _, doc := range docs {
		if _, dup := byID[doc.ID]; dup {
			continue
		}
		byID[doc.ID] = doc
		description := truncateText(doc.Description, s.cfg.MaxDocTextLen)
		err := batch.Index(doc.ID, map[string]any{
			fieldName:        expandIdentifier(doc.Name),
			fieldService:     expandIdentifier(doc.Service),
			fieldDescription: description,
		})
		if err != nil {
			_ = idx.Close()
			return nil, nil, fmt.Errorf("search: index %s: %w", doc.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, nil, fmt.Errorf("search: index batch: %w", err)
	}

	if err := s.releaseLocked(); err != nil {
		_ = idx.Close()
		return nil, nil, err
	}
	s.index = idx
	s.docs = byID
	s.fingerprint = fp
	return idx, byID, nil
}

func (s *BM25Searcher) releaseLocked() error {
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	s.docs = nil
	s.fingerprint = ""
	return err
}

func firstN(docs []Document, n int) []Hit {
	if n > len(docs) {
		n = len(docs)
	}
	hits := make([]Hit, n)
	for i := 0; i < n; i++ {
		hits[i] = Hit{Document: docs[i]}
	}
	return hits
}

// expandIdentifier adds the word parts of snake, kebab, dotted and camel case
// identifiers so "getWeather" and "get_weather" both match "weather".
func expandIdentifier(s string) string {
	var parts []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || r == '/' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(runes[i-1]) ||
			(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	if len(parts) <= 1 {
		return s
	}
	return s + " " + strings.Join(parts, " ")
}

// truncateText cuts s to at most limit bytes without splitting a rune.
func truncateText(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	end := limit
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
