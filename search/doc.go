// Package search provides BM25-based full-text search over registered tools.
//
// It exists to:
//   - Keep the registry free of index bookkeeping
//   - Give callers a ranked way to find a tool when they only know what it
//     does, not what it is called or which service publishes it
//
// # Usage
//
// The primary type is [BM25Searcher]:
//
//	s := search.NewBM25Searcher(search.BM25Config{})
//	defer s.Close()
//	hits, err := s.Search("weather forecast", 5, docs)
//
// # Configuration
//
// [BM25Config] allows customization of field boosts and safety limits:
//
//	cfg := search.BM25Config{
//	    NameBoost:     3,    // Boost tool name matches (default: 3)
//	    ServiceBoost:  2,    // Boost service name matches (default: 2)
//	    MaxDocs:       1000, // Limit documents to index (0 = unlimited)
//	    MaxDocTextLen: 5000, // Truncate long descriptions (0 = unlimited)
//	}
//
// # Thread Safety
//
// BM25Searcher is safe for concurrent use. It uses an internal RWMutex to
// protect index state and caches the Bleve index based on document
// fingerprints, only rebuilding when the document set changes.
//
// # Behavior
//
// Empty queries return the first N documents in the order given.
// Non-empty queries use BM25 ranking with deterministic tie-breaking (score DESC,
// then ID ASC).
package search
