package search

import (
	"crypto/sha256"
	"encoding/hex"
)

// computeFingerprint generates a stable hash of the document slice.
// The fingerprint changes when document content or order changes.
func computeFingerprint(docs []Document) string {
	h := sha256.New()

	for _, doc := range docs {
		h.Write([]byte(doc.ID))
		h.Write([]byte{0})
		h.Write([]byte(doc.Service))
		h.Write([]byte{0})
		h.Write([]byte(doc.Name))
		h.Write([]byte{0})
		h.Write([]byte(doc.Description))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
