// Package refkey derives stable, content-addressed keys for AI findings.
//
// Findings have no durable identity across regenerations, so human overlay
// rows are joined to them by a key derived from the finding's semantic
// content. The derivation is a versioned contract: changing the algorithm
// invalidates every overlay row keyed by it, so any change must bump Version.
package refkey

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Version is folded into the hash input. Bump it only together with a data
// migration of existing work item rows.
const Version = "v1"

// KeyLength is the number of hex characters in a derived key.
const KeyLength = 32

// Derive maps (job, item type, text, extras) to a deterministic key.
// Normalization folds case and whitespace runs so cosmetic churn in the AI
// output keeps the key stable, while any real content difference, including
// an added clause, yields a different key and therefore a fresh overlay row.
func Derive(jobID uuid.UUID, itemType string, text string, extra ...string) string {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte{0})
	h.Write([]byte(jobID.String()))
	h.Write([]byte{0})
	h.Write([]byte(normalize(itemType)))
	h.Write([]byte{0})
	h.Write([]byte(normalize(text)))
	for _, e := range extra {
		h.Write([]byte{0})
		h.Write([]byte(normalize(e)))
	}

	return hex.EncodeToString(h.Sum(nil))[:KeyLength]
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
