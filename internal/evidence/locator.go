// Package evidence maps an AI-asserted finding back to a verifiable excerpt
// of the extracted document text.
package evidence

import (
	"strings"
	"unicode"
)

const (
	// excerptWindow is the target size of a returned excerpt.
	excerptWindow = 480
	// coWindow is the span scanned for co-occurring query tokens around a
	// token occurrence in the keyword fallback tier.
	coWindow = 700
	// minCoverage is the minimum number of distinct query tokens that must
	// co-occur before the keyword tier returns a window at all.
	minCoverage = 2
	// minTokenLen drops short tokens from the keyword tier.
	minTokenLen = 4
	// maxOccurrencesPerToken bounds the scan on pathological repeated tokens.
	maxOccurrencesPerToken = 50

	truncateFirstTier  = 12
	truncateSecondTier = 8
)

var stopWords = map[string]struct{}{
	"shall": {}, "must": {}, "should": {}, "will": {}, "with": {}, "that": {},
	"this": {}, "from": {}, "have": {}, "been": {}, "were": {}, "their": {},
	"they": {}, "there": {}, "which": {}, "when": {}, "where": {}, "what": {},
	"into": {}, "such": {}, "other": {}, "than": {}, "then": {}, "them": {},
	"these": {}, "those": {}, "each": {}, "also": {}, "only": {}, "upon": {},
	"within": {}, "without": {}, "between": {}, "provide": {}, "provided": {},
	"including": {}, "required": {}, "requirements": {},
}

// Match is a located excerpt with its position in the source text.
type Match struct {
	Excerpt string
	Start   int
	End     int
}

// LocateExcerpt finds the best excerpt of sourceText supporting targetPhrase.
// Three tiers trade precision for recall as the phrasing diverges from the
// source: exact substring, truncated-prefix substring (12 then 8 words), and
// keyword-window scoring. Returns nil when no tier produces a window with at
// least minCoverage distinct meaningful tokens.
func LocateExcerpt(sourceText, targetPhrase string) *Match {
	if sourceText == "" || strings.TrimSpace(targetPhrase) == "" {
		return nil
	}

	lowerSource := foldASCII(sourceText)
	phrase := strings.TrimSpace(targetPhrase)

	// Tier 1: verbatim (case-insensitive) match of the full phrase.
	if m := exactMatch(sourceText, lowerSource, phrase); m != nil {
		return m
	}

	// Tier 2: the AI often paraphrases tails; the head usually survives.
	words := strings.Fields(phrase)
	for _, n := range []int{truncateFirstTier, truncateSecondTier} {
		if len(words) <= n {
			continue
		}
		truncated := strings.Join(words[:n], " ")
		if m := exactMatch(sourceText, lowerSource, truncated); m != nil {
			return m
		}
	}

	// Tier 3: keyword-window coverage scoring.
	return keywordMatch(sourceText, lowerSource, phrase)
}

func exactMatch(source, lowerSource, phrase string) *Match {
	idx := strings.Index(lowerSource, foldASCII(phrase))
	if idx < 0 {
		return nil
	}
	center := idx + len(phrase)/2
	return window(source, center)
}

func keywordMatch(source, lowerSource, phrase string) *Match {
	tokens := queryTokens(phrase)
	if len(tokens) < minCoverage {
		return nil
	}

	bestCoverage := 0
	bestCenter := -1

	for _, token := range tokens {
		offset := 0
		for occ := 0; occ < maxOccurrencesPerToken; occ++ {
			idx := strings.Index(lowerSource[offset:], token)
			if idx < 0 {
				break
			}
			center := offset + idx + len(token)/2

			lo := max(0, center-coWindow/2)
			hi := min(len(lowerSource), center+coWindow/2)
			span := lowerSource[lo:hi]

			coverage := 0
			for _, t := range tokens {
				if strings.Contains(span, t) {
					coverage++
				}
			}

			if coverage > bestCoverage {
				bestCoverage = coverage
				bestCenter = center
			}

			offset += idx + len(token)
		}
	}

	if bestCoverage < minCoverage || bestCenter < 0 {
		return nil
	}
	return window(source, bestCenter)
}

// queryTokens tokenizes the phrase, dropping stop-words, short tokens and
// duplicates.
func queryTokens(phrase string) []string {
	seen := make(map[string]struct{})
	var tokens []string

	for _, field := range strings.FieldsFunc(foldASCII(phrase), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len(field) < minTokenLen {
			continue
		}
		if _, stop := stopWords[field]; stop {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}

	return tokens
}

// window cuts an excerptWindow-sized span of source centered on center and
// snaps both edges to word boundaries so the excerpt never cuts a word.
func window(source string, center int) *Match {
	lo := max(0, center-excerptWindow/2)
	hi := min(len(source), center+excerptWindow/2)

	lo = snapForward(source, lo)
	hi = snapBackward(source, hi)
	if lo >= hi {
		return nil
	}

	return &Match{
		Excerpt: source[lo:hi],
		Start:   lo,
		End:     hi,
	}
}

// snapForward moves lo to the start of the next word unless it already sits
// on a boundary.
func snapForward(source string, lo int) int {
	if lo == 0 || isBoundary(source[lo-1]) {
		return lo
	}
	for lo < len(source) && !isBoundary(source[lo]) {
		lo++
	}
	for lo < len(source) && isBoundary(source[lo]) {
		lo++
	}
	return lo
}

// snapBackward moves hi back to the end of the previous word unless it
// already sits on a boundary.
func snapBackward(source string, hi int) int {
	if hi == len(source) || isBoundary(source[hi]) {
		return hi
	}
	for hi > 0 && !isBoundary(source[hi-1]) {
		hi--
	}
	for hi > 0 && isBoundary(source[hi-1]) {
		hi--
	}
	return hi
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// foldASCII lowercases ASCII letters only. Unlike strings.ToLower it never
// changes byte lengths (some runes lowercase to a different byte width), so
// offsets into the folded string stay valid in the original.
func foldASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
