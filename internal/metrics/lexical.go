package metrics

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// WordErrorRate is the word-level edit distance normalized by the reference
// length: (substitutions + insertions + deletions) / reference words. An
// empty reference with a non-empty hypothesis counts as total error.
func WordErrorRate(reference, hypothesis string) float64 {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)
	if len(refWords) == 0 {
		if len(hypWords) == 0 {
			return 0.0
		}
		return 1.0
	}

	// The levenshtein package compares rune slices, so each distinct word
	// is assigned a code rune before computing the word-level distance.
	codes := make(map[string]rune)
	encode := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			code, ok := codes[w]
			if !ok {
				code = rune(len(codes))
				codes[w] = code
			}
			out[i] = code
		}
		return out
	}
	src := encode(refWords)
	dst := encode(hypWords)

	options := levenshtein.Options{
		InsCost: 1,
		DelCost: 1,
		SubCost: 1,
		Matches: levenshtein.IdenticalRunes,
	}
	distance := levenshtein.DistanceForStrings(src, dst, options)
	return float64(distance) / float64(len(refWords))
}

// CharErrorRate is the rune-level analogue of WordErrorRate.
func CharErrorRate(reference, hypothesis string) float64 {
	refRunes := []rune(reference)
	hypRunes := []rune(hypothesis)
	if len(refRunes) == 0 {
		if len(hypRunes) == 0 {
			return 0.0
		}
		return 1.0
	}
	// DefaultOptions bills a substitution as insert+delete; the error rate
	// counts it once.
	distance := levenshtein.DistanceForStrings(refRunes, hypRunes, levenshtein.DefaultOptionsWithSub)
	return float64(distance) / float64(len(refRunes))
}

// LexicalSimilarity maps the word error rate into [0, 1], where 1 means the
// hypothesis matches the reference exactly. Error rates above 100% (long
// insertions) clamp to zero.
func LexicalSimilarity(reference, hypothesis string) float64 {
	sim := 1.0 - WordErrorRate(reference, hypothesis)
	if sim < 0 {
		return 0.0
	}
	return sim
}

// TokenF1 is the harmonic mean of token precision and recall between the
// reference and hypothesis bags of words.
func TokenF1(reference, hypothesis string) float64 {
	refWords := strings.Fields(reference)
	hypWords := strings.Fields(hypothesis)
	if len(refWords) == 0 && len(hypWords) == 0 {
		return 1.0
	}
	if len(refWords) == 0 || len(hypWords) == 0 {
		return 0.0
	}

	refCounts := make(map[string]int, len(refWords))
	for _, w := range refWords {
		refCounts[w]++
	}
	overlap := 0
	for _, w := range hypWords {
		if refCounts[w] > 0 {
			refCounts[w]--
			overlap++
		}
	}
	if overlap == 0 {
		return 0.0
	}
	precision := float64(overlap) / float64(len(hypWords))
	recall := float64(overlap) / float64(len(refWords))
	return 2 * precision * recall / (precision + recall)
}
