// Package entropy computes Shannon entropy over candidate substrings
// of an added line, grounding the HIGH_ENTROPY_STRING meta-rule.
package entropy

import (
	"math"
	"regexp"
	"strings"
)

// tokenRe splits a line the same way the rule's regex analogues do:
// on whitespace and the punctuation that commonly delimits an
// assignment or literal (=:;,'"<>(){}[]).
var tokenRe = regexp.MustCompile(`[^\s=:;,'"<>(){}\[\]]+`)

// Shannon returns the Shannon entropy, in bits per character, of s.
// H = -Σ p(c)·log2(p(c)) over the distinct bytes of s.
func Shannon(s string) float64 {
	if s == "" {
		return 0
	}
	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	total := float64(len(s))
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		h -= p * math.Log2(p)
	}
	return h
}

// Candidates extracts tokens from line that are at least minLength
// characters after surrounding quotes are trimmed.
func Candidates(line string, minLength int) []string {
	var out []string
	for _, tok := range tokenRe.FindAllString(line, -1) {
		tok = strings.Trim(tok, `'"`)
		if len(tok) >= minLength {
			out = append(out, tok)
		}
	}
	return out
}

// Hit is a candidate substring paired with its measured entropy.
type Hit struct {
	Candidate string
	Entropy   float64
}

// FindHighEntropy returns every candidate in line whose entropy meets
// or exceeds minEntropy, in order of appearance.
func FindHighEntropy(line string, minEntropy float64, minLength int) []Hit {
	var hits []Hit
	for _, candidate := range Candidates(line, minLength) {
		h := Shannon(candidate)
		if h >= minEntropy {
			hits = append(hits, Hit{Candidate: candidate, Entropy: h})
		}
	}
	return hits
}
