// Package feature turns movie metadata text into TF-IDF weighted vectors
// over a vocabulary fitted once from the whole catalog.
package feature

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Vector is a sparse l2-normalized TF-IDF vector: term index -> weight.
// An empty vector has zero norm.
type Vector map[int]float64

// tokenPattern keeps words of at least two letters/digits, matching the
// tokenizer the catalog vectors were originally built with.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer holds the vocabulary and inverse-document-frequency weights
// fitted from a corpus. Fitting is deterministic: the same corpus always
// yields the same vocabulary, term order, and weights.
type Vectorizer struct {
	vocab map[string]int
	idf   []float64
}

// NewVectorizer fits a vectorizer on a corpus. The vocabulary covers
// every token in the corpus; idf uses the smoothed form
// ln((1+n)/(1+df)) + 1 so no term weight is ever zero or negative.
func NewVectorizer(corpus []string) *Vectorizer {
	docTerms := make([]map[string]int, len(corpus))
	termSet := make(map[string]struct{})
	for i, doc := range corpus {
		docTerms[i] = termCounts(doc)
		for term := range docTerms[i] {
			termSet[term] = struct{}{}
		}
	}

	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}

	df := make([]int, len(terms))
	for _, counts := range docTerms {
		for term := range counts {
			df[vocab[term]]++
		}
	}

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	return &Vectorizer{vocab: vocab, idf: idf}
}

// VocabSize reports the fitted vocabulary size.
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// TransformAll vectorizes every document with the fitted vocabulary.
func (v *Vectorizer) TransformAll(corpus []string) []Vector {
	vectors := make([]Vector, len(corpus))
	for i, doc := range corpus {
		vectors[i] = v.Transform(doc)
	}
	return vectors
}

// Transform vectorizes a single string with the fitted vocabulary. Terms
// outside the vocabulary are ignored; a document with no known terms maps
// to the zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	vec := make(Vector)
	for term, count := range termCounts(text) {
		i, ok := v.vocab[term]
		if !ok {
			continue
		}
		vec[i] = float64(count) * v.idf[i]
	}

	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i, w := range vec {
		vec[i] = w / norm
	}
	return vec
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		counts[token]++
	}
	return counts
}
