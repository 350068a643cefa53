package similarity

import (
	"math"
	"regexp"
	"strings"
)

var tokenRe = regexp.MustCompile(`\b\w\w+\b`)

// english stopwords dropped before building n-grams.
var stopwords = map[string]struct{}{}

func init() {
	list := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "did", "do",
		"does", "doing", "down", "during", "each", "few", "for", "from",
		"further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"him", "his", "how", "i", "if", "in", "into", "is", "it", "its",
		"itself", "just", "me", "more", "most", "my", "myself", "no", "nor",
		"not", "now", "of", "off", "on", "once", "only", "or", "other", "our",
		"ours", "out", "over", "own", "same", "she", "should", "so", "some",
		"such", "than", "that", "the", "their", "theirs", "them", "then",
		"there", "these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "whom", "why", "will", "with", "you",
		"your", "yours", "yourself",
	}
	for _, w := range list {
		stopwords[w] = struct{}{}
	}
}

// terms tokenizes a document into unigrams and bigrams, stopwords removed.
func terms(text string) []string {
	words := tokenRe.FindAllString(strings.ToLower(text), -1)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := stopwords[w]; skip {
			continue
		}
		kept = append(kept, w)
	}
	out := make([]string, 0, len(kept)*2)
	out = append(out, kept...)
	for i := 0; i+1 < len(kept); i++ {
		out = append(out, kept[i]+" "+kept[i+1])
	}
	return out
}

// Score computes the TF-IDF cosine similarity between two documents and
// returns it as a percentage rounded to two decimals.
func Score(a, b string) float64 {
	docs := [][]string{terms(a), terms(b)}

	df := map[string]int{}
	for _, doc := range docs {
		seen := map[string]struct{}{}
		for _, term := range doc {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	// smoothed idf, matching the usual tf-idf formulation
	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vec := map[string]float64{}
		for _, term := range doc {
			vec[term]++
		}
		var norm float64
		for term := range vec {
			vec[term] *= idf[term]
			norm += vec[term] * vec[term]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}

	var dot float64
	for term, weight := range vectors[0] {
		dot += weight * vectors[1][term]
	}
	return math.Round(dot*100*100) / 100
}
