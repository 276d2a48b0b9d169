package dream

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultTopK is the number of references handed to a model.
	DefaultTopK = 5

	minRelevance  = 0.01
	wholeTextTopK = 3
	maxKeywords   = 10
)

// Scored is an entry with its relevance to a dream. Direct matches score 1.
type Scored struct {
	Entry
	Score float64
}

// Direct scores matcher output as exact hits.
func Direct(matches []Entry) []Scored {
	ret := make([]Scored, 0, len(matches))
	for _, m := range matches {
		ret = append(ret, Scored{Entry: m, Score: 1.0})
	}
	return ret
}

// Retrieve returns up to topK entries relevant to text, best first.
// Direct matches win. Without any, entries are ranked by TF-IDF cosine
// similarity against the whole text and against dictionary terms that
// share a word with it.
func Retrieve(text string, dict *Dictionary, topK int) []Scored {
	if dict == nil || topK <= 0 || strings.TrimSpace(text) == "" {
		return nil
	}

	candidates := Direct(FindSymbols(text, dict))
	if len(candidates) == 0 {
		idx := dict.index()
		candidates = idx.search(text, wholeTextTopK)
		for _, kw := range idx.keywords(text, maxKeywords) {
			candidates = append(candidates, idx.search(kw, 1)...)
		}
	}
	return rank(candidates, topK)
}

func rank(candidates []Scored, topK int) []Scored {
	seen := make(map[string]bool, len(candidates))
	ret := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Term] {
			continue
		}
		seen[c.Term] = true
		ret = append(ret, c)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Score > ret[j].Score
	})
	if len(ret) > topK {
		ret = ret[:topK]
	}
	return ret
}

// tfidfIndex holds one l2-normalized TF-IDF vector per entry, built over
// term, description and summary.
type tfidfIndex struct {
	dict  *Dictionary
	terms []string
	idf   map[string]float64
	docs  []map[string]float64
}

func newTFIDFIndex(d *Dictionary) *tfidfIndex {
	n := len(d.entries)
	ix := &tfidfIndex{
		dict:  d,
		terms: make([]string, n),
		idf:   make(map[string]float64),
		docs:  make([]map[string]float64, n),
	}

	counts := make([]map[string]float64, n)
	df := make(map[string]int)
	for i, e := range d.entries {
		ix.terms[i] = d.lower(e.Term)
		counts[i] = termCounts(d.tokens(e.Term + " " + e.Description + " " + e.Summary))
		for tok := range counts[i] {
			df[tok]++
		}
	}
	// smoothed idf: ln((1+n)/(1+df)) + 1
	for tok, c := range df {
		ix.idf[tok] = math.Log(float64(1+n)/float64(1+c)) + 1
	}
	for i := range counts {
		ix.docs[i] = ix.weigh(counts[i])
	}
	return ix
}

// weigh turns raw counts into a normalized vector; tokens outside the
// vocabulary are dropped.
func (ix *tfidfIndex) weigh(counts map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(counts))
	var norm float64
	for tok, tf := range counts {
		idf, ok := ix.idf[tok]
		if !ok {
			continue
		}
		w := tf * idf
		vec[tok] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for tok := range vec {
		vec[tok] /= norm
	}
	return vec
}

func (ix *tfidfIndex) search(query string, topK int) []Scored {
	q := ix.weigh(termCounts(ix.dict.tokens(query)))
	if len(q) == 0 {
		return nil
	}

	var hits []Scored
	for i, doc := range ix.docs {
		if score := cosine(q, doc); score > minRelevance {
			hits = append(hits, Scored{Entry: ix.dict.entries[i], Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// keywords finds dictionary terms that contain a word, bigram or trigram of
// text, in text order.
func (ix *tfidfIndex) keywords(text string, limit int) []string {
	words := strings.FieldsFunc(ix.dict.lower(text), isWordSeparator)
	phrases := make([]string, 0, 3*len(words))
	phrases = append(phrases, words...)
	for i := 0; i+1 < len(words); i++ {
		phrases = append(phrases, words[i]+" "+words[i+1])
	}
	for i := 0; i+2 < len(words); i++ {
		phrases = append(phrases, words[i]+" "+words[i+1]+" "+words[i+2])
	}

	var ret []string
	seen := make(map[string]bool)
	for _, p := range phrases {
		if len(ret) >= limit {
			break
		}
		if utf8.RuneCountInString(p) <= 3 || fillerWords[p] {
			continue
		}
		for i, term := range ix.terms {
			if strings.Contains(term, p) || strings.Contains(p, term) {
				if !seen[term] {
					seen[term] = true
					ret = append(ret, ix.dict.entries[i].Term)
				}
				break
			}
		}
	}
	return ret
}

// tokens lowercases s and keeps words of two or more runes that are not stop words.
func (d *Dictionary) tokens(s string) []string {
	fields := strings.FieldsFunc(d.lower(s), isWordSeparator)
	ret := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 || stopWords[f] {
			continue
		}
		ret = append(ret, f)
	}
	return ret
}

func termCounts(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

// cosine expects l2-normalized vectors.
func cosine(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for tok, w := range a {
		dot += w * b[tok]
	}
	return dot
}

func isWordSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

var fillerWords = map[string]bool{
	"the": true, "and": true, "was": true, "were": true, "that": true,
	"this": true, "with": true, "for": true, "about": true,
}

var stopWords = func() map[string]bool {
	words := strings.Fields(`
		a about above across after afterwards again against all almost alone along
		already also although always am among amongst an and another any anyhow
		anyone anything anyway anywhere are around as at back be became because
		become becomes becoming been before beforehand behind being below beside
		besides between beyond both but by can cannot could did do does doing done
		down due during each either else elsewhere enough etc even ever every
		everyone everything everywhere except few for former formerly from further
		had has have having he hence her here hereafter hereby herein hers herself
		him himself his how however i if in indeed into is it its itself just keep
		last latter latterly least less many may me meanwhile might mine more
		moreover most mostly much must my myself namely neither never nevertheless
		next no nobody none noone nor not nothing now nowhere of off often on once
		one only onto or other others otherwise our ours ourselves out over own per
		perhaps please rather re same seem seemed seeming seems several she should
		since so some somehow someone something sometime sometimes somewhere still
		such than that the their theirs them themselves then thence there
		thereafter thereby therefore therein thereupon these they this those though
		through throughout thru thus to together too toward towards under until up
		upon us very via was we well were what whatever when whence whenever where
		whereafter whereas whereby wherein whereupon wherever whether which while
		whither who whoever whole whom whose why will with within without would yet
		you your yours yourself yourselves`)
	ret := make(map[string]bool, len(words))
	for _, w := range words {
		ret[w] = true
	}
	return ret
}()
