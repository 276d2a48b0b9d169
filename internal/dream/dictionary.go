package dream

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dictionary is an ordered, immutable set of dream symbols.
// Terms are unique under case folding for the dictionary's language.
type Dictionary struct {
	entries []Entry
	lang    language.Tag

	indexOnce sync.Once
	idx       *tfidfIndex
}

// NewDictionary validates entries and returns a dictionary that keeps their order.
func NewDictionary(lang language.Tag, entries ...Entry) (*Dictionary, error) {
	d := &Dictionary{
		entries: make([]Entry, 0, len(entries)),
		lang:    lang,
	}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		term := strings.TrimSpace(e.Term)
		if term == "" {
			return nil, fmt.Errorf("entry %d: term is required", i)
		}
		key := d.lower(term)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("entry %d: duplicate term %q (first seen at entry %d)", i, term, prev)
		}
		seen[key] = i
		d.entries = append(d.entries, Entry{
			Term:        term,
			Description: strings.TrimSpace(e.Description),
			Summary:     strings.TrimSpace(e.Summary),
		})
	}
	return d, nil
}

// Entries returns a copy of the entries in declaration order.
func (d *Dictionary) Entries() []Entry {
	ret := make([]Entry, len(d.entries))
	copy(ret, d.entries)
	return ret
}

func (d *Dictionary) Len() int {
	return len(d.entries)
}

func (d *Dictionary) Language() language.Tag {
	return d.lang
}

func (d *Dictionary) index() *tfidfIndex {
	d.indexOnce.Do(func() {
		d.idx = newTFIDFIndex(d)
	})
	return d.idx
}

// lower builds a fresh caser per call; cases.Caser keeps state and is not safe to share.
func (d *Dictionary) lower(s string) string {
	return cases.Lower(d.lang).String(s)
}

// Default returns the built-in dictionary.
func Default() *Dictionary {
	d, err := NewDictionary(language.English, defaultEntries...)
	if err != nil {
		panic(fmt.Sprintf("built-in dictionary: %v", err))
	}
	return d
}

var defaultEntries = []Entry{
	{
		Term:        "abandonment",
		Description: "When we dream of being abandoned, it harbors feelings of insecurity, emotional support or unconscious fears. This dream symbol often relates to childhood experiences or current relationship anxieties. It may suggest you're working through feelings of rejection or fear of being left alone.",
	},
	{
		Term:        "abbey",
		Description: "Dreaming of an abbey represents a desire for spiritual sanctuary and peace. It suggests you may be seeking refuge from the chaos of daily life or looking for a space for contemplation and inner growth. This symbol often appears during times when you need to reconnect with your deeper values.",
	},
	{
		Term:        "flying",
		Description: "Dreams of flying typically symbolize freedom, liberation, and breaking free from limitations. This powerful symbol suggests you're rising above challenges or gaining a new perspective on your life. It often appears when you're experiencing success or personal growth.",
	},
	{
		Term:        "teeth falling out",
		Description: "Dreams about teeth falling out commonly represent anxiety about appearance, communication, or power. This symbol may reflect fears about losing attractiveness or the ability to communicate effectively. It sometimes appears during major life transitions or periods of insecurity.",
	},
	{
		Term:        "water",
		Description: "Water in dreams symbolizes emotions, the unconscious mind, and the flow of life. Clear water often represents clarity and emotional well-being, while murky water may suggest confusion or repressed feelings. This symbol frequently appears when you're processing deep emotions.",
	},
	{
		Term:        "falling",
		Description: "Dreams of falling often reflect feelings of insecurity, loss of control, or failure. This common symbol may indicate anxiety about a situation in your waking life where you feel unsupported. It sometimes appears during periods of significant change or when you're taking risks.",
	},
}
