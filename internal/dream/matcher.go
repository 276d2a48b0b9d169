package dream

import "strings"

// FindSymbols returns the entries whose term, or a naive variant of it, occurs
// in text. Results keep dictionary order.
//
// Matching is plain substring containment, so a term inside an unrelated word
// ("water" in "underwater") also matches.
func FindSymbols(text string, dict *Dictionary) []Entry {
	if dict == nil || text == "" {
		return nil
	}

	lowered := dict.lower(text)
	var matches []Entry
	for _, e := range dict.entries {
		for _, variant := range Variants(dict.lower(e.Term)) {
			if strings.Contains(lowered, variant) {
				matches = append(matches, e)
				break
			}
		}
	}
	return matches
}

// Variants expands an already lowercased term into the forms FindSymbols looks
// for: the term, its stem, stem+"ed" and stem+"ing". The stem drops a trailing
// "ing".
func Variants(term string) []string {
	stem := strings.TrimSuffix(term, "ing")
	return []string{term, stem, stem + "ed", stem + "ing"}
}
