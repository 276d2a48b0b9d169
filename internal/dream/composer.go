package dream

import (
	"fmt"
	"strings"
)

const (
	// GenericInterpretation is returned when no symbol matched.
	GenericInterpretation = "Thank you for sharing your dream. While I don't have specific symbols in my dictionary that match your dream exactly, dreams are deeply personal experiences. Consider what elements of this dream feel most significant to you, as they often reflect your current emotional state or life circumstances. I'm here if you'd like to explore more dreams in the future."

	interpretationPreamble = "Thank you for sharing your dream with me. I notice several important symbols in what you've described.\n\n"
	interpretationClosing  = "Remember that dreams are personal, and these interpretations are based on common symbolic meanings. Trust your own intuition about what resonates most with your experience."

	maxDetailsLen = 100
)

// Compose joins the descriptions of matches into one interpretation.
func Compose(matches []Entry) string {
	if len(matches) == 0 {
		return GenericInterpretation
	}

	var b strings.Builder
	b.WriteString(interpretationPreamble)
	for _, m := range matches {
		fmt.Fprintf(&b, "Regarding the \"%s\" in your dream: %s\n\n", m.Term, m.Description)
	}
	b.WriteString(interpretationClosing)
	return b.String()
}

// Interpret runs the matcher and the composer against dict.
func Interpret(text string, dict *Dictionary) Result {
	matches := FindSymbols(text, dict)
	return Result{
		Interpretation: Compose(matches),
		Symbols:        SymbolsFrom(Direct(matches)),
		Source:         SourceLocal,
	}
}

// SymbolsFrom converts scored entries to wire symbols. Details are cut to 100
// characters with a trailing "...".
func SymbolsFrom(matches []Scored) []Symbol {
	ret := make([]Symbol, 0, len(matches))
	for _, m := range matches {
		ret = append(ret, Symbol{
			Term:    m.Term,
			Details: truncate(m.Description, maxDetailsLen),
			Score:   m.Score,
		})
	}
	return ret
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
