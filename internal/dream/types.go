package dream

// Entry is a single dream symbol: a term and its canned description.
// Summary only feeds retrieval.
type Entry struct {
	Term        string `json:"term"`
	Description string `json:"description"`
	Summary     string `json:"summary,omitempty"`
}

// Source tells where an interpretation came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Symbol is the wire form of a matched entry.
type Symbol struct {
	Term    string  `json:"term"`
	Details string  `json:"details"`
	Score   float64 `json:"score"`
}

// Result is a composed interpretation plus the symbols it was built from.
type Result struct {
	Interpretation string   `json:"interpretation"`
	Symbols        []Symbol `json:"symbols"`
	Source         Source   `json:"source,omitempty"`
}

// Terms returns the symbol terms in order.
func (r Result) Terms() []string {
	ret := make([]string, 0, len(r.Symbols))
	for _, s := range r.Symbols {
		ret = append(ret, s.Term)
	}
	return ret
}
