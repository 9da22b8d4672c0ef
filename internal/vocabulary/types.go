package vocabulary

// Group is one named set of Chinese surface strings sharing a canonical alias.
type Group struct {
	ID          string
	Name        string
	Description string
	Items       []string
	Alias       string
	Domains     []string // optional; empty means the group applies everywhere
}

// groupDoc is the on-disk shape of a single group. Unknown keys are ignored.
type groupDoc struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Items       []string `json:"items"`
	Alias       string   `json:"alias"`
	Domains     []string `json:"domains"`
}

// configDoc is the on-disk shape of the vocabulary document.
type configDoc struct {
	Groups map[string]groupDoc `json:"groups"`
}

// aliasEntry is one row of the precomputed surface→alias reverse table.
type aliasEntry struct {
	alias   string
	groupID string
}
