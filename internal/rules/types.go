package rules

import "regexp"

// GlobalDomain is the pseudo-domain holding rules that apply across all
// domains.
const GlobalDomain = "__global__"

// ruleFileDoc is the on-disk shape of one per-domain rule file.
// Unknown keys are ignored.
type ruleFileDoc struct {
	Domain      string       `json:"domain"`
	Description string       `json:"description"`
	Patterns    []patternDoc `json:"patterns"`
}

// patternDoc is one rule as authored. Pattern may contain {{group_id}}
// references resolved through the vocabulary manager.
type patternDoc struct {
	Pattern    string   `json:"pattern"`
	Intent     string   `json:"intent"`
	Action     string   `json:"action"`
	Target     string   `json:"target"`
	Confidence float64  `json:"confidence"`
	Domain     string   `json:"domain"`
	GroupNames []string `json:"group_names"`
}

// compiledRule is a rule after expansion and compilation.
type compiledRule struct {
	re            *regexp.Regexp
	source        string // the authored template, for logs
	intent        string
	defaultAction string // alias used when the action group does not capture
	defaultTarget string // alias used when the target group does not capture
	confidence    float64
	domain        string // declared rule domain; falls back to the file domain
	groupNames    []string
}

// Result is one regex hit after slot extraction.
type Result struct {
	Intent     string
	Domain     string
	Semantic   map[string]string
	Entities   map[string]string
	Confidence float64
}
