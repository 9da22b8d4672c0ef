package vocabulary

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"nlu-service/pkg/log"
)

// placeholderRe matches {{group_id}} and {{group_id:mode}} references.
var placeholderRe = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Manager owns the vocabulary groups, the expanded-pattern builder, and the
// surface→alias reverse table. Immutable after New, safe for concurrent use.
type Manager struct {
	l      log.Logger
	groups map[string]Group
	ids    []string // group ids, sorted
	// itemToAlias maps an exact Chinese surface string to its winning group.
	itemToAlias map[string]aliasEntry
}

// New loads the vocabulary document at path and precomputes the lookup
// structures. Any malformed input is a startup failure.
func New(l log.Logger, path string) (*Manager, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary config: %w", err)
	}

	var doc configDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(doc.Groups) == 0 {
		return nil, fmt.Errorf("%w: no groups defined in %s", ErrInvalidConfig, path)
	}

	m := &Manager{
		l:           l,
		groups:      make(map[string]Group, len(doc.Groups)),
		itemToAlias: make(map[string]aliasEntry),
	}

	for id, g := range doc.Groups {
		if len(g.Items) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyGroup, id)
		}
		alias := g.Alias
		if alias == "" {
			alias = id
		}
		m.groups[id] = Group{
			ID:          id,
			Name:        g.Name,
			Description: g.Description,
			Items:       append([]string(nil), g.Items...),
			Alias:       alias,
			Domains:     append([]string(nil), g.Domains...),
		}
		m.ids = append(m.ids, id)
	}
	sort.Strings(m.ids)

	m.buildReverseTable()

	l.Infof(context.Background(), "Loaded %d vocabulary groups from %s", len(m.groups), path)

	return m, nil
}

// buildReverseTable precomputes the surface→alias map. When a surface string
// belongs to multiple groups, the group with the smaller items list wins
// (higher specificity), then the lexicographically smaller group id.
func (m *Manager) buildReverseTable() {
	for _, id := range m.ids {
		g := m.groups[id]
		for _, item := range g.Items {
			prev, exists := m.itemToAlias[item]
			if !exists {
				m.itemToAlias[item] = aliasEntry{alias: g.Alias, groupID: id}
				continue
			}
			prevGroup := m.groups[prev.groupID]
			if len(g.Items) < len(prevGroup.Items) {
				m.itemToAlias[item] = aliasEntry{alias: g.Alias, groupID: id}
			}
			// Equal sizes keep the earlier (smaller) id: ids are iterated sorted.
		}
	}
}

// Expand replaces every {{group_id}} reference in template with a
// parenthesized alternation of the group's items, regex-escaped and ordered
// by descending character length so longer alternatives match first.
// {{group_id:raw}} skips escaping for groups whose items are themselves
// regex fragments. Referencing an unknown group is an error.
func (m *Manager) Expand(template string) (string, error) {
	var expandErr error

	result := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		content := strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}")

		groupID := content
		escape := true
		if idx := strings.IndexByte(content, ':'); idx >= 0 {
			groupID = content[:idx]
			escape = content[idx+1:] != "raw"
		}

		pattern, err := m.groupPattern(groupID, escape)
		if err != nil {
			if expandErr == nil {
				expandErr = err
			}
			return match
		}
		return "(" + pattern + ")"
	})

	if expandErr != nil {
		return "", expandErr
	}
	if strings.Contains(result, "{{") {
		return "", fmt.Errorf("%w: unresolved reference in %q", ErrInvalidConfig, template)
	}
	return result, nil
}

// groupPattern builds the alternation body for one group.
func (m *Manager) groupPattern(groupID string, escape bool) (string, error) {
	g, ok := m.groups[groupID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}

	items := append([]string(nil), g.Items...)
	// Longest first, so "主驾驶" is tried before "主驾". Rune count, not bytes.
	sort.SliceStable(items, func(i, j int) bool {
		return len([]rune(items[i])) > len([]rune(items[j]))
	})

	if escape {
		for i, item := range items {
			items[i] = regexp.QuoteMeta(item)
		}
	}
	return strings.Join(items, "|"), nil
}

// AliasOf returns the canonical alias and owning group for an exact surface
// string, from the precomputed reverse table.
func (m *Manager) AliasOf(surface string) (alias, groupID string, ok bool) {
	e, ok := m.itemToAlias[surface]
	if !ok {
		return "", "", false
	}
	return e.alias, e.groupID, true
}

// Group returns the group with the given id.
func (m *Manager) Group(id string) (Group, bool) {
	g, ok := m.groups[id]
	return g, ok
}

// Groups returns all groups in sorted-id order.
func (m *Manager) Groups() []Group {
	out := make([]Group, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.groups[id])
	}
	return out
}

// GroupsForDomain returns the ids of groups relevant to a domain. Groups
// without an explicit domains list apply everywhere.
func (m *Manager) GroupsForDomain(domain string) []string {
	var out []string
	for _, id := range m.ids {
		g := m.groups[id]
		if len(g.Domains) == 0 {
			out = append(out, id)
			continue
		}
		for _, d := range g.Domains {
			if d == domain {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
