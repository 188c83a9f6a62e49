package roadmap

import (
	"fmt"
	"sort"
	"strings"
)

// GroupID is a numeric group tag parsed from the "group" column.
type GroupID int

var knownGroups = []struct {
	id    GroupID
	label string
}{
	{0, "Core Platform"},
	{1, "Data & Analytics"},
	{2, "Infrastructure"},
	{3, "Customer Delivery"},
	{4, "Research"},
}

var (
	labelByGroup = make(map[GroupID]string, len(knownGroups))
	groupByLabel = make(map[string]GroupID, len(knownGroups))
)

func init() {
	for _, g := range knownGroups {
		labelByGroup[g.id] = g.label
		groupByLabel[strings.ToLower(g.label)] = g.id
	}
}

// KnownGroupIDs returns the ids with a fixed label, ascending.
func KnownGroupIDs() []GroupID {
	out := make([]GroupID, 0, len(knownGroups))
	for _, g := range knownGroups {
		out = append(out, g.id)
	}
	return out
}

// Known reports whether the id has a fixed label.
func (g GroupID) Known() bool {
	_, ok := labelByGroup[g]
	return ok
}

// Label returns the fixed label, or "Group <n>" for ids outside the known set.
func (g GroupID) Label() string {
	if label, ok := labelByGroup[g]; ok {
		return label
	}
	return fmt.Sprintf("Group %d", int(g))
}

func (g GroupID) String() string {
	return g.Label()
}

// GroupLabels resolves labels back to ids. It holds every known id plus the
// unknown ids it was built from, so generic labels never need to be parsed.
type GroupLabels struct {
	byLabel map[string]GroupID
}

func NewGroupLabels(extra ...GroupID) GroupLabels {
	byLabel := make(map[string]GroupID, len(groupByLabel)+len(extra))
	for label, id := range groupByLabel {
		byLabel[label] = id
	}
	for _, id := range extra {
		byLabel[strings.ToLower(id.Label())] = id
	}
	return GroupLabels{byLabel: byLabel}
}

// Lookup returns the id for a label; the match is case-insensitive and
// ignores surrounding whitespace.
func (l GroupLabels) Lookup(label string) (GroupID, bool) {
	id, ok := l.byLabel[strings.ToLower(strings.TrimSpace(label))]
	return id, ok
}

// IDs returns every id the lookup can resolve, ascending.
func (l GroupLabels) IDs() []GroupID {
	seen := make(map[GroupID]struct{}, len(l.byLabel))
	out := make([]GroupID, 0, len(l.byLabel))
	for _, id := range l.byLabel {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
