// Package identity allocates provisional identities for records and groups
// created during an edit session and rewrites them to canonical ids at
// commit.
package identity

import (
	"fmt"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Allocator hands out placeholder ids. It is session-local and never
// reuses an id, even after the record holding it is deleted.
type Allocator struct {
	watermark int
	groups    int
}

// New creates an Allocator that will not collide with any of the given ids.
func New(existingIDs ...int) *Allocator {
	a := &Allocator{}
	a.Observe(existingIDs...)
	return a
}

// Observe raises the watermark so later ids stay clear of the given ones.
func (a *Allocator) Observe(ids ...int) {
	for _, id := range ids {
		if id < 0 {
			id = -id
		}
		if id > a.watermark {
			a.watermark = id
		}
	}
}

// LeafID returns a fresh negative id, strictly below every id handed out or
// observed so far.
func (a *Allocator) LeafID() int {
	a.watermark++
	return -a.watermark
}

// GroupPlaceholder returns a fresh placeholder group id. It always carries
// a non-numeric prefix so it cannot be mistaken for a persisted id.
func (a *Allocator) GroupPlaceholder() string {
	a.groups++
	return fmt.Sprintf("%s%d", constants.GroupPlaceholderPrefix, a.groups)
}

// Resolution is the outcome of rewriting placeholders to canonical ids.
type Resolution struct {
	// Records holds every input record, placeholders resolved, in input order.
	Records []skills.Leaf
	// IDs maps each rewritten placeholder id to its canonical id.
	IDs map[int]int
	// Groups maps each resolved placeholder group to its materialized key.
	Groups map[string]skills.GroupKey
}

// Resolve remaps every record that carries a placeholder group reference or
// a non-positive id. A nil remapper means SequenceRemapper. The result is
// checked for totality: no placeholder survives and no two records share an
// id.
func Resolve(records []skills.Leaf, remapper Remapper) (*Resolution, error) {
	if remapper == nil {
		remapper = SequenceRemapper{}
	}

	res := &Resolution{
		Records: skills.CloneAll(records),
		IDs:     make(map[int]int),
		Groups:  make(map[string]skills.GroupKey),
	}
	if res.Records == nil {
		res.Records = []skills.Leaf{}
	}

	taken := make(map[int]bool, len(records))
	var pendingIdx []int
	var pending []skills.Leaf
	for i, leaf := range res.Records {
		if leaf.Identity().Kind == skills.KindPersisted {
			if taken[leaf.ID] {
				return nil, errors.NewContractError("Resolve", "id", leaf.ID, "duplicate persisted id")
			}
			taken[leaf.ID] = true
			continue
		}
		pendingIdx = append(pendingIdx, i)
		pending = append(pending, leaf)
	}

	if len(pending) == 0 {
		return res, nil
	}

	assigned := remapper.Remap(pending, copyTaken(taken))
	if len(assigned) != len(pending) {
		return nil, errors.NewContractError("Resolve", "", nil,
			fmt.Sprintf("remapper returned %d ids for %d records", len(assigned), len(pending)))
	}

	for n, i := range pendingIdx {
		id := assigned[n]
		if id <= 0 {
			return nil, errors.NewContractError("Resolve", "id", id, "remapped id must be positive")
		}
		if taken[id] {
			return nil, errors.NewContractError("Resolve", "id", id, "remapped id collides")
		}
		taken[id] = true

		leaf := &res.Records[i]
		if leaf.ID != 0 {
			res.IDs[leaf.ID] = id
		}
		if leaf.GroupPlaceholderID != "" {
			res.Groups[leaf.GroupPlaceholderID] = leaf.GroupKey()
		}
		leaf.ID = id
		leaf.GroupPlaceholderID = ""
	}

	return res, nil
}

func copyTaken(taken map[int]bool) map[int]bool {
	out := make(map[int]bool, len(taken))
	for k, v := range taken {
		out[k] = v
	}
	return out
}
