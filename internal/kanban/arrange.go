package kanban

import (
	"math"
	"sort"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// Seed builds a board that reproduces the natural store order of issues.
func Seed(projectID string, issues []*domain.Issue) *Board {
	b := NewBoard(projectID)
	for _, is := range issues {
		if _, _, ok := b.Position(is.ID); ok || !is.LifeCycle.Valid() {
			continue
		}
		b.columns[is.LifeCycle] = append(b.columns[is.LifeCycle], is.ID)
	}
	return b
}

// Arrange groups issues by their stored lifecycle and orders each group by the
// board. Issues the board does not place in that column keep their natural
// order after the placed ones. A nil board means natural order throughout.
// Every lifecycle has an entry in the result, possibly empty.
func (b *Board) Arrange(issues []*domain.Issue) map[domain.LifeCycle][]*domain.Issue {
	out := make(map[domain.LifeCycle][]*domain.Issue, len(domain.LifeCycles))
	for _, lc := range domain.LifeCycles {
		out[lc] = []*domain.Issue{}
	}
	for _, is := range issues {
		out[is.LifeCycle] = append(out[is.LifeCycle], is)
	}
	if b == nil {
		return out
	}

	for lc, group := range out {
		rank := make(map[string]int, len(b.columns[lc]))
		for i, id := range b.columns[lc] {
			rank[id] = i
		}
		key := func(id string) int {
			if r, ok := rank[id]; ok {
				return r
			}
			return math.MaxInt
		}
		sort.SliceStable(group, func(i, j int) bool { return key(group[i].ID) < key(group[j].ID) })
	}
	return out
}
