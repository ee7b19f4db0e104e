// Package kanban keeps the display order of a project's issues, one ordered
// column per lifecycle. A Board is a plain value: load it from the order
// store, apply one operation, save it back.
package kanban

import (
	"fmt"
	"sort"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// Entry is one row of the persisted order record. Index is zero-based and
// dense within its lifecycle.
type Entry struct {
	IssueID   string           `json:"issueId"`
	LifeCycle domain.LifeCycle `json:"lifeCycle"`
	Index     int              `json:"index"`
}

// Board maps each lifecycle column to its issue ids in display order.
type Board struct {
	ProjectID string
	columns   map[domain.LifeCycle][]string
}

func NewBoard(projectID string) *Board {
	return &Board{ProjectID: projectID, columns: make(map[domain.LifeCycle][]string)}
}

// FromEntries rebuilds a board from a stored record. Entries are ordered by
// their stored index per column, so a record with gaps or duplicate indexes
// comes back dense. A repeated issue id keeps its first position.
func FromEntries(projectID string, entries []Entry) *Board {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	b := NewBoard(projectID)
	seen := make(map[string]bool, len(sorted))
	for _, e := range sorted {
		if seen[e.IssueID] || !e.LifeCycle.Valid() {
			continue
		}
		seen[e.IssueID] = true
		b.columns[e.LifeCycle] = append(b.columns[e.LifeCycle], e.IssueID)
	}
	return b
}

// Entries returns the record form of the board, columns in lifecycle order.
func (b *Board) Entries() []Entry {
	var out []Entry
	for _, lc := range domain.LifeCycles {
		for i, id := range b.columns[lc] {
			out = append(out, Entry{IssueID: id, LifeCycle: lc, Index: i})
		}
	}
	return out
}

// Column returns a copy of the ids in lc, top first.
func (b *Board) Column(lc domain.LifeCycle) []string {
	return append([]string(nil), b.columns[lc]...)
}

// Len is the number of issues on the board.
func (b *Board) Len() int {
	n := 0
	for _, ids := range b.columns {
		n += len(ids)
	}
	return n
}

// Position reports where issueID currently sits.
func (b *Board) Position(issueID string) (domain.LifeCycle, int, bool) {
	for lc, ids := range b.columns {
		for i, id := range ids {
			if id == issueID {
				return lc, i, true
			}
		}
	}
	return "", 0, false
}

// Insert puts issueID at the top of lc; everything below moves down by one.
// An issue already on the board is moved instead of duplicated.
func (b *Board) Insert(issueID string, lc domain.LifeCycle) error {
	return b.Move(issueID, lc, 0)
}

// Move takes issueID out of its current column and inserts it into dest at
// index, shifting the rest. index past the end of the column appends. An issue
// not yet on the board is inserted. Applying the same move twice leaves the
// board unchanged the second time.
func (b *Board) Move(issueID string, dest domain.LifeCycle, index int) error {
	if !dest.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLifeCycle, dest)
	}
	if index < 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidOrderIndex, index)
	}
	b.Remove(issueID)

	col := b.columns[dest]
	if index > len(col) {
		index = len(col)
	}
	col = append(col, "")
	copy(col[index+1:], col[index:])
	col[index] = issueID
	b.columns[dest] = col
	return nil
}

// Remove drops issueID from the board. Unknown ids are ignored.
func (b *Board) Remove(issueID string) bool {
	lc, i, ok := b.Position(issueID)
	if !ok {
		return false
	}
	col := b.columns[lc]
	b.columns[lc] = append(col[:i:i], col[i+1:]...)
	if len(b.columns[lc]) == 0 {
		delete(b.columns, lc)
	}
	return true
}

// Retain drops every id for which keep is false, closing the gaps it leaves.
// It returns how many ids were dropped.
func (b *Board) Retain(keep func(issueID string) bool) int {
	dropped := 0
	for lc, ids := range b.columns {
		kept := ids[:0]
		for _, id := range ids {
			if keep(id) {
				kept = append(kept, id)
			} else {
				dropped++
			}
		}
		if len(kept) == 0 {
			delete(b.columns, lc)
		} else {
			b.columns[lc] = kept
		}
	}
	return dropped
}
