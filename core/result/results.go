// Package result collects the per request records of an attack.
package result

import (
	"sort"
	"sync"
)

// Results is an append only, concurrency safe list of results.
type Results struct {
	mu    sync.RWMutex
	items []*Result
}

func NewResults() *Results {
	return &Results{}
}

func (rs *Results) Append(r *Result) {
	rs.mu.Lock()
	rs.items = append(rs.items, r)
	rs.mu.Unlock()
}

// All returns a snapshot copy in append order.
func (rs *Results) All() []*Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	all := make([]*Result, len(rs.items))
	copy(all, rs.items)
	return all
}

// Sorted returns a copy ordered by SequenceID.
func (rs *Results) Sorted() []*Result {
	all := rs.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].SequenceID < all[j].SequenceID
	})
	return all
}

func (rs *Results) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.items)
}

func (rs *Results) Get(sequenceID int) *Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for _, r := range rs.items {
		if r.SequenceID == sequenceID {
			return r
		}
	}
	return nil
}

// Reset drops every result, only a new run calls it.
func (rs *Results) Reset() {
	rs.mu.Lock()
	rs.items = nil
	rs.mu.Unlock()
}

// Replace swaps the content, used when a saved session is restored.
func (rs *Results) Replace(items []*Result) {
	rs.mu.Lock()
	rs.items = append([]*Result(nil), items...)
	rs.mu.Unlock()
}
