// Package memory provides in-memory implementations of storage ports.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/artpar/modeladmin/adapters/clock"
	"github.com/artpar/modeladmin/adapters/idgen"
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/query"
	"github.com/artpar/modeladmin/ports"
)

type entry struct {
	seq    uint64
	record ports.Record
}

// RecordStore is an in-memory implementation of ports.RecordStore.
// Records are grouped per descriptor URL path.
type RecordStore struct {
	mu     sync.RWMutex
	tables map[string]map[string]entry // path -> id -> entry
	seq    uint64

	clock ports.Clock
	ids   ports.IDGenerator
}

// NewRecordStore creates an empty store. Nil clock or ids fall back to
// the system clock and random UUIDs.
func NewRecordStore(c ports.Clock, ids ports.IDGenerator) *RecordStore {
	if c == nil {
		c = clock.Real{}
	}
	if ids == nil {
		ids = idgen.UUID{}
	}
	return &RecordStore{
		tables: make(map[string]map[string]entry),
		clock:  c,
		ids:    ids,
	}
}

// Ensure creates the table for a model if it does not exist yet.
func (s *RecordStore) Ensure(ctx context.Context, d descriptor.Erased) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(d.URLPath())
	return nil
}

// table must be called with the write lock held.
func (s *RecordStore) table(path string) map[string]entry {
	t, ok := s.tables[path]
	if !ok {
		t = make(map[string]entry)
		s.tables[path] = t
	}
	return t
}

// List filters, sorts and paginates the records of a model.
func (s *RecordStore) List(ctx context.Context, d descriptor.Erased, q query.ListQuery) (ports.Page, error) {
	s.mu.RLock()
	var matched []entry
	for _, e := range s.tables[d.URLPath()] {
		if matches(e.record, q) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i], matched[j], q.SortField)
		if c == 0 {
			c = cmpUint(matched[i].seq, matched[j].seq)
		}
		if q.Ascending {
			return c < 0
		}
		return c > 0
	})

	page := ports.Page{Total: int64(len(matched))}
	start := min(max(q.Offset(), 0), len(matched))
	end := len(matched)
	if q.Limit() > 0 && q.Limit() < end-start {
		end = start + q.Limit()
	}
	for _, e := range matched[start:end] {
		page.Records = append(page.Records, copyRecord(e.record))
	}
	return page, nil
}

// Get retrieves a record by ID.
func (s *RecordStore) Get(ctx context.Context, d descriptor.Erased, id string) (ports.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tables[d.URLPath()][id]
	if !ok {
		return ports.Record{}, ports.ErrNotFound
	}
	return copyRecord(e.record), nil
}

// Create stores a new record with a generated ID.
func (s *RecordStore) Create(ctx context.Context, d descriptor.Erased, values ports.Values) (ports.Record, error) {
	now := s.clock.Now()
	rec := ports.Record{
		ID:        s.ids.New(),
		Values:    values.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.table(d.URLPath())[rec.ID] = entry{seq: s.seq, record: rec}
	return copyRecord(rec), nil
}

// Update merges values into an existing record.
func (s *RecordStore) Update(ctx context.Context, d descriptor.Erased, id string, values ports.Values) (ports.Record, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[d.URLPath()]
	e, ok := t[id]
	if !ok {
		return ports.Record{}, ports.ErrNotFound
	}

	merged := e.record.Values.Clone()
	for k, vs := range values {
		merged[k] = append([]string(nil), vs...)
	}
	e.record.Values = merged
	e.record.UpdatedAt = now
	t[id] = e

	return copyRecord(e.record), nil
}

// Delete removes a record.
func (s *RecordStore) Delete(ctx context.Context, d descriptor.Erased, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[d.URLPath()]
	if _, ok := t[id]; !ok {
		return ports.ErrNotFound
	}
	delete(t, id)
	return nil
}

func matches(r ports.Record, q query.ListQuery) bool {
	if q.Search == "" || len(q.SearchFields) == 0 {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, field := range q.SearchFields {
		for _, v := range r.Values[field] {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
	}
	return false
}

// compare orders two entries on field. The id field means insertion order.
// Values that both parse as numbers compare numerically.
func compare(a, b entry, field string) int {
	if field == "id" {
		return cmpUint(a.seq, b.seq)
	}
	av, bv := a.record.Get(field), b.record.Get(field)
	if af, err := strconv.ParseFloat(av, 64); err == nil {
		if bf, err := strconv.ParseFloat(bv, 64); err == nil {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(av, bv)
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func copyRecord(r ports.Record) ports.Record {
	r.Values = r.Values.Clone()
	return r
}

var _ ports.RecordStore = (*RecordStore)(nil)
