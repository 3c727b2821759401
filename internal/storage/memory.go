package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// MemoryStore keeps everything in process memory. Entities are held in their
// JSON form so readers never share state with the store.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	entities  map[uuid.UUID][]byte
	relations map[uuid.UUID]models.EntityRelation
	records   map[string]map[string]any
	now       func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:  make(map[uuid.UUID][]byte),
		relations: make(map[uuid.UUID]models.EntityRelation),
		records:   make(map[string]map[string]any),
		now:       time.Now,
	}
}

func (s *MemoryStore) Entities() EntityRepository    { return memoryEntities{s} }
func (s *MemoryStore) Relations() RelationRepository { return memoryRelations{s} }
func (s *MemoryStore) Records() RecordRepository     { return memoryRecords{s} }

// Transaction serializes writers and restores the previous state when fn fails or panics
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return s.runRestoring(func() error { return fn(memoryTx{s}) })
}

func (s *MemoryStore) runRestoring(fn func() error) (err error) {
	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
		if err != nil {
			s.restore(snap)
		}
	}()
	return fn()
}

type memorySnapshot struct {
	entities  map[uuid.UUID][]byte
	relations map[uuid.UUID]models.EntityRelation
	records   map[string]map[string]any
}

func (s *MemoryStore) snapshot() memorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := memorySnapshot{
		entities:  make(map[uuid.UUID][]byte, len(s.entities)),
		relations: make(map[uuid.UUID]models.EntityRelation, len(s.relations)),
		records:   make(map[string]map[string]any, len(s.records)),
	}
	for k, v := range s.entities {
		snap.entities[k] = v
	}
	for k, v := range s.relations {
		snap.relations[k] = v
	}
	for k, cols := range s.records {
		c := make(map[string]any, len(cols))
		for name, val := range cols {
			c[name] = val
		}
		snap.records[k] = c
	}
	return snap
}

func (s *MemoryStore) restore(snap memorySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = snap.entities
	s.relations = snap.relations
	s.records = snap.records
}

// memoryTx is the store handed to a transaction body. Nested transactions
// behave like savepoints.
type memoryTx struct {
	*MemoryStore
}

func (t memoryTx) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return t.runRestoring(func() error { return fn(t) })
}

// HasRecordCollection reports whether the entity's record storage exists
func (s *MemoryStore) HasRecordCollection(entityName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[entityName]
	return ok
}

// RecordColumn returns the seed value of a record column and whether the column exists
func (s *MemoryStore) RecordColumn(entityName, fieldName string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cols, ok := s.records[entityName]
	if !ok {
		return nil, false
	}
	v, ok := cols[fieldName]
	return v, ok
}

// =============================================================================
// ENTITIES
// =============================================================================

type memoryEntities struct{ s *MemoryStore }

func decodeEntity(data []byte) (*models.Entity, error) {
	var e models.Entity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return &e, nil
}

func (r memoryEntities) Read(ctx context.Context) ([]*models.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.Entity, 0, len(r.s.entities))
	for _, data := range r.s.entities {
		e, err := decodeEntity(data)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	SortEntities(out)
	return out, nil
}

func (r memoryEntities) ReadByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	data, ok := r.s.entities[id]
	if !ok {
		return nil, nil
	}
	return decodeEntity(data)
}

func (r memoryEntities) ReadByName(ctx context.Context, name string) (*models.Entity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, data := range r.s.entities {
		e, err := decodeEntity(data)
		if err != nil {
			return nil, err
		}
		if e.Name == name {
			return e, nil
		}
	}
	return nil, nil
}

func (r memoryEntities) Create(ctx context.Context, entity *models.Entity) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.entities[entity.ID]; exists {
		return fmt.Errorf("entity %s already exists", entity.ID)
	}
	for _, other := range r.s.entities {
		var probe struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(other, &probe); err == nil && probe.Name == entity.Name {
			return fmt.Errorf("entity named %q already exists", entity.Name)
		}
	}
	r.s.entities[entity.ID] = data
	return nil
}

func (r memoryEntities) Update(ctx context.Context, entity *models.Entity) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.entities[entity.ID]; !exists {
		return fmt.Errorf("entity %s does not exist", entity.ID)
	}
	r.s.entities[entity.ID] = data
	return nil
}

func (r memoryEntities) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.entities, id)
	return nil
}

// SortEntities orders entities by weight, then name
func SortEntities(entities []*models.Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Weight != entities[j].Weight {
			return entities[i].Weight < entities[j].Weight
		}
		return entities[i].Name < entities[j].Name
	})
}

// =============================================================================
// RELATIONS
// =============================================================================

type memoryRelations struct{ s *MemoryStore }

func (r memoryRelations) Read(ctx context.Context) ([]*models.EntityRelation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*models.EntityRelation, 0, len(r.s.relations))
	for _, rel := range r.s.relations {
		rel := rel
		out = append(out, &rel)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memoryRelations) ReadByID(ctx context.Context, id uuid.UUID) (*models.EntityRelation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rel, ok := r.s.relations[id]
	if !ok {
		return nil, nil
	}
	return &rel, nil
}

func (r memoryRelations) ReadByName(ctx context.Context, name string) (*models.EntityRelation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rel := range r.s.relations {
		if rel.Name == name {
			rel := rel
			return &rel, nil
		}
	}
	return nil, nil
}

func (r memoryRelations) Create(ctx context.Context, relation *models.EntityRelation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.relations[relation.ID]; exists {
		return fmt.Errorf("relation %s already exists", relation.ID)
	}
	r.s.relations[relation.ID] = *relation
	return nil
}

func (r memoryRelations) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.relations, id)
	return nil
}

func (r memoryRelations) DeleteByEntity(ctx context.Context, entityID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rel := range r.s.relations {
		if rel.Involves(entityID) {
			delete(r.s.relations, id)
		}
	}
	return nil
}

// =============================================================================
// RECORDS
// =============================================================================

type memoryRecords struct{ s *MemoryStore }

func (r memoryRecords) CreateRecordCollection(ctx context.Context, entityName string, fields []models.Field) error {
	cols := make(map[string]any, len(fields))
	for _, f := range fields {
		v, err := SeedValue(f, r.s.now())
		if err != nil {
			return err
		}
		cols[f.Common().Name] = v
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.records[entityName]; exists {
		return fmt.Errorf("record collection %q already exists", entityName)
	}
	r.s.records[entityName] = cols
	return nil
}

func (r memoryRecords) DeleteRecordCollection(ctx context.Context, entityName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.records, entityName)
	return nil
}

func (r memoryRecords) CreateRecordField(ctx context.Context, entityName string, field models.Field) error {
	v, err := SeedValue(field, r.s.now())
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cols, ok := r.s.records[entityName]
	if !ok {
		return fmt.Errorf("record collection %q does not exist", entityName)
	}
	name := field.Common().Name
	if _, exists := cols[name]; exists {
		return fmt.Errorf("column %q already exists in %q", name, entityName)
	}
	cols[name] = v
	return nil
}

func (r memoryRecords) RemoveRecordField(ctx context.Context, entityName, fieldName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cols, ok := r.s.records[entityName]
	if !ok {
		return fmt.Errorf("record collection %q does not exist", entityName)
	}
	delete(cols, fieldName)
	return nil
}
