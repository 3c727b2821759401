package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
	"github.com/stretchr/testify/require"
)

var adminRole = uuid.MustParse("bdc56420-caf0-4030-8a0e-d264938e0cda")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T) (*EntityManager, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewEntityManager(store, quietLogger(), Options{}), store
}

func entityInput(name string) *models.Entity {
	roles := []uuid.UUID{adminRole}
	return &models.Entity{
		Name:        name,
		Label:       "Label " + name,
		LabelPlural: "Labels " + name,
		RecordPermissions: &models.RecordPermissions{
			CanRead:   roles,
			CanCreate: roles,
			CanUpdate: roles,
			CanDelete: roles,
		},
	}
}

func mustCreateEntity(t *testing.T, m *EntityManager, name string, extra ...models.Field) *models.Entity {
	t.Helper()
	in := entityInput(name)
	in.Fields = extra
	resp := m.CreateEntity(context.Background(), in)
	require.True(t, resp.Success, "%s: %v", resp.Message, resp.Errors)
	return resp.Object
}

func textField(name string) *models.TextField {
	return &models.TextField{
		FieldCommon:  models.FieldCommon{ID: uuid.New(), Name: name, Label: name},
		DefaultValue: models.Ptr(""),
	}
}

func fieldColumn(name string) *models.FieldItem {
	return &models.FieldItem{FieldName: name}
}

func errorKeys(errs []models.ErrorModel) []string {
	keys := make([]string, 0, len(errs))
	for _, e := range errs {
		keys = append(keys, e.Key)
	}
	return keys
}

// faultyStore fails entity updates with err. With records set it fails
// record column changes instead, after applying them.
type faultyStore struct {
	storage.Store
	err     error
	records bool
}

func (f *faultyStore) Entities() storage.EntityRepository {
	if f.records {
		return f.Store.Entities()
	}
	return faultyEntities{EntityRepository: f.Store.Entities(), err: f.err}
}

func (f *faultyStore) Records() storage.RecordRepository {
	if !f.records {
		return f.Store.Records()
	}
	return faultyRecords{RecordRepository: f.Store.Records(), err: f.err}
}

func (f *faultyStore) Transaction(ctx context.Context, fn func(tx storage.Store) error) error {
	return f.Store.Transaction(ctx, func(tx storage.Store) error {
		return fn(&faultyStore{Store: tx, err: f.err, records: f.records})
	})
}

type faultyEntities struct {
	storage.EntityRepository
	err error
}

func (r faultyEntities) Update(ctx context.Context, e *models.Entity) error {
	return r.err
}

type faultyRecords struct {
	storage.RecordRepository
	err error
}

func (r faultyRecords) CreateRecordField(ctx context.Context, entityName string, field models.Field) error {
	if err := r.RecordRepository.CreateRecordField(ctx, entityName, field); err != nil {
		return err
	}
	return r.err
}

func (r faultyRecords) RemoveRecordField(ctx context.Context, entityName, fieldName string) error {
	if err := r.RecordRepository.RemoveRecordField(ctx, entityName, fieldName); err != nil {
		return err
	}
	return r.err
}

// panickyStore panics on every entity read
type panickyStore struct {
	storage.Store
}

func (p panickyStore) Entities() storage.EntityRepository {
	return panickyEntities{p.Store.Entities()}
}

type panickyEntities struct {
	storage.EntityRepository
}

func (panickyEntities) Read(ctx context.Context) ([]*models.Entity, error) {
	panic("storage exploded")
}
