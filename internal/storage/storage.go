// Package storage persists entity metadata, relations and the physical record columns
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

// EntityRepository stores entity aggregates. Missing entities read as nil without error.
type EntityRepository interface {
	Read(ctx context.Context) ([]*models.Entity, error)
	ReadByID(ctx context.Context, id uuid.UUID) (*models.Entity, error)
	ReadByName(ctx context.Context, name string) (*models.Entity, error)
	Create(ctx context.Context, entity *models.Entity) error
	Update(ctx context.Context, entity *models.Entity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RelationRepository stores entity relations. Missing relations read as nil without error.
type RelationRepository interface {
	Read(ctx context.Context) ([]*models.EntityRelation, error)
	ReadByID(ctx context.Context, id uuid.UUID) (*models.EntityRelation, error)
	ReadByName(ctx context.Context, name string) (*models.EntityRelation, error)
	Create(ctx context.Context, relation *models.EntityRelation) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByEntity(ctx context.Context, entityID uuid.UUID) error
}

// RecordRepository owns the physical record storage of each entity
type RecordRepository interface {
	CreateRecordCollection(ctx context.Context, entityName string, fields []models.Field) error
	DeleteRecordCollection(ctx context.Context, entityName string) error
	CreateRecordField(ctx context.Context, entityName string, field models.Field) error
	RemoveRecordField(ctx context.Context, entityName, fieldName string) error
}

// Store groups the repositories that share one transaction
type Store interface {
	Entities() EntityRepository
	Relations() RelationRepository
	Records() RecordRepository

	// Transaction runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
