package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityRecord is the row holding one entity aggregate
type EntityRecord struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name       string         `gorm:"uniqueIndex;size:50;not null"`
	Definition datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for EntityRecord
func (EntityRecord) TableName() string {
	return "entities"
}

// RelationRecord is the row holding one entity relation
type RelationRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"uniqueIndex;size:50;not null"`
	Label          string    `gorm:"size:200"`
	Description    string    `gorm:"type:text"`
	System         bool      `gorm:"default:false"`
	RelationType   int       `gorm:"not null"`
	OriginEntityID uuid.UUID `gorm:"type:uuid;index"`
	OriginFieldID  uuid.UUID `gorm:"type:uuid"`
	TargetEntityID uuid.UUID `gorm:"type:uuid;index"`
	TargetFieldID  uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName returns the table name for RelationRecord
func (RelationRecord) TableName() string {
	return "entity_relations"
}

func (r *RelationRecord) toModel() *models.EntityRelation {
	return &models.EntityRelation{
		ID:             r.ID,
		Name:           r.Name,
		Label:          r.Label,
		Description:    r.Description,
		System:         r.System,
		RelationType:   models.RelationType(r.RelationType),
		OriginEntityID: r.OriginEntityID,
		OriginFieldID:  r.OriginFieldID,
		TargetEntityID: r.TargetEntityID,
		TargetFieldID:  r.TargetFieldID,
	}
}

// GormStore persists metadata and records through gorm
type GormStore struct {
	db      *gorm.DB
	dialect string

	// root and journal are set inside a transaction on MySQL, where record
	// DDL runs on root and is compensated through journal
	root    *gorm.DB
	journal *ddlJournal
}

// NewGormStore creates a store on an open connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, dialect: db.Dialector.Name()}
}

func (s *GormStore) Entities() EntityRepository    { return &gormEntities{db: s.db} }
func (s *GormStore) Relations() RelationRepository { return &gormRelations{db: s.db} }
func (s *GormStore) Records() RecordRepository {
	if s.journal != nil {
		return &gormRecords{db: s.root, dialect: s.dialect, now: time.Now, journal: s.journal}
	}
	return &gormRecords{db: s.db, dialect: s.dialect, now: time.Now}
}

func (s *GormStore) rootDB() *gorm.DB {
	if s.root != nil {
		return s.root
	}
	return s.db
}

// Transaction runs fn inside a database transaction. Nested calls use savepoints.
// On MySQL the record DDL fn runs is undone by hand when the transaction
// rolls back.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.dialect != "mysql" {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&GormStore{db: tx, dialect: s.dialect})
		})
	}

	root := s.rootDB()
	exec := func(sql string) error { return root.WithContext(ctx).Exec(sql).Error }
	journal := &ddlJournal{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, dialect: s.dialect, root: root, journal: journal})
	})
	switch {
	case err != nil:
		return errors.Join(err, journal.rollback(exec))
	case s.journal != nil:
		s.journal.merge(journal)
	default:
		if cerr := journal.commit(exec); cerr != nil {
			slog.Warn("record storage cleanup incomplete", "error", cerr)
		}
	}
	return nil
}

// =============================================================================
// ENTITIES
// =============================================================================

type gormEntities struct {
	db *gorm.DB
}

func (r *gormEntities) decode(rec *EntityRecord) (*models.Entity, error) {
	var e models.Entity
	if err := json.Unmarshal(rec.Definition, &e); err != nil {
		return nil, fmt.Errorf("failed to decode entity %s: %w", rec.Name, err)
	}
	return &e, nil
}

func (r *gormEntities) Read(ctx context.Context) ([]*models.Entity, error) {
	var recs []EntityRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}
	out := make([]*models.Entity, 0, len(recs))
	for i := range recs {
		e, err := r.decode(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	SortEntities(out)
	return out, nil
}

func (r *gormEntities) readOne(ctx context.Context, query string, arg any) (*models.Entity, error) {
	var rec EntityRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entity: %w", err)
	}
	return r.decode(&rec)
}

func (r *gormEntities) ReadByID(ctx context.Context, id uuid.UUID) (*models.Entity, error) {
	return r.readOne(ctx, "id = ?", id)
}

func (r *gormEntities) ReadByName(ctx context.Context, name string) (*models.Entity, error) {
	return r.readOne(ctx, "name = ?", name)
}

func (r *gormEntities) Create(ctx context.Context, entity *models.Entity) error {
	def, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity: %w", err)
	}
	rec := EntityRecord{ID: entity.ID, Name: entity.Name, Definition: datatypes.JSON(def)}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create entity %s: %w", entity.Name, err)
	}
	return nil
}

func (r *gormEntities) Update(ctx context.Context, entity *models.Entity) error {
	def, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode entity: %w", err)
	}
	res := r.db.WithContext(ctx).Model(&EntityRecord{}).
		Where("id = ?", entity.ID).
		Updates(map[string]interface{}{
			"name":       entity.Name,
			"definition": datatypes.JSON(def),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update entity %s: %w", entity.Name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("entity %s does not exist", entity.ID)
	}
	return nil
}

func (r *gormEntities) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&EntityRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete entity %s: %w", id, err)
	}
	return nil
}

// =============================================================================
// RELATIONS
// =============================================================================

type gormRelations struct {
	db *gorm.DB
}

func (r *gormRelations) Read(ctx context.Context) ([]*models.EntityRelation, error) {
	var recs []RelationRecord
	if err := r.db.WithContext(ctx).Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to read relations: %w", err)
	}
	out := make([]*models.EntityRelation, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

func (r *gormRelations) readOne(ctx context.Context, query string, arg any) (*models.EntityRelation, error) {
	var rec RelationRecord
	err := r.db.WithContext(ctx).Where(query, arg).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read relation: %w", err)
	}
	return rec.toModel(), nil
}

func (r *gormRelations) ReadByID(ctx context.Context, id uuid.UUID) (*models.EntityRelation, error) {
	return r.readOne(ctx, "id = ?", id)
}

func (r *gormRelations) ReadByName(ctx context.Context, name string) (*models.EntityRelation, error) {
	return r.readOne(ctx, "name = ?", name)
}

func (r *gormRelations) Create(ctx context.Context, rel *models.EntityRelation) error {
	rec := RelationRecord{
		ID:             rel.ID,
		Name:           rel.Name,
		Label:          rel.Label,
		Description:    rel.Description,
		System:         rel.System,
		RelationType:   int(rel.RelationType),
		OriginEntityID: rel.OriginEntityID,
		OriginFieldID:  rel.OriginFieldID,
		TargetEntityID: rel.TargetEntityID,
		TargetFieldID:  rel.TargetFieldID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to create relation %s: %w", rel.Name, err)
	}
	return nil
}

func (r *gormRelations) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&RelationRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete relation %s: %w", id, err)
	}
	return nil
}

func (r *gormRelations) DeleteByEntity(ctx context.Context, entityID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("origin_entity_id = ? OR target_entity_id = ?", entityID, entityID).
		Delete(&RelationRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete relations of entity %s: %w", entityID, err)
	}
	return nil
}
