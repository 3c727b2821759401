package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

var recordViews = collection[*models.RecordView]{
	create:   opCreateView,
	update:   opUpdateView,
	remove:   opDeleteView,
	read:     opReadView,
	notFound: msgViewNotFound,
	items:    func(e *models.Entity) *[]*models.RecordView { return &e.RecordViews },
	byID:     (*models.Entity).ViewByID,
	byName:   (*models.Entity).ViewByName,
	validate: (*EntityManager).validateRecordView,
	withID: func(v *models.RecordView, id uuid.UUID) *models.RecordView {
		cp := *v
		cp.ID = id
		return &cp
	},
}

// CreateRecordView adds a record view to the entity with the given id
func (m *EntityManager) CreateRecordView(ctx context.Context, entityID uuid.UUID, view *models.RecordView) *models.RecordViewResponse {
	return saveChild(ctx, m, recordViews, byID(entityID), view, false)
}

// CreateRecordViewByName adds a record view to the entity with the given name
func (m *EntityManager) CreateRecordViewByName(ctx context.Context, entityName string, view *models.RecordView) *models.RecordViewResponse {
	return saveChild(ctx, m, recordViews, byName(entityName), view, false)
}

// UpdateRecordView replaces the record view with the same id
func (m *EntityManager) UpdateRecordView(ctx context.Context, entityID uuid.UUID, view *models.RecordView) *models.RecordViewResponse {
	return saveChild(ctx, m, recordViews, byID(entityID), view, true)
}

// UpdateRecordViewByName replaces the record view with the same id on the named entity
func (m *EntityManager) UpdateRecordViewByName(ctx context.Context, entityName string, view *models.RecordView) *models.RecordViewResponse {
	return saveChild(ctx, m, recordViews, byName(entityName), view, true)
}

// DeleteRecordView removes a record view by id
func (m *EntityManager) DeleteRecordView(ctx context.Context, entityID, viewID uuid.UUID) *models.RecordViewResponse {
	return deleteChild(ctx, m, recordViews, byID(entityID), Ref{ID: viewID})
}

// DeleteRecordViewByName removes a record view by entity and view name
func (m *EntityManager) DeleteRecordViewByName(ctx context.Context, entityName, viewName string) *models.RecordViewResponse {
	return deleteChild(ctx, m, recordViews, byName(entityName), Ref{Name: viewName})
}

// ReadRecordViews returns the enriched record views of an entity
func (m *EntityManager) ReadRecordViews(ctx context.Context, entityID uuid.UUID) *models.RecordViewsResponse {
	return readChildren(ctx, m, recordViews, byID(entityID))
}

// ReadRecordViewsByName returns the enriched record views of the named entity
func (m *EntityManager) ReadRecordViewsByName(ctx context.Context, entityName string) *models.RecordViewsResponse {
	return readChildren(ctx, m, recordViews, byName(entityName))
}

// ReadRecordView returns one enriched record view
func (m *EntityManager) ReadRecordView(ctx context.Context, entityID, viewID uuid.UUID) *models.RecordViewResponse {
	return readChild(ctx, m, recordViews, byID(entityID), Ref{ID: viewID})
}

// ReadRecordViewByName returns one enriched record view by entity and view name
func (m *EntityManager) ReadRecordViewByName(ctx context.Context, entityName, viewName string) *models.RecordViewResponse {
	return readChild(ctx, m, recordViews, byName(entityName), Ref{Name: viewName})
}

// ReadAllRecordViews returns the enriched record views of every entity
func (m *EntityManager) ReadAllRecordViews(ctx context.Context) *models.RecordViewsResponse {
	return readAllChildren(ctx, m, recordViews)
}
