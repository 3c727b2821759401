package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
)

var recordLists = collection[*models.RecordList]{
	create:   opCreateList,
	update:   opUpdateList,
	remove:   opDeleteList,
	read:     opReadList,
	notFound: msgListNotFound,
	items:    func(e *models.Entity) *[]*models.RecordList { return &e.RecordLists },
	byID:     (*models.Entity).ListByID,
	byName:   (*models.Entity).ListByName,
	validate: (*EntityManager).validateRecordList,
	withID: func(l *models.RecordList, id uuid.UUID) *models.RecordList {
		cp := *l
		cp.ID = id
		return &cp
	},
}

// CreateRecordList adds a record list to the entity with the given id
func (m *EntityManager) CreateRecordList(ctx context.Context, entityID uuid.UUID, list *models.RecordList) *models.RecordListResponse {
	return saveChild(ctx, m, recordLists, byID(entityID), list, false)
}

// CreateRecordListByName adds a record list to the entity with the given name
func (m *EntityManager) CreateRecordListByName(ctx context.Context, entityName string, list *models.RecordList) *models.RecordListResponse {
	return saveChild(ctx, m, recordLists, byName(entityName), list, false)
}

// UpdateRecordList replaces the record list with the same id
func (m *EntityManager) UpdateRecordList(ctx context.Context, entityID uuid.UUID, list *models.RecordList) *models.RecordListResponse {
	return saveChild(ctx, m, recordLists, byID(entityID), list, true)
}

// UpdateRecordListByName replaces the record list with the same id on the named entity
func (m *EntityManager) UpdateRecordListByName(ctx context.Context, entityName string, list *models.RecordList) *models.RecordListResponse {
	return saveChild(ctx, m, recordLists, byName(entityName), list, true)
}

// DeleteRecordList removes a record list by id
func (m *EntityManager) DeleteRecordList(ctx context.Context, entityID, listID uuid.UUID) *models.RecordListResponse {
	return deleteChild(ctx, m, recordLists, byID(entityID), Ref{ID: listID})
}

// DeleteRecordListByName removes a record list by entity and list name
func (m *EntityManager) DeleteRecordListByName(ctx context.Context, entityName, listName string) *models.RecordListResponse {
	return deleteChild(ctx, m, recordLists, byName(entityName), Ref{Name: listName})
}

// ReadRecordLists returns the enriched record lists of an entity
func (m *EntityManager) ReadRecordLists(ctx context.Context, entityID uuid.UUID) *models.RecordListsResponse {
	return readChildren(ctx, m, recordLists, byID(entityID))
}

// ReadRecordListsByName returns the enriched record lists of the named entity
func (m *EntityManager) ReadRecordListsByName(ctx context.Context, entityName string) *models.RecordListsResponse {
	return readChildren(ctx, m, recordLists, byName(entityName))
}

// ReadRecordList returns one enriched record list
func (m *EntityManager) ReadRecordList(ctx context.Context, entityID, listID uuid.UUID) *models.RecordListResponse {
	return readChild(ctx, m, recordLists, byID(entityID), Ref{ID: listID})
}

// ReadRecordListByName returns one enriched record list by entity and list name
func (m *EntityManager) ReadRecordListByName(ctx context.Context, entityName, listName string) *models.RecordListResponse {
	return readChild(ctx, m, recordLists, byName(entityName), Ref{Name: listName})
}

// ReadAllRecordLists returns the enriched record lists of every entity
func (m *EntityManager) ReadAllRecordLists(ctx context.Context) *models.RecordListsResponse {
	return readAllChildren(ctx, m, recordLists)
}
