package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guidField(name string) *models.GuidField {
	return &models.GuidField{FieldCommon: models.FieldCommon{ID: uuid.New(), Name: name, Label: name}}
}

// relatedPair creates a customer with a name and an order pointing at it
func relatedPair(t *testing.T, m *EntityManager) (customer, order *models.Entity) {
	t.Helper()
	customer = mustCreateEntity(t, m, "customer", textField("name"))
	order = mustCreateEntity(t, m, "order", guidField("customer_id"))
	return customer, order
}

func relationInput(customer, order *models.Entity) *models.EntityRelation {
	return &models.EntityRelation{
		Name:           "customer_orders",
		Label:          "Customer orders",
		RelationType:   models.OneToMany,
		OriginEntityID: order.ID,
		OriginFieldID:  order.FieldByName("customer_id").Common().ID,
		TargetEntityID: customer.ID,
		TargetFieldID:  customer.FieldByName("id").Common().ID,
	}
}

func mustCreateRelation(t *testing.T, m *EntityManager, customer, order *models.Entity) *models.EntityRelation {
	t.Helper()
	resp := m.CreateRelation(context.Background(), relationInput(customer, order))
	require.True(t, resp.Success, "%s: %v", resp.Message, resp.Errors)
	return resp.Object
}

func TestCreateRelation(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	customer, order := relatedPair(t, m)

	rel := mustCreateRelation(t, m, customer, order)
	assert.NotEqual(t, uuid.Nil, rel.ID)
	assert.Equal(t, "customer_orders", rel.Name)

	byName := m.ReadRelationByName(ctx, "customer_orders")
	require.True(t, byName.Success)
	assert.Equal(t, rel.ID, byName.Object.ID)

	all := m.ReadRelations(ctx)
	require.True(t, all.Success)
	assert.Len(t, all.Object, 1)

	missing := m.ReadRelationByName(ctx, "nope")
	assert.False(t, missing.Success)
	assert.Equal(t, []string{"id"}, errorKeys(missing.Errors))
}

func TestCreateRelation_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.EntityRelation, customer, order *models.Entity)
		keys   []string
	}{
		{"bad name", func(r *models.EntityRelation, _, _ *models.Entity) { r.Name = "Bad Name" }, []string{"name"}},
		{"missing label", func(r *models.EntityRelation, _, _ *models.Entity) { r.Label = "" }, []string{"label"}},
		{"unknown type", func(r *models.EntityRelation, _, _ *models.Entity) { r.RelationType = 9 }, []string{"relationType"}},
		{"unknown origin entity", func(r *models.EntityRelation, _, _ *models.Entity) { r.OriginEntityID = uuid.New() }, []string{"originEntityId"}},
		{"unknown origin field", func(r *models.EntityRelation, _, _ *models.Entity) { r.OriginFieldID = uuid.New() }, []string{"originFieldId"}},
		{"origin is not a guid", func(r *models.EntityRelation, customer, _ *models.Entity) {
			r.OriginEntityID = customer.ID
			r.OriginFieldID = customer.FieldByName("name").Common().ID
		}, []string{"originFieldId"}},
		{"target is not unique", func(r *models.EntityRelation, _, order *models.Entity) {
			r.TargetEntityID = order.ID
			r.TargetFieldID = order.FieldByName("customer_id").Common().ID
		}, []string{"targetFieldId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			customer, order := relatedPair(t, m)
			in := relationInput(customer, order)
			tt.mutate(in, customer, order)

			resp := m.CreateRelation(context.Background(), in)
			require.False(t, resp.Success)
			assert.Equal(t, "The relation was not created. Validation error occurred!", resp.Message)
			assert.Equal(t, tt.keys, errorKeys(resp.Errors))
			assert.Empty(t, m.ReadRelations(context.Background()).Object)
		})
	}
}

func TestCreateRelation_TargetTakenAndDuplicateName(t *testing.T) {
	m, _ := newTestManager(t)
	customer, order := relatedPair(t, m)
	mustCreateRelation(t, m, customer, order)

	resp := m.CreateRelation(context.Background(), relationInput(customer, order))
	require.False(t, resp.Success)
	assert.Equal(t, []string{"name", "targetFieldId"}, errorKeys(resp.Errors))
}

func TestDeleteRelation_RefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	customer, order := relatedPair(t, m)
	rel := mustCreateRelation(t, m, customer, order)

	list := mustCreateList(t, m, order.ID, "with_customer",
		&models.RelationFieldItem{RelationName: "customer_orders", FieldName: "name"})
	col := list.Columns[0].(*models.RelationFieldItem)
	assert.Equal(t, rel.ID, col.RelationID)
	assert.Equal(t, "$field$customer_orders$name", col.DataName)
	assert.Equal(t, "customer", col.EntityName)

	resp := m.DeleteRelation(ctx, rel.ID)
	require.False(t, resp.Success)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "list 'with_customer' of entity 'order'")

	// the customer cannot go while the order list still reaches it
	del := m.DeleteEntity(ctx, customer.ID)
	require.False(t, del.Success)

	require.True(t, m.DeleteRecordList(ctx, order.ID, list.ID).Success)
	resp = m.DeleteRelation(ctx, rel.ID)
	require.True(t, resp.Success, resp.Errors)
	assert.Equal(t, "The relation was successfully deleted!", resp.Message)

	resp = m.DeleteRelation(ctx, rel.ID)
	require.False(t, resp.Success)
	assert.Equal(t, "Relation with such Id does not exist!", resp.Message)
}

func TestRelatedListItem_NotRelated(t *testing.T) {
	m, _ := newTestManager(t)
	customer, order := relatedPair(t, m)
	mustCreateRelation(t, m, customer, order)
	other := mustCreateEntity(t, m, "product")

	resp := m.CreateRecordList(context.Background(), other.ID, listInput("bad",
		&models.RelationFieldItem{RelationName: "customer_orders", FieldName: "name"}))
	require.False(t, resp.Success)
	assert.Equal(t, []string{"columns.relationName"}, errorKeys(resp.Errors))
	assert.Equal(t, "The relation does not involve this entity!", resp.Errors[0].Message)
}
