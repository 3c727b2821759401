package engine

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphFixture() (*Graph, *models.Entity, *models.Entity, *models.EntityRelation) {
	customer := &models.Entity{ID: uuid.New(), Name: "customer", Fields: models.FieldList{
		&models.GuidField{FieldCommon: models.FieldCommon{ID: uuid.New(), Name: "id", Unique: true}},
		textField("name"),
	}}
	customer.RecordLists = []*models.RecordList{{ID: uuid.New(), Name: "customers"}}
	order := &models.Entity{ID: uuid.New(), Name: "order", Fields: models.FieldList{
		&models.GuidField{FieldCommon: models.FieldCommon{ID: uuid.New(), Name: "id", Unique: true}},
		guidField("customer_id"),
	}}
	rel := &models.EntityRelation{
		ID:             uuid.New(),
		Name:           "customer_orders",
		RelationType:   models.OneToMany,
		OriginEntityID: order.ID,
		OriginFieldID:  order.Fields[1].Common().ID,
		TargetEntityID: customer.ID,
		TargetFieldID:  customer.Fields[0].Common().ID,
	}
	return NewGraph([]*models.Entity{customer, order}, []*models.EntityRelation{rel}), customer, order, rel
}

func resolveKind(t *testing.T, err error) ResolveErrorKind {
	t.Helper()
	var re *ResolveError
	require.True(t, errors.As(err, &re), "got %v", err)
	return re.Kind
}

func TestResolveField(t *testing.T) {
	g, customer, _, _ := graphFixture()
	name := customer.FieldByName("name")

	f, err := g.ResolveField(customer, Ref{Name: "name"})
	require.NoError(t, err)
	assert.Same(t, name, f)

	// the id wins over a stale name
	f, err = g.ResolveField(customer, Ref{ID: name.Common().ID, Name: "old_name"})
	require.NoError(t, err)
	assert.Same(t, name, f)

	_, err = g.ResolveField(customer, Ref{ID: uuid.New(), Name: "name"})
	assert.Equal(t, RefUnknownID, resolveKind(t, err))

	_, err = g.ResolveField(customer, Ref{Name: "missing"})
	assert.Equal(t, RefUnknownName, resolveKind(t, err))

	_, err = g.ResolveField(customer, Ref{})
	assert.Equal(t, RefMissing, resolveKind(t, err))
}

func TestResolveRelation(t *testing.T) {
	g, customer, order, rel := graphFixture()

	got, related, err := g.ResolveRelation(order, Ref{Name: "customer_orders"})
	require.NoError(t, err)
	assert.Same(t, rel, got)
	assert.Same(t, customer, related)

	_, related, err = g.ResolveRelation(customer, Ref{ID: rel.ID})
	require.NoError(t, err)
	assert.Same(t, order, related)

	stranger := &models.Entity{ID: uuid.New(), Name: "product"}
	_, _, err = g.ResolveRelation(stranger, Ref{Name: "customer_orders"})
	assert.Equal(t, RefNotRelated, resolveKind(t, err))
}

func TestResolveItem(t *testing.T) {
	g, customer, order, rel := graphFixture()

	item := &models.RelationListItem{RelationID: rel.ID, ListName: "customers"}
	res, err := g.ResolveItem(order, item)
	require.NoError(t, err)
	assert.Same(t, customer, res.Entity)
	assert.Equal(t, customer.RecordLists[0].ID, res.TargetID())

	canonicalize(item, res)
	assert.Equal(t, "customer_orders", item.RelationName)
	assert.Equal(t, customer.RecordLists[0].ID, item.ListID)

	res, err = g.ResolveItem(order, &models.HtmlItem{Content: "<hr>"})
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestEnrich_DanglingReferenceKeepsStoredName(t *testing.T) {
	g, _, order, _ := graphFixture()
	order.RecordLists = []*models.RecordList{{
		ID:      uuid.New(),
		Name:    "orders",
		Columns: models.ListColumns{&models.FieldItem{FieldName: "gone"}, &models.FieldItem{FieldName: "customer_id"}},
	}}

	out, err := g.Enrich(order)
	require.NoError(t, err)
	cols := out.RecordLists[0].Columns
	assert.Equal(t, "gone", cols[0].(*models.FieldItem).FieldName)
	assert.Empty(t, cols[0].(*models.FieldItem).DataName)
	assert.Equal(t, "customer_id", cols[1].(*models.FieldItem).DataName)
	assert.Empty(t, order.RecordLists[0].Columns[1].(*models.FieldItem).DataName, "the graph entity is left untouched")
}
