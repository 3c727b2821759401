package engine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridRow(widths ...int) *models.ViewRow {
	row := &models.ViewRow{ID: uuid.New()}
	for _, w := range widths {
		row.Columns = append(row.Columns, &models.ViewColumn{GridColCount: w})
	}
	return row
}

func viewInput(name string, rows ...*models.ViewRow) *models.RecordView {
	return &models.RecordView{
		Name:  name,
		Label: "View " + name,
		Type:  "general",
		Regions: []*models.ViewRegion{{
			Name:   models.DefaultRegionName,
			Render: true,
			Sections: []*models.ViewSection{{
				ID:    uuid.New(),
				Name:  "details",
				Label: "Details",
				Rows:  rows,
			}},
		}},
	}
}

func TestRecordView_Create(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	e := mustCreateEntity(t, m, "order")

	row := gridRow(4, 4, 4)
	row.Columns[0].Items = models.ViewItems{fieldColumn("created_on"), &models.HtmlItem{Tag: " h3 ", Content: "  Audit  "}}
	in := viewInput("details", row)
	in.Type = "Quick_View"

	resp := m.CreateRecordView(ctx, e.ID, in)
	require.True(t, resp.Success, resp.Errors)
	assert.Equal(t, "The record view was successfully created!", resp.Message)

	view := resp.Object
	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, "quick_view", view.Type)
	section := view.Regions[0].Sections[0]
	assert.Equal(t, models.Weight(1), section.Weight)
	assert.Equal(t, models.Weight(1), section.Rows[0].Weight)

	items := section.Rows[0].Columns[0].Items
	require.Len(t, items, 2)
	field := items[0].(*models.FieldItem)
	assert.Equal(t, e.FieldByName("created_on").Common().ID, field.FieldID)
	assert.Equal(t, "created_on", field.DataName)
	assert.Equal(t, &models.HtmlItem{Tag: "h3", Content: "Audit"}, items[1])

	read := m.ReadRecordViewByName(ctx, "order", "details")
	require.True(t, read.Success)
	assert.Equal(t, view, read.Object)
}

func TestRecordView_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input func(e *models.Entity) *models.RecordView
		keys  []string
	}{
		{"reserved name", func(*models.Entity) *models.RecordView { return viewInput("create") }, []string{"name"}},
		{"missing type", func(*models.Entity) *models.RecordView {
			v := viewInput("details")
			v.Type = ""
			return v
		}, []string{"type"}},
		{"grid not summing to twelve", func(*models.Entity) *models.RecordView {
			return viewInput("details", gridRow(6, 4))
		}, []string{"regions.sections.rows.columns.gridColCount"}},
		{"grid column out of range", func(*models.Entity) *models.RecordView {
			return viewInput("details", gridRow(13))
		}, []string{"regions.sections.rows.columns.gridColCount"}},
		{"unknown field id", func(*models.Entity) *models.RecordView {
			row := gridRow(12)
			row.Columns[0].Items = models.ViewItems{&models.FieldItem{FieldID: uuid.New()}}
			return viewInput("details", row)
		}, []string{"regions.sections.rows.columns.items.fieldId"}},
		{"duplicate section ids", func(*models.Entity) *models.RecordView {
			v := viewInput("details")
			s := v.Regions[0].Sections[0]
			v.Regions[0].Sections = append(v.Regions[0].Sections, &models.ViewSection{ID: s.ID, Name: "more", Label: "More"})
			return v
		}, []string{"regions.sections.id"}},
		{"duplicate region", func(*models.Entity) *models.RecordView {
			v := viewInput("details")
			v.Regions = append(v.Regions, &models.ViewRegion{Name: models.DefaultRegionName})
			return v
		}, []string{"regions.name"}},
		{"missing row id", func(*models.Entity) *models.RecordView {
			row := gridRow(12)
			row.ID = uuid.Nil
			return viewInput("details", row)
		}, []string{"regions.sections.rows.id"}},
		{"unknown sidebar list", func(*models.Entity) *models.RecordView {
			v := viewInput("details")
			v.Sidebar = &models.ViewSidebar{Items: models.SidebarItems{&models.ListItem{ListName: "nope"}}}
			return v
		}, []string{"sidebar.items.listName"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			e := mustCreateEntity(t, m, "order")

			resp := m.CreateRecordView(context.Background(), e.ID, tt.input(e))
			require.False(t, resp.Success)
			assert.Equal(t, "The record view was not created. Validation error occurred!", resp.Message)
			assert.Equal(t, tt.keys, errorKeys(resp.Errors))
		})
	}
}

func TestRecordView_SectionsRenumbered(t *testing.T) {
	m, _ := newTestManager(t)
	e := mustCreateEntity(t, m, "order")

	in := viewInput("details")
	region := in.Regions[0]
	region.Sections[0].Weight = 5
	region.Sections = append(region.Sections,
		&models.ViewSection{ID: uuid.New(), Name: "summary", Label: "Summary", Weight: 2},
		&models.ViewSection{ID: uuid.New(), Name: "extra", Label: "Extra"})

	resp := m.CreateRecordView(context.Background(), e.ID, in)
	require.True(t, resp.Success, resp.Errors)

	var got []string
	for i, s := range resp.Object.Regions[0].Sections {
		got = append(got, s.Name)
		assert.Equal(t, models.Weight(i+1), s.Weight)
	}
	assert.Equal(t, []string{"extra", "summary", "details"}, got)
}

func TestRecordView_RelatedItemsAndReferences(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	customer, order := relatedPair(t, m)
	mustCreateRelation(t, m, customer, order)
	customerList := mustCreateList(t, m, customer.ID, "customers", fieldColumn("created_on"))

	row := gridRow(12)
	row.Columns[0].Items = models.ViewItems{
		&models.RelationFieldItem{RelationName: "customer_orders", FieldName: "name"},
	}
	in := viewInput("details", row)
	in.Sidebar = &models.ViewSidebar{Render: true, Items: models.SidebarItems{
		&models.RelationListItem{RelationName: "customer_orders", ListID: customerList.ID},
	}}

	resp := m.CreateRecordView(ctx, order.ID, in)
	require.True(t, resp.Success, resp.Errors)
	view := resp.Object

	item := view.Regions[0].Sections[0].Rows[0].Columns[0].Items[0].(*models.RelationFieldItem)
	assert.Equal(t, "$field$customer_orders$name", item.DataName)
	assert.Equal(t, customer.ID, item.EntityID)
	assert.Equal(t, customer.FieldByName("name").Common().ID, item.FieldID)

	side := view.Sidebar.Items[0].(*models.RelationListItem)
	assert.Equal(t, "customers", side.ListName)
	assert.Equal(t, "$list$customer_orders$customers", side.DataName)

	del := m.DeleteRecordList(ctx, customer.ID, customerList.ID)
	require.False(t, del.Success)
	assert.Equal(t, "The list is referenced by view 'details' of entity 'order'!", del.Errors[0].Message)

	nameField := customer.FieldByName("name")
	fieldDel := m.DeleteField(ctx, customer.ID, nameField.Common().ID, true)
	require.False(t, fieldDel.Success)
	assert.Contains(t, fieldDel.Errors[0].Message, "view 'details' of entity 'order'")

	require.True(t, m.DeleteRecordViewByName(ctx, "order", "details").Success)
	views := m.ReadRecordViews(ctx, order.ID)
	require.True(t, views.Success)
	assert.Empty(t, views.Object)
	assert.True(t, m.DeleteRecordList(ctx, customer.ID, customerList.ID).Success)
}

func TestRecordView_UpdateKeepsOrder(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	e := mustCreateEntity(t, m, "order")
	first := m.CreateRecordView(ctx, e.ID, viewInput("first")).Object
	second := m.CreateRecordView(ctx, e.ID, viewInput("second")).Object
	require.NotNil(t, first)
	require.NotNil(t, second)

	second.Weight = 1
	second.Label = "Second view"
	resp := m.UpdateRecordView(ctx, e.ID, second)
	require.True(t, resp.Success, resp.Errors)
	assert.Equal(t, "Second view", resp.Object.Label)

	views := m.ReadRecordViewsByName(ctx, "order")
	require.True(t, views.Success)
	require.Len(t, views.Object, 2)
	assert.Equal(t, "second", views.Object[0].Name)
	assert.Equal(t, "first", views.Object[1].Name)

	all := m.ReadAllRecordViews(ctx)
	assert.Len(t, all.Object, 2)

	ghost := viewInput("ghost")
	ghost.ID = uuid.New()
	resp = m.UpdateRecordViewByName(ctx, "order", ghost)
	require.False(t, resp.Success)
	assert.Equal(t, "Record view with such Id does not exist!", resp.Errors[0].Message)
}

func TestRecordView_DeleteSelfReferencing(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	e := mustCreateEntity(t, m, "order")

	resp := m.CreateRecordView(ctx, e.ID, viewInput("details", gridRow(12)))
	require.True(t, resp.Success, resp.Errors)
	view := resp.Object

	view.Regions[0].Sections[0].Rows[0].Columns[0].Items = models.ViewItems{&models.ViewRefItem{ViewName: "details"}}
	resp = m.UpdateRecordView(ctx, e.ID, view)
	require.True(t, resp.Success, resp.Errors)

	del := m.DeleteRecordView(ctx, e.ID, view.ID)
	require.True(t, del.Success, del.Errors)
	assert.Equal(t, view.ID, del.Object.ID)
}
