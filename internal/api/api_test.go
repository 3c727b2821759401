package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/auth"
	"github.com/railsuser2014/WebVella-ERP/internal/config"
	"github.com/railsuser2014/WebVella-ERP/internal/engine"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  []models.ErrorModel `json:"errors"`
	Object  json.RawMessage     `json:"object"`
}

type testServer struct {
	router *gin.Engine
	tokens *auth.JWTService
	admin  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := engine.NewEntityManager(storage.NewMemoryStore(), logger, engine.Options{})
	tokens := auth.NewJWTService("test-secret", time.Hour)
	h := NewHandler(manager, tokens, logger)

	s := &testServer{
		router: SetupRouter(h, config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}),
		tokens: tokens,
	}
	s.admin = s.token(t, auth.AdministratorRoleID)
	return s
}

func (s *testServer) token(t *testing.T, roles ...uuid.UUID) string {
	t.Helper()
	tok, err := s.tokens.GenerateToken(uuid.New(), roles)
	require.NoError(t, err)
	return tok.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func entityBody(name string, readers ...uuid.UUID) *models.Entity {
	roles := []uuid.UUID{auth.AdministratorRoleID}
	return &models.Entity{
		Name:        name,
		Label:       "Label " + name,
		LabelPlural: "Labels " + name,
		RecordPermissions: &models.RecordPermissions{
			CanRead:   append(roles, readers...),
			CanCreate: roles,
			CanUpdate: roles,
			CanDelete: roles,
		},
	}
}

func (s *testServer) createEntity(t *testing.T, name string, readers ...uuid.UUID) uuid.UUID {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/meta/entity", s.admin, entityBody(name, readers...))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var obj struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &obj))
	return obj.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"regular role", s.token(t, auth.RegularRoleID), http.StatusForbidden},
		{"administrator", s.admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/v1/meta/entity", tt.token, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	other := auth.NewJWTService("other-secret", time.Hour)
	tok, err := other.GenerateToken(uuid.New(), []uuid.UUID{auth.AdministratorRoleID})
	require.NoError(t, err)
	w := s.do(t, http.MethodGet, "/api/v1/meta/entity", tok.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEntityEndpoints(t *testing.T) {
	s := newTestServer(t)
	id := s.createEntity(t, "customer")

	w := s.do(t, http.MethodGet, "/api/v1/meta/entity/customer", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	byName := decode(t, w)
	assert.True(t, byName.Success)

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/"+id.String(), s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(byName.Object), string(decode(t, w).Object))

	patch := entityBody("ignored")
	patch.Label = "Client"
	w = s.do(t, http.MethodPatch, "/api/v1/meta/entity/customer", s.admin, patch)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Entity
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &updated))
	assert.Equal(t, "customer", updated.Name)
	assert.Equal(t, "Client", updated.Label)

	w = s.do(t, http.MethodDelete, "/api/v1/meta/entity/customer", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "The entity was successfully deleted!", decode(t, w).Message)

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "null", string(env.Object))
}

func TestCreateEntity_Rejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/meta/entity", s.admin, []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")

	body := entityBody("Bad Name")
	w = s.do(t, http.MethodPost, "/api/v1/meta/entity", s.admin, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "The entity was not created. Validation error occurred!", env.Message)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "name", env.Errors[0].Key)
}

func TestFieldEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.createEntity(t, "customer")

	field := &models.TextField{
		FieldCommon:  models.FieldCommon{Name: "nickname", Label: "Nickname"},
		DefaultValue: models.Ptr(""),
	}
	body, err := models.EncodeField(field)
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/v1/meta/entity/customer/field", s.admin, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	created, err := models.DecodeField(decode(t, w).Object)
	require.NoError(t, err)
	assert.Equal(t, models.TextFieldType, created.Kind())
	assert.NotEqual(t, uuid.Nil, created.Common().ID)

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer/field/nickname", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	field.Label = "Alias"
	body, err = models.EncodeField(field)
	require.NoError(t, err)
	w = s.do(t, http.MethodPut, "/api/v1/meta/entity/customer/field/"+created.Common().ID.String(), s.admin, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated, err := models.DecodeField(decode(t, w).Object)
	require.NoError(t, err)
	assert.Equal(t, "Alias", updated.Common().Label)

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer/field/unknown", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/meta/entity/customer/field", s.admin, []byte(`{"fieldType":999}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown field type")

	w = s.do(t, http.MethodDelete, "/api/v1/meta/entity/customer/field/nickname", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "The field was successfully deleted!", decode(t, w).Message)
}

func TestRecordListEndpoints(t *testing.T) {
	s := newTestServer(t)
	id := s.createEntity(t, "customer")

	list := &models.RecordList{
		Name:    "all_customers",
		Label:   "All customers",
		Type:    "general",
		Columns: models.ListColumns{&models.FieldItem{FieldName: "created_on"}},
	}
	w := s.do(t, http.MethodPost, "/api/v1/meta/entity/customer/list", s.admin, list)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.RecordList
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &created))
	assert.NotEqual(t, uuid.Nil, created.ID)

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/"+id.String()+"/list/all_customers", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list.Label = "Everyone"
	w = s.do(t, http.MethodPut, "/api/v1/meta/entity/customer/list/"+created.ID.String(), s.admin, list)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.RecordList
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Everyone", updated.Label)

	w = s.do(t, http.MethodGet, "/api/v1/meta/list", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.RecordList
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &all))
	assert.Len(t, all, 1)

	w = s.do(t, http.MethodDelete, "/api/v1/meta/entity/customer/list/all_customers", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer/list/all_customers", s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordViewEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.createEntity(t, "customer")

	view := &models.RecordView{
		Name:  "details",
		Label: "Details",
		Type:  "general",
		Regions: []*models.ViewRegion{{
			Name:   models.DefaultRegionName,
			Render: true,
			Sections: []*models.ViewSection{{
				ID:    uuid.New(),
				Name:  "main",
				Label: "Main",
				Rows: []*models.ViewRow{{
					ID:      uuid.New(),
					Columns: []*models.ViewColumn{{GridColCount: 12}},
				}},
			}},
		}},
	}
	w := s.do(t, http.MethodPost, "/api/v1/meta/entity/customer/view", s.admin, view)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer/view/details", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/meta/view", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/meta/entity/customer/view/details", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "The record view was successfully deleted!", decode(t, w).Message)
}

func TestRelationEndpoints(t *testing.T) {
	s := newTestServer(t)
	customerID := s.createEntity(t, "customer")
	orderID := s.createEntity(t, "order")

	ref := &models.GuidField{FieldCommon: models.FieldCommon{Name: "customer_id", Label: "Customer"}}
	body, err := models.EncodeField(ref)
	require.NoError(t, err)
	w := s.do(t, http.MethodPost, "/api/v1/meta/entity/order/field", s.admin, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	originField, err := models.DecodeField(decode(t, w).Object)
	require.NoError(t, err)

	var customer models.Entity
	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer", s.admin, nil)
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &customer))

	rel := &models.EntityRelation{
		Name:           "customer_orders",
		Label:          "Customer orders",
		RelationType:   models.OneToMany,
		OriginEntityID: orderID,
		OriginFieldID:  originField.Common().ID,
		TargetEntityID: customerID,
		TargetFieldID:  customer.FieldByName("id").Common().ID,
	}
	w = s.do(t, http.MethodPost, "/api/v1/meta/relation", s.admin, rel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/meta/relation/customer_orders", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/meta/relation", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.EntityRelation
	require.NoError(t, json.Unmarshal(decode(t, w).Object, &all))
	assert.Len(t, all, 1)

	w = s.do(t, http.MethodDelete, "/api/v1/meta/relation/customer_orders", s.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "The relation was successfully deleted!", decode(t, w).Message)

	w = s.do(t, http.MethodGet, "/api/v1/meta/relation/"+uuid.NewString(), s.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntityPermissions(t *testing.T) {
	s := newTestServer(t)
	s.createEntity(t, "customer", auth.RegularRoleID)

	w := s.do(t, http.MethodGet, "/api/v1/meta/entity/customer/permissions", s.token(t, auth.RegularRoleID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var perms auth.UserPermission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &perms))
	assert.Equal(t, auth.UserPermission{CanRead: true}, perms)

	w = s.do(t, http.MethodGet, "/api/v1/meta/entity/customer/permissions", s.admin, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &perms))
	assert.Equal(t, auth.UserPermission{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true}, perms)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/v2/nothing", s.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestRecoveryAnswersInternalError(t *testing.T) {
	s := newTestServer(t)
	s.router.GET("/api/boom", func(c *gin.Context) { panic("boom") })

	w := s.do(t, http.MethodGet, "/api/boom", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
