// Package engine implements the entity metadata manager: validated,
// transactional CRUD over entities, fields, record lists, record views and
// relations, with weak references resolved on every read.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/railsuser2014/WebVella-ERP/internal/models"
	"github.com/railsuser2014/WebVella-ERP/internal/storage"
)

// DefaultMaxQueryDepth bounds the nesting of record list queries
const DefaultMaxQueryDepth = 32

// Options tunes the manager
type Options struct {
	// DevelopmentMode exposes internal error details in response messages
	DevelopmentMode bool
	MaxQueryDepth   int
}

// EntityManager is the single entry point for metadata operations
type EntityManager struct {
	store  storage.Store
	logger *slog.Logger
	opts   Options
}

// NewEntityManager creates a manager on top of a store
func NewEntityManager(store storage.Store, logger *slog.Logger, opts Options) *EntityManager {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxQueryDepth <= 0 {
		opts.MaxQueryDepth = DefaultMaxQueryDepth
	}
	return &EntityManager{
		store:  store,
		logger: logger.With("component", "entity_manager"),
		opts:   opts,
	}
}

// WithStore returns a manager bound to another store, usually a transaction
// opened by the caller
func (m *EntityManager) WithStore(s storage.Store) *EntityManager {
	cp := *m
	cp.store = s
	return &cp
}

const msgEntityNotFound = "Entity with such Id does not exist!"

// errInvalid aborts a transaction after validation failed
var errInvalid = errors.New("validation failed")

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// op names the subject and past-tense verb used in response messages
type op struct {
	noun string
	verb string
}

var (
	opCreateEntity = op{"entity", "created"}
	opUpdateEntity = op{"entity", "updated"}
	opDeleteEntity = op{"entity", "deleted"}
	opReadEntity   = op{"entity", "read"}

	opCreateField = op{"field", "created"}
	opUpdateField = op{"field", "updated"}
	opDeleteField = op{"field", "deleted"}
	opReadField   = op{"field", "read"}

	opCreateList = op{"list", "created"}
	opUpdateList = op{"list", "updated"}
	opDeleteList = op{"list", "deleted"}
	opReadList   = op{"list", "read"}

	opCreateView = op{"record view", "created"}
	opUpdateView = op{"record view", "updated"}
	opDeleteView = op{"record view", "deleted"}
	opReadView   = op{"record view", "read"}

	opCreateRelation = op{"relation", "created"}
	opDeleteRelation = op{"relation", "deleted"}
	opReadRelation   = op{"relation", "read"}
)

func (o op) success() string {
	return fmt.Sprintf("The %s was successfully %s!", o.noun, o.verb)
}

func (o op) invalid() string {
	return fmt.Sprintf("The %s was not %s. Validation error occurred!", o.noun, o.verb)
}

func (o op) internal() string {
	return fmt.Sprintf("The %s was not %s. An internal error occurred!", o.noun, o.verb)
}

// rejectInvalid marks resp as failed validation
func rejectInvalid[T any](resp *models.Response[T], o op, errs models.Errors) *models.Response[T] {
	resp.Success = false
	resp.Message = o.invalid()
	resp.Errors = append(resp.Errors, errs...)
	return resp
}

// rejectNotFound marks resp as failed because its subject does not exist
func rejectNotFound[T any](resp *models.Response[T], value, message string) *models.Response[T] {
	resp.Success = false
	resp.Message = message
	resp.Errors = append(resp.Errors, models.NewError("id", value, message))
	return resp
}

// fail marks resp as failed by an internal error
func fail[T any](m *EntityManager, resp *models.Response[T], o op, err error) *models.Response[T] {
	m.logger.Error("metadata operation failed", "subject", o.noun, "action", o.verb, "error", err)
	resp.Success = false
	if m.opts.DevelopmentMode {
		resp.Message = err.Error()
	} else {
		resp.Message = o.internal()
	}
	return resp
}

// notFoundError aborts a transaction whose subject does not exist
type notFoundError struct {
	value   string
	message string
}

func (e *notFoundError) Error() string { return e.message }

func notFound(value, message string) error {
	return &notFoundError{value: value, message: message}
}

// settle maps the result of a transaction onto resp and reports whether the
// operation succeeded. An internal error leaves draft, the object as far as
// it was built, on resp.
func settle[T any](m *EntityManager, resp *models.Response[T], o op, err error, errs models.Errors, draft T) bool {
	var nf *notFoundError
	switch {
	case err == nil:
		return true
	case errors.As(err, &nf):
		rejectNotFound(resp, nf.value, nf.message)
	case errors.Is(err, errInvalid):
		rejectInvalid(resp, o, errs)
	default:
		resp.Object = draft
		fail(m, resp, o, err)
	}
	return false
}

// recoverInto turns a panic inside an operation into an internal-error
// response carrying *draft when draft is set
func recoverInto[T any](m *EntityManager, resp *models.Response[T], o op, draft *T) {
	if r := recover(); r != nil {
		var zero T
		resp.Object = zero
		if draft != nil {
			resp.Object = *draft
		}
		fail(m, resp, o, fmt.Errorf("panic: %v", r))
	}
}

// =============================================================================
// LOOKUPS
// =============================================================================

// entityKey addresses an entity by id or by name
type entityKey struct {
	id   uuid.UUID
	name string
}

func byID(id uuid.UUID) entityKey  { return entityKey{id: id} }
func byName(name string) entityKey { return entityKey{name: name} }

func (k entityKey) value() string {
	if k.name != "" {
		return k.name
	}
	return k.id.String()
}

func loadGraph(ctx context.Context, s storage.Store) (*Graph, error) {
	entities, err := s.Entities().Read(ctx)
	if err != nil {
		return nil, err
	}
	relations, err := s.Relations().Read(ctx)
	if err != nil {
		return nil, err
	}
	return NewGraph(entities, relations), nil
}

// GetEntityByFieldID returns the entity owning the field, or nil
func (m *EntityManager) GetEntityByFieldID(ctx context.Context, fieldID uuid.UUID) (*models.Entity, error) {
	return m.findOwner(ctx, func(e *models.Entity) bool { return e.FieldByID(fieldID) != nil })
}

// GetEntityByListID returns the entity owning the record list, or nil
func (m *EntityManager) GetEntityByListID(ctx context.Context, listID uuid.UUID) (*models.Entity, error) {
	return m.findOwner(ctx, func(e *models.Entity) bool { return e.ListByID(listID) != nil })
}

// GetEntityByViewID returns the entity owning the record view, or nil
func (m *EntityManager) GetEntityByViewID(ctx context.Context, viewID uuid.UUID) (*models.Entity, error) {
	return m.findOwner(ctx, func(e *models.Entity) bool { return e.ViewByID(viewID) != nil })
}

func (m *EntityManager) findOwner(ctx context.Context, owns func(*models.Entity) bool) (*models.Entity, error) {
	entities, err := m.store.Entities().Read(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if owns(e) {
			return e, nil
		}
	}
	return nil, nil
}
