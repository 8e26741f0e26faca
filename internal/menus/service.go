package menus

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-dyncms/internal/domain"
	"github.com/goliatone/go-dyncms/internal/identity"
	"github.com/goliatone/go-dyncms/internal/logging"
	"github.com/goliatone/go-dyncms/internal/permissions"
	"github.com/goliatone/go-dyncms/pkg/activity"
	"github.com/goliatone/go-dyncms/pkg/interfaces"
	"github.com/google/uuid"
)

// Service manages navigation entries.
type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (*Entry, error)
	Update(ctx context.Context, req UpdateEntryRequest) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) (int, error)
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Tree(ctx context.Context) (*Tree, error)
	TreeForRole(ctx context.Context, role permissions.Role) ([]*Node, error)
	MoveUp(ctx context.Context, id uuid.UUID) error
	MoveDown(ctx context.Context, id uuid.UUID) error
	NextOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
	ListByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]*Entry, error)
	DeleteByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error)
	SeedAdminNavigation(ctx context.Context) (int, error)
}

// CreateEntryRequest describes a new entry. ID is optional and lets seeds
// use stable identifiers.
type CreateEntryRequest struct {
	ID            uuid.UUID
	Label         string
	Link          string
	ParentID      *uuid.UUID
	Order         *int
	Icon          string
	ContentTypeID *uuid.UUID
	RequiredRole  permissions.Role
}

// UpdateEntryRequest merges non-nil members. ClearParent moves the entry to
// the root level and ClearOrder drops its explicit order.
type UpdateEntryRequest struct {
	ID           uuid.UUID
	Label        *string
	Link         *string
	ParentID     *uuid.UUID
	ClearParent  bool
	Order        *int
	ClearOrder   bool
	Icon         *string
	RequiredRole *permissions.Role
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) (*Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Update(ctx context.Context, entry *Entry) (*Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ActivityObjectType tags menu entry activity events.
const ActivityObjectType = "menu_item"

var (
	ErrLabelRequired = errors.New("menu: label is required")
	ErrIDRequired    = errors.New("menu: id required")
	ErrParentCycle   = errors.New("menu: parent would create a cycle")
	ErrTooDeep       = errors.New("menu: nesting exceeds the maximum depth")
	ErrRoleInvalid   = errors.New("menu: unknown required role")
)

type Option func(*service)

func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator identity.Generator) Option {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithMaxDepth overrides MaxDepth for placement checks and tree building.
func WithMaxDepth(depth int) Option {
	return func(s *service) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		s.logger = logging.Or(logger)
	}
}

func WithActivity(emitter *activity.Emitter) Option {
	return func(s *service) {
		s.activity = emitter
	}
}

type service struct {
	repo     Repository
	now      func() time.Time
	id       identity.Generator
	maxDepth int
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:     repo,
		now:      func() time.Time { return time.Now().UTC() },
		id:       identity.Random,
		maxDepth: MaxDepth,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, domain.NewValidationError("label", ErrLabelRequired.Error())
	}
	if req.RequiredRole != "" && !req.RequiredRole.Valid() {
		return nil, domain.NewValidationError("requiredRole", ErrRoleInvalid.Error())
	}
	if req.ParentID != nil {
		entries, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if find(entries, *req.ParentID) == nil {
			return nil, domain.NewValidationError("parentId", (&domain.NotFoundError{Resource: resourceName, Key: req.ParentID.String()}).Error())
		}
		if Depth(entries, *req.ParentID)+1 > s.maxDepth {
			return nil, domain.NewValidationError("parentId", ErrTooDeep.Error())
		}
	}

	id := req.ID
	if id == uuid.Nil {
		id = s.id()
	}
	now := s.now()
	created, err := s.repo.Create(ctx, &Entry{
		ID:            id,
		Label:         label,
		Link:          strings.TrimSpace(req.Link),
		ParentID:      req.ParentID,
		Order:         req.Order,
		Icon:          strings.TrimSpace(req.Icon),
		ContentTypeID: req.ContentTypeID,
		RequiredRole:  req.RequiredRole,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		s.logger.Error("menu.entry.create.failed", "label", label, "error", err)
		return nil, err
	}
	s.logger.Info("menu.entry.create.success", "entry_id", created.ID.String(), "link", created.Link)
	s.emit(ctx, "create", created)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateEntryRequest) (*Entry, error) {
	if req.ID == uuid.Nil {
		return nil, domain.NewValidationError("id", ErrIDRequired.Error())
	}
	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, domain.NewValidationError("label", ErrLabelRequired.Error())
		}
		existing.Label = label
	}
	if req.Link != nil {
		existing.Link = strings.TrimSpace(*req.Link)
	}
	if req.Icon != nil {
		existing.Icon = strings.TrimSpace(*req.Icon)
	}
	if req.RequiredRole != nil {
		if *req.RequiredRole != "" && !req.RequiredRole.Valid() {
			return nil, domain.NewValidationError("requiredRole", ErrRoleInvalid.Error())
		}
		existing.RequiredRole = *req.RequiredRole
	}
	switch {
	case req.ClearOrder:
		existing.Order = nil
	case req.Order != nil:
		existing.Order = IntPtr(*req.Order)
	}
	switch {
	case req.ClearParent:
		existing.ParentID = nil
	case req.ParentID != nil && !sameParent(existing.ParentID, req.ParentID):
		if err := s.checkPlacement(ctx, existing.ID, *req.ParentID); err != nil {
			return nil, err
		}
		parent := *req.ParentID
		existing.ParentID = &parent
	}

	existing.UpdatedAt = s.now()
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		s.logger.Error("menu.entry.update.failed", "entry_id", req.ID.String(), "error", err)
		return nil, err
	}
	s.logger.Info("menu.entry.update.success", "entry_id", updated.ID.String())
	s.emit(ctx, "update", updated)
	return updated, nil
}

func (s *service) checkPlacement(ctx context.Context, id, parentID uuid.UUID) error {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if find(entries, parentID) == nil {
		return domain.NewValidationError("parentId", (&domain.NotFoundError{Resource: resourceName, Key: parentID.String()}).Error())
	}
	if WouldCycle(entries, id, parentID) {
		return domain.NewValidationError("parentId", ErrParentCycle.Error())
	}
	if Depth(entries, parentID)+Height(entries, id) > s.maxDepth {
		return domain.NewValidationError("parentId", ErrTooDeep.Error())
	}
	return nil
}

// Delete removes the entry and its whole subtree, returning how many
// entries were removed.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (int, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	target := find(entries, id)
	if target == nil {
		return 0, &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	removed, err := s.deleteSubtrees(ctx, entries, []*Entry{target})
	if err != nil {
		return len(removed), err
	}
	s.logger.Info("menu.entry.delete.success", "entry_id", id.String(), "removed", len(removed))
	for _, removedID := range removed {
		if removedID != target.ID {
			s.emitRemoved(ctx, removedID)
		}
	}
	s.emit(ctx, "delete", target)
	return len(removed), nil
}

// deleteSubtrees removes descendants before their ancestors and returns the
// removed ids in that order.
func (s *service) deleteSubtrees(ctx context.Context, entries []*Entry, targets []*Entry) ([]uuid.UUID, error) {
	order := deletionOrder(entries, targets)
	removed := make([]uuid.UUID, 0, len(order))
	for _, id := range order {
		if err := s.repo.Delete(ctx, id); err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			s.logger.Error("menu.entry.delete.failed", "entry_id", id.String(), "error", err)
			return removed, err
		}
		removed = append(removed, id)
	}
	return removed, nil
}

// deletionOrder lists targets plus descendants, deepest first, without
// duplicates.
func deletionOrder(entries []*Entry, targets []*Entry) []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	out := []uuid.UUID{}
	for _, target := range targets {
		if seen[target.ID] {
			continue
		}
		group := []uuid.UUID{target.ID}
		for _, descendant := range Descendants(entries, target.ID) {
			group = append(group, descendant.ID)
		}
		for i := len(group) - 1; i >= 0; i-- {
			if !seen[group[i]] {
				seen[group[i]] = true
				out = append(out, group[i])
			}
		}
	}
	return out
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Entry, error) {
	return s.repo.List(ctx)
}

func (s *service) Tree(ctx context.Context) (*Tree, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	tree := Build(entries, s.maxDepth)
	if len(tree.Cycles) > 0 {
		s.logger.Warn("menu.tree.cycle_detected", "entries", len(tree.Cycles))
	}
	return tree, nil
}

func (s *service) TreeForRole(ctx context.Context, role permissions.Role) ([]*Node, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByRole(tree.Roots, role), nil
}

func (s *service) MoveUp(ctx context.Context, id uuid.UUID) error {
	return s.move(ctx, id, MoveUp)
}

func (s *service) MoveDown(ctx context.Context, id uuid.UUID) error {
	return s.move(ctx, id, MoveDown)
}

func (s *service) move(ctx context.Context, id uuid.UUID, fn func([]*Entry, uuid.UUID) []*Entry) error {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if find(entries, id) == nil {
		return &domain.NotFoundError{Resource: resourceName, Key: id.String()}
	}
	now := s.now()
	for _, changed := range fn(entries, id) {
		changed.UpdatedAt = now
		if _, err := s.repo.Update(ctx, changed); err != nil {
			s.logger.Error("menu.entry.move.failed", "entry_id", changed.ID.String(), "error", err)
			return err
		}
	}
	return nil
}

func (s *service) NextOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return NextOrder(entries, parentID), nil
}

func (s *service) ListByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]*Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return byContentType(entries, contentTypeID), nil
}

// DeleteByContentType removes every entry tagged with the id together with
// its subtree and returns the removed ids. Activity is left to the caller.
func (s *service) DeleteByContentType(ctx context.Context, contentTypeID uuid.UUID) ([]uuid.UUID, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	tagged := byContentType(entries, contentTypeID)
	if len(tagged) == 0 {
		return []uuid.UUID{}, nil
	}
	removed, err := s.deleteSubtrees(ctx, entries, tagged)
	if err != nil {
		return removed, err
	}
	s.logger.Info("menu.entry.delete_by_type.success", "content_type_id", contentTypeID.String(), "removed", len(removed))
	return removed, nil
}

func byContentType(entries []*Entry, contentTypeID uuid.UUID) []*Entry {
	out := []*Entry{}
	for _, entry := range entries {
		if entry != nil && entry.ContentTypeID != nil && *entry.ContentTypeID == contentTypeID {
			out = append(out, entry)
		}
	}
	return out
}

func (s *service) emit(ctx context.Context, verb string, entry *Entry) {
	if !s.activity.Enabled() || entry == nil {
		return
	}
	meta := map[string]any{"label": entry.Label, "link": entry.Link}
	if entry.ContentTypeID != nil {
		meta["content_type_id"] = entry.ContentTypeID.String()
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ObjectType: ActivityObjectType,
		ObjectID:   entry.ID.String(),
		Object:     cloneEntry(entry),
		Metadata:   meta,
	})
	if err != nil {
		s.logger.Warn("menu.activity.failed", "error", err)
	}
}

// emitRemoved reports a descendant removed along with its ancestor.
func (s *service) emitRemoved(ctx context.Context, id uuid.UUID) {
	if !s.activity.Enabled() {
		return
	}
	err := s.activity.Emit(ctx, activity.Event{
		Verb:       "delete",
		ObjectType: ActivityObjectType,
		ObjectID:   id.String(),
	})
	if err != nil {
		s.logger.Warn("menu.activity.failed", "error", err)
	}
}
