package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/repository"
	appErrors "github.com/affcms/festival-api/pkg/errors"
)

const visiblePlansCacheKey = "plans:visible"

type planRepository interface {
	List(ctx context.Context, visibleOnly bool) ([]models.Plan, error)
	FindByID(ctx context.Context, id string) (*models.Plan, error)
	Insert(ctx context.Context, plan *models.Plan) error
	Save(ctx context.Context, plan *models.Plan) error
	Delete(ctx context.Context, id string) error
}

type categoryResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// CreatePlanRequest describes payload for creating a session plan.
type CreatePlanRequest struct {
	Year         int    `json:"year" validate:"required"`
	FestivalName string `json:"festivalName" validate:"required"`
	IsVisible    bool   `json:"isVisible"`
}

// UpdatePlanRequest updates plan fields; only provided fields are touched.
type UpdatePlanRequest struct {
	Year         *int    `json:"year"`
	FestivalName *string `json:"festivalName"`
	IsVisible    *bool   `json:"isVisible"`
}

// CreateDayRequest describes payload for appending a day to a plan.
type CreateDayRequest struct {
	DayNumber int    `json:"dayNumber" validate:"required"`
	Date      string `json:"date" validate:"required"`
}

// UpdateDayRequest updates day fields in place.
type UpdateDayRequest struct {
	DayNumber *int    `json:"dayNumber"`
	Date      *string `json:"date"`
}

// CreateScreenRequest describes payload for appending a screen to a day.
type CreateScreenRequest struct {
	ScreenName string `json:"screenName" validate:"required"`
}

// UpdateScreenRequest renames a screen.
type UpdateScreenRequest struct {
	ScreenName string `json:"screenName" validate:"required"`
}

// CreateSlotRequest describes payload for scheduling a slot on a screen.
type CreateSlotRequest struct {
	Title       string `json:"title" validate:"required"`
	StartTime   string `json:"startTime" validate:"required"`
	EndTime     string `json:"endTime"`
	Director    string `json:"director"`
	Moderator   string `json:"moderator"`
	Duration    string `json:"duration"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// UpdateSlotRequest updates slot fields; only provided fields are touched.
type UpdateSlotRequest struct {
	Title       *string `json:"title"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	Director    *string `json:"director"`
	Moderator   *string `json:"moderator"`
	Duration    *string `json:"duration"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// PlanService owns the Plan → Day → Screen → Slot hierarchy. Every mutation
// is a load, navigate, validate, mutate, save-whole-document sequence; the
// repository rejects stale saves so the overlap check cannot be raced past.
type PlanService struct {
	repo       planRepository
	categories categoryResolver
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPlanService instantiates PlanService.
func NewPlanService(repo planRepository, categories categoryResolver, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, categories: categories, cache: cache, validator: validate, logger: logger}
}

// List returns plans sorted by year descending, optionally only public ones.
func (s *PlanService) List(ctx context.Context, visibleOnly bool) ([]models.Plan, error) {
	if visibleOnly && s.cache.Enabled() {
		var cached []models.Plan
		if hit, err := s.cache.Get(ctx, visiblePlansCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	plans, err := s.repo.List(ctx, visibleOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}

	if visibleOnly && s.cache.Enabled() {
		if err := s.cache.Set(ctx, visiblePlansCacheKey, plans, 0); err != nil {
			s.logger.Warn("failed to cache visible plans", zap.Error(err))
		}
	}
	return plans, nil
}

// Create stores a new empty plan for a festival edition.
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "year and festivalName are required")
	}

	plan := models.Plan{
		Year:         req.Year,
		FestivalName: req.FestivalName,
		IsVisible:    req.IsVisible,
		Days:         []models.Day{},
	}
	if err := s.repo.Insert(ctx, &plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	s.invalidateListings(ctx)
	return &plan, nil
}

// Get loads one plan with its full embedded tree.
func (s *PlanService) Get(ctx context.Context, planID string) (*models.Plan, error) {
	return s.loadPlan(ctx, planID)
}

// Update modifies only the provided plan fields.
func (s *PlanService) Update(ctx context.Context, planID string, req UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if req.Year != nil {
		plan.Year = *req.Year
	}
	if req.FestivalName != nil {
		plan.FestivalName = *req.FestivalName
	}
	if req.IsVisible != nil {
		plan.IsVisible = *req.IsVisible
	}
	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes the plan and, with it, every embedded day, screen and slot.
func (s *PlanService) Delete(ctx context.Context, planID string) error {
	if err := s.repo.Delete(ctx, planID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete plan")
	}
	s.invalidateListings(ctx)
	return nil
}

// ListDays returns the plan's days sorted by dayNumber ascending.
func (s *PlanService) ListDays(ctx context.Context, planID string) ([]models.Day, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return plan.SortedDays(), nil
}

// CreateDay appends a day to the plan.
func (s *PlanService) CreateDay(ctx context.Context, planID string, req CreateDayRequest) (*models.Day, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "dayNumber and date are required")
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	day := models.Day{
		ID:        uuid.NewString(),
		DayNumber: req.DayNumber,
		Date:      req.Date,
		Screens:   []models.Screen{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	plan.Days = append(plan.Days, day)

	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return &day, nil
}

// GetDay returns one day of a plan.
func (s *PlanService) GetDay(ctx context.Context, planID, dayID string) (*models.Day, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}
	return day, nil
}

// UpdateDay mutates a day in place.
func (s *PlanService) UpdateDay(ctx context.Context, planID, dayID string, req UpdateDayRequest) (*models.Day, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}
	if req.DayNumber != nil {
		day.DayNumber = *req.DayNumber
	}
	if req.Date != nil {
		day.Date = *req.Date
	}
	day.UpdatedAt = time.Now().UTC()

	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return day, nil
}

// DeleteDay filters the day out of the plan, cascading to screens and slots.
func (s *PlanService) DeleteDay(ctx context.Context, planID, dayID string) error {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	if !plan.RemoveDay(dayID) {
		return appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}
	return s.savePlan(ctx, plan)
}

// ListScreens returns the screens of a day.
func (s *PlanService) ListScreens(ctx context.Context, planID, dayID string) ([]models.Screen, error) {
	day, err := s.GetDay(ctx, planID, dayID)
	if err != nil {
		return nil, err
	}
	return day.Screens, nil
}

// CreateScreen appends a screen to a day.
func (s *PlanService) CreateScreen(ctx context.Context, planID, dayID string, req CreateScreenRequest) (*models.Screen, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "screenName is required")
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}

	now := time.Now().UTC()
	screen := models.Screen{
		ID:         uuid.NewString(),
		ScreenName: req.ScreenName,
		Slots:      []models.Slot{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	day.Screens = append(day.Screens, screen)

	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return &screen, nil
}

// GetScreen returns one screen of a day.
func (s *PlanService) GetScreen(ctx context.Context, planID, dayID, screenID string) (*models.Screen, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.locateScreen(plan, dayID, screenID)
}

// UpdateScreen renames a screen.
func (s *PlanService) UpdateScreen(ctx context.Context, planID, dayID, screenID string, req UpdateScreenRequest) (*models.Screen, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "screenName is required")
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	screen, err := s.locateScreen(plan, dayID, screenID)
	if err != nil {
		return nil, err
	}
	screen.ScreenName = req.ScreenName
	screen.UpdatedAt = time.Now().UTC()

	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return screen, nil
}

// DeleteScreen filters the screen out of its day, cascading to slots.
func (s *PlanService) DeleteScreen(ctx context.Context, planID, dayID, screenID string) error {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	day := plan.FindDay(dayID)
	if day == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}
	if !day.RemoveScreen(screenID) {
		return appErrors.Clone(appErrors.ErrNotFound, "screen not found")
	}
	return s.savePlan(ctx, plan)
}

// ListSlots returns the slots of a screen sorted by display order.
func (s *PlanService) ListSlots(ctx context.Context, planID, dayID, screenID string) ([]models.Slot, error) {
	screen, err := s.GetScreen(ctx, planID, dayID, screenID)
	if err != nil {
		return nil, err
	}
	return screen.SortedSlots(), nil
}

// CreateSlot schedules a slot on a screen after category resolution and
// overlap validation against every sibling already on that screen. A conflict
// aborts the whole operation; the plan is never partially mutated.
func (s *PlanService) CreateSlot(ctx context.Context, planID, dayID, screenID string, req CreateSlotRequest) (*models.Slot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and startTime are required")
	}
	category, err := s.categories.Resolve(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	screen, err := s.locateScreen(plan, dayID, screenID)
	if err != nil {
		return nil, err
	}
	if err := checkSlotOverlap(req.StartTime, req.EndTime, screen.Slots, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	slot := models.Slot{
		ID:          uuid.NewString(),
		Title:       req.Title,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Director:    req.Director,
		Moderator:   req.Moderator,
		Duration:    req.Duration,
		Category:    category,
		Description: req.Description,
		Order:       req.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	screen.Slots = append(screen.Slots, slot)

	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetSlot returns one slot of a screen.
func (s *PlanService) GetSlot(ctx context.Context, planID, dayID, screenID, slotID string) (*models.Slot, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	screen, err := s.locateScreen(plan, dayID, screenID)
	if err != nil {
		return nil, err
	}
	slot := screen.FindSlot(slotID)
	if slot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	return slot, nil
}

// UpdateSlot mutates only the provided slot fields, re-validating the merged
// time range against every sibling except the slot itself.
func (s *PlanService) UpdateSlot(ctx context.Context, planID, dayID, screenID, slotID string, req UpdateSlotRequest) (*models.Slot, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	screen, err := s.locateScreen(plan, dayID, screenID)
	if err != nil {
		return nil, err
	}
	slot := screen.FindSlot(slotID)
	if slot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}

	startTime := slot.StartTime
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	endTime := slot.EndTime
	if req.EndTime != nil {
		endTime = *req.EndTime
	}
	if startTime == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime is required")
	}
	if req.Title != nil && *req.Title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if err := checkSlotOverlap(startTime, endTime, screen.Slots, slot.ID); err != nil {
		return nil, err
	}

	if req.Category != nil {
		category, err := s.categories.Resolve(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		slot.Category = category
	}
	if req.Title != nil {
		slot.Title = *req.Title
	}
	slot.StartTime = startTime
	slot.EndTime = endTime
	if req.Director != nil {
		slot.Director = *req.Director
	}
	if req.Moderator != nil {
		slot.Moderator = *req.Moderator
	}
	if req.Duration != nil {
		slot.Duration = *req.Duration
	}
	if req.Description != nil {
		slot.Description = *req.Description
	}
	if req.Order != nil {
		slot.Order = *req.Order
	}
	slot.UpdatedAt = time.Now().UTC()

	if err := s.savePlan(ctx, plan); err != nil {
		return nil, err
	}
	return slot, nil
}

// DeleteSlot filters the slot out of its screen.
func (s *PlanService) DeleteSlot(ctx context.Context, planID, dayID, screenID, slotID string) error {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	screen, err := s.locateScreen(plan, dayID, screenID)
	if err != nil {
		return err
	}
	if !screen.RemoveSlot(slotID) {
		return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	return s.savePlan(ctx, plan)
}

func (s *PlanService) loadPlan(ctx context.Context, planID string) (*models.Plan, error) {
	plan, err := s.repo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	return plan, nil
}

func (s *PlanService) savePlan(ctx context.Context, plan *models.Plan) error {
	if err := s.repo.Save(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "plan was modified concurrently, reload and retry")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save plan")
	}
	s.invalidateListings(ctx)
	return nil
}

func (s *PlanService) locateScreen(plan *models.Plan, dayID, screenID string) (*models.Screen, error) {
	day := plan.FindDay(dayID)
	if day == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "day not found")
	}
	screen := day.FindScreen(screenID)
	if screen == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "screen not found")
	}
	return screen, nil
}

func (s *PlanService) invalidateListings(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "plans:*"); err != nil {
		s.logger.Warn("failed to invalidate plan cache", zap.Error(err))
	}
}
