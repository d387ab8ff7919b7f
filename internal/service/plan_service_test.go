package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/repository"
	appErrors "github.com/affcms/festival-api/pkg/errors"
)

type planRepoStub struct {
	plans     map[string]*models.Plan
	listErr   error
	saveErr   error
	saveCalls int
}

func newPlanRepoStub(plans ...*models.Plan) *planRepoStub {
	stub := &planRepoStub{plans: make(map[string]*models.Plan)}
	for _, plan := range plans {
		stub.plans[plan.ID] = plan
	}
	return stub
}

func (s *planRepoStub) List(ctx context.Context, visibleOnly bool) ([]models.Plan, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	result := []models.Plan{}
	for _, plan := range s.plans {
		if visibleOnly && !plan.IsVisible {
			continue
		}
		result = append(result, *plan)
	}
	return result, nil
}

func (s *planRepoStub) FindByID(ctx context.Context, id string) (*models.Plan, error) {
	plan, ok := s.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *plan
	return &copied, nil
}

func (s *planRepoStub) Insert(ctx context.Context, plan *models.Plan) error {
	if plan.ID == "" {
		plan.ID = "plan-new"
	}
	plan.Version = 1
	copied := *plan
	s.plans[plan.ID] = &copied
	return nil
}

func (s *planRepoStub) Save(ctx context.Context, plan *models.Plan) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.plans[plan.ID]; !ok {
		return sql.ErrNoRows
	}
	plan.Version++
	copied := *plan
	s.plans[plan.ID] = &copied
	return nil
}

func (s *planRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.plans[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.plans, id)
	return nil
}

type resolverStub struct {
	err    error
	calls  []string
	result string
}

func (r *resolverStub) Resolve(ctx context.Context, input string) (string, error) {
	r.calls = append(r.calls, input)
	if r.err != nil {
		return "", r.err
	}
	if r.result != "" {
		return r.result, nil
	}
	if input == "" {
		return models.DefaultSlotCategory, nil
	}
	return input, nil
}

func seededPlan() *models.Plan {
	return &models.Plan{
		ID:           "plan-1",
		Year:         2026,
		FestivalName: "Arunachal Film Festival",
		IsVisible:    true,
		Version:      1,
		Days: []models.Day{
			{
				ID:        "day-1",
				DayNumber: 1,
				Date:      "2026-02-10",
				Screens: []models.Screen{
					{
						ID:         "screen-1",
						ScreenName: "Main Hall",
						Slots: []models.Slot{
							{ID: "slot-1", Title: "Opening Film", StartTime: "18:00", EndTime: "19:30", Category: "Film", Order: 1},
						},
					},
				},
			},
		},
	}
}

func newTestPlanService(repo *planRepoStub, resolver *resolverStub) *PlanService {
	if resolver == nil {
		resolver = &resolverStub{}
	}
	return NewPlanService(repo, resolver, nil, validator.New(), nil)
}

func TestPlanServiceCreateValidatesPayload(t *testing.T) {
	service := newTestPlanService(newPlanRepoStub(), nil)
	_, err := service.Create(context.Background(), CreatePlanRequest{Year: 2026})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceCreateAndGet(t *testing.T) {
	repo := newPlanRepoStub()
	service := newTestPlanService(repo, nil)

	created, err := service.Create(context.Background(), CreatePlanRequest{Year: 2026, FestivalName: "Arunachal Film Festival", IsVisible: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Days)

	fetched, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2026, fetched.Year)
}

func TestPlanServiceGetNotFound(t *testing.T) {
	service := newTestPlanService(newPlanRepoStub(), nil)
	_, err := service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceUpdateTouchesOnlyProvidedFields(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	hidden := false
	updated, err := service.Update(context.Background(), "plan-1", UpdatePlanRequest{IsVisible: &hidden})
	require.NoError(t, err)
	assert.False(t, updated.IsVisible)
	assert.Equal(t, 2026, updated.Year)
	assert.Equal(t, "Arunachal Film Festival", updated.FestivalName)
}

func TestPlanServiceDeleteCascades(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	require.NoError(t, service.Delete(context.Background(), "plan-1"))
	_, err := service.Get(context.Background(), "plan-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceStaleSaveMapsToPreconditionFailed(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	repo.saveErr = repository.ErrStaleVersion
	service := newTestPlanService(repo, nil)

	name := "Renamed"
	_, err := service.Update(context.Background(), "plan-1", UpdatePlanRequest{FestivalName: &name})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceCreateDay(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	day, err := service.CreateDay(context.Background(), "plan-1", CreateDayRequest{DayNumber: 2, Date: "2026-02-11"})
	require.NoError(t, err)
	assert.NotEmpty(t, day.ID)
	assert.NotNil(t, day.Screens)

	days, err := service.ListDays(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].DayNumber)
	assert.Equal(t, 2, days[1].DayNumber)
}

func TestPlanServiceListDaysSortsByDayNumber(t *testing.T) {
	plan := seededPlan()
	plan.Days = append(plan.Days, models.Day{ID: "day-0", DayNumber: 0, Date: "2026-02-09"})
	repo := newPlanRepoStub(plan)
	service := newTestPlanService(repo, nil)

	days, err := service.ListDays(context.Background(), "plan-1")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "day-0", days[0].ID)
	assert.Equal(t, "day-1", days[1].ID)
}

func TestPlanServiceDeleteDayCascades(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	require.NoError(t, service.DeleteDay(context.Background(), "plan-1", "day-1"))

	_, err := service.GetScreen(context.Background(), "plan-1", "day-1", "screen-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceCreateScreen(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	screen, err := service.CreateScreen(context.Background(), "plan-1", "day-1", CreateScreenRequest{ScreenName: "Open Air"})
	require.NoError(t, err)
	assert.NotEmpty(t, screen.ID)

	screens, err := service.ListScreens(context.Background(), "plan-1", "day-1")
	require.NoError(t, err)
	assert.Len(t, screens, 2)
}

func TestPlanServiceUpdateScreenRequiresName(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	_, err := service.UpdateScreen(context.Background(), "plan-1", "day-1", "screen-1", UpdateScreenRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceCreateSlotResolvesCategory(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	resolver := &resolverStub{}
	service := newTestPlanService(repo, resolver)

	slot, err := service.CreateSlot(context.Background(), "plan-1", "day-1", "screen-1", CreateSlotRequest{
		Title:     "Director Talk",
		StartTime: "20:00",
		EndTime:   "21:00",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSlotCategory, slot.Category)
	assert.Equal(t, []string{""}, resolver.calls)
}

func TestPlanServiceCreateSlotRejectsOverlap(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	_, err := service.CreateSlot(context.Background(), "plan-1", "day-1", "screen-1", CreateSlotRequest{
		Title:     "Clashing Film",
		StartTime: "19:00",
		EndTime:   "20:30",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, slotConflictSuggestion, appErr.Suggestion)
	// Conflict aborts before the save, the plan stays untouched.
	assert.Zero(t, repo.saveCalls)

	slots, err := service.ListSlots(context.Background(), "plan-1", "day-1", "screen-1")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
}

func TestPlanServiceCreateSlotAllowsTouchingRanges(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	_, err := service.CreateSlot(context.Background(), "plan-1", "day-1", "screen-1", CreateSlotRequest{
		Title:     "Late Show",
		StartTime: "19:30",
		EndTime:   "21:00",
	})
	require.NoError(t, err)
}

func TestPlanServiceCreateSlotAllowsSameTimeOnOtherScreen(t *testing.T) {
	plan := seededPlan()
	plan.Days[0].Screens = append(plan.Days[0].Screens, models.Screen{ID: "screen-2", ScreenName: "Studio"})
	repo := newPlanRepoStub(plan)
	service := newTestPlanService(repo, nil)

	_, err := service.CreateSlot(context.Background(), "plan-1", "day-1", "screen-2", CreateSlotRequest{
		Title:     "Parallel Screening",
		StartTime: "18:00",
		EndTime:   "19:30",
	})
	require.NoError(t, err)
}

func TestPlanServiceUpdateSlotExcludesSelfFromOverlapCheck(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	title := "Opening Film (Extended)"
	slot, err := service.UpdateSlot(context.Background(), "plan-1", "day-1", "screen-1", "slot-1", UpdateSlotRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, slot.Title)
	assert.Equal(t, "18:00", slot.StartTime)
}

func TestPlanServiceUpdateSlotRejectsOverlapWithSibling(t *testing.T) {
	plan := seededPlan()
	plan.Days[0].Screens[0].Slots = append(plan.Days[0].Screens[0].Slots, models.Slot{
		ID: "slot-2", Title: "Short Films", StartTime: "20:00", EndTime: "21:00", Category: "Film", Order: 2,
	})
	repo := newPlanRepoStub(plan)
	service := newTestPlanService(repo, nil)

	end := "20:30"
	_, err := service.UpdateSlot(context.Background(), "plan-1", "day-1", "screen-1", "slot-1", UpdateSlotRequest{EndTime: &end})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceUpdateSlotKeepsCategoryWhenAbsent(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	resolver := &resolverStub{}
	service := newTestPlanService(repo, resolver)

	order := 5
	slot, err := service.UpdateSlot(context.Background(), "plan-1", "day-1", "screen-1", "slot-1", UpdateSlotRequest{Order: &order})
	require.NoError(t, err)
	assert.Equal(t, "Film", slot.Category)
	assert.Empty(t, resolver.calls)
}

func TestPlanServiceUpdateSlotRejectsEmptyTitle(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	empty := ""
	_, err := service.UpdateSlot(context.Background(), "plan-1", "day-1", "screen-1", "slot-1", UpdateSlotRequest{Title: &empty})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPlanServiceDeleteSlot(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	require.NoError(t, service.DeleteSlot(context.Background(), "plan-1", "day-1", "screen-1", "slot-1"))

	slots, err := service.ListSlots(context.Background(), "plan-1", "day-1", "screen-1")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestPlanServiceListSlotsSortsByOrder(t *testing.T) {
	plan := seededPlan()
	plan.Days[0].Screens[0].Slots = []models.Slot{
		{ID: "slot-b", Title: "B", StartTime: "20:00", EndTime: "21:00", Order: 2},
		{ID: "slot-a", Title: "A", StartTime: "18:00", EndTime: "19:30", Order: 1},
	}
	repo := newPlanRepoStub(plan)
	service := newTestPlanService(repo, nil)

	slots, err := service.ListSlots(context.Background(), "plan-1", "day-1", "screen-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "slot-a", slots[0].ID)
	assert.Equal(t, "slot-b", slots[1].ID)
}

func TestPlanServiceSlotLookupsReturnNotFound(t *testing.T) {
	repo := newPlanRepoStub(seededPlan())
	service := newTestPlanService(repo, nil)

	cases := []struct {
		name string
		run  func() error
	}{
		{"missing plan", func() error {
			_, err := service.GetSlot(context.Background(), "nope", "day-1", "screen-1", "slot-1")
			return err
		}},
		{"missing day", func() error {
			_, err := service.GetSlot(context.Background(), "plan-1", "nope", "screen-1", "slot-1")
			return err
		}},
		{"missing screen", func() error {
			_, err := service.GetSlot(context.Background(), "plan-1", "day-1", "nope", "slot-1")
			return err
		}},
		{"missing slot", func() error {
			_, err := service.GetSlot(context.Background(), "plan-1", "day-1", "screen-1", "nope")
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestPlanServiceListVisibleOnly(t *testing.T) {
	hidden := seededPlan()
	hidden.ID = "plan-2"
	hidden.IsVisible = false
	repo := newPlanRepoStub(seededPlan(), hidden)
	service := newTestPlanService(repo, nil)

	plans, err := service.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-1", plans[0].ID)

	all, err := service.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
