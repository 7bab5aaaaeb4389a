package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/model/dto"
	"github.com/devisgym/gym_go_server/internal/repository"
	"github.com/devisgym/gym_go_server/internal/testutil"
)

func setupCatalogService(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	service := NewCatalogService(
		repository.NewPlanRepository(db),
		repository.NewTimeSlotRepository(db),
	)
	return service, db
}

func TestCatalogService_ListPlans(t *testing.T) {
	service, db := setupCatalogService(t)

	testutil.TestPlan(t, db, testutil.WithDuration(12))
	testutil.TestPlan(t, db, testutil.WithDuration(1))
	testutil.TestPlan(t, db, testutil.WithDuration(3))

	plans, err := service.ListPlans()
	require.NoError(t, err)
	require.Len(t, plans, 3)

	// 按时长升序
	assert.Equal(t, 1, plans[0].DurationMonths)
	assert.Equal(t, 3, plans[1].DurationMonths)
	assert.Equal(t, 12, plans[2].DurationMonths)
}

func TestCatalogService_GetPlan_NotFound(t *testing.T) {
	service, _ := setupCatalogService(t)

	_, err := service.GetPlan(99999)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCatalogService_CreateSlot(t *testing.T) {
	service, _ := setupCatalogService(t)

	slot, err := service.CreateSlot(&dto.TimeSlotRequest{
		Session:   model.SessionMorning,
		StartTime: "07:00",
		EndTime:   "09:00",
	})
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)
	assert.Equal(t, model.SessionMorning, slot.Session)
}

func TestCatalogService_CreateSlot_SessionTimeMismatch(t *testing.T) {
	service, _ := setupCatalogService(t)

	// 早场开始时刻 11:00 越界
	_, err := service.CreateSlot(&dto.TimeSlotRequest{
		Session:   model.SessionMorning,
		StartTime: "11:00",
		EndTime:   "12:00",
	})
	assert.ErrorIs(t, err, ErrInvalidSessionTime)

	// 午场 11:00 同样越界
	_, err = service.CreateSlot(&dto.TimeSlotRequest{
		Session:   model.SessionAfternoon,
		StartTime: "11:00",
		EndTime:   "13:00",
	})
	assert.ErrorIs(t, err, ErrInvalidSessionTime)

	// 晚场边界 21:00 合法
	_, err = service.CreateSlot(&dto.TimeSlotRequest{
		Session:   model.SessionEvening,
		StartTime: "21:00",
		EndTime:   "22:00",
	})
	assert.NoError(t, err)
}

func TestCatalogService_CreateSlot_FreeForm(t *testing.T) {
	service, _ := setupCatalogService(t)

	// 无场次的自由时段不做时间带校验
	slot, err := service.CreateSlot(&dto.TimeSlotRequest{
		StartTime: "11:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)
	assert.Empty(t, slot.Session)
}

func TestCatalogService_UpdateSlot(t *testing.T) {
	service, db := setupCatalogService(t)

	slot := testutil.TestTimeSlot(t, db)

	unavailable := false
	updated, err := service.UpdateSlot(slot.ID, &dto.TimeSlotRequest{
		Session:     model.SessionMorning,
		StartTime:   "08:00",
		EndTime:     "10:00",
		IsAvailable: &unavailable,
	})
	require.NoError(t, err)
	assert.Equal(t, "08:00", updated.StartTime)
	assert.False(t, updated.IsAvailable)

	available, err := service.ListAvailableSlots()
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestCatalogService_UpdateSlot_NotFound(t *testing.T) {
	service, _ := setupCatalogService(t)

	_, err := service.UpdateSlot(99999, &dto.TimeSlotRequest{
		StartTime: "08:00",
		EndTime:   "10:00",
	})
	assert.ErrorIs(t, err, ErrTimeSlotNotFound)
}
