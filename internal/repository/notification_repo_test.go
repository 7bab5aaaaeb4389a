package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devisgym/gym_go_server/internal/model"
	"github.com/devisgym/gym_go_server/internal/testutil"
)

func TestNotificationRepository_CreateBroadcast(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)
	u1 := testutil.TestUser(t, db)
	u2 := testutil.TestUser(t, db)

	n := &model.Notification{
		Title:    "春节闭馆通知",
		Message:  "2月10日至2月12日闭馆",
		Type:     model.NotificationTypeHoliday,
		IsActive: true,
	}
	recipients, err := repo.CreateBroadcast(n, []int64{u1.ID, u2.ID})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Equal(t, int64(2), recipients)

	count, err := repo.UnreadCount(u1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationRepository_CreateBroadcast_NoRecipients(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)

	n := &model.Notification{
		Title:    "空通知",
		Message:  "没有收件人",
		Type:     model.NotificationTypeGeneral,
		IsActive: true,
	}
	recipients, err := repo.CreateBroadcast(n, nil)
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	assert.Equal(t, int64(0), recipients)
}

func TestNotificationRepository_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	n1 := &model.Notification{Title: "通知一", Message: "内容一", Type: model.NotificationTypeGeneral, IsActive: true}
	_, err := repo.CreateBroadcast(n1, []int64{user.ID, other.ID})
	require.NoError(t, err)

	n2 := &model.Notification{Title: "通知二", Message: "内容二", Type: model.NotificationTypeEvent, IsActive: true}
	_, err = repo.CreateBroadcast(n2, []int64{user.ID})
	require.NoError(t, err)

	items, total, err := repo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Notification)

	items, total, err = repo.ListByUser(other.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "通知一", items[0].Notification.Title)
}

func TestNotificationRepository_ListByUser_SkipsInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)
	user := testutil.TestUser(t, db)

	active := &model.Notification{Title: "在线", Message: "m", Type: model.NotificationTypeGeneral, IsActive: true}
	_, err := repo.CreateBroadcast(active, []int64{user.ID})
	require.NoError(t, err)

	retired := &model.Notification{Title: "已下线", Message: "m", Type: model.NotificationTypeGeneral, IsActive: true}
	_, err = repo.CreateBroadcast(retired, []int64{user.ID})
	require.NoError(t, err)
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	items, total, err := repo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "在线", items[0].Notification.Title)

	count, err := repo.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)
	user := testutil.TestUser(t, db)

	n := &model.Notification{Title: "通知", Message: "m", Type: model.NotificationTypeUpdate, IsActive: true}
	_, err := repo.CreateBroadcast(n, []int64{user.ID})
	require.NoError(t, err)

	items, _, err := repo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsRead)

	require.NoError(t, repo.MarkRead(items[0].ID))

	found, err := repo.GetUserNotification(items[0].ID, user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsRead)

	count, err := repo.UnreadCount(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationRepository_GetUserNotification_WrongUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewNotificationRepository(db)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	n := &model.Notification{Title: "通知", Message: "m", Type: model.NotificationTypeGeneral, IsActive: true}
	_, err := repo.CreateBroadcast(n, []int64{user.ID})
	require.NoError(t, err)

	items, _, err := repo.ListByUser(user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = repo.GetUserNotification(items[0].ID, other.ID)
	assert.Error(t, err)
}
