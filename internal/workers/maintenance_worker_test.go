package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCompleter struct {
	calls int
	err   error
}

func (f *fakeCompleter) CompletePast(ctx context.Context, db *gorm.DB) (int64, error) {
	f.calls++
	return 3, f.err
}

type fakeCleaner struct {
	maxAge time.Duration
}

func (f *fakeCleaner) CleanOldNotifications(ctx context.Context, db *gorm.DB, maxAge time.Duration) (int64, error) {
	f.maxAge = maxAge
	return 0, nil
}

func TestMaintenanceWorker_Jobs(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("db down")}
	cleaner := &fakeCleaner{}
	w := NewMaintenanceWorker(nil, completer, cleaner, MaintenanceConfig{NotificationMaxAge: 48 * time.Hour})

	// ошибка задачи только логируется
	w.CompleteAppointments(context.Background())
	w.CleanNotifications(context.Background())

	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, 48*time.Hour, cleaner.maxAge)
}

func TestMaintenanceWorker_InvalidSpec(t *testing.T) {
	w := NewMaintenanceWorker(nil, &fakeCompleter{}, &fakeCleaner{}, MaintenanceConfig{
		AppointmentsSpec:  "not a cron spec",
		NotificationsSpec: "@daily",
	})
	require.Error(t, w.Start(context.Background()))
}

func TestMaintenanceWorker_StartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewMaintenanceWorker(nil, &fakeCompleter{}, &fakeCleaner{}, MaintenanceConfig{
		AppointmentsSpec:  "@every 1h",
		NotificationsSpec: "0 3 * * *",
	})
	require.NoError(t, w.Start(ctx))
	assert.Len(t, w.cron.Entries(), 2)
	cancel()
}
