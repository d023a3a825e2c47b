package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/service"
	"remindbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Deliver(ctx context.Context, d Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func sameInstant(want time.Time) any {
	return mock.MatchedBy(func(got time.Time) bool { return got.Equal(want) })
}

var wakeNow = time.Date(2025, 1, 31, 9, 0, 30, 0, time.UTC)

type dispatchFixture struct {
	reminders *testutil.MockReminderRepository
	settings  *testutil.MockSettingsRepository
	sender    *mockSender
	d         *Dispatcher
}

func newDispatchFixture() *dispatchFixture {
	return newDispatchFixtureWithLocks(nil)
}

func newDispatchFixtureWithLocks(locks ChatLocker) *dispatchFixture {
	f := &dispatchFixture{
		reminders: new(testutil.MockReminderRepository),
		settings:  new(testutil.MockSettingsRepository),
		sender:    new(mockSender),
	}
	f.settings.On("GetSettings", mock.Anything, mock.Anything).Return(nil, nil)
	settings := service.NewSettingsService(f.settings, domain.UserSettings{
		Language: domain.LanguageEnglish,
		Timezone: "UTC",
	}, testutil.NewTestLogger())
	f.d = New(f.reminders, settings, f.sender, Config{Batch: 10, Now: testutil.FixedClock(wakeNow), Locks: locks}, testutil.NewTestLogger())
	return f
}

func TestDispatcher_OneOffIsDeletedAfterDelivery(t *testing.T) {
	f := newDispatchFixture()
	rem := testutil.NewTestReminder(1, 10, "Dentist", wakeNow.Add(-time.Minute), domain.FrequencyNone)

	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return([]domain.Reminder{*rem}, nil)
	f.sender.On("Deliver", mock.Anything, mock.MatchedBy(func(d Delivery) bool {
		return d.ReminderID == 1 && d.ChatID == 10 && d.Text == "Dentist" && d.Language == domain.LanguageEnglish
	})).Return(nil)
	f.reminders.On("DeleteReminder", mock.Anything, int64(1)).Return(nil)

	report, err := f.d.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 1, report.Deleted)
	assert.NotEmpty(t, report.WakeID)
	f.reminders.AssertNotCalled(t, "UpdateTrigger", mock.Anything, mock.Anything, mock.Anything)
	f.reminders.AssertExpectations(t)
	f.sender.AssertExpectations(t)
}

func TestDispatcher_RecurringIsAdvanced(t *testing.T) {
	f := newDispatchFixture()
	trigger := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)
	rem := testutil.NewTestReminder(2, 10, "Rent", trigger, domain.FrequencyMonthly)

	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return([]domain.Reminder{*rem}, nil)
	f.sender.On("Deliver", mock.Anything, mock.Anything).Return(nil)
	f.reminders.On("UpdateTrigger", mock.Anything, int64(2), sameInstant(time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC))).Return(nil)

	report, err := f.d.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Rescheduled)
	f.reminders.AssertNotCalled(t, "DeleteReminder", mock.Anything, mock.Anything)
	f.reminders.AssertExpectations(t)
}

func TestDispatcher_RendersInChatZone(t *testing.T) {
	f := newDispatchFixture()
	f.settings.ExpectedCalls = nil
	f.settings.On("GetSettings", mock.Anything, int64(10)).
		Return(testutil.NewTestSettings(10, domain.LanguageRussian, "Etc/GMT-3"), nil)

	rem := testutil.NewTestReminder(3, 10, "Чай", wakeNow.Add(-time.Second), domain.FrequencyNone)
	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return([]domain.Reminder{*rem}, nil)
	f.sender.On("Deliver", mock.Anything, mock.MatchedBy(func(d Delivery) bool {
		return d.Language == domain.LanguageRussian && d.LocalTime.Hour() == 12
	})).Return(nil)
	f.reminders.On("DeleteReminder", mock.Anything, int64(3)).Return(nil)

	_, err := f.d.RunOnce(context.Background())

	require.NoError(t, err)
	f.sender.AssertExpectations(t)
}

func TestDispatcher_FailureDoesNotBlockOthers(t *testing.T) {
	f := newDispatchFixture()
	due := []domain.Reminder{
		*testutil.NewTestReminder(1, 10, "first", wakeNow.Add(-3*time.Minute), domain.FrequencyNone),
		*testutil.NewTestReminder(2, 20, "second", wakeNow.Add(-2*time.Minute), domain.FrequencyNone),
		*testutil.NewTestReminder(3, 30, "third", wakeNow.Add(-time.Minute), domain.FrequencyDaily),
	}

	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return(due, nil)
	f.sender.On("Deliver", mock.Anything, mock.MatchedBy(func(d Delivery) bool { return d.ReminderID == 1 })).
		Return(errors.New("telegram: 502"))
	f.sender.On("Deliver", mock.Anything, mock.MatchedBy(func(d Delivery) bool { return d.ReminderID == 2 })).
		Return(fmt.Errorf("blocked: %w", ErrRecipientUnreachable))
	f.sender.On("Deliver", mock.Anything, mock.MatchedBy(func(d Delivery) bool { return d.ReminderID == 3 })).
		Return(nil)
	f.reminders.On("DeleteReminder", mock.Anything, int64(2)).Return(nil)
	f.reminders.On("UpdateTrigger", mock.Anything, int64(3), sameInstant(due[2].TriggerAt.AddDate(0, 0, 1))).Return(nil)

	report, err := f.d.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Report{
		WakeID:      report.WakeID,
		Due:         3,
		Delivered:   1,
		Rescheduled: 1,
		Retired:     1,
		Failed:      1,
	}, report)
	f.reminders.AssertNotCalled(t, "DeleteReminder", mock.Anything, int64(1))
	f.reminders.AssertExpectations(t)
	f.sender.AssertExpectations(t)
}

func TestDispatcher_ListDueFailure(t *testing.T) {
	f := newDispatchFixture()
	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return(nil, errors.New("db down"))

	_, err := f.d.RunOnce(context.Background())

	assert.Error(t, err)
	f.sender.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestDispatcher_NothingDue(t *testing.T) {
	f := newDispatchFixture()
	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return([]domain.Reminder{}, nil)

	report, err := f.d.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Due)
}

func TestDispatcher_LockedReloadsBeforeDelivery(t *testing.T) {
	f := newDispatchFixtureWithLocks(service.NewChatLocks())
	trigger := wakeNow.Add(-time.Minute)
	due := []domain.Reminder{
		*testutil.NewTestReminder(1, 10, "kept", trigger, domain.FrequencyNone),
		*testutil.NewTestReminder(2, 10, "deleted meanwhile", trigger, domain.FrequencyNone),
		*testutil.NewTestReminder(3, 20, "moved meanwhile", trigger, domain.FrequencyDaily),
	}
	moved := due[2]
	moved.TriggerAt = wakeNow.Add(time.Hour)

	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return(due, nil)
	f.reminders.On("GetReminder", mock.Anything, int64(1)).Return(&due[0], nil)
	f.reminders.On("GetReminder", mock.Anything, int64(2)).Return(nil, nil)
	f.reminders.On("GetReminder", mock.Anything, int64(3)).Return(&moved, nil)
	f.sender.On("Deliver", mock.Anything, mock.MatchedBy(func(d Delivery) bool { return d.ReminderID == 1 })).Return(nil)
	f.reminders.On("DeleteReminder", mock.Anything, int64(1)).Return(nil)

	report, err := f.d.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Delivered)
	assert.Equal(t, 2, report.Stale)
	f.sender.AssertNumberOfCalls(t, "Deliver", 1)
	f.reminders.AssertNotCalled(t, "UpdateTrigger", mock.Anything, mock.Anything, mock.Anything)
	f.reminders.AssertExpectations(t)
}

func TestDispatcher_WaitsForChatLock(t *testing.T) {
	locks := service.NewChatLocks()
	f := newDispatchFixtureWithLocks(locks)
	rem := testutil.NewTestReminder(1, 10, "moved by user", wakeNow.Add(-time.Minute), domain.FrequencyNone)

	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return([]domain.Reminder{*rem}, nil)
	// the user's Move deleted the one-off while holding the chat
	f.reminders.On("GetReminder", mock.Anything, int64(1)).Return(nil, nil)

	unlock := locks.Lock(10)
	done := make(chan Report, 1)
	go func() {
		report, _ := f.d.RunOnce(context.Background())
		done <- report
	}()

	select {
	case <-done:
		t.Fatal("wake finished while the chat was locked")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	report := <-done
	assert.Equal(t, 1, report.Stale)
	f.sender.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

type blockingSender struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSender) Deliver(ctx context.Context, d Delivery) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestDispatcher_OverlappingWakeIsSkipped(t *testing.T) {
	reminders := new(testutil.MockReminderRepository)
	settingsRepo := new(testutil.MockSettingsRepository)
	settingsRepo.On("GetSettings", mock.Anything, mock.Anything).Return(nil, nil)
	settings := service.NewSettingsService(settingsRepo, domain.UserSettings{Language: domain.LanguageEnglish}, testutil.NewTestLogger())

	sender := &blockingSender{entered: make(chan struct{}), release: make(chan struct{})}
	d := New(reminders, settings, sender, Config{Now: testutil.FixedClock(wakeNow)}, testutil.NewTestLogger())

	rem := testutil.NewTestReminder(1, 10, "once", wakeNow, domain.FrequencyNone)
	reminders.On("ListDue", mock.Anything, wakeNow, 100).Return([]domain.Reminder{*rem}, nil).Once()
	reminders.On("DeleteReminder", mock.Anything, int64(1)).Return(nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = d.RunOnce(context.Background())
	}()

	<-sender.entered
	report, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Skipped)

	close(sender.release)
	wg.Wait()

	reminders.AssertNumberOfCalls(t, "ListDue", 1)
	reminders.AssertExpectations(t)
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	f := newDispatchFixture()
	f.d.interval = time.Millisecond
	f.reminders.On("ListDue", mock.Anything, wakeNow, 10).Return([]domain.Reminder{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.d.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
