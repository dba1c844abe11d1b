package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fakeBookings struct{ bookings []*domain.Booking }

func (f fakeBookings) FindOverlapping(_ context.Context, resourceID int64, window domain.TimeRange, _ bool) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.References(resourceID) && b.Window().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeResources struct{ resources map[int64]*domain.Resource }

func (f fakeResources) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res, ok := f.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return res, nil
}

var day = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func at(clock string) time.Time {
	parsed, _ := time.Parse(domain.TimeFormat, clock)
	return day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

func activeBooking(resourceID int64, startClock, endClock string) *domain.Booking {
	id := resourceID
	return &domain.Booking{
		EmployeeID:     &id,
		Status:         domain.StatusConfirmed,
		ScheduledStart: at(startClock),
		ScheduledEnd:   at(endClock),
	}
}

func newService(bookings []*domain.Booking, resources map[int64]*domain.Resource, granularity int) *Service {
	return NewService(fakeBookings{bookings}, fakeResources{resources}, granularity, noopLogger{})
}

func TestIsFree(t *testing.T) {
	svc := newService([]*domain.Booking{activeBooking(1, "10:00", "10:30")}, nil, 15)

	free, err := svc.IsFree(context.Background(), 1, at("10:15"), at("10:45"))
	require.NoError(t, err)
	assert.False(t, free, "overlapping window must not be free")

	free, err = svc.IsFree(context.Background(), 1, at("10:30"), at("11:00"))
	require.NoError(t, err)
	assert.True(t, free, "touching endpoint must be free")

	free, err = svc.IsFree(context.Background(), 2, at("10:00"), at("10:30"))
	require.NoError(t, err)
	assert.True(t, free, "other resource must be free")
}

func TestIsFree_InvalidWindow(t *testing.T) {
	svc := newService(nil, nil, 15)

	_, err := svc.IsFree(context.Background(), 1, at("11:00"), at("10:00"))
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.IsFree(context.Background(), 1, at("10:00"), at("10:00"))
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestFindFreeSlots_SkipsBookedWindows(t *testing.T) {
	resources := map[int64]*domain.Resource{
		1: {ID: 1, OpenTime: "10:00", CloseTime: "12:00"},
	}
	bookings := []*domain.Booking{activeBooking(1, "10:30", "11:00")}
	svc := newService(bookings, resources, 30)

	slots, err := svc.FindFreeSlots(context.Background(), 1, day, 30)
	require.NoError(t, err)

	// Рабочее окно 10:00-12:00, шаг 30 минут, занято [10:30, 11:00)
	assert.Equal(t, []time.Time{at("10:00"), at("11:00"), at("11:30")}, slots)
}

func TestFindFreeSlots_DurationLongerThanGranularity(t *testing.T) {
	resources := map[int64]*domain.Resource{
		1: {ID: 1, OpenTime: "10:00", CloseTime: "12:00"},
	}
	bookings := []*domain.Booking{activeBooking(1, "11:00", "11:30")}
	svc := newService(bookings, resources, 30)

	slots, err := svc.FindFreeSlots(context.Background(), 1, day, 60)
	require.NoError(t, err)

	// Часовая услуга: слоты 10:30 и 11:00 задели бы [11:00, 11:30),
	// слот 11:30 вышел бы за рабочее окно
	assert.Equal(t, []time.Time{at("10:00")}, slots)
}

func TestFindFreeSlots_CanceledBookingDoesNotBlock(t *testing.T) {
	resources := map[int64]*domain.Resource{
		1: {ID: 1, OpenTime: "10:00", CloseTime: "11:00"},
	}
	canceled := activeBooking(1, "10:00", "10:30")
	canceled.Status = domain.StatusCanceled
	svc := newService([]*domain.Booking{canceled}, resources, 30)

	slots, err := svc.FindFreeSlots(context.Background(), 1, day, 30)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{at("10:00"), at("10:30")}, slots)
}

func TestFindFreeSlots_ResourceNotFound(t *testing.T) {
	svc := newService(nil, map[int64]*domain.Resource{}, 15)

	_, err := svc.FindFreeSlots(context.Background(), 99, day, 30)
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestFindFreeSlots_InvalidDuration(t *testing.T) {
	svc := newService(nil, nil, 15)

	_, err := svc.FindFreeSlots(context.Background(), 1, day, 0)
	require.ErrorIs(t, err, ErrInvalidWindow)
}
