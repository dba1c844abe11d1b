package resources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
	"github.com/m04kA/CWP-AllocationService/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (p fixedTime) Now() time.Time { return p.now }

type fakeResourceRepo struct {
	resources map[int64]*domain.Resource
	nextID    int64
}

func newFakeResourceRepo(resources ...*domain.Resource) *fakeResourceRepo {
	repo := &fakeResourceRepo{resources: make(map[int64]*domain.Resource), nextID: 1}
	for _, res := range resources {
		repo.resources[res.ID] = res
		if res.ID >= repo.nextID {
			repo.nextID = res.ID + 1
		}
	}
	return repo
}

func (r *fakeResourceRepo) Create(_ context.Context, res *domain.Resource) (*domain.Resource, error) {
	created := *res
	created.ID = r.nextID
	r.nextID++
	r.resources[created.ID] = &created
	return &created, nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res, ok := r.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeResourceRepo) ListActive(_ context.Context, orgID int64, resourceType domain.ResourceType) ([]*domain.Resource, error) {
	var out []*domain.Resource
	for _, res := range r.resources {
		if res.OrgID == orgID && res.Type == resourceType && res.Active {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *fakeResourceRepo) SetActive(_ context.Context, id int64, active bool) error {
	res, ok := r.resources[id]
	if !ok {
		return resourceRepo.ErrResourceNotFound
	}
	res.Active = active
	return nil
}

type fakeBookingRepo struct{ future []*domain.Booking }

func (r fakeBookingRepo) FindFutureActiveByResource(_ context.Context, resourceID int64, after time.Time, _ bool) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range r.future {
		if b.ScheduledStart.After(after) && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

var testNow = time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)

func newTestService(repo *fakeResourceRepo, bookings fakeBookingRepo, forceDefault bool) *Service {
	svc := NewService(repo, bookings, passthroughTxManager{}, forceDefault, noopLogger{})
	svc.timeProvider = fixedTime{now: testNow}
	return svc
}

func futureBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:             id,
		Status:         status,
		ScheduledStart: testNow.Add(24 * time.Hour),
		ScheduledEnd:   testNow.Add(24*time.Hour + 30*time.Minute),
	}
}

func TestRegister_Defaults(t *testing.T) {
	repo := newFakeResourceRepo()
	svc := newTestService(repo, fakeBookingRepo{}, false)

	created, err := svc.Register(context.Background(), &domain.Resource{
		OrgID: 1,
		Type:  domain.ResourceWashCenter,
		Name:  "Downtown Center",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, domain.DefaultOpenTime, created.OpenTime)
	assert.Equal(t, domain.DefaultCloseTime, created.CloseTime)
}

func TestRegister_KeepsExplicitHours(t *testing.T) {
	repo := newFakeResourceRepo()
	svc := newTestService(repo, fakeBookingRepo{}, false)

	created, err := svc.Register(context.Background(), &domain.Resource{
		OrgID:     1,
		Type:      domain.ResourceEmployee,
		Name:      "Petr",
		OpenTime:  "09:00",
		CloseTime: "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", created.OpenTime)
	assert.Equal(t, "18:00", created.CloseTime)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestService(newFakeResourceRepo(), fakeBookingRepo{}, false)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.Resource{OrgID: 0, Type: domain.ResourceEmployee, Name: "Petr"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, &domain.Resource{OrgID: 1, Type: domain.ResourceEmployee, Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, &domain.Resource{OrgID: 1, Type: "garage", Name: "Petr"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGet_OrgOwnership(t *testing.T) {
	repo := newFakeResourceRepo(&domain.Resource{ID: 5, OrgID: 1, Type: domain.ResourceWashCenter, Name: "Center", Active: true})
	svc := newTestService(repo, fakeBookingRepo{}, false)
	ctx := context.Background()

	res, err := svc.Get(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "Center", res.Name)

	_, err = svc.Get(ctx, 2, 5)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Get(ctx, 1, 99)
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestDeactivate_NoBookings(t *testing.T) {
	repo := newFakeResourceRepo(&domain.Resource{ID: 5, OrgID: 1, Type: domain.ResourceEmployee, Name: "Petr", Active: true})
	svc := newTestService(repo, fakeBookingRepo{}, false)

	err := svc.Deactivate(context.Background(), 1, 5, nil)
	require.NoError(t, err)
	assert.False(t, repo.resources[5].Active)
}

func TestDeactivate_FutureBookings_Rejected(t *testing.T) {
	repo := newFakeResourceRepo(&domain.Resource{ID: 5, OrgID: 1, Type: domain.ResourceEmployee, Name: "Petr", Active: true})
	bookings := fakeBookingRepo{future: []*domain.Booking{
		futureBooking(10, domain.StatusConfirmed),
		futureBooking(11, domain.StatusPending),
	}}
	svc := newTestService(repo, bookings, false)

	err := svc.Deactivate(context.Background(), 1, 5, nil)
	require.ErrorIs(t, err, ErrResourceInUse)

	var inUse *InUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, int64(5), inUse.ResourceID)
	assert.ElementsMatch(t, []int64{10, 11}, inUse.BookingIDs)

	// Ресурс остаётся активным
	assert.True(t, repo.resources[5].Active)
}

func TestDeactivate_Forced(t *testing.T) {
	repo := newFakeResourceRepo(&domain.Resource{ID: 5, OrgID: 1, Type: domain.ResourceEmployee, Name: "Petr", Active: true})
	bookings := fakeBookingRepo{future: []*domain.Booking{futureBooking(10, domain.StatusConfirmed)}}
	svc := newTestService(repo, bookings, false)

	err := svc.Deactivate(context.Background(), 1, 5, ptr.Ptr(true))
	require.NoError(t, err)
	assert.False(t, repo.resources[5].Active)
}

func TestDeactivate_ConfigDefaultForce(t *testing.T) {
	repo := newFakeResourceRepo(&domain.Resource{ID: 5, OrgID: 1, Type: domain.ResourceEmployee, Name: "Petr", Active: true})
	bookings := fakeBookingRepo{future: []*domain.Booking{futureBooking(10, domain.StatusConfirmed)}}
	svc := newTestService(repo, bookings, true)

	// force из запроса перекрывает конфиг
	err := svc.Deactivate(context.Background(), 1, 5, ptr.Ptr(false))
	require.ErrorIs(t, err, ErrResourceInUse)

	err = svc.Deactivate(context.Background(), 1, 5, nil)
	require.NoError(t, err)
	assert.False(t, repo.resources[5].Active)
}

func TestDeactivate_OtherOrg(t *testing.T) {
	repo := newFakeResourceRepo(&domain.Resource{ID: 5, OrgID: 1, Type: domain.ResourceEmployee, Name: "Petr", Active: true})
	svc := newTestService(repo, fakeBookingRepo{}, false)

	err := svc.Deactivate(context.Background(), 2, 5, nil)
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.True(t, repo.resources[5].Active)
}

func TestIsActive(t *testing.T) {
	repo := newFakeResourceRepo(
		&domain.Resource{ID: 1, OrgID: 1, Type: domain.ResourceEmployee, Name: "Petr", Active: true},
		&domain.Resource{ID: 2, OrgID: 1, Type: domain.ResourceEmployee, Name: "Olga", Active: false},
	)
	svc := newTestService(repo, fakeBookingRepo{}, false)
	ctx := context.Background()

	active, err := svc.IsActive(ctx, 1)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = svc.IsActive(ctx, 2)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.IsActive(ctx, 99)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestListActive_UnknownType(t *testing.T) {
	svc := newTestService(newFakeResourceRepo(), fakeBookingRepo{}, false)

	_, err := svc.ListActive(context.Background(), 1, "garage")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, errors.Is(err, ErrInternal))
}
