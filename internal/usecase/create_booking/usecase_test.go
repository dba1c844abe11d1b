package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
	vehicleRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/vehicle"
	"github.com/m04kA/CWP-AllocationService/pkg/ptr"
	"github.com/m04kA/CWP-AllocationService/pkg/txmanager"
)

// --- фейки ---

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeStore in-memory хранилище, разделяемое фейковыми репозиториями
// Мьютекс транзакционного менеджера сериализует конкурентные аллокации,
// как SERIALIZABLE + FOR UPDATE в продакшене
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	bookings  []*domain.Booking
	resources map[int64]*domain.Resource
	order     map[domain.ResourceType][]int64
	services  map[int64]*domain.Service
	vehicles  map[int64]*domain.CustomerVehicle
	touched   [][]int64
	events    []*domain.NotificationEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:    1,
		resources: make(map[int64]*domain.Resource),
		order:     make(map[domain.ResourceType][]int64),
		services:  make(map[int64]*domain.Service),
		vehicles:  make(map[int64]*domain.CustomerVehicle),
	}
}

func (s *fakeStore) addResource(id, orgID int64, rtype domain.ResourceType) {
	s.resources[id] = &domain.Resource{ID: id, OrgID: orgID, Type: rtype, Name: "res", Active: true}
	s.order[rtype] = append(s.order[rtype], id)
}

func (s *fakeStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	created := *b
	created.ID = s.nextID
	s.nextID++
	created.CreatedAt = time.Now().UTC()
	created.UpdatedAt = created.CreatedAt
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

func (s *fakeStore) FindOverlapping(_ context.Context, resourceID int64, window domain.TimeRange, _ bool) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range s.bookings {
		if b.IsActive() && b.References(resourceID) && b.Window().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.Resource, error) {
	res, ok := s.resources[id]
	if !ok {
		return nil, errResourceMissing
	}
	return res, nil
}

func (s *fakeStore) ListActive(_ context.Context, orgID int64, rtype domain.ResourceType) ([]*domain.Resource, error) {
	var out []*domain.Resource
	for _, id := range s.order[rtype] {
		res := s.resources[id]
		if res.OrgID == orgID && res.Active {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *fakeStore) TouchLastBooked(_ context.Context, ids []int64, _ time.Time) error {
	s.touched = append(s.touched, ids)
	return nil
}

func (s *fakeStore) Enqueue(_ context.Context, e *domain.NotificationEvent) error {
	s.events = append(s.events, e)
	return nil
}

type fakeCatalog struct{ store *fakeStore }

func (c fakeCatalog) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	svc, ok := c.store.services[id]
	if !ok {
		return nil, errServiceMissing
	}
	return svc, nil
}

type fakeVehicles struct{ store *fakeStore }

func (v fakeVehicles) GetByID(_ context.Context, id int64) (*domain.CustomerVehicle, error) {
	veh, ok := v.store.vehicles[id]
	if !ok {
		return nil, errVehicleMissing
	}
	return veh, nil
}

// Фейковые репозитории возвращают sentinel-ошибки реальных пакетов,
// чтобы errors.Is-маппинг use case отрабатывал как в продакшене
var (
	errResourceMissing = resourceRepo.ErrResourceNotFound
	errServiceMissing  = catalogRepo.ErrServiceNotFound
	errVehicleMissing  = vehicleRepo.ErrVehicleNotFound
)

type lockingTxManager struct{ mu sync.Mutex }

func (m *lockingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type failingTxManager struct{}

func (failingTxManager) DoSerializable(context.Context, func(context.Context) error) error {
	return txmanager.ErrSerialization
}

// --- фикстура ---

const (
	testOrgID     = int64(1)
	testUserID    = int64(42)
	testServiceID = int64(10)
	testVehicleID = int64(100)
)

var testDay = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, svcType domain.ServiceType) (*UseCase, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	store.services[testServiceID] = &domain.Service{
		ID:              testServiceID,
		OrgID:           testOrgID,
		Name:            "Premium Wash",
		Price:           49.90,
		DurationMinutes: 30,
		Type:            svcType,
		Active:          true,
	}
	store.vehicles[testVehicleID] = &domain.CustomerVehicle{
		ID:           testVehicleID,
		UserID:       testUserID,
		LicensePlate: "A123BC",
		Brand:        "Toyota",
		Model:        "Camry",
	}

	uc := NewUseCase(store, store, fakeCatalog{store}, fakeVehicles{store}, store, &lockingTxManager{}, nil, noopLogger{})
	uc.timeProvider = fixedTime{now: testDay.Add(8 * time.Hour)}
	return uc, store
}

func centerRequest(startClock string) *Request {
	start := atClock(startClock)
	return &Request{
		OrgID:             testOrgID,
		UserID:            testUserID,
		ServiceID:         testServiceID,
		CustomerVehicleID: testVehicleID,
		ScheduledStart:    start,
		CustomerName:      "Ivan",
		CustomerEmail:     ptr.Ptr("ivan@example.com"),
	}
}

func mobileRequest(startClock string) *Request {
	req := centerRequest(startClock)
	req.Address = ptr.Ptr("Main st. 1")
	return req
}

func atClock(clock string) time.Time {
	parsed, _ := time.Parse("15:04", clock)
	return testDay.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

// --- тесты ---

func TestExecute_CenterService_AllocatesWashCenterAndEmployee(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	resp, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.WashCenterID)
	require.NotNil(t, resp.EmployeeID)
	assert.Nil(t, resp.FleetVehicleID)
	assert.Equal(t, int64(1), *resp.WashCenterID)
	assert.Equal(t, int64(2), *resp.EmployeeID)
	assert.Equal(t, atClock("10:00"), resp.ScheduledStart)
	assert.Equal(t, atClock("10:30"), resp.ScheduledEnd)
	assert.Equal(t, 49.90, resp.TotalPrice)
	assert.Equal(t, "Premium Wash", resp.ServiceName)

	// Событие о принятой заявке ставится в одной транзакции с бронью
	require.Len(t, store.events, 1)
	assert.Equal(t, domain.EventCreated, store.events[0].Kind)
	assert.Equal(t, domain.ChannelEmail, store.events[0].Channel)
	assert.Equal(t, "ivan@example.com", store.events[0].Recipient)
	assert.Equal(t, "Toyota Camry - A123BC", store.events[0].VehicleInfo)

	require.Len(t, store.touched, 1)
	assert.ElementsMatch(t, []int64{1, 2}, store.touched[0])
}

func TestExecute_MobileService_AllocatesEmployeeAndFleetVehicle(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeMobile)
	store.addResource(1, testOrgID, domain.ResourceEmployee)
	store.addResource(2, testOrgID, domain.ResourceFleetVehicle)

	resp, err := uc.Execute(context.Background(), mobileRequest("10:00"))
	require.NoError(t, err)

	assert.Nil(t, resp.WashCenterID)
	require.NotNil(t, resp.EmployeeID)
	require.NotNil(t, resp.FleetVehicleID)
	require.NotNil(t, resp.Address)
	assert.Equal(t, "Main st. 1", *resp.Address)
}

func TestExecute_MobileWithoutAddress_Rejected(t *testing.T) {
	uc, _ := newFixture(t, domain.ServiceTypeMobile)

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestExecute_CenterWithAddress_Rejected(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	_, err := uc.Execute(context.Background(), mobileRequest("10:00"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestExecute_StartInPast_Rejected(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	_, err := uc.Execute(context.Background(), centerRequest("07:00"))
	require.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestExecute_OverlappingWindow_Conflicts(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)

	// Единственная пара ресурсов занята в [10:00, 10:30)
	_, err = uc.Execute(context.Background(), centerRequest("10:15"))
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_TouchingWindows_DoNotConflict(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)

	// [10:00, 10:30) и [10:30, 11:00) не пересекаются
	resp, err := uc.Execute(context.Background(), centerRequest("10:30"))
	require.NoError(t, err)
	assert.Equal(t, atClock("10:30"), resp.ScheduledStart)
}

func TestExecute_CanceledBookingFreesSlot(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	resp, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)

	// Отмена выводит бронирование из активных статусов
	store.bookings[resp.ID-1].Status = domain.StatusCanceled

	_, err = uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)
}

func TestExecute_PicksNextFreeCandidate(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceWashCenter)
	store.addResource(3, testOrgID, domain.ResourceEmployee)
	store.addResource(4, testOrgID, domain.ResourceEmployee)

	first, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), *first.WashCenterID)
	assert.Equal(t, int64(3), *first.EmployeeID)

	// Первые кандидаты заняты, выбираются следующие в порядке приоритета
	second, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), *second.WashCenterID)
	assert.Equal(t, int64(4), *second.EmployeeID)
}

func TestExecute_NoActiveCandidates_NoResourceAvailable(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	// Сотрудников нет вовсе

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrNoResourceAvailable)
}

func TestExecute_AllCandidatesBusy_SlotUnavailable(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ExplicitWashCenter(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceWashCenter)
	store.addResource(3, testOrgID, domain.ResourceEmployee)

	req := centerRequest("10:00")
	req.WashCenterID = ptr.Ptr(int64(2))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *resp.WashCenterID)
}

func TestExecute_ExplicitWashCenterBusy_SlotUnavailable(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)
	store.addResource(3, testOrgID, domain.ResourceEmployee)

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.NoError(t, err)

	// Свободный сотрудник есть, но запрошенная мойка занята
	req := centerRequest("10:00")
	req.WashCenterID = ptr.Ptr(int64(1))
	_, err = uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ExplicitWashCenterOfOtherOrg_NotFound(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)
	store.addResource(9, testOrgID+1, domain.ResourceWashCenter)

	req := centerRequest("10:00")
	req.WashCenterID = ptr.Ptr(int64(9))
	_, err := uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_InactiveService_Rejected(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)
	store.services[testServiceID].Active = false

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_ServiceOfOtherOrg_NotFound(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.services[testServiceID].OrgID = testOrgID + 1

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_VehicleOfOtherUser_NotFound(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)
	store.vehicles[testVehicleID].UserID = testUserID + 1

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestExecute_SerializationExhausted_MapsToSlotUnavailable(t *testing.T) {
	store := newFakeStore()
	store.services[testServiceID] = &domain.Service{
		ID: testServiceID, OrgID: testOrgID, Name: "Wash",
		Price: 10, DurationMinutes: 30, Type: domain.ServiceTypeCenter, Active: true,
	}
	store.vehicles[testVehicleID] = &domain.CustomerVehicle{ID: testVehicleID, UserID: testUserID}
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	uc := NewUseCase(store, store, fakeCatalog{store}, fakeVehicles{store}, store, failingTxManager{}, nil, noopLogger{})
	uc.timeProvider = fixedTime{now: testDay.Add(8 * time.Hour)}

	_, err := uc.Execute(context.Background(), centerRequest("10:00"))
	require.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestExecute_ConcurrentRequests_ExactlyOneWins(t *testing.T) {
	uc, store := newFixture(t, domain.ServiceTypeCenter)
	store.addResource(1, testOrgID, domain.ResourceWashCenter)
	store.addResource(2, testOrgID, domain.ResourceEmployee)

	var wg sync.WaitGroup
	results := make([]error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = uc.Execute(context.Background(), centerRequest("10:00"))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins, "exactly one request must win the slot")
	assert.Equal(t, 1, conflicts, "the loser must observe a slot conflict")
	assert.Len(t, store.bookings, 1)
}
