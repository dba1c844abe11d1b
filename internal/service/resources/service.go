package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
)

// Service реестр ресурсов организации: мойки, сотрудники, автомобили автопарка
// Деактивация ресурса с будущими активными бронированиями блокируется,
// если явно не запрошено force (политика по умолчанию задаётся конфигом)
type Service struct {
	resourceRepo     ResourceRepository
	bookingRepo      BookingRepository
	txManager        TransactionManager
	forceDeactivate  bool
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает реестр ресурсов
func NewService(
	resourceRepo ResourceRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	forceDeactivate bool,
	logger Logger,
) *Service {
	return &Service{
		resourceRepo:    resourceRepo,
		bookingRepo:     bookingRepo,
		txManager:       txManager,
		forceDeactivate: forceDeactivate,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Register регистрирует новый ресурс организации
func (s *Service) Register(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	if res.OrgID <= 0 {
		return nil, fmt.Errorf("%w: orgID must be positive", ErrInvalidInput)
	}
	if res.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, ok := domain.ParseResourceType(string(res.Type)); !ok {
		return nil, fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, res.Type)
	}
	if res.OpenTime == "" {
		res.OpenTime = domain.DefaultOpenTime
	}
	if res.CloseTime == "" {
		res.CloseTime = domain.DefaultCloseTime
	}
	res.Active = true

	created, err := s.resourceRepo.Create(ctx, res)
	if err != nil {
		s.logger.Error("Register: failed to create resource org=%d type=%s: %v", res.OrgID, res.Type, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: created resource id=%d org=%d type=%s", created.ID, created.OrgID, created.Type)
	return created, nil
}

// Get получает ресурс по ID с проверкой принадлежности организации
func (s *Service) Get(ctx context.Context, orgID, resourceID int64) (*domain.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("Get: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	if res.OrgID != orgID {
		s.logger.Warn("Get: resource=%d belongs to org=%d, requested by org=%d", resourceID, res.OrgID, orgID)
		return nil, ErrAccessDenied
	}

	return res, nil
}

// ListActive возвращает активные ресурсы организации указанного типа
// в порядке приоритета аллокатора (наименее недавно бронировавшиеся первыми)
func (s *Service) ListActive(ctx context.Context, orgID int64, resourceType domain.ResourceType) ([]*domain.Resource, error) {
	if _, ok := domain.ParseResourceType(string(resourceType)); !ok {
		return nil, fmt.Errorf("%w: unknown resource type %q", ErrInvalidInput, resourceType)
	}

	list, err := s.resourceRepo.ListActive(ctx, orgID, resourceType)
	if err != nil {
		s.logger.Error("ListActive: repository error for org=%d type=%s: %v", orgID, resourceType, err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	return list, nil
}

// IsActive возвращает true, если ресурс существует и активен
func (s *Service) IsActive(ctx context.Context, resourceID int64) (bool, error) {
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: IsActive - repository error: %v", ErrInternal, err)
	}
	return res.Active, nil
}

// Deactivate мягко выключает ресурс
// При наличии будущих активных бронирований и force=false возвращает
// *InUseError со списком конфликтующих бронирований; с force=true ресурс
// выключается, существующие бронирования остаются назначенными (их
// переназначение — операционное решение, не автоматика)
// Проверка и выключение выполняются в одной транзакции с блокировкой строк
// бронирований, чтобы параллельная аллокация не успела добавить новую бронь
func (s *Service) Deactivate(ctx context.Context, orgID, resourceID int64, force *bool) error {
	res, err := s.Get(ctx, orgID, resourceID)
	if err != nil {
		return err
	}

	forced := s.forceDeactivate
	if force != nil {
		forced = *force
	}

	now := s.timeProvider.Now()

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		future, err := s.bookingRepo.FindFutureActiveByResource(txCtx, res.ID, now, true)
		if err != nil {
			s.logger.Error("Deactivate: failed to find future bookings for resource=%d: %v", res.ID, err)
			return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
		}

		if len(future) > 0 && !forced {
			ids := make([]int64, len(future))
			for i, b := range future {
				ids[i] = b.ID
			}
			s.logger.Warn("Deactivate: resource=%d has %d future active bookings, force=false", res.ID, len(future))
			return &InUseError{ResourceID: res.ID, BookingIDs: ids}
		}

		if err := s.resourceRepo.SetActive(txCtx, res.ID, false); err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				return ErrResourceNotFound
			}
			s.logger.Error("Deactivate: failed to deactivate resource=%d: %v", res.ID, err)
			return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deactivate: resource=%d deactivated (forced=%t)", res.ID, forced)
	return nil
}
