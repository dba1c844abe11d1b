package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	catalogRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/catalog"
	resourceRepo "github.com/m04kA/CWP-AllocationService/internal/infra/storage/resource"
	"github.com/m04kA/CWP-AllocationService/internal/service/availability"
)

// UseCase use case для получения доступных слотов ресурса на дату
type UseCase struct {
	availability AvailabilityService
	resourceRepo ResourceRepository
	catalogRepo  CatalogRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilitySvc AvailabilityService,
	resourceRepo ResourceRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability: availabilitySvc,
		resourceRepo: resourceRepo,
		catalogRepo:  catalogRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает доступные слоты ресурса на дату для указанной услуги
// Слоты в прошлом отфильтровываются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: org=%d, resource=%d, service=%d, date=%s",
		req.OrgID, req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Ресурс существует и принадлежит организации
	res, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if res.OrgID != req.OrgID {
		uc.logger.Warn("GetAvailableSlots: resource=%d belongs to org=%d, requested org=%d", res.ID, res.OrgID, req.OrgID)
		return nil, ErrResourceNotFound
	}

	// 3. Услуга определяет длительность слота
	svc, err := uc.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if svc.OrgID != req.OrgID {
		uc.logger.Warn("GetAvailableSlots: service=%d belongs to org=%d, requested org=%d", svc.ID, svc.OrgID, req.OrgID)
		return nil, ErrServiceNotFound
	}

	// 4. Свободные слоты в рабочем окне ресурса
	starts, err := uc.availability.FindFreeSlots(ctx, req.ResourceID, req.Date, svc.DurationMinutes)
	if err != nil {
		if errors.Is(err, availability.ErrResourceNotFound) {
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to find free slots for resource=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to find free slots: %v", ErrInternal, err)
	}

	// 5. Слоты, начинающиеся в прошлом, клиенту не показываем
	now := uc.timeProvider.Now()
	duration := time.Duration(svc.DurationMinutes) * time.Minute

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		if !start.After(now) {
			continue
		}
		slots = append(slots, Slot{Start: start, End: start.Add(duration)})
	}

	uc.logger.Info("GetAvailableSlots: resource=%d date=%s: %d slots available",
		req.ResourceID, req.Date.Format(domain.DateFormat), len(slots))

	return &Response{
		ResourceID:      req.ResourceID,
		ServiceID:       svc.ID,
		Date:            req.Date.Format(domain.DateFormat),
		DurationMinutes: svc.DurationMinutes,
		Slots:           slots,
	}, nil
}
