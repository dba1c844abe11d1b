package create_booking

import (
	"fmt"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
// Полностью локальная проверка, выполняется до любых обращений к хранилищу
func validateRequest(req *Request) error {
	if req.OrgID <= 0 {
		return fmt.Errorf("%w: orgID must be positive", ErrValidation)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrValidation)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrValidation)
	}

	if req.CustomerVehicleID <= 0 {
		return fmt.Errorf("%w: customerVehicleID must be positive", ErrValidation)
	}

	if req.ScheduledStart.IsZero() {
		return fmt.Errorf("%w: scheduledStart is required", ErrValidation)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrValidation)
	}

	hasEmail := req.CustomerEmail != nil && *req.CustomerEmail != ""
	hasPhone := req.CustomerPhone != nil && *req.CustomerPhone != ""
	if !hasEmail && !hasPhone {
		return fmt.Errorf("%w: at least one of customerEmail or customerPhone is required", ErrValidation)
	}

	if req.Address != nil && len(*req.Address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address is too long", ErrValidation)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrValidation)
	}

	return nil
}

// validateServiceRules проверяет инварианты типа услуги до резервации:
// mobile — обязателен адрес и запрещена явная мойка;
// center — обязательна мойка (явная или автоподбор) и запрещён адрес
func validateServiceRules(req *Request, svc *domain.Service) error {
	hasAddress := req.Address != nil && *req.Address != ""

	switch svc.Type {
	case domain.ServiceTypeMobile:
		if !hasAddress {
			return fmt.Errorf("%w: address is required for mobile services", ErrValidation)
		}
		if req.WashCenterID != nil {
			return fmt.Errorf("%w: wash center must not be set for mobile services", ErrValidation)
		}
	case domain.ServiceTypeCenter:
		if hasAddress {
			return fmt.Errorf("%w: address must be empty for center services", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, svc.Type)
	}

	return nil
}
