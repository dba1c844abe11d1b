package get_available_slots

import "fmt"

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.OrgID <= 0 {
		return fmt.Errorf("%w: org_id must be positive", ErrValidation)
	}
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resource_id must be positive", ErrValidation)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: service_id must be positive", ErrValidation)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}
