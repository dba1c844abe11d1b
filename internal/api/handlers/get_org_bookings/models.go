package get_org_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
	"github.com/m04kA/CWP-AllocationService/internal/service/bookings/models"
)

// ParseQuery собирает фильтр бронирований организации из query-параметров
// Поддерживаются resourceId, startDate, endDate (YYYY-MM-DD), status, includeInactive
func ParseQuery(orgID int64, query url.Values) (*models.GetOrgBookingsRequest, error) {
	req := &models.GetOrgBookingsRequest{OrgID: orgID}

	if raw := query.Get("resourceId"); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid resourceId %q: %w", raw, err)
		}
		req.ResourceID = &resourceID
	}

	if raw := query.Get("startDate"); raw != "" {
		startDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate %q: %w", raw, err)
		}
		req.StartDate = &startDate
	}

	if raw := query.Get("endDate"); raw != "" {
		endDate, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate %q: %w", raw, err)
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive %q: %w", raw, err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
