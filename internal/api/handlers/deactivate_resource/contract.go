package deactivate_resource

import "context"

type ResourceService interface {
	Deactivate(ctx context.Context, orgID, resourceID int64, force *bool) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
