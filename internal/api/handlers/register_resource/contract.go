package register_resource

import (
	"context"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

type ResourceService interface {
	Register(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
