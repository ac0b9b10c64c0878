package tenants

import "errors"

var (
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrNameRequired         = errors.New("tenant name is required")
	ErrCodeGenerationFailed = errors.New("tenant code generation failed")
)
