package emailing

import "errors"

// ErrInvalidationFailed reports that a tenant's cached list could not be
// dropped from the shared cache. The mutation that triggered it is stored.
var ErrInvalidationFailed = errors.New("emailing cache invalidation failed")
