package validation

import (
	"context"
	"errors"

	identitydomain "feedback360-go/internal/domain/identity"
)

const (
	reasonCodeRequired = "employee code is required"
	reasonNotFound     = "employee code not found"
	reasonInactive     = "employee is inactive"
)

type IdentityService interface {
	ResolveEmployeeCodes(ctx context.Context, tenantID string, codes []string) ([]identitydomain.CodeResolution, error)
}

type Service struct {
	identity IdentityService
}

func NewService(identity IdentityService) *Service {
	return &Service{identity: identity}
}

// ValidateEmployeeCodes checks that each code names an active employee of the
// tenant. Codes of other tenants are reported exactly like unknown codes.
func (s *Service) ValidateEmployeeCodes(ctx context.Context, tenantID string, codes []string, role identitydomain.Role) (Response, error) {
	if !role.Valid() {
		return Response{}, ErrInvalidRole
	}
	if len(codes) == 0 {
		return Response{}, ErrNoCodes
	}
	if len(codes) > MaxCodes {
		return Response{}, ErrTooManyCodes
	}

	resolutions, err := s.identity.ResolveEmployeeCodes(ctx, tenantID, codes)
	if err != nil {
		return Response{}, err
	}

	response := Response{
		Role:           role,
		Results:        make([]Result, 0, len(resolutions)),
		TotalRequested: len(codes),
	}
	for _, resolution := range resolutions {
		result := Result{Code: resolution.Code}
		if resolution.Err != nil {
			result.Reason = reason(resolution.Err)
			response.InvalidCount++
		} else {
			result.Valid = true
			result.Identity = identityFor(resolution.Employee, role)
			response.ValidCount++
		}
		response.Results = append(response.Results, result)
	}
	return response, nil
}

func identityFor(snapshot *identitydomain.EmployeeSnapshot, role identitydomain.Role) *Identity {
	identity := &Identity{
		EmployeeID:   snapshot.ID,
		EmployeeCode: snapshot.EmployeeCode,
		Name:         snapshot.Name,
		Email:        snapshot.Email,
		Department:   snapshot.Department,
	}
	if role == identitydomain.RoleSubject {
		identity.RoleID = snapshot.SubjectID
	} else {
		identity.RoleID = snapshot.EvaluatorID
	}
	return identity
}

func reason(err error) string {
	switch {
	case errors.Is(err, identitydomain.ErrEmployeeCodeRequired):
		return reasonCodeRequired
	case errors.Is(err, identitydomain.ErrEmployeeInactive):
		return reasonInactive
	default:
		return reasonNotFound
	}
}
