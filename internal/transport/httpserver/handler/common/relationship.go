package common

import (
	"time"

	relationshipsdomain "feedback360-go/internal/domain/relationships"
)

type PartyResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}

type RelationshipResponse struct {
	ID           string        `json:"id"`
	Relationship string        `json:"relationship"`
	IsSelf       bool          `json:"is_self"`
	Subject      PartyResponse `json:"subject"`
	Evaluator    PartyResponse `json:"evaluator"`
	CreatedAt    time.Time     `json:"created_at"`
}

func ToRelationshipResponse(view relationshipsdomain.RelationshipView) RelationshipResponse {
	return RelationshipResponse{
		ID:           view.ID,
		Relationship: view.Label,
		IsSelf:       view.IsSelf(),
		Subject:      toPartyResponse(view.Subject),
		Evaluator:    toPartyResponse(view.Evaluator),
		CreatedAt:    view.CreatedAt,
	}
}

func toPartyResponse(party relationshipsdomain.Party) PartyResponse {
	return PartyResponse{
		ID:           party.ID,
		EmployeeID:   party.EmployeeID,
		EmployeeCode: party.EmployeeCode,
		Name:         party.Name,
		Email:        party.Email,
	}
}
