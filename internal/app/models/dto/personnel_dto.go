package dto

import (
	"strings"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/roster"
)

// PersonnelRequest is the body of manual personnel create and update. Kind specific fields
// (rank for military, profession for civilians) are checked by the service.
type PersonnelRequest struct {
	Kind               string `json:"kind" binding:"required,oneof=military civilian" example:"military"`
	Rank               string `json:"rank" binding:"max=60" example:"TN"`
	CorpsCode          string `json:"corpsCode" binding:"max=10" example:"ME"`
	OrientationCode    string `json:"orientationCode" binding:"max=10" example:"CL"`
	Profession         string `json:"profession" binding:"max=100"`
	Surname            string `json:"surname" binding:"required,max=100" example:"Gomez"`
	GivenName          string `json:"givenName" binding:"required,max=100" example:"Carlos"`
	DestinationCode    string `json:"destinationCode" binding:"required,destcode" example:"HNPB"`
	RegistrationNumber string `json:"registrationNumber" binding:"max=20" example:"412345"`
	NationalID         string `json:"nationalId" binding:"required,max=20" example:"30111222"`
	SpecialtyID        *int64 `json:"specialtyId" binding:"omitempty,min=1"`
}

// ToModel converts the request into a record without id or import sequence
func (r *PersonnelRequest) ToModel() *models.Personnel {
	return &models.Personnel{
		Kind:               models.PersonnelKind(r.Kind),
		Rank:               strings.TrimSpace(r.Rank),
		CorpsCode:          strings.TrimSpace(r.CorpsCode),
		OrientationCode:    strings.TrimSpace(r.OrientationCode),
		Profession:         strings.TrimSpace(r.Profession),
		Surname:            strings.TrimSpace(r.Surname),
		GivenName:          strings.TrimSpace(r.GivenName),
		DestinationCode:    strings.ToUpper(strings.TrimSpace(r.DestinationCode)),
		RegistrationNumber: strings.TrimSpace(r.RegistrationNumber),
		NationalID:         strings.TrimSpace(r.NationalID),
		SpecialtyID:        r.SpecialtyID,
	}
}

// PersonnelViewResponse is the filtered, ordered list with the filter counters
type PersonnelViewResponse struct {
	Items      []models.Personnel `json:"items"`
	Counts     roster.Counts      `json:"counts"`
	Pagination *PaginationInfo    `json:"pagination,omitempty"`
}
