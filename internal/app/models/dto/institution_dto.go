package dto

import (
	"strings"

	"github.com/disa/mapa/internal/app/models"
)

// InstitutionRequest is the body of institution create and update
type InstitutionRequest struct {
	DestinationCode string  `json:"destinationCode" binding:"required,destcode" example:"HNPB"`
	Name            string  `json:"name" binding:"required,max=200" example:"Hospital Naval Puerto Belgrano"`
	Kind            string  `json:"kind" binding:"required,oneof=hospital infirmary non-medical-destination" example:"hospital"`
	Category        string  `json:"category" binding:"required,oneof=I II III N/A" example:"I"`
	Phone           string  `json:"phone" binding:"omitempty,max=40" example:"+54 291 457-3000"`
	Latitude        float64 `json:"latitude" binding:"min=-90,max=90" example:"-38.8909"`
	Longitude       float64 `json:"longitude" binding:"min=-180,max=180" example:"-62.0987"`
}

// ToModel converts the request; the destination code is stored uppercased
func (r *InstitutionRequest) ToModel() *models.Institution {
	return &models.Institution{
		DestinationCode: strings.ToUpper(strings.TrimSpace(r.DestinationCode)),
		Name:            strings.TrimSpace(r.Name),
		Kind:            models.InstitutionKind(r.Kind),
		Category:        models.Category(r.Category),
		Phone:           strings.TrimSpace(r.Phone),
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}
