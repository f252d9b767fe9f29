package dto

import (
	"strings"

	"github.com/disa/mapa/internal/app/models"
)

// LookupRequest is the body of personnel type and specialty create and update
type LookupRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Cardiología"`
	Color       string `json:"color" binding:"required,hexcolor" example:"#e53935"`
	Description string `json:"description" binding:"max=500"`
}

// ToModel converts the request
func (r *LookupRequest) ToModel() *models.Lookup {
	return &models.Lookup{
		Name:        strings.TrimSpace(r.Name),
		Color:       r.Color,
		Description: strings.TrimSpace(r.Description),
	}
}

// FilterOptions seeds the dashboard filters. Warnings name the lookups that could not be
// loaded and were replaced by defaults.
type FilterOptions struct {
	PersonnelTypes []models.Lookup `json:"personnelTypes"`
	Specialties    []models.Lookup `json:"specialties"`
	Warnings       []string        `json:"warnings,omitempty"`
}
