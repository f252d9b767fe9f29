package models

import "time"

// Personnel is a military or civilian person assigned to an institution by destination code.
// ImportSequence is set only for records created by a spreadsheet import and is never
// reassigned afterwards.
type Personnel struct {
	ID                 int64         `json:"id,omitempty"`
	Kind               PersonnelKind `json:"kind"`
	Rank               string        `json:"rank,omitempty"`
	CorpsCode          string        `json:"corpsCode,omitempty"`
	OrientationCode    string        `json:"orientationCode,omitempty"`
	Profession         string        `json:"profession,omitempty"`
	Surname            string        `json:"surname"`
	GivenName          string        `json:"givenName"`
	DestinationCode    string        `json:"destinationCode"`
	RegistrationNumber string        `json:"registrationNumber,omitempty"`
	NationalID         string        `json:"nationalId"`
	SpecialtyID        *int64        `json:"specialtyId,omitempty"`
	SpecialtyName      string        `json:"specialtyName,omitempty"`
	ImportSequence     *int64        `json:"importSequence"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// IsMilitary reports whether the record is military
func (p *Personnel) IsMilitary() bool {
	return p.Kind == KindMilitary
}
