package models

// PersonnelKind distinguishes military from civilian records
type PersonnelKind string

const (
	KindMilitary PersonnelKind = "military"
	KindCivilian PersonnelKind = "civilian"
)

// Valid reports whether k is a known kind
func (k PersonnelKind) Valid() bool {
	return k == KindMilitary || k == KindCivilian
}

// InstitutionKind is the kind of place personnel are assigned to
type InstitutionKind string

const (
	InstitutionHospital   InstitutionKind = "hospital"
	InstitutionInfirmary  InstitutionKind = "infirmary"
	InstitutionNonMedical InstitutionKind = "non-medical-destination"
)

// Valid reports whether k is a known institution kind
func (k InstitutionKind) Valid() bool {
	switch k {
	case InstitutionHospital, InstitutionInfirmary, InstitutionNonMedical:
		return true
	}
	return false
}

// Category is the institution complexity category
type Category string

const (
	CategoryI   Category = "I"
	CategoryII  Category = "II"
	CategoryIII Category = "III"
	CategoryNA  Category = "N/A"
)

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	switch c {
	case CategoryI, CategoryII, CategoryIII, CategoryNA:
		return true
	}
	return false
}
