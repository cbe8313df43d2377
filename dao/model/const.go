// Enum constants mirror database columns. The first constant of each enum
// starts at iota + 1 so the zero value never passes a required binding check.
package model

// Role of a user on the platform.
type Role uint8

const (
	RoleCustomer Role = iota + 1 // Prospective buyer, lead only
	RoleBuilder                  // Project-owning builder
	RoleAdmin
)

// User status.
type Status uint8

const (
	StatusPending  Status = iota + 1 // Pending status, not yet activated
	StatusActive                     // Active status
	StatusInactive                   // Inactive status
)

// ApartmentType is a floor's unit layout.
type ApartmentType string

const (
	Apartment1BHK ApartmentType = "1BHK"
	Apartment2BHK ApartmentType = "2BHK"
	Apartment3BHK ApartmentType = "3BHK"
)

// ValidApartmentType reports whether t is a known unit layout.
func ValidApartmentType(t ApartmentType) bool {
	switch t {
	case Apartment1BHK, Apartment2BHK, Apartment3BHK:
		return true
	default:
		return false
	}
}
