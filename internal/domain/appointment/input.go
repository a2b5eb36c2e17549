package appointment

type AvailabilityInput struct {
	SalonID        uint
	ProfessionalID uint
	Date           string
	ServiceIDs     []uint
}

type CreateBookingInput struct {
	SalonID        uint
	ProfessionalID uint
	Date           string
	Time           string
	ServiceIDs     []uint

	CustomerName  string
	CustomerPhone string
	Notes         string

	Origin Origin
	UserID *uint
}
