package reservation

// CreateRequest is the admin form. Dates are YYYY-MM-DD, instants RFC3339.
type CreateRequest struct {
	ResourceID      *int64 `json:"resource_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	PartySize       *int   `json:"party_size"`
	ReservationDate string `json:"reservation_date"`
	StartAt         string `json:"start_at"`
	EndAt           string `json:"end_at"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

// TourBookingRequest is what a customer submits for a tour date.
type TourBookingRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	PartySize       *int   `json:"party_size"`
	ReservationDate string `json:"reservation_date"`
	Notes           string `json:"notes"`
}

// UpdateRequest applies only the fields that are present.
type UpdateRequest struct {
	ResourceID      *int64  `json:"resource_id"`
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	PartySize       *int    `json:"party_size"`
	ReservationDate *string `json:"reservation_date"`
	StartAt         *string `json:"start_at"`
	EndAt           *string `json:"end_at"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}
