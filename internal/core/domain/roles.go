package domain

// Roles carried in the bearer token of write requests.
const (
	RoleAdmin   = "admin"
	RoleCarrier = "carrier"
)
