package models

type User struct {
	ID        string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Role      string `json:"role,omitempty"` // "customer", "vendor", "admin"
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}
