package user

// Type discriminates the two marketplace roles.
type Type string

const (
	TypeFarmer   Type = "FARMER"
	TypeCustomer Type = "CUSTOMER"
)

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	UserType     Type   `json:"user_type"`
	IsActive     bool   `json:"is_active"`
	AuthProvider string `json:"auth_provider"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`

	FarmName        string `json:"farm_name,omitempty"`
	FarmLocation    string `json:"farm_location,omitempty"`
	FarmDescription string `json:"farm_description,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type New struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	UserType Type   `json:"user_type" validate:"required,oneof=FARMER CUSTOMER"`
}

type Up struct {
	FullName        *string `json:"full_name,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	FarmName        *string `json:"farm_name,omitempty"`
	FarmLocation    *string `json:"farm_location,omitempty"`
	FarmDescription *string `json:"farm_description,omitempty"`
}
