package users

// CreateUserPayload is the signup request body.
type CreateUserPayload struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"max=255"`
	Password string `json:"password" validate:"required,min=5,max=128"`
}

type UpdateUserPayload struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=5,max=128"`
}
