package request_models

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"max=80"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type DemoRequest struct {
	Name string `json:"name" binding:"max=80"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}
