package handler

// errorResponse is the standard error envelope returned on JSON errors.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Form request types ---

type loginForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
	Role     string `form:"role"     validate:"omitempty,oneof=admin user"`
}

// carForm mirrors the car entry form. EditingID is a hidden field, set
// while editing an existing listing. The image file arrives separately
// as a multipart part, not through Bind.
type carForm struct {
	EditingID string  `form:"editing_id"`
	Brand     string  `form:"brand"   validate:"required,min=2,max=30"`
	Model     string  `form:"model"   validate:"required,min=2,max=30"`
	Year      int     `form:"year"    validate:"required,caryear"`
	Mileage   float64 `form:"mileage" validate:"gte=0"`
	Price     float64 `form:"price"   validate:"gte=0"`
}

// --- JSON response types ---

// imageRefreshResponse carries the reissued signed URL back to the
// browser's img onerror hook.
type imageRefreshResponse struct {
	ImageURL string `json:"imageUrl"`
}
