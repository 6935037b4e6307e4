package http

// SuccessEnvelope is the body of successful API responses.
type SuccessEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorEnvelope is the body of failed API responses.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"instrumentKey"`
	Message string                 `json:"message,omitempty" example:"instrumentKey is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
