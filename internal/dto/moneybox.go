package dto

// CreateMoneyBoxRequest creates a named shared treasury pool.
type CreateMoneyBoxRequest struct {
	Name          string `json:"name" binding:"required"`
	Code          string `json:"code" binding:"required,lowercase,alphanum"`
	AllowNegative bool   `json:"allowNegative"`
	Notes         string `json:"notes,omitempty"`
}
