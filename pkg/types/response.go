package types

// ErrorBody is the error payload the storefront backend returns on non-2xx responses.
// Clients read Error, falling back to Message.
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Text returns the first non-empty message field.
func (b ErrorBody) Text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}
