package httpdto

// VerifyTokenResponse is returned by POST /verify-token
type VerifyTokenResponse struct {
	Valid bool    `json:"valid"`
	User  *string `json:"user"`
}
