package common

const (
	// AuthorizationHeaderName carries the bearer token on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"

	// RequestIDHeaderName is echoed on every response.
	RequestIDHeaderName = "X-Request-ID"
)
