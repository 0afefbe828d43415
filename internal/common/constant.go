package common

// AuthorizationHeaderName is the HTTP header carrying the session token on
// protected requests. The token is sent as is; a "Bearer " prefix is tolerated.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is stripped from the Authorization header when present.
const BearerPrefix = "Bearer "
