package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteAuthSession = "/v1/auth/session"
	RouteAuthLogin   = "/v1/auth/login"
	RouteAuthSignUp  = "/v1/auth/signup"
	RouteAuthRefresh = "/v1/auth/refresh"

	RouteMe = "/v1/me"
)
