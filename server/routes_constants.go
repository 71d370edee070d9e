package server

const (
	RouteAuthGoogle     = "/auth/google"
	RouteAuthGoogleCode = "/auth/google/code"
	RouteAuthRefresh    = "/auth/refresh"
	RouteAuthValidate   = "/auth/validate"
	RouteAuthLogout     = "/auth/logout"

	RouteUsersMe = "/users/me"
	RouteHealthz = "/healthz"
)
