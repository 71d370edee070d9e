package server

func (s *Server) initRoutes() {
	api := s.APIMiddleware()

	// Session lifecycle
	s.RegisterRouteFunc("POST "+RouteAuthGoogle, ChainMiddleware(s.GoogleLoginHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthGoogleCode, ChainMiddleware(s.GoogleCodeLoginHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), api...))
	s.RegisterRouteFunc("GET "+RouteAuthValidate, ChainMiddleware(s.ValidateHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), api...))

	// Protected resource routes
	s.RegisterRouteFunc("GET "+RouteUsersMe, ChainMiddleware(s.MeHandler(), append(api, s.Authenticate(), s.RequireUser())...))

	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
}
