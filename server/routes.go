package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("POST "+RouteAuthSession, ChainMiddleware(s.MakeLoginSessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthSignUp, ChainMiddleware(s.SignUpHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireBearerAuth())...))

	// Browser preflights arrive as OPTIONS and never match the
	// method-qualified patterns above; CorsMiddleware answers them.
	s.RegisterRouteHandler("OPTIONS /v1/", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
