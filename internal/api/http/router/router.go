package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	authhandler "github.com/aibanking/auth-server/internal/api/http/handler"
	"github.com/aibanking/auth-server/internal/api/http/middleware"
	"github.com/aibanking/auth-server/internal/logger"
	"github.com/aibanking/auth-server/internal/model"
)

// Router wires handlers and middleware into the HTTP route table.
type Router struct {
	authHandler  *authhandler.Auth
	authenticate *middleware.Authenticate
	logging      *middleware.Logging
}

// New creates a new Router.
func New(
	authService authhandler.AuthService,
	tokens middleware.TokenParser,
	userStore model.UserStore,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authHandler:  authhandler.NewAuth(authService, contextManager, logger),
		authenticate: middleware.NewAuthenticate(tokens, userStore, contextManager, logger),
		logging:      middleware.NewLogging(logger),
	}
}

// Register builds the route table under /api/auth.
func (r *Router) Register() http.Handler {
	root := mux.NewRouter()
	root.Use(r.logging.Handle)

	api := root.PathPrefix("/api/auth").Subrouter()

	api.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/forgotpassword", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/resetpassword/{token}", r.authHandler.ResetPassword).Methods(http.MethodPut)

	protected := api.NewRoute().Subrouter()
	protected.Use(r.authenticate.Handle)
	protected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/updatedetails", r.authHandler.UpdateDetails).Methods(http.MethodPut)
	protected.HandleFunc("/updatepassword", r.authHandler.UpdatePassword).Methods(http.MethodPut)
	protected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodGet)

	return handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedOrigins([]string{"*"}),
	)(root)
}
