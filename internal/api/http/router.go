package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/siscomando/api/internal/api/auth"
	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/render"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/httpx"
	"github.com/siscomando/api/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	authenticator *auth.Authenticator
	store         store.Store
	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger

	UserService    *service.UserService
	IssueService   *service.IssueService
	CommentService *service.CommentService
	StarService    *service.StarService
}

func NewRouter(
	authenticator *auth.Authenticator,
	st store.Store,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		authenticator: authenticator,
		store:         st,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	return r
}

// anyRole is the read gate shared by most resources.
var anyRole = []string{domain.RoleUsers, domain.RoleAdmins, domain.RoleSuperusers}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerMe()
	r.registerIssues()
	r.registerComments()
	r.registerStars()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET "+render.Prefix+"/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET "+render.Prefix+"/users/{lookup}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Account writes are the most sensitive surface: superusers only,
	// strict limit.
	r.Mux.Handle("POST "+render.Prefix+"/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authenticator.Require(domain.RoleSuperusers),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("DELETE "+render.Prefix+"/users",
		httpx.Chain(http.HandlerFunc(h.HandleDeleteAll),
			r.authenticator.Require(domain.RoleSuperusers),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("PATCH "+render.Prefix+"/users/{lookup}",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			r.authenticator.Require(domain.RoleSuperusers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE "+render.Prefix+"/users/{lookup}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authenticator.Require(domain.RoleSuperusers),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerMe() {
	h := &MeHandler{UserService: r.UserService}

	r.Mux.Handle("GET "+render.Prefix+"/me",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PATCH "+render.Prefix+"/me",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerIssues() {
	h := &IssuesHandler{
		IssueService: r.IssueService,
		Grouped:      hooks.GroupedIssues{Issues: r.store.Issues()},
	}

	r.Mux.Handle("GET "+render.Prefix+"/issues",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET "+render.Prefix+"/issues/{lookup}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// Issue writes live under the singular alias path, superusers only.
	r.Mux.Handle("POST "+render.Prefix+"/issue",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authenticator.Require(domain.RoleSuperusers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH "+render.Prefix+"/issue/{id}",
		httpx.Chain(http.HandlerFunc(h.HandlePatch),
			r.authenticator.Require(domain.RoleSuperusers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerComments() {
	h := &CommentsHandler{
		CommentService: r.CommentService,
		Embed:          hooks.CommentEmbed{Users: r.store.Users()},
	}

	r.Mux.Handle("GET "+render.Prefix+"/comments",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET "+render.Prefix+"/comments/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST "+render.Prefix+"/comments/new",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("PATCH "+render.Prefix+"/comments/edit/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleEdit),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE "+render.Prefix+"/comments/edit/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerStars() {
	h := &StarsHandler{StarService: r.StarService}

	r.Mux.Handle("GET "+render.Prefix+"/stars",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET "+render.Prefix+"/stars/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST "+render.Prefix+"/stars/new",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authenticator.Require(anyRole...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
