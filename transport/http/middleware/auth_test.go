package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"sporti/config"
	"sporti/infras/jwt"
	jwtMocks "sporti/infras/jwt/mocks"
	"sporti/infras/otel/mocks"
	"sporti/permissions"
	"sporti/shared/constant"
	"sporti/transport/http/middleware"
)

func newAuthRouter(t *testing.T) (*jwtMocks.MockJWT, http.Handler) {
	ctrl := gomock.NewController(t)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	authRole := middleware.NewAuthRoleMiddleware(mockJWT, mocks.NewOtel(), permissions.Get(), cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		rank, _ := r.Context().Value(constant.ContextKeyUserRank).(string)

		w.Header().Set("X-User", userID)
		w.Header().Set("X-Rank", rank)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	router.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", echo)
		r.Route("/bookings", func(r chi.Router) {
			r.Put("/{id}/status", echo)
			r.Put("/{id}/cancel", echo)
		})
		r.Route("/guest/bookings", func(r chi.Router) {
			r.Post("/", echo)
		})
	})

	return mockJWT, router
}

func TestAuthRole(t *testing.T) {
	admin := &jwt.Claims{UserID: "admin-1", Email: "admin@sporti.id", Role: constant.RoleAdmin, Designation: "Kombes"}
	member := &jwt.Claims{UserID: "member-1", Email: "member@sporti.id", Role: constant.RoleMember, Designation: "Iptu"}

	tests := []struct {
		name     string
		method   string
		path     string
		header   map[string]string
		claims   *jwt.Claims
		jwtErr   error
		wantCode int
		wantUser string
		wantRank string
	}{
		{
			name:     "public endpoint needs no token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token on protected endpoint",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed authorization header",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "expired token",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			jwtErr:   jwt.ErrExpiredToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "claims without email",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:   &jwt.Claims{UserID: "member-1"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "member cannot transition status",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:   member,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "admin transitions status",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:   admin,
			wantCode: http.StatusOK,
			wantUser: "admin-1",
			wantRank: "Kombes",
		},
		{
			name:     "member cancels",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/cancel",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:   member,
			wantCode: http.StatusOK,
			wantUser: "member-1",
			wantRank: "Iptu",
		},
		{
			name:     "anonymous guest booking",
			method:   http.MethodPost,
			path:     "/v1/guest/bookings",
			wantCode: http.StatusOK,
		},
		{
			name:     "guest booking with a signed-in member",
			method:   http.MethodPost,
			path:     "/v1/guest/bookings/",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			claims:   member,
			wantCode: http.StatusOK,
			wantUser: "member-1",
			wantRank: "Iptu",
		},
		{
			name:     "guest booking with a bad token",
			method:   http.MethodPost,
			path:     "/v1/guest/bookings",
			header:   map[string]string{constant.RequestHeaderAuthorization: "Bearer bad"},
			jwtErr:   jwt.ErrInvalidToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "internal caller with api key",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodPut,
			path:     "/v1/bookings/b-1/status",
			header:   map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockJWT, router := newAuthRouter(t)

			if tt.claims != nil || tt.jwtErr != nil {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), jwt.AccessToken).Return(tt.claims, tt.jwtErr)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.header {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantUser, rec.Header().Get("X-User"))
				assert.Equal(t, tt.wantRank, rec.Header().Get("X-Rank"))
			}
		})
	}
}
