package httpserver

import (
	"net/http"

	"smartparking/internal/http/handlers"
	"smartparking/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Slots    *handlers.SlotsHandlers
	Bookings *handlers.BookingsHandlers
	Gate     *handlers.GateHandlers
	Payments *handlers.PaymentsHandlers
	SlotsWS  http.HandlerFunc
	Health   http.HandlerFunc
}

// NewRouter wires HTTP routes with auth and role middleware. Everything
// under /api/v1 requires a valid bearer token from the external auth
// service; gate and admin routes additionally gate on role claims.
func NewRouter(deps RouterDeps, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.AuthMiddleware(jwtSecret)
	staffOnly := middleware.RequireRole(middleware.RoleStaff, middleware.RoleAdmin)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	authed := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, auth)
	}
	staff := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, auth, staffOnly)
	}
	admin := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, auth, adminOnly)
	}

	mux.Handle("GET /health", deps.Health)

	mux.Handle("GET /api/v1/slots", authed(deps.Slots.List))
	mux.Handle("POST /api/v1/slots", admin(deps.Slots.Create))
	mux.Handle("PUT /api/v1/slots/{id}", admin(deps.Slots.Update))
	mux.Handle("DELETE /api/v1/slots/{id}", admin(deps.Slots.Delete))
	mux.Handle("GET /api/v1/admin/stats", admin(deps.Slots.Stats))

	mux.Handle("POST /api/v1/bookings", authed(deps.Bookings.Create))
	mux.Handle("GET /api/v1/bookings/me", authed(deps.Bookings.Me))
	mux.Handle("POST /api/v1/bookings/{id}/cancel", authed(deps.Bookings.Cancel))

	mux.Handle("POST /api/v1/gate/checkin", staff(deps.Gate.CheckIn))
	mux.Handle("POST /api/v1/gate/checkout", staff(deps.Gate.CheckOut))
	mux.Handle("GET /api/v1/gate/logs", staff(deps.Gate.Logs))

	mux.Handle("POST /api/v1/payments/create-order", authed(deps.Payments.CreateOrder))
	mux.Handle("POST /api/v1/payments/confirm", authed(deps.Payments.Confirm))
	mux.Handle("GET /api/v1/payments/me", authed(deps.Payments.Me))

	// Live slot feed; the socket handshake carries no auth, clients fetch
	// full state through GET /api/v1/slots after connecting.
	mux.Handle("GET /ws/slots", deps.SlotsWS)

	return mux
}
