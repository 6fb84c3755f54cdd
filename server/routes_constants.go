package server

import (
	"github.com/jrsteele09/go-flight-admin/guard"
)

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes
	RouteLogin  = guard.LoginPath
	RouteLogout = "/logout"
	RouteSignup = "/signup"

	// Customer Routes
	RouteUserDashboard    = guard.UserHomePath
	RouteUserReservations = RouteUserDashboard + "/reservations"
	RouteUserAirports     = RouteUserDashboard + "/airports"
	RouteUserAirlines     = RouteUserDashboard + "/airlines"

	// Admin Routes
	RouteAdminDashboard = guard.AdminHomePath
	RouteAdminFlights   = RouteAdminDashboard + "/flights"
	RouteAdminLayovers  = RouteAdminDashboard + "/layovers"
	RouteAdminAirports  = RouteAdminDashboard + "/airports"
	RouteAdminAirlines  = RouteAdminDashboard + "/airlines"

	// Item sub-routes, relative to a collection route
	RouteItem       = "/{id}"
	RouteItemDelete = "/{id}/delete"

	// API Routes
	RouteHealth = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
