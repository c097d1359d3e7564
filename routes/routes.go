package routes

import (
	"agni/auth"
	"agni/middleware"
	"agni/orders"
	"agni/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", rateLimiter.Limit(auth.Logout))
}

// AddOrderRoutes wires the order service handlers to the router.
func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, svc *orders.Service) {
	router.POST("/api/orders", rateLimiter.Limit(middleware.Authenticate(svc.CreateOrder)))
	router.GET("/api/orders", rateLimiter.Limit(middleware.Authenticate(svc.ListOrders)))
	router.GET("/api/orders/:orderId/invoice", rateLimiter.Limit(middleware.Authenticate(svc.PrintInvoice)))

	router.POST("/api/reviews", rateLimiter.Limit(middleware.Authenticate(svc.SubmitReview)))
	router.POST("/api/complaints", rateLimiter.Limit(middleware.Authenticate(svc.SubmitComplaint)))
}

// AddPaymentRoutes wires the payment verification endpoints. Confirm is the
// gateway webhook target, so it carries no auth middleware; verify is polled
// by logged-in clients.
func AddPaymentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, svc *orders.Service) {
	router.POST("/api/payments/verify", rateLimiter.Limit(middleware.OptionalAuth(svc.VerifyPayment)))
	router.POST("/api/payments/confirm", rateLimiter.Limit(svc.ConfirmPayment))
}
