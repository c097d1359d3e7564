package routes

import (
	"agni/orders"
	"agni/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter, svc *orders.Service) {
	AddAuthRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter, svc)
	AddPaymentRoutes(router, rateLimiter, svc)
}
