// Package api exposes the JSON HTTP surface. Every route goes through one
// middleware that binds the session user and enforces the capability gate;
// handlers return errors and the middleware renders them.
package api

import (
	"net/http"

	"github.com/aggrandize/agencydesk/core"
	"github.com/julienschmidt/httprouter"
)

// context carries the session-bound request plus the CoreDB into handlers.
type context struct {
	*core.Request
	db *core.CoreDB
}

type handle func(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error

// permit selects the capability a route requires. nil means login only.
type permit func(core.Capabilities) bool

func middleware(db *core.CoreDB, requireLogin bool, allowed permit, f handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var ctx = &context{
			Request: db.NewRequest(w, req),
			db:      db,
		}

		if requireLogin && !ctx.LoggedIn() {
			respondError(w, db, core.ErrUnauthorized)
			return
		}

		if allowed != nil && !allowed(ctx.Capabilities()) {
			respondError(w, db, core.ErrForbidden)
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			db.Logger.Infow("request failed",
				"method", req.Method, "path", req.URL.Path,
				"user", userEmail(ctx), "err", err)
			respondError(w, db, err)
		}
	}
}

func userEmail(ctx *context) string {
	if ctx.LoggedIn() {
		return ctx.User.Email
	}
	return ""
}

// NewRouter builds the full route table. The caller wraps the result in
// SessionManager.LoadAndSave.
func NewRouter(db *core.CoreDB) http.Handler {

	var router = httprouter.New()

	orders := func(c core.Capabilities) bool { return c.CanAccessOrders }
	processing := func(c core.Capabilities) bool { return c.CanAccessProcessing }
	inventory := func(c core.Capabilities) bool { return c.CanAccessInventory }
	accounts := func(c core.Capabilities) bool { return c.CanAccessAccounts }
	finance := func(c core.Capabilities) bool { return c.CanAccessFinance }
	users := func(c core.Capabilities) bool { return c.CanManageUsers }

	// public
	router.POST("/api/login", middleware(db, false, nil, login))

	// session only
	router.POST("/api/logout", middleware(db, true, nil, logout))
	router.GET("/api/me", middleware(db, true, nil, me))

	// orders
	router.GET("/api/orders", middleware(db, true, orders, listOrders))
	router.POST("/api/orders", middleware(db, true, orders, createOrder))
	router.GET("/api/orders/:id", middleware(db, true, orders, getOrder))
	router.PUT("/api/orders/:id", middleware(db, true, orders, updateOrder))
	router.DELETE("/api/orders/:id", middleware(db, true, orders, deleteOrder))
	router.POST("/api/orders/:id/items", middleware(db, true, orders, addOrderItem))

	// processing workflow
	router.GET("/api/processing", middleware(db, true, processing, worklist))
	router.GET("/api/processing-stats", middleware(db, true, processing, processingStats))
	router.PUT("/api/processing/:itemID", middleware(db, true, processing, updateItem))
	router.POST("/api/processing/:itemID/assign", middleware(db, true, processing, assignItem))
	router.POST("/api/processing/:itemID/submit-approval", middleware(db, true, processing, submitApproval))
	router.POST("/api/processing/:itemID/review", middleware(db, true, processing, reviewContent))
	router.POST("/api/processing/:itemID/submit-live", middleware(db, true, processing, submitLive))
	router.POST("/api/processing/:itemID/request-payment", middleware(db, true, processing, requestPayment))

	// accounts
	router.GET("/api/accounts/payment-requests", middleware(db, true, accounts, listPaymentRequests))
	router.PUT("/api/accounts/payment-requests/:requestID/review", middleware(db, true, accounts, reviewPaymentRequest))
	router.PUT("/api/accounts/payment-requests/:requestID/pay", middleware(db, true, accounts, payPaymentRequest))

	// inventory
	router.GET("/api/inventory", middleware(db, true, inventory, listInventory))
	router.POST("/api/inventory", middleware(db, true, inventory, createSite))
	router.GET("/api/inventory-export", middleware(db, true, inventory, exportInventory))
	router.GET("/api/inventory/:id", middleware(db, true, inventory, getSite))
	router.PUT("/api/inventory/:id", middleware(db, true, inventory, updateSite))
	router.DELETE("/api/inventory/:id", middleware(db, true, inventory, deleteSite))

	// user permissions
	router.GET("/api/user-permissions", middleware(db, true, users, listUserPermissions))
	router.PUT("/api/user-permissions/:id", middleware(db, true, users, updateUserPermissions))

	// finance
	router.GET("/api/finance/expenses", middleware(db, true, finance, listExpenses))
	router.POST("/api/finance/expenses", middleware(db, true, finance, createExpense))
	router.PUT("/api/finance/expenses/:id", middleware(db, true, finance, updateExpense))
	router.DELETE("/api/finance/expenses/:id", middleware(db, true, finance, deleteExpense))

	router.GET("/api/finance/utility-bills", middleware(db, true, finance, listUtilityBills))
	router.POST("/api/finance/utility-bills", middleware(db, true, finance, createUtilityBill))
	router.PUT("/api/finance/utility-bills/:id", middleware(db, true, finance, updateUtilityBill))
	router.DELETE("/api/finance/utility-bills/:id", middleware(db, true, finance, deleteUtilityBill))

	router.GET("/api/finance/subscriptions", middleware(db, true, finance, listSubscriptions))
	router.POST("/api/finance/subscriptions", middleware(db, true, finance, createSubscription))
	router.PUT("/api/finance/subscriptions/:id", middleware(db, true, finance, updateSubscription))
	router.DELETE("/api/finance/subscriptions/:id", middleware(db, true, finance, deleteSubscription))

	router.GET("/api/finance/salaries", middleware(db, true, finance, listSalaryPayments))
	router.POST("/api/finance/salaries", middleware(db, true, finance, createSalaryPayment))
	router.PUT("/api/finance/salaries/:id", middleware(db, true, finance, updateSalaryPayment))
	router.DELETE("/api/finance/salaries/:id", middleware(db, true, finance, deleteSalaryPayment))

	return router
}
