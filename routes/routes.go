// routes/routes.go
package routes

import (
	"net/http"

	"lens-admin/controllers"
	"lens-admin/middleware"
	"lens-admin/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers bundles every request handler the router dispatches to
type Controllers struct {
	Orders   *controllers.OrderController
	Products *controllers.ProductController
	Payments *controllers.PaymentController
	Accounts *controllers.AccountController
	Stats    *controllers.StatsController
	Admin    *controllers.AdminController
	Upload   *controllers.UploadController
	Diag     *controllers.DiagController
}

// RegisterRoutes sets up all the routes for the application. uploadsRoot is
// the local asset directory served under /uploads/.
func RegisterRoutes(router *mux.Router, c Controllers, uploadsRoot string) {
	// Auth (public)
	router.HandleFunc("/api/auth/login", c.Admin.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", c.Admin.Logout).Methods("POST")
	router.HandleFunc("/api/auth/session", c.Admin.Session).Methods("GET")

	// Orders
	router.HandleFunc("/api/orders", c.Orders.GetOrders).Methods("GET")
	router.HandleFunc("/api/orders/status", c.Orders.UpdateOrderStatus).Methods("PUT")

	// Products
	router.HandleFunc("/api/products", c.Products.GetProducts).Methods("GET")
	router.HandleFunc("/api/products", c.Products.CreateProduct).Methods("POST")
	router.HandleFunc("/api/products/{id}", c.Products.GetProduct).Methods("GET")
	router.HandleFunc("/api/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	router.HandleFunc("/api/products/{id}", c.Products.DeleteProduct).Methods("DELETE")

	// Read-only listings and analytics
	router.HandleFunc("/api/payments", c.Payments.GetPayments).Methods("GET")
	router.HandleFunc("/api/users", c.Accounts.GetAccounts).Methods("GET")
	router.HandleFunc("/api/stats", c.Stats.GetStats).Methods("GET")
	router.HandleFunc("/api/test-connection", c.Diag.TestConnection).Methods("GET")

	// Operator account management (admin role only)
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/users", c.Admin.ListUsers).Methods("GET")
	admin.HandleFunc("/users", c.Admin.CreateUser).Methods("POST")
	admin.HandleFunc("/users", c.Admin.DeleteUser).Methods("DELETE")

	// File assets
	router.HandleFunc("/api/upload", c.Upload.ListAssets).Methods("GET")
	router.HandleFunc("/api/upload", c.Upload.UploadAsset).Methods("POST")
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsRoot))))

	// Operational endpoints
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", healthz).Methods("GET")
}

func healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}
