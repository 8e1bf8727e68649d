package app

import (
	"github.com/gorilla/mux"
	"github.com/khata-app/khata/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Expenses
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/expenses/weekly", deps.ExpenseHandler.GetWeekly).Methods("GET")
	r.HandleFunc("/api/expenses/stats", deps.StatsHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/expenses/parse", deps.ParseHandler.ParseExpense).Methods("POST")
	r.HandleFunc("/api/expenses", deps.ExpenseHandler.Create).Methods("POST")
	r.HandleFunc("/api/expenses/{expenseId}", deps.ExpenseHandler.Update).Methods("PUT")
	r.HandleFunc("/api/expenses/{expenseId}", deps.ExpenseHandler.Delete).Methods("DELETE")

	// User
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")

	// Google Sheets integration
	r.HandleFunc("/api/google/auth/login", deps.GoogleAuth.OAuthLogin).Methods("GET")
	r.HandleFunc("/api/google/auth/callback", deps.GoogleAuth.OAuthCallback).Methods("GET")
	r.HandleFunc("/api/google/auth", deps.GoogleAuth.OAuthLogout).Methods("DELETE")
	r.HandleFunc("/api/google/status", deps.GoogleAuth.Status).Methods("GET")
	r.HandleFunc("/api/google/export", deps.GoogleHandler.Export).Methods("POST")
	r.HandleFunc("/api/google/import", deps.GoogleHandler.Import).Methods("POST")
}
