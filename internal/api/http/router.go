package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"tooltrack-backend/internal/security"
	"tooltrack-backend/internal/service"
)

// NewRouter builds the full HTTP routing table. Everything under /api/v1
// requires a valid access token.
func NewRouter(
	tokens security.TokenManager,
	issuances service.IssuanceService,
	notifications service.NotificationService,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	issuanceHandler := NewIssuanceHandler(issuances)
	api.HandleFunc("/issuance/checkout", issuanceHandler.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/issuance/checkin/{toolId:[0-9]+}", issuanceHandler.Checkin).Methods(http.MethodPost)
	api.HandleFunc("/issuance/active", issuanceHandler.ListActive).Methods(http.MethodGet)
	api.HandleFunc("/issuance/overdue", issuanceHandler.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/issuance/{id:[0-9]+}/lost", issuanceHandler.MarkLost).Methods(http.MethodPost)
	api.HandleFunc("/issuance/{id:[0-9]+}", issuanceHandler.Get).Methods(http.MethodGet)

	dashboardHandler := NewDashboardHandler(issuances)
	api.HandleFunc("/dashboard/overdue-issuances", dashboardHandler.OverdueIssuances).Methods(http.MethodGet)

	notificationHandler := NewNotificationHandler(notifications)
	api.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", notificationHandler.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notificationHandler.MarkRead).Methods(http.MethodPost)

	return r
}
