package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/AlibabaClubCorporation/bank-app/internal/config"
	"github.com/AlibabaClubCorporation/bank-app/internal/handler"
	"github.com/AlibabaClubCorporation/bank-app/internal/integrations/cbr"
	"github.com/AlibabaClubCorporation/bank-app/internal/middleware"
	"github.com/AlibabaClubCorporation/bank-app/internal/repository"
	"github.com/AlibabaClubCorporation/bank-app/internal/service"
	"github.com/AlibabaClubCorporation/bank-app/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	var notifier service.CreditNotifier
	if cfg.SMTPEnabled() {
		notifier = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, logger, cfg, notifier)
	h := handler.NewHandler(svc)
	cbrClient := cbr.NewClient(cfg, logger)

	// Schedule the due-credit scan
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CreditScanSchedule, func() {
		if err := svc.ScanDueCredits(); err != nil {
			logger.Errorf("Credit scan failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule credit scan: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/account", h.GetAccount).Methods("GET")
	authRouter.HandleFunc("/account/pin", h.UpdatePin).Methods("PUT")
	authRouter.HandleFunc("/cards", h.CreateCard).Methods("POST")
	authRouter.HandleFunc("/purchases", h.CreatePurchase).Methods("POST")
	authRouter.HandleFunc("/transfers", h.CreateTransfer).Methods("POST")
	authRouter.HandleFunc("/credits", h.CreateCredit).Methods("POST")
	authRouter.HandleFunc("/credit", h.GetCredit).Methods("GET")
	authRouter.HandleFunc("/messages", h.GetMessages).Methods("GET")
	authRouter.HandleFunc("/history/ignore", h.SetHistoryIgnored).Methods("POST")
	// CBR key rate endpoint
	r.HandleFunc("/key-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := cbrClient.GetKeyRate(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get key rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"key_rate": rate})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
