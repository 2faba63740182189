// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/polloroid/cliparse"
	"github.com/danielhkuo/polloroid/handlers"
	"github.com/danielhkuo/polloroid/media"
	"github.com/danielhkuo/polloroid/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, images media.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg, images)
	votingHandler := handlers.NewVotingHandler(db)
	walletHandler := handlers.NewWalletHandler(db)
	userHandler := handlers.NewUserHandler(db, cfg, images)

	protect := middleware.RequireAuth(cfg.JWTSecret)
	limiter := middleware.NewRateLimiter(cfg.AuthRatePerMinute)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts (public, rate limited)
	mux.HandleFunc("POST /api/register", middleware.WithLogging(limiter.Wrap(accountHandler.Register)))
	mux.HandleFunc("POST /api/login", middleware.WithLogging(limiter.Wrap(accountHandler.Login)))

	// Polls
	mux.HandleFunc("GET /api/polls", middleware.WithLogging(pollHandler.ListActive))
	mux.HandleFunc("GET /api/polls/history", middleware.WithLogging(protect(pollHandler.History)))
	mux.HandleFunc("GET /api/polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /api/polls", middleware.WithLogging(protect(pollHandler.CreatePoll)))

	// Voting
	mux.HandleFunc("POST /api/votes", middleware.WithLogging(protect(votingHandler.CastVote)))

	// User
	mux.HandleFunc("GET /api/user/profile", middleware.WithLogging(protect(userHandler.GetProfile)))
	mux.HandleFunc("PUT /api/user/profile", middleware.WithLogging(protect(userHandler.UpdateProfile)))
	mux.HandleFunc("GET /api/user/transactions", middleware.WithLogging(protect(userHandler.GetTransactions)))
	mux.HandleFunc("GET /api/user/polls", middleware.WithLogging(protect(userHandler.GetPolls)))
	mux.HandleFunc("GET /api/user/balance", middleware.WithLogging(protect(walletHandler.Balance)))

	// Wallet
	mux.HandleFunc("POST /api/transaction/deposit", middleware.WithLogging(protect(walletHandler.Deposit)))
	mux.HandleFunc("POST /api/transaction/withdraw", middleware.WithLogging(protect(walletHandler.Withdraw)))

	// Root endpoint, exact match only
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("polloroid API v1"))
	})

	return mux
}
