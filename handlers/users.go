// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/polloroid/auth"
	"github.com/danielhkuo/polloroid/cliparse"
	"github.com/danielhkuo/polloroid/db"
	"github.com/danielhkuo/polloroid/media"
	"github.com/danielhkuo/polloroid/middleware"
	"github.com/danielhkuo/polloroid/models"
)

type UserHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	images media.Store
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config, images media.Store) *UserHandler {
	return &UserHandler{db: db, cfg: cfg, images: images}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	user, err := getUser(r.Context(), h.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/user/profile (multipart form). Only the
// fields present in the form change. The balance is never touched here.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes()+1<<20)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	user, err := getUser(r.Context(), h.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	form := r.MultipartForm.Value
	if vals, ok := form["username"]; ok {
		username := strings.TrimSpace(vals[0])
		if err := auth.ValidateUsername(username); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		user.Username = username
	}
	if vals, ok := form["email"]; ok {
		email := strings.ToLower(strings.TrimSpace(vals[0]))
		if err := auth.ValidateEmail(email); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		user.Email = email
	}
	if vals, ok := form["age"]; ok {
		age, err := strconv.ParseInt(strings.TrimSpace(vals[0]), 10, 64)
		if err != nil || age < 0 || age > 150 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "age must be a number between 0 and 150")
			return
		}
		user.Age = &age
	}
	if vals, ok := form["location"]; ok {
		location := strings.TrimSpace(vals[0])
		user.Location = &location
	}

	var oldImage, newImage string
	if files := r.MultipartForm.File["profile_image"]; len(files) > 0 {
		locator, err := saveUpload(h.images, files[0], h.cfg.MaxUploadBytes())
		if err != nil {
			if errors.Is(err, media.ErrNotImage) || errors.Is(err, errImageTooLarge) {
				middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("failed to store profile image", "error", err, "user_id", userID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store image")
			return
		}
		if user.ProfileImage != nil {
			oldImage = *user.ProfileImage
		}
		newImage = locator
		user.ProfileImage = &locator
	}

	_, err = h.db.ExecContext(r.Context(), `
		UPDATE users
		SET username = $1, email = $2, age = $3, location = $4, profile_image = $5
		WHERE id = $6
	`, user.Username, user.Email, user.Age, user.Location, user.ProfileImage, userID)
	if err != nil {
		if newImage != "" {
			h.removeImage(newImage)
		}
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Username or email already taken")
			return
		}
		slog.Error("failed to update user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	if oldImage != "" {
		h.removeImage(oldImage)
	}

	slog.Info("profile updated", "user_id", userID)
	middleware.JSONResponse(w, http.StatusOK, user)
}

func (h *UserHandler) removeImage(locator string) {
	if err := h.images.Remove(locator); err != nil {
		slog.Warn("failed to remove image", "locator", locator, "error", err)
	}
}

// GetTransactions handles GET /api/user/transactions
func (h *UserHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT id, user_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		slog.Error("failed to query transactions", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	txns := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			slog.Error("failed to scan transaction", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read transactions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, txns)
}

// GetPolls handles GET /api/user/polls: every poll the caller created
func (h *UserHandler) GetPolls(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	polls, err := listPolls(r.Context(), h.db, pollFilter{creatorID: userID}, time.Now())
	if err != nil {
		slog.Error("failed to list user polls", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}
