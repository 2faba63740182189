// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/polloroid/cliparse"
	"github.com/danielhkuo/polloroid/ledger"
	"github.com/danielhkuo/polloroid/media"
	"github.com/danielhkuo/polloroid/middleware"
)

type PollHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *ledger.Ledger
	images media.Store
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config, images media.Store) *PollHandler {
	return &PollHandler{db: db, cfg: cfg, ledger: ledger.New(db), images: images}
}

// CreatePoll handles POST /api/polls (multipart form)
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes()*ledger.MaxOptions+1<<20)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	description := strings.TrimSpace(r.FormValue("description"))

	requiredVotes, err := strconv.ParseInt(r.FormValue("required_votes"), 10, 64)
	if err != nil || requiredVotes < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "required_votes must be a positive integer")
		return
	}

	var expiresAt *time.Time
	if raw := r.FormValue("duration"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "duration must be a positive number of hours")
			return
		}
		t := time.Now().Add(time.Duration(hours * float64(time.Hour)))
		expiresAt = &t
	}

	files := r.MultipartForm.File["images"]
	if len(files) < ledger.MinOptions || len(files) > ledger.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Between %d and %d images are required", ledger.MinOptions, ledger.MaxOptions))
		return
	}

	locators, err := h.saveImages(files)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) || errors.Is(err, errImageTooLarge) {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to store images", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store images")
		return
	}

	poll, err := h.ledger.CreatePoll(r.Context(), ledger.NewPoll{
		CreatorID:     userID,
		Description:   description,
		RequiredVotes: requiredVotes,
		ImageURLs:     locators,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		h.removeImages(locators)
		writeLedgerError(w, "create poll", err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

var errImageTooLarge = errors.New("image exceeds upload size limit")

// saveImages stores every file or none of them
func (h *PollHandler) saveImages(files []*multipart.FileHeader) ([]string, error) {
	locators := make([]string, 0, len(files))
	for _, fh := range files {
		locator, err := saveUpload(h.images, fh, h.cfg.MaxUploadBytes())
		if err != nil {
			h.removeImages(locators)
			return nil, err
		}
		locators = append(locators, locator)
	}
	return locators, nil
}

func (h *PollHandler) removeImages(locators []string) {
	for _, loc := range locators {
		if err := h.images.Remove(loc); err != nil {
			slog.Warn("failed to remove image", "locator", loc, "error", err)
		}
	}
}

func saveUpload(store media.Store, fh *multipart.FileHeader, limit int64) (string, error) {
	if fh.Size > limit {
		return "", fmt.Errorf("%w: %s", errImageTooLarge, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return store.Save(fh.Filename, f)
}

// ListActive handles GET /api/polls
func (h *PollHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	polls, err := listPolls(r.Context(), h.db, pollFilter{expired: boolPtr(false)}, time.Now())
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// History handles GET /api/polls/history: the caller's expired polls
func (h *PollHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	polls, err := listPolls(r.Context(), h.db, pollFilter{creatorID: userID, expired: boolPtr(true)}, time.Now())
	if err != nil {
		slog.Error("failed to list poll history", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /api/polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	polls, err := listPolls(r.Context(), h.db, pollFilter{pollID: pollID}, time.Now())
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(polls) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, polls[0])
}
