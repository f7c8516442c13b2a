package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/handlers/render"
	"github.com/ucampus/refectory/internal/logger"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

type lockerResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Number       int       `json:"number"`
	Status       string    `json:"status"`
}

func toLockerResponse(l models.Locker) lockerResponse {
	return lockerResponse{
		ID:           l.ID,
		RestaurantID: l.RestaurantID,
		Number:       l.Number,
		Status:       l.Status,
	}
}

type usageResponse struct {
	ID           uuid.UUID  `json:"id"`
	LockerID     uuid.UUID  `json:"locker_id"`
	AccountID    uuid.UUID  `json:"account_id"`
	CheckedInAt  time.Time  `json:"checked_in_at"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
}

func toUsageResponse(u models.LockerUsage) usageResponse {
	return usageResponse{
		ID:           u.ID,
		LockerID:     u.LockerID,
		AccountID:    u.AccountID,
		CheckedInAt:  u.CheckedInAt,
		CheckedOutAt: u.CheckedOutAt,
	}
}

func handleCheckIn(lockerService lockerService, l logger.Logger) http.Handler {
	type request struct {
		AccountID uuid.UUID `json:"account_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lockerID, ok := pathID(w, r, "lockerID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		usage, err := lockerService.CheckIn(r.Context(), lockerID, req.AccountID)

		switch {
		case err == nil:
			render.JSONWithStatus(w, toUsageResponse(usage), http.StatusCreated)
		case errors.Is(err, apperrors.ErrLockerNotFound):
			render.ServiceError(w, "Locker not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrLockerNotAvailable):
			render.ServiceError(w, "Locker is not available", http.StatusConflict)
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		default:
			l.Error("Failed to check in", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleCheckOut(lockerService lockerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lockerID, ok := pathID(w, r, "lockerID")
		if !ok {
			return
		}

		usage, err := lockerService.CheckOut(r.Context(), lockerID)

		switch {
		case err == nil:
			render.JSON(w, toUsageResponse(usage))
		case errors.Is(err, apperrors.ErrNoActiveCheckIn):
			render.ServiceError(w, "No active check-in for this locker", http.StatusConflict)
		default:
			l.Error("Failed to check out", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListUsages(lockerService lockerService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var filter repository.UsageFilter

		if v := r.URL.Query().Get("locker_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				render.ServiceError(w, "Invalid locker_id filter", http.StatusBadRequest)
				return
			}
			filter.LockerID = &id
		}
		if v := r.URL.Query().Get("account_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				render.ServiceError(w, "Invalid account_id filter", http.StatusBadRequest)
				return
			}
			filter.AccountID = &id
		}

		usages, err := lockerService.UsageHistory(r.Context(), filter)
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]usageResponse, 0, len(usages))
		for _, u := range usages {
			resp = append(resp, toUsageResponse(u))
		}
		render.JSON(w, resp)
	})
}

func handleCreateLocker(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
		Number       int       `json:"number" validate:"required,gt=0"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		locker, err := storage.Locker().Create(r.Context(), models.Locker{
			RestaurantID: req.RestaurantID,
			Number:       req.Number,
			Status:       models.LockerStatusAvailable,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, toLockerResponse(locker), http.StatusCreated)
	})
}

func handleListLockers(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lockers, err := storage.Locker().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]lockerResponse, 0, len(lockers))
		for _, lk := range lockers {
			resp = append(resp, toLockerResponse(lk))
		}
		render.JSON(w, resp)
	})
}

// handleUpdateLocker is the administrative path to move a locker in and
// out of maintenance; occupancy transitions never go through here.
func handleUpdateLocker(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
		Number       int       `json:"number" validate:"required,gt=0"`
		Status       string    `json:"status" validate:"required,oneof=available occupied maintenance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lockerID, ok := pathID(w, r, "lockerID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		locker, err := storage.Locker().Update(r.Context(), models.Locker{
			ID:           lockerID,
			RestaurantID: req.RestaurantID,
			Number:       req.Number,
			Status:       req.Status,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toLockerResponse(locker))
	})
}

func handleDeleteLocker(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lockerID, ok := pathID(w, r, "lockerID")
		if !ok {
			return
		}

		if err := storage.Locker().Delete(r.Context(), lockerID); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
