package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/handlers/render"
	"github.com/ucampus/refectory/internal/logger"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

// pathID parses a uuid path segment; on failure it renders 404 and
// reports ok=false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		render.ServiceError(w, "Invalid identifier in path", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// jsonNumber renders a decimal as a bare JSON number. Going through
// float64 would lose the exact stored value, so responses emit the
// decimal's own representation.
func jsonNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type accountResponse struct {
	ID           uuid.UUID   `json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	Name         string      `json:"name"`
	Registration string      `json:"registration"`
	GroupID      uuid.UUID   `json:"group_id"`
	Balance      json.Number `json:"balance"`
}

func toAccountResponse(a models.Account) accountResponse {
	return accountResponse{
		ID:           a.ID,
		CreatedAt:    a.CreatedAt,
		Name:         a.Name,
		Registration: a.Registration,
		GroupID:      a.GroupID,
		Balance:      jsonNumber(a.Balance),
	}
}

func handleCreateAccount(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name         string          `json:"name" validate:"required"`
		Registration string          `json:"registration" validate:"required"`
		GroupID      uuid.UUID       `json:"group_id" validate:"required"`
		Balance      decimal.Decimal `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		account, err := storage.Account().Create(r.Context(), models.Account{
			Name:         req.Name,
			Registration: req.Registration,
			GroupID:      req.GroupID,
			Balance:      req.Balance,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, toAccountResponse(account), http.StatusCreated)
	})
}

func handleListAccounts(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accounts, err := storage.Account().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]accountResponse, 0, len(accounts))
		for _, a := range accounts {
			resp = append(resp, toAccountResponse(a))
		}
		render.JSON(w, resp)
	})
}

func handleGetAccount(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}

		account, err := storage.Account().Get(r.Context(), accountID, false)
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toAccountResponse(account))
	})
}

func handleUpdateAccount(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name         string    `json:"name" validate:"required"`
		Registration string    `json:"registration" validate:"required"`
		GroupID      uuid.UUID `json:"group_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		account, err := storage.Account().Update(r.Context(), models.Account{
			ID:           accountID,
			Name:         req.Name,
			Registration: req.Registration,
			GroupID:      req.GroupID,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toAccountResponse(account))
	})
}

func handleDeleteAccount(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}

		if err := storage.Account().Delete(r.Context(), accountID); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func handleAddCredit(ledgerService ledgerService, l logger.Logger) http.Handler {
	type request struct {
		Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	}

	type response struct {
		Balance json.Number `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		balance, err := ledgerService.AddCredit(r.Context(), accountID, req.Amount)

		switch {
		case err == nil:
			render.JSON(w, response{Balance: jsonNumber(balance)})
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		default:
			l.Error("Failed to add credit", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAccountHistory(ledgerService ledgerService, l logger.Logger) http.Handler {
	type entry struct {
		ID             uuid.UUID   `json:"id"`
		CreatedAt      time.Time   `json:"created_at"`
		Type           string      `json:"type"`
		Amount         json.Number `json:"amount"`
		AccountName    string      `json:"account_name"`
		GroupName      string      `json:"group_name"`
		RestaurantName *string     `json:"restaurant_name,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}

		history, err := ledgerService.History(r.Context(), accountID)
		if err != nil {
			renderError(w, l, err)
			return
		}

		entries := make([]entry, 0, len(history))
		for _, h := range history {
			entries = append(entries, entry{
				ID:             h.ID,
				CreatedAt:      h.CreatedAt,
				Type:           h.Type,
				Amount:         jsonNumber(h.Amount),
				AccountName:    h.AccountName,
				GroupName:      h.GroupName,
				RestaurantName: h.RestaurantName,
			})
		}
		render.JSON(w, entries)
	})
}
