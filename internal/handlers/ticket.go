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
)

type ticketResponse struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	AccountID     uuid.UUID `json:"account_id"`
	TicketTypeID  uuid.UUID `json:"ticket_type_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Status        string    `json:"status"`
}

func toTicketResponse(t models.Ticket) ticketResponse {
	return ticketResponse{
		ID:            t.ID,
		CreatedAt:     t.CreatedAt,
		AccountID:     t.AccountID,
		TicketTypeID:  t.TicketTypeID,
		TransactionID: t.TransactionID,
		Status:        t.Status,
	}
}

func handlePurchaseTicket(ticketService ticketService, l logger.Logger) http.Handler {
	type request struct {
		TicketTypeID uuid.UUID `json:"ticket_type_id" validate:"required"`
		RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
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

		ticket, err := ticketService.Purchase(r.Context(), accountID, req.TicketTypeID, req.RestaurantID)

		switch {
		case err == nil:
			render.JSONWithStatus(w, toTicketResponse(ticket), http.StatusCreated)
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrPriceRuleNotFound):
			render.ServiceError(w, "No price for this group and ticket type", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			render.ServiceError(w, "Insufficient funds", http.StatusPaymentRequired)
		case errors.Is(err, apperrors.ErrRestaurantNotFound):
			render.ServiceError(w, "Restaurant not found", http.StatusNotFound)
		default:
			l.Error("Failed to purchase ticket", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListAccountTickets(ticketService ticketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, ok := pathID(w, r, "accountID")
		if !ok {
			return
		}

		tickets, err := ticketService.ListForAccount(r.Context(), accountID)
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]ticketResponse, 0, len(tickets))
		for _, t := range tickets {
			resp = append(resp, toTicketResponse(t))
		}
		render.JSON(w, resp)
	})
}

func handleGetTicket(ticketService ticketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := pathID(w, r, "ticketID")
		if !ok {
			return
		}

		ticket, err := ticketService.Get(r.Context(), ticketID)
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toTicketResponse(ticket))
	})
}

func handleCancelTicket(ticketService ticketService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticketID, ok := pathID(w, r, "ticketID")
		if !ok {
			return
		}

		ticket, err := ticketService.Cancel(r.Context(), ticketID)

		switch {
		case err == nil:
			render.JSON(w, toTicketResponse(ticket))
		case errors.Is(err, apperrors.ErrTicketNotFound):
			render.ServiceError(w, "Ticket not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrTicketAlreadyCancelled):
			render.ServiceError(w, "Ticket is already cancelled", http.StatusConflict)
		default:
			l.Error("Failed to cancel ticket", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
