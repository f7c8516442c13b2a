package handlers

import (
	"errors"
	"net/http"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/handlers/render"
	"github.com/ucampus/refectory/internal/logger"
)

var statusByErr = []struct {
	err    error
	status int
}{
	{apperrors.ErrAccountNotFound, http.StatusNotFound},
	{apperrors.ErrPriceRuleNotFound, http.StatusNotFound},
	{apperrors.ErrTicketNotFound, http.StatusNotFound},
	{apperrors.ErrLockerNotFound, http.StatusNotFound},
	{apperrors.ErrRestaurantNotFound, http.StatusNotFound},
	{apperrors.ErrGroupNotFound, http.StatusNotFound},
	{apperrors.ErrTicketTypeNotFound, http.StatusNotFound},
	{apperrors.ErrCategoryNotFound, http.StatusNotFound},
	{apperrors.ErrMenuItemNotFound, http.StatusNotFound},
	{apperrors.ErrMenuNotFound, http.StatusNotFound},
	{apperrors.ErrEmployeeNotFound, http.StatusNotFound},

	{apperrors.ErrInsufficientFunds, http.StatusPaymentRequired},

	{apperrors.ErrAccountAlreadyExists, http.StatusConflict},
	{apperrors.ErrPriceRuleAlreadyExists, http.StatusConflict},
	{apperrors.ErrLockerAlreadyExists, http.StatusConflict},
	{apperrors.ErrLockerNotAvailable, http.StatusConflict},
	{apperrors.ErrNoActiveCheckIn, http.StatusConflict},
	{apperrors.ErrTicketAlreadyCancelled, http.StatusConflict},
	{apperrors.ErrMenuAlreadyExists, http.StatusConflict},
	{apperrors.ErrAlreadyExists, http.StatusConflict},
	{apperrors.ErrReferenced, http.StatusConflict},

	{apperrors.ErrMissingReference, http.StatusBadRequest},
}

// renderError maps domain errors to HTTP statuses; anything unknown is
// logged and reported as an internal error.
func renderError(w http.ResponseWriter, l logger.Logger, err error) {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			render.ServiceError(w, m.err.Error(), m.status)
			return
		}
	}

	l.Error("Unexpected service error", "error", err)
	render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
}
