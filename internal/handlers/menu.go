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

const menuDateLayout = "2006-01-02"

type menuResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	ServedOn     string    `json:"served_on"`
	MealType     string    `json:"meal_type"`
}

func toMenuResponse(m models.Menu) menuResponse {
	return menuResponse{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		ServedOn:     m.ServedOn.Format(menuDateLayout),
		MealType:     m.MealType,
	}
}

func handleCreateMenu(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
		ServedOn     string    `json:"served_on" validate:"required,datetime=2006-01-02"`
		MealType     string    `json:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		servedOn, _ := time.Parse(menuDateLayout, req.ServedOn)

		menu, err := storage.Menu().Create(r.Context(), models.Menu{
			RestaurantID: req.RestaurantID,
			ServedOn:     servedOn,
			MealType:     req.MealType,
		})

		switch {
		case err == nil:
			render.JSONWithStatus(w, toMenuResponse(menu), http.StatusCreated)
		case errors.Is(err, apperrors.ErrRestaurantNotFound):
			render.ServiceError(w, "Restaurant not found", http.StatusBadRequest)
		default:
			renderError(w, l, err)
		}
	})
}

// handleFindMenu resolves the composed menu for one restaurant, date and
// meal type; all three query params are required.
func handleFindMenu(storage repository.Storage, l logger.Logger) http.Handler {
	type response struct {
		menuResponse
		Items []menuItemResponse `json:"items"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		restaurantID, err := uuid.Parse(q.Get("restaurant_id"))
		if err != nil {
			render.ServiceError(w, "Missing or invalid restaurant_id", http.StatusBadRequest)
			return
		}

		servedOn, err := time.Parse(menuDateLayout, q.Get("date"))
		if err != nil {
			render.ServiceError(w, "Missing or invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		mealType := q.Get("meal_type")
		switch mealType {
		case models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner:
		default:
			render.ServiceError(w, "Missing or invalid meal_type", http.StatusBadRequest)
			return
		}

		menu, err := storage.Menu().FindForDate(r.Context(), restaurantID, servedOn, mealType)
		if err != nil {
			renderError(w, l, err)
			return
		}

		items := make([]menuItemResponse, 0, len(menu.Items))
		for _, item := range menu.Items {
			items = append(items, toMenuItemResponse(item))
		}
		render.JSON(w, response{menuResponse: toMenuResponse(menu.Menu), Items: items})
	})
}

func handleAddMenuEntry(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		menuID, ok := pathID(w, r, "menuID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = storage.Menu().AddItem(r.Context(), menuID, req.MenuItemID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusCreated)
		case errors.Is(err, apperrors.ErrMissingReference):
			render.ServiceError(w, "Menu or menu item not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAlreadyExists):
			render.ServiceError(w, "Item is already on this menu", http.StatusConflict)
		default:
			l.Error("Failed to add menu entry", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleRemoveMenuEntry(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		menuID, ok := pathID(w, r, "menuID")
		if !ok {
			return
		}
		menuItemID, ok := pathID(w, r, "menuItemID")
		if !ok {
			return
		}

		if err := storage.Menu().RemoveItem(r.Context(), menuID, menuItemID); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func handleDeleteMenu(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		menuID, ok := pathID(w, r, "menuID")
		if !ok {
			return
		}

		if err := storage.Menu().Delete(r.Context(), menuID); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
