package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ucampus/refectory/internal/handlers/render"
	"github.com/ucampus/refectory/internal/logger"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

// Catalog handlers cover the plain CRUD collaborators. They bind, call
// the repository and map errors; no business rules live here.

type restaurantResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

func toRestaurantResponse(r models.Restaurant) restaurantResponse {
	return restaurantResponse{ID: r.ID, Name: r.Name, Address: r.Address}
}

func handleCreateRestaurant(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		restaurant, err := storage.Restaurant().Create(r.Context(), models.Restaurant{Name: req.Name, Address: req.Address})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, toRestaurantResponse(restaurant), http.StatusCreated)
	})
}

func handleListRestaurants(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		restaurants, err := storage.Restaurant().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]restaurantResponse, 0, len(restaurants))
		for _, restaurant := range restaurants {
			resp = append(resp, toRestaurantResponse(restaurant))
		}
		render.JSON(w, resp)
	})
}

func handleGetRestaurant(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "restaurantID")
		if !ok {
			return
		}

		restaurant, err := storage.Restaurant().Get(r.Context(), id)
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toRestaurantResponse(restaurant))
	})
}

func handleUpdateRestaurant(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name    string `json:"name" validate:"required"`
		Address string `json:"address"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "restaurantID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		restaurant, err := storage.Restaurant().Update(r.Context(), models.Restaurant{ID: id, Name: req.Name, Address: req.Address})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toRestaurantResponse(restaurant))
	})
}

func handleDeleteRestaurant(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "restaurantID")
		if !ok {
			return
		}

		if err := storage.Restaurant().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type groupResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func handleCreateGroup(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		group, err := storage.Group().Create(r.Context(), models.Group{Name: req.Name})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, groupResponse{ID: group.ID, Name: group.Name}, http.StatusCreated)
	})
}

func handleListGroups(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groups, err := storage.Group().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]groupResponse, 0, len(groups))
		for _, group := range groups {
			resp = append(resp, groupResponse{ID: group.ID, Name: group.Name})
		}
		render.JSON(w, resp)
	})
}

func handleUpdateGroup(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "groupID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		group, err := storage.Group().Update(r.Context(), models.Group{ID: id, Name: req.Name})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, groupResponse{ID: group.ID, Name: group.Name})
	})
}

func handleDeleteGroup(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "groupID")
		if !ok {
			return
		}

		if err := storage.Group().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type ticketTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func handleCreateTicketType(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		tt, err := storage.TicketType().Create(r.Context(), models.TicketType{Name: req.Name, Description: req.Description})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, ticketTypeResponse{ID: tt.ID, Name: tt.Name, Description: tt.Description}, http.StatusCreated)
	})
}

func handleListTicketTypes(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		types, err := storage.TicketType().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]ticketTypeResponse, 0, len(types))
		for _, tt := range types {
			resp = append(resp, ticketTypeResponse{ID: tt.ID, Name: tt.Name, Description: tt.Description})
		}
		render.JSON(w, resp)
	})
}

func handleUpdateTicketType(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "ticketTypeID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		tt, err := storage.TicketType().Update(r.Context(), models.TicketType{ID: id, Name: req.Name, Description: req.Description})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, ticketTypeResponse{ID: tt.ID, Name: tt.Name, Description: tt.Description})
	})
}

func handleDeleteTicketType(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "ticketTypeID")
		if !ok {
			return
		}

		if err := storage.TicketType().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type priceRuleResponse struct {
	ID           uuid.UUID   `json:"id"`
	GroupID      uuid.UUID   `json:"group_id"`
	TicketTypeID uuid.UUID   `json:"ticket_type_id"`
	Price        json.Number `json:"price"`
}

func toPriceRuleResponse(rule models.PriceRule) priceRuleResponse {
	return priceRuleResponse{
		ID:           rule.ID,
		GroupID:      rule.GroupID,
		TicketTypeID: rule.TicketTypeID,
		Price:        jsonNumber(rule.Price),
	}
}

func handleCreatePriceRule(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		GroupID      uuid.UUID       `json:"group_id" validate:"required"`
		TicketTypeID uuid.UUID       `json:"ticket_type_id" validate:"required"`
		Price        decimal.Decimal `json:"price" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		rule, err := storage.PriceRule().Create(r.Context(), models.PriceRule{
			GroupID:      req.GroupID,
			TicketTypeID: req.TicketTypeID,
			Price:        req.Price,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, toPriceRuleResponse(rule), http.StatusCreated)
	})
}

func handleListPriceRules(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rules, err := storage.PriceRule().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]priceRuleResponse, 0, len(rules))
		for _, rule := range rules {
			resp = append(resp, toPriceRuleResponse(rule))
		}
		render.JSON(w, resp)
	})
}

func handleDeletePriceRule(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "priceRuleID")
		if !ok {
			return
		}

		if err := storage.PriceRule().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type categoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func handleCreateCategory(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		category, err := storage.Category().Create(r.Context(), models.Category{Name: req.Name})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, categoryResponse{ID: category.ID, Name: category.Name}, http.StatusCreated)
	})
}

func handleListCategories(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := storage.Category().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]categoryResponse, 0, len(categories))
		for _, category := range categories {
			resp = append(resp, categoryResponse{ID: category.ID, Name: category.Name})
		}
		render.JSON(w, resp)
	})
}

func handleUpdateCategory(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "categoryID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		category, err := storage.Category().Update(r.Context(), models.Category{ID: id, Name: req.Name})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, categoryResponse{ID: category.ID, Name: category.Name})
	})
}

func handleDeleteCategory(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "categoryID")
		if !ok {
			return
		}

		if err := storage.Category().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type menuItemResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	CategoryID uuid.UUID   `json:"category_id"`
	Price      json.Number `json:"price"`
}

func toMenuItemResponse(item models.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:         item.ID,
		Name:       item.Name,
		CategoryID: item.CategoryID,
		Price:      jsonNumber(item.Price),
	}
}

func handleCreateMenuItem(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name       string          `json:"name" validate:"required"`
		CategoryID uuid.UUID       `json:"category_id" validate:"required"`
		Price      decimal.Decimal `json:"price" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		item, err := storage.MenuItem().Create(r.Context(), models.MenuItem{
			Name:       req.Name,
			CategoryID: req.CategoryID,
			Price:      req.Price,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, toMenuItemResponse(item), http.StatusCreated)
	})
}

func handleListMenuItems(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items, err := storage.MenuItem().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]menuItemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, toMenuItemResponse(item))
		}
		render.JSON(w, resp)
	})
}

func handleUpdateMenuItem(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name       string          `json:"name" validate:"required"`
		CategoryID uuid.UUID       `json:"category_id" validate:"required"`
		Price      decimal.Decimal `json:"price" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "menuItemID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		item, err := storage.MenuItem().Update(r.Context(), models.MenuItem{
			ID:         id,
			Name:       req.Name,
			CategoryID: req.CategoryID,
			Price:      req.Price,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, toMenuItemResponse(item))
	})
}

func handleDeleteMenuItem(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "menuItemID")
		if !ok {
			return
		}

		if err := storage.MenuItem().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

type employeeResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
}

func handleCreateEmployee(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name         string    `json:"name" validate:"required"`
		Role         string    `json:"role" validate:"required"`
		RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		employee, err := storage.Employee().Create(r.Context(), models.Employee{
			Name:         req.Name,
			Role:         req.Role,
			RestaurantID: req.RestaurantID,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSONWithStatus(w, employeeResponse{
			ID:           employee.ID,
			Name:         employee.Name,
			Role:         employee.Role,
			RestaurantID: employee.RestaurantID,
		}, http.StatusCreated)
	})
}

func handleListEmployees(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employees, err := storage.Employee().List(r.Context())
		if err != nil {
			renderError(w, l, err)
			return
		}

		resp := make([]employeeResponse, 0, len(employees))
		for _, employee := range employees {
			resp = append(resp, employeeResponse{
				ID:           employee.ID,
				Name:         employee.Name,
				Role:         employee.Role,
				RestaurantID: employee.RestaurantID,
			})
		}
		render.JSON(w, resp)
	})
}

func handleUpdateEmployee(storage repository.Storage, l logger.Logger) http.Handler {
	type request struct {
		Name         string    `json:"name" validate:"required"`
		Role         string    `json:"role" validate:"required"`
		RestaurantID uuid.UUID `json:"restaurant_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "employeeID")
		if !ok {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		employee, err := storage.Employee().Update(r.Context(), models.Employee{
			ID:           id,
			Name:         req.Name,
			Role:         req.Role,
			RestaurantID: req.RestaurantID,
		})
		if err != nil {
			renderError(w, l, err)
			return
		}

		render.JSON(w, employeeResponse{
			ID:           employee.ID,
			Name:         employee.Name,
			Role:         employee.Role,
			RestaurantID: employee.RestaurantID,
		})
	})
}

func handleDeleteEmployee(storage repository.Storage, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "employeeID")
		if !ok {
			return
		}

		if err := storage.Employee().Delete(r.Context(), id); err != nil {
			renderError(w, l, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
