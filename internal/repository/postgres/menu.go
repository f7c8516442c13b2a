package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
)

type MenuRepo struct {
	DB DBTX
}

func (r *MenuRepo) Create(ctx context.Context, menu models.Menu) (models.Menu, error) {
	if menu.ID == uuid.Nil {
		menu.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO menus (id, restaurant_id, served_on, meal_type) VALUES ($1, $2, $3, $4)
		RETURNING id, restaurant_id, served_on, meal_type`,
		menu.ID, menu.RestaurantID, menu.ServedOn, menu.MealType)
	menu, err := pgx.CollectOneRow(rows, rowToMenu)
	if err != nil {
		return menu, translateConstraint(err, apperrors.ErrMenuAlreadyExists, apperrors.ErrRestaurantNotFound)
	}

	return menu, nil
}

func (r *MenuRepo) FindForDate(ctx context.Context, restaurantID uuid.UUID, servedOn time.Time, mealType string) (models.MenuWithItems, error) {
	var result models.MenuWithItems

	rows, _ := r.DB.Query(ctx, `
		SELECT id, restaurant_id, served_on, meal_type FROM menus
		WHERE restaurant_id = $1 AND served_on = $2 AND meal_type = $3`,
		restaurantID, servedOn, mealType)
	menu, err := pgx.CollectOneRow(rows, rowToMenu)

	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		return result, apperrors.ErrMenuNotFound
	default:
		return result, fmt.Errorf("db error: %w", err)
	}

	rows, _ = r.DB.Query(ctx, `
		SELECT mi.id, mi.name, mi.category_id, mi.price
		FROM menu_entries me
		JOIN menu_items mi ON mi.id = me.menu_item_id
		JOIN categories c ON c.id = mi.category_id
		WHERE me.menu_id = $1
		ORDER BY c.name, mi.name`,
		menu.ID)
	items, err := pgx.CollectRows(rows, rowToMenuItem)
	if err != nil {
		return result, fmt.Errorf("db error: %w", err)
	}

	result.Menu = menu
	result.Items = items

	return result, nil
}

func (r *MenuRepo) AddItem(ctx context.Context, menuID uuid.UUID, menuItemID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO menu_entries (menu_id, menu_item_id) VALUES ($1, $2)`,
		menuID, menuItemID)
	if err != nil {
		return translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}

	return nil
}

func (r *MenuRepo) RemoveItem(ctx context.Context, menuID uuid.UUID, menuItemID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, `
		DELETE FROM menu_entries WHERE menu_id = $1 AND menu_item_id = $2`,
		menuID, menuItemID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMenuItemNotFound
	}

	return nil
}

func (r *MenuRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM menus WHERE id = $1`, id, apperrors.ErrMenuNotFound)
}

func rowToMenu(row pgx.CollectableRow) (models.Menu, error) {
	var m models.Menu
	err := row.Scan(&m.ID, &m.RestaurantID, &m.ServedOn, &m.MealType)
	return m, err
}
