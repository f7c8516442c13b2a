package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
)

// Catalog repositories are plain CRUD collaborators. The engines only
// depend on them for lookup data, so each keeps to the same small shape:
// insert/update with constraint translation, list, guarded delete.

// translateConstraint maps unique and foreign key violations to domain
// errors; any other error is wrapped as a generic db failure.
func translateConstraint(err error, onUnique error, onFK error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return onUnique
		case pgerrcode.ForeignKeyViolation:
			return onFK
		}
	}

	return fmt.Errorf("db error: %w", err)
}

// deleteByID runs a delete translating a restricting FK to ErrReferenced
// and zero affected rows to notFound.
func deleteByID(ctx context.Context, db DBTX, query string, id uuid.UUID, notFound error) error {
	tag, err := db.Exec(ctx, query, id)
	if err != nil {
		return translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrReferenced)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}

	return nil
}

type RestaurantRepo struct {
	DB DBTX
}

func (r *RestaurantRepo) Create(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error) {
	if restaurant.ID == uuid.Nil {
		restaurant.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO restaurants (id, name, address) VALUES ($1, $2, $3)
		RETURNING id, name, address`,
		restaurant.ID, restaurant.Name, restaurant.Address)
	restaurant, err := pgx.CollectOneRow(rows, rowToRestaurant)
	if err != nil {
		return restaurant, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}

	return restaurant, nil
}

func (r *RestaurantRepo) Get(ctx context.Context, id uuid.UUID) (models.Restaurant, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name, address FROM restaurants WHERE id = $1`, id)
	restaurant, err := pgx.CollectOneRow(rows, rowToRestaurant)

	switch {
	case err == nil:
		return restaurant, nil
	case errors.Is(err, pgx.ErrNoRows):
		return restaurant, apperrors.ErrRestaurantNotFound
	default:
		return restaurant, fmt.Errorf("db error: %w", err)
	}
}

func (r *RestaurantRepo) List(ctx context.Context) ([]models.Restaurant, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name, address FROM restaurants ORDER BY name`)
	restaurants, err := pgx.CollectRows(rows, rowToRestaurant)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return restaurants, nil
}

func (r *RestaurantRepo) Update(ctx context.Context, restaurant models.Restaurant) (models.Restaurant, error) {
	rows, _ := r.DB.Query(ctx, `
		UPDATE restaurants SET name = $2, address = $3 WHERE id = $1
		RETURNING id, name, address`,
		restaurant.ID, restaurant.Name, restaurant.Address)
	restaurant, err := pgx.CollectOneRow(rows, rowToRestaurant)

	switch {
	case err == nil:
		return restaurant, nil
	case errors.Is(err, pgx.ErrNoRows):
		return restaurant, apperrors.ErrRestaurantNotFound
	default:
		return restaurant, fmt.Errorf("db error: %w", err)
	}
}

func (r *RestaurantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM restaurants WHERE id = $1`, id, apperrors.ErrRestaurantNotFound)
}

func rowToRestaurant(row pgx.CollectableRow) (models.Restaurant, error) {
	var r models.Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.Address)
	return r, err
}

type GroupRepo struct {
	DB DBTX
}

func (r *GroupRepo) Create(ctx context.Context, group models.Group) (models.Group, error) {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO groups (id, name) VALUES ($1, $2)
		RETURNING id, name`,
		group.ID, group.Name)
	group, err := pgx.CollectOneRow(rows, rowToGroup)
	if err != nil {
		return group, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}

	return group, nil
}

func (r *GroupRepo) List(ctx context.Context) ([]models.Group, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name FROM groups ORDER BY name`)
	groups, err := pgx.CollectRows(rows, rowToGroup)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return groups, nil
}

func (r *GroupRepo) Update(ctx context.Context, group models.Group) (models.Group, error) {
	rows, _ := r.DB.Query(ctx, `
		UPDATE groups SET name = $2 WHERE id = $1
		RETURNING id, name`,
		group.ID, group.Name)
	group, err := pgx.CollectOneRow(rows, rowToGroup)

	switch {
	case err == nil:
		return group, nil
	case errors.Is(err, pgx.ErrNoRows):
		return group, apperrors.ErrGroupNotFound
	default:
		return group, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}
}

func (r *GroupRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM groups WHERE id = $1`, id, apperrors.ErrGroupNotFound)
}

func rowToGroup(row pgx.CollectableRow) (models.Group, error) {
	var g models.Group
	err := row.Scan(&g.ID, &g.Name)
	return g, err
}

type TicketTypeRepo struct {
	DB DBTX
}

func (r *TicketTypeRepo) Create(ctx context.Context, tt models.TicketType) (models.TicketType, error) {
	if tt.ID == uuid.Nil {
		tt.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO ticket_types (id, name, description) VALUES ($1, $2, $3)
		RETURNING id, name, description`,
		tt.ID, tt.Name, tt.Description)
	tt, err := pgx.CollectOneRow(rows, rowToTicketType)
	if err != nil {
		return tt, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}

	return tt, nil
}

func (r *TicketTypeRepo) List(ctx context.Context) ([]models.TicketType, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name, description FROM ticket_types ORDER BY name`)
	types, err := pgx.CollectRows(rows, rowToTicketType)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return types, nil
}

func (r *TicketTypeRepo) Update(ctx context.Context, tt models.TicketType) (models.TicketType, error) {
	rows, _ := r.DB.Query(ctx, `
		UPDATE ticket_types SET name = $2, description = $3 WHERE id = $1
		RETURNING id, name, description`,
		tt.ID, tt.Name, tt.Description)
	tt, err := pgx.CollectOneRow(rows, rowToTicketType)

	switch {
	case err == nil:
		return tt, nil
	case errors.Is(err, pgx.ErrNoRows):
		return tt, apperrors.ErrTicketTypeNotFound
	default:
		return tt, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}
}

func (r *TicketTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM ticket_types WHERE id = $1`, id, apperrors.ErrTicketTypeNotFound)
}

func rowToTicketType(row pgx.CollectableRow) (models.TicketType, error) {
	var t models.TicketType
	err := row.Scan(&t.ID, &t.Name, &t.Description)
	return t, err
}

type CategoryRepo struct {
	DB DBTX
}

func (r *CategoryRepo) Create(ctx context.Context, category models.Category) (models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO categories (id, name) VALUES ($1, $2)
		RETURNING id, name`,
		category.ID, category.Name)
	category, err := pgx.CollectOneRow(rows, rowToCategory)
	if err != nil {
		return category, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}

	return category, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	categories, err := pgx.CollectRows(rows, rowToCategory)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepo) Update(ctx context.Context, category models.Category) (models.Category, error) {
	rows, _ := r.DB.Query(ctx, `
		UPDATE categories SET name = $2 WHERE id = $1
		RETURNING id, name`,
		category.ID, category.Name)
	category, err := pgx.CollectOneRow(rows, rowToCategory)

	switch {
	case err == nil:
		return category, nil
	case errors.Is(err, pgx.ErrNoRows):
		return category, apperrors.ErrCategoryNotFound
	default:
		return category, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrMissingReference)
	}
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM categories WHERE id = $1`, id, apperrors.ErrCategoryNotFound)
}

func rowToCategory(row pgx.CollectableRow) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

type MenuItemRepo struct {
	DB DBTX
}

func (r *MenuItemRepo) Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO menu_items (id, name, category_id, price) VALUES ($1, $2, $3, $4)
		RETURNING id, name, category_id, price`,
		item.ID, item.Name, item.CategoryID, item.Price)
	item, err := pgx.CollectOneRow(rows, rowToMenuItem)
	if err != nil {
		return item, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrCategoryNotFound)
	}

	return item, nil
}

func (r *MenuItemRepo) List(ctx context.Context) ([]models.MenuItem, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name, category_id, price FROM menu_items ORDER BY name`)
	items, err := pgx.CollectRows(rows, rowToMenuItem)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

func (r *MenuItemRepo) Update(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	rows, _ := r.DB.Query(ctx, `
		UPDATE menu_items SET name = $2, category_id = $3, price = $4 WHERE id = $1
		RETURNING id, name, category_id, price`,
		item.ID, item.Name, item.CategoryID, item.Price)
	item, err := pgx.CollectOneRow(rows, rowToMenuItem)

	switch {
	case err == nil:
		return item, nil
	case errors.Is(err, pgx.ErrNoRows):
		return item, apperrors.ErrMenuItemNotFound
	default:
		return item, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrCategoryNotFound)
	}
}

func (r *MenuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM menu_items WHERE id = $1`, id, apperrors.ErrMenuItemNotFound)
}

func rowToMenuItem(row pgx.CollectableRow) (models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.CategoryID, &m.Price)
	return m, err
}

type EmployeeRepo struct {
	DB DBTX
}

func (r *EmployeeRepo) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}

	rows, _ := r.DB.Query(ctx, `
		INSERT INTO employees (id, name, role, restaurant_id) VALUES ($1, $2, $3, $4)
		RETURNING id, name, role, restaurant_id`,
		employee.ID, employee.Name, employee.Role, employee.RestaurantID)
	employee, err := pgx.CollectOneRow(rows, rowToEmployee)
	if err != nil {
		return employee, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrRestaurantNotFound)
	}

	return employee, nil
}

func (r *EmployeeRepo) List(ctx context.Context) ([]models.Employee, error) {
	rows, _ := r.DB.Query(ctx, `SELECT id, name, role, restaurant_id FROM employees ORDER BY name`)
	employees, err := pgx.CollectRows(rows, rowToEmployee)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employees, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, employee models.Employee) (models.Employee, error) {
	rows, _ := r.DB.Query(ctx, `
		UPDATE employees SET name = $2, role = $3, restaurant_id = $4 WHERE id = $1
		RETURNING id, name, role, restaurant_id`,
		employee.ID, employee.Name, employee.Role, employee.RestaurantID)
	employee, err := pgx.CollectOneRow(rows, rowToEmployee)

	switch {
	case err == nil:
		return employee, nil
	case errors.Is(err, pgx.ErrNoRows):
		return employee, apperrors.ErrEmployeeNotFound
	default:
		return employee, translateConstraint(err, apperrors.ErrAlreadyExists, apperrors.ErrRestaurantNotFound)
	}
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.DB, `DELETE FROM employees WHERE id = $1`, id, apperrors.ErrEmployeeNotFound)
}

func rowToEmployee(row pgx.CollectableRow) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Role, &e.RestaurantID)
	return e, err
}
