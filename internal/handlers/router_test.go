package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ucampus/refectory/internal/logger"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
	"github.com/ucampus/refectory/internal/repository/postgres"
	"github.com/ucampus/refectory/internal/service/ledger"
	"github.com/ucampus/refectory/internal/service/locker"
	"github.com/ucampus/refectory/internal/service/ticket"
	"github.com/ucampus/refectory/internal/testutil"
)

type fixtures struct {
	group      models.Group
	restaurant models.Restaurant
	ticketType models.TicketType
	account    models.Account
	locker     models.Locker
}

// seed creates the collaborators a purchase or check-in needs:
// a group with a 6.10 lunch price, a restaurant with one locker and
// an account holding 50.00.
func seed(t *testing.T, storage repository.Storage) fixtures {
	t.Helper()

	group, err := storage.Group().Create(t.Context(), models.Group{Name: "students"})
	require.NoError(t, err)

	restaurant, err := storage.Restaurant().Create(t.Context(), models.Restaurant{Name: "Central"})
	require.NoError(t, err)

	ticketType, err := storage.TicketType().Create(t.Context(), models.TicketType{Name: "lunch"})
	require.NoError(t, err)

	_, err = storage.PriceRule().Create(t.Context(), models.PriceRule{
		GroupID:      group.ID,
		TicketTypeID: ticketType.ID,
		Price:        decimal.RequireFromString("6.10"),
	})
	require.NoError(t, err)

	account, err := storage.Account().Create(t.Context(), models.Account{
		Name:         "Test Diner",
		Registration: "2026-0001",
		GroupID:      group.ID,
		Balance:      decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	lkr, err := storage.Locker().Create(t.Context(), models.Locker{
		RestaurantID: restaurant.ID,
		Number:       1,
	})
	require.NoError(t, err)

	return fixtures{group: group, restaurant: restaurant, ticketType: ticketType, account: account, locker: lkr}
}

func doRequest(t *testing.T, method, url, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(respBody)
}

func Test_Router(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Run http server with production services on top of a rollback-scoped tx
	withServer := func(t *testing.T, fn func(url string, storage repository.Storage, f fixtures)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			f := seed(t, storage)

			h := NewRouter(
				ledger.NewService(storage),
				ticket.NewService(storage),
				locker.NewService(storage),
				storage,
				logger.NewNoOpLogger(),
			)
			srv := httptest.NewServer(h)
			defer srv.Close()

			fn(srv.URL, storage, f)
		})
	}

	t.Run("purchase ticket ok", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"ticket_type_id": %q, "restaurant_id": %q}`, f.ticketType.ID, f.restaurant.ID)

			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+f.account.ID.String()+"/tickets", body)

			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			var got struct {
				ID            uuid.UUID `json:"id"`
				AccountID     uuid.UUID `json:"account_id"`
				TransactionID uuid.UUID `json:"transaction_id"`
				Status        string    `json:"status"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &got))
			require.Equal(t, f.account.ID, got.AccountID)
			require.Equal(t, "active", got.Status)
			require.NotEqual(t, uuid.Nil, got.TransactionID)

			account, err := storage.Account().Get(t.Context(), f.account.ID, false)
			require.NoError(t, err)
			require.True(t, account.Balance.Equal(decimal.RequireFromString("43.90")))
		})
	})

	t.Run("purchase with insufficient funds", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			poor, err := storage.Account().Create(t.Context(), models.Account{
				Name:         "Broke Diner",
				Registration: "2026-0002",
				GroupID:      f.group.ID,
				Balance:      decimal.RequireFromString("1.00"),
			})
			require.NoError(t, err)

			body := fmt.Sprintf(`{"ticket_type_id": %q, "restaurant_id": %q}`, f.ticketType.ID, f.restaurant.ID)

			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+poor.ID.String()+"/tickets", body)

			require.Equalf(t, http.StatusPaymentRequired, code, "not expected code. Body: %s", resp)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Insufficient funds"
				}`, resp)
		})
	})

	t.Run("purchase for unknown account", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"ticket_type_id": %q, "restaurant_id": %q}`, f.ticketType.ID, f.restaurant.ID)

			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+uuid.NewString()+"/tickets", body)

			require.Equalf(t, http.StatusNotFound, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("purchase with malformed body", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+f.account.ID.String()+"/tickets", `{"ticket_type_id": "not-a-uuid"}`)

			require.Equalf(t, http.StatusBadRequest, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("add credit and read history", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+f.account.ID.String()+"/credit", `{"amount": 20}`)

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)
			require.JSONEq(t, `{"balance": 70}`, resp)

			code, resp = doRequest(t, http.MethodGet, url+"/api/accounts/"+f.account.ID.String()+"/transactions", "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			var history []struct {
				Type        string  `json:"type"`
				Amount      float64 `json:"amount"`
				AccountName string  `json:"account_name"`
				GroupName   string  `json:"group_name"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &history))
			require.Len(t, history, 1)
			require.Equal(t, "credit", history[0].Type)
			require.InDelta(t, 20.0, history[0].Amount, 0.001)
			require.Equal(t, "Test Diner", history[0].AccountName)
			require.Equal(t, "students", history[0].GroupName)
		})
	})

	t.Run("credit requires positive amount", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+f.account.ID.String()+"/credit", `{"amount": -5}`)

			require.Equalf(t, http.StatusBadRequest, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("cancel ticket twice conflicts", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"ticket_type_id": %q, "restaurant_id": %q}`, f.ticketType.ID, f.restaurant.ID)
			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+f.account.ID.String()+"/tickets", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			var created struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &created))

			code, resp = doRequest(t, http.MethodPost, url+"/api/tickets/"+created.ID.String()+"/cancel", "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodPost, url+"/api/tickets/"+created.ID.String()+"/cancel", "")
			require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", resp)
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Ticket is already cancelled"
				}`, resp)
		})
	})

	t.Run("locker check-in and check-out", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"account_id": %q}`, f.account.ID)

			code, resp := doRequest(t, http.MethodPost, url+"/api/lockers/"+f.locker.ID.String()+"/checkin", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			// Same locker can not be taken twice
			code, resp = doRequest(t, http.MethodPost, url+"/api/lockers/"+f.locker.ID.String()+"/checkin", body)
			require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodPost, url+"/api/lockers/"+f.locker.ID.String()+"/checkout", "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			var usage struct {
				CheckedOutAt *string `json:"checked_out_at"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &usage))
			require.NotNil(t, usage.CheckedOutAt)

			// And check-out again has nothing to close
			code, resp = doRequest(t, http.MethodPost, url+"/api/lockers/"+f.locker.ID.String()+"/checkout", "")
			require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("usage history filtered by account", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"account_id": %q}`, f.account.ID)
			code, resp := doRequest(t, http.MethodPost, url+"/api/lockers/"+f.locker.ID.String()+"/checkin", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodGet, url+"/api/locker-usages?account_id="+f.account.ID.String(), "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			var usages []struct {
				LockerID  uuid.UUID `json:"locker_id"`
				AccountID uuid.UUID `json:"account_id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &usages))
			require.Len(t, usages, 1)
			require.Equal(t, f.locker.ID, usages[0].LockerID)

			code, resp = doRequest(t, http.MethodGet, url+"/api/locker-usages?account_id=not-a-uuid", "")
			require.Equalf(t, http.StatusBadRequest, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("account crud", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"name": "New Diner", "registration": "2026-0099", "group_id": %q}`, f.group.ID)

			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			var created struct {
				ID      uuid.UUID `json:"id"`
				Balance float64   `json:"balance"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &created))
			require.Zero(t, created.Balance, "balance should default to zero")

			// Duplicate registration conflicts
			code, resp = doRequest(t, http.MethodPost, url+"/api/accounts", body)
			require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("delete referenced group", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			code, resp := doRequest(t, http.MethodDelete, url+"/api/groups/"+f.group.ID.String(), "")

			require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("get ticket by id", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"ticket_type_id": %q, "restaurant_id": %q}`, f.ticketType.ID, f.restaurant.ID)
			code, resp := doRequest(t, http.MethodPost, url+"/api/accounts/"+f.account.ID.String()+"/tickets", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			var created struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &created))

			code, resp = doRequest(t, http.MethodGet, url+"/api/tickets/"+created.ID.String(), "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			var got struct {
				ID        uuid.UUID `json:"id"`
				AccountID uuid.UUID `json:"account_id"`
				Status    string    `json:"status"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &got))
			require.Equal(t, created.ID, got.ID)
			require.Equal(t, f.account.ID, got.AccountID)
			require.Equal(t, "active", got.Status)

			code, resp = doRequest(t, http.MethodGet, url+"/api/tickets/"+uuid.NewString(), "")
			require.Equalf(t, http.StatusNotFound, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("update catalog entities", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			code, resp := doRequest(t, http.MethodPut, url+"/api/groups/"+f.group.ID.String(), `{"name": "staff"}`)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)
			require.JSONEq(t, fmt.Sprintf(`{"id": %q, "name": "staff"}`, f.group.ID), resp)

			code, resp = doRequest(t, http.MethodPut, url+"/api/ticket-types/"+f.ticketType.ID.String(), `{"name": "dinner", "description": "evening meal"}`)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			var tt struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &tt))
			require.Equal(t, "dinner", tt.Name)
			require.Equal(t, "evening meal", tt.Description)

			code, resp = doRequest(t, http.MethodPost, url+"/api/categories", `{"name": "Mains"}`)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)
			var category struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &category))

			code, resp = doRequest(t, http.MethodPut, url+"/api/categories/"+category.ID.String(), `{"name": "Desserts"}`)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			body := fmt.Sprintf(`{"name": "Rice", "category_id": %q, "price": 4.50}`, category.ID)
			code, resp = doRequest(t, http.MethodPost, url+"/api/menu-items", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)
			var item struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &item))

			body = fmt.Sprintf(`{"name": "Beans", "category_id": %q, "price": 3.25}`, category.ID)
			code, resp = doRequest(t, http.MethodPut, url+"/api/menu-items/"+item.ID.String(), body)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)
			require.JSONEq(t, fmt.Sprintf(`{"id": %q, "name": "Beans", "category_id": %q, "price": 3.25}`, item.ID, category.ID), resp)

			body = fmt.Sprintf(`{"name": "Chef", "role": "cook", "restaurant_id": %q}`, f.restaurant.ID)
			code, resp = doRequest(t, http.MethodPost, url+"/api/employees", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)
			var employee struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &employee))

			body = fmt.Sprintf(`{"name": "Chef", "role": "manager", "restaurant_id": %q}`, f.restaurant.ID)
			code, resp = doRequest(t, http.MethodPut, url+"/api/employees/"+employee.ID.String(), body)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			// Unknown id is a miss, not an upsert
			code, resp = doRequest(t, http.MethodPut, url+"/api/groups/"+uuid.NewString(), `{"name": "ghosts"}`)
			require.Equalf(t, http.StatusNotFound, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("menu composition flow", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			code, resp := doRequest(t, http.MethodPost, url+"/api/categories", `{"name": "Mains"}`)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)
			var category struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &category))

			body := fmt.Sprintf(`{"name": "Rice", "category_id": %q, "price": 4.50}`, category.ID)
			code, resp = doRequest(t, http.MethodPost, url+"/api/menu-items", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)
			var item struct {
				ID uuid.UUID `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &item))

			body = fmt.Sprintf(`{"restaurant_id": %q, "served_on": "2026-09-01", "meal_type": "lunch"}`, f.restaurant.ID)
			code, resp = doRequest(t, http.MethodPost, url+"/api/menus", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)
			var menu struct {
				ID       uuid.UUID `json:"id"`
				ServedOn string    `json:"served_on"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &menu))
			require.Equal(t, "2026-09-01", menu.ServedOn)

			findURL := url + "/api/menus?restaurant_id=" + f.restaurant.ID.String() + "&date=2026-09-01&meal_type=lunch"

			code, resp = doRequest(t, http.MethodGet, findURL, "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)

			var found struct {
				ID    uuid.UUID `json:"id"`
				Items []struct {
					ID   uuid.UUID `json:"id"`
					Name string    `json:"name"`
				} `json:"items"`
			}
			require.NoError(t, json.Unmarshal([]byte(resp), &found))
			require.Equal(t, menu.ID, found.ID)
			require.Empty(t, found.Items)

			body = fmt.Sprintf(`{"menu_item_id": %q}`, item.ID)
			code, resp = doRequest(t, http.MethodPost, url+"/api/menus/"+menu.ID.String()+"/items", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodGet, findURL, "")
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", resp)
			require.NoError(t, json.Unmarshal([]byte(resp), &found))
			require.Len(t, found.Items, 1)
			require.Equal(t, "Rice", found.Items[0].Name)

			// Filter params are mandatory
			code, resp = doRequest(t, http.MethodGet, url+"/api/menus?restaurant_id="+f.restaurant.ID.String()+"&date=2026-09-01", "")
			require.Equalf(t, http.StatusBadRequest, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodGet, url+"/api/menus?restaurant_id="+f.restaurant.ID.String()+"&date=2026-09-02&meal_type=lunch", "")
			require.Equalf(t, http.StatusNotFound, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodDelete, url+"/api/menus/"+menu.ID.String()+"/items/"+item.ID.String(), "")
			require.Equalf(t, http.StatusNoContent, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodDelete, url+"/api/menus/"+menu.ID.String(), "")
			require.Equalf(t, http.StatusNoContent, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodGet, findURL, "")
			require.Equalf(t, http.StatusNotFound, code, "not expected code. Body: %s", resp)

			// Recreate the slot, then the same slot again conflicts
			body = fmt.Sprintf(`{"restaurant_id": %q, "served_on": "2026-09-01", "meal_type": "lunch"}`, f.restaurant.ID)
			code, resp = doRequest(t, http.MethodPost, url+"/api/menus", body)
			require.Equalf(t, http.StatusCreated, code, "not expected code. Body: %s", resp)

			code, resp = doRequest(t, http.MethodPost, url+"/api/menus", body)
			require.Equalf(t, http.StatusConflict, code, "not expected code. Body: %s", resp)
		})
	})

	t.Run("menu for unknown restaurant", func(t *testing.T) {
		withServer(t, func(url string, storage repository.Storage, f fixtures) {
			body := fmt.Sprintf(`{"restaurant_id": %q, "served_on": "2026-09-01", "meal_type": "lunch"}`, uuid.New())
			code, resp := doRequest(t, http.MethodPost, url+"/api/menus", body)

			require.Equalf(t, http.StatusBadRequest, code, "not expected code. Body: %s", resp)
		})
	})
}
