package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dujiao-next/storefront/internal/config"
	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Error      string          `json:"error"`
	Data       json.RawMessage `json:"data"`
}

type testStore struct {
	engine    *gin.Engine
	container *provider.Container
	db        *gorm.DB
}

func setupRouterTest(t *testing.T) *testStore {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.MigrateAll(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Metrics.Enabled = true
	cfg.Catalog.LowStockThreshold = 10
	cfg.Catalog.HighStockThreshold = 90

	c, err := provider.NewContainerWithDB(cfg, db, nil)
	require.NoError(t, err)
	return &testStore{engine: SetupRouter(cfg, c), container: c, db: db}
}

func (s *testStore) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testStore) createUser(t *testing.T, email string, isStaff, isSuper bool) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		IsStaff:      isStaff,
		IsSuperuser:  isSuper,
		Status:       constants.UserStatusActive,
	}
	require.NoError(t, s.db.Create(user).Error)
	_, err := s.container.CustomerService.CreateForUser(nil, user.ID)
	require.NoError(t, err)
	token, _, err := s.container.AuthService.GenerateUserJWT(user)
	require.NoError(t, err)
	return user, token
}

func decodeData(t *testing.T, env apiEnvelope, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest), string(env.Data))
}

func (s *testStore) seedCatalog(t *testing.T, staffToken string) (uint, uint) {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/v1/collections", staffToken, gin.H{"title": "Bakery"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var collection struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &collection)

	ids := make([]uint, 0, 2)
	for _, p := range []gin.H{
		{"title": "Bread", "price": "10.00", "inventory": 50, "collection": collection.ID},
		{"title": "Butter", "price": "5.00", "inventory": 5, "collection": collection.ID},
	} {
		w, env := s.do(t, http.MethodPost, "/api/v1/products", staffToken, p)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var product struct {
			ID uint `json:"id"`
		}
		decodeData(t, env, &product)
		ids = append(ids, product.ID)
	}
	return ids[0], ids[1]
}

func TestCheckoutFlow(t *testing.T) {
	s := setupRouterTest(t)
	_, staffToken := s.createUser(t, "staff@example.com", true, false)
	breadID, butterID := s.seedCatalog(t, staffToken)

	w, env := s.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "Alice@Example.com", "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &auth)
	require.NotEmpty(t, auth.Token)

	w, env = s.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var cart struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &cart)

	itemsPath := "/api/v1/carts/" + cart.ID + "/items"
	w, _ = s.do(t, http.MethodPost, itemsPath, "", gin.H{"product_id": breadID, "quantity": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPost, itemsPath, "", gin.H{"product_id": breadID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(t, http.MethodPost, itemsPath, "", gin.H{"product_id": butterID, "quantity": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/carts/"+cart.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
		TotalPrice string `json:"total_price"`
	}
	decodeData(t, env, &detail)
	assert.Len(t, detail.Items, 2)
	assert.Equal(t, "25.00", detail.TotalPrice)

	w, env = s.do(t, http.MethodPost, "/api/v1/orders", auth.Token, gin.H{"cart_id": cart.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order struct {
		ID            uint   `json:"id"`
		PaymentStatus string `json:"payment_status"`
		TotalPrice    string `json:"total_price"`
		Items         []struct {
			UnitPrice string `json:"unit_price"`
		} `json:"items"`
	}
	decodeData(t, env, &order)
	assert.Equal(t, constants.OrderStatusPending, order.PaymentStatus)
	assert.Equal(t, "25.00", order.TotalPrice)
	assert.Len(t, order.Items, 2)

	w, env = s.do(t, http.MethodGet, "/api/v1/carts/"+cart.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Error)

	// 非员工不可修改订单
	w, env = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), auth.Token, gin.H{"payment_status": "C"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "permission_error", env.Error)

	w, env = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), staffToken, gin.H{"payment_status": "C"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, env, &order)
	assert.Equal(t, constants.OrderStatusCompleted, order.PaymentStatus)

	// 被订单项引用的商品不可删除
	w, env = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", breadID), staffToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict_error", env.Error)
	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", breadID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlaceOrderRejectsEmptyOrUnknownCart(t *testing.T) {
	s := setupRouterTest(t)
	_, token := s.createUser(t, "bob@example.com", false, false)

	w, env := s.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var cart struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &cart)

	w, env = s.do(t, http.MethodPost, "/api/v1/orders", token, gin.H{"cart_id": cart.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Error)

	w, _ = s.do(t, http.MethodPost, "/api/v1/orders", token, gin.H{"cart_id": "6f1c1d52-7a1e-4c3c-9f43-1b2a6b0f1e11"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/orders", token, gin.H{"cart_id": "not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/orders", "", gin.H{"cart_id": cart.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCartAddUnknownProductIsNotFound(t *testing.T) {
	s := setupRouterTest(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var cart struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &cart)

	w, env = s.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", "", gin.H{"product_id": 99999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, "not_found", env.Error)

	var count int64
	require.NoError(t, s.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderListScopedToCustomer(t *testing.T) {
	s := setupRouterTest(t)
	_, staffToken := s.createUser(t, "staff@example.com", true, false)
	breadID, _ := s.seedCatalog(t, staffToken)
	_, aliceToken := s.createUser(t, "alice@example.com", false, false)
	_, bobToken := s.createUser(t, "bob@example.com", false, false)

	placeOrder := func(token string) uint {
		_, env := s.do(t, http.MethodPost, "/api/v1/carts", "", nil)
		var cart struct {
			ID string `json:"id"`
		}
		decodeData(t, env, &cart)
		w, _ := s.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID+"/items", "", gin.H{"product_id": breadID, "quantity": 1})
		require.Equal(t, http.StatusCreated, w.Code)
		w, env = s.do(t, http.MethodPost, "/api/v1/orders", token, gin.H{"cart_id": cart.ID})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var order struct {
			ID uint `json:"id"`
		}
		decodeData(t, env, &order)
		return order.ID
	}
	aliceOrder := placeOrder(aliceToken)
	placeOrder(bobToken)

	w, env := s.do(t, http.MethodGet, "/api/v1/orders", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, aliceOrder, orders[0].ID)

	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", aliceOrder), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/orders", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &orders)
	assert.Len(t, orders, 2)
}

func TestCatalogWritesRequireStaff(t *testing.T) {
	s := setupRouterTest(t)
	_, token := s.createUser(t, "carol@example.com", false, false)

	w, _ := s.do(t, http.MethodPost, "/api/v1/collections", "", gin.H{"title": "Bakery"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/v1/collections", token, gin.H{"title": "Bakery"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/collections", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesEnforceRBAC(t *testing.T) {
	s := setupRouterTest(t)
	_, superToken := s.createUser(t, "root@example.com", true, true)
	staff, staffToken := s.createUser(t, "ops@example.com", true, false)
	breadID, _ := s.seedCatalog(t, superToken)

	w, env := s.do(t, http.MethodGet, "/api/v1/admin/reports/inventory?level=low", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "permission_error", env.Error)

	w, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/authz/users/%d/roles", staff.ID), staffToken, gin.H{"roles": []string{"catalog_manager"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/authz/users/%d/roles", staff.ID), superToken, gin.H{"roles": []string{"catalog_manager"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodGet, "/api/v1/admin/reports/inventory?level=low", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var items []struct {
		Title           string `json:"title"`
		InventoryStatus string `json:"inventory_status"`
	}
	decodeData(t, env, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Butter", items[0].Title)
	assert.Equal(t, constants.InventoryStatusRunningLow, items[0].InventoryStatus)

	w, _ = s.do(t, http.MethodGet, "/api/v1/admin/reports/inventory?level=huge", staffToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/v1/admin/products/clear-inventory", staffToken, gin.H{"product_ids": []uint{breadID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cleared struct {
		Updated int64 `json:"updated"`
	}
	decodeData(t, env, &cleared)
	assert.Equal(t, int64(1), cleared.Updated)

	// catalog_manager 不含会员管理权限
	w, _ = s.do(t, http.MethodPatch, "/api/v1/admin/customers/1/membership", staffToken, gin.H{"membership": "Premium"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodPatch, "/api/v1/admin/customers/1/membership", superToken, gin.H{"membership": "Premium"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/admin/authz/roles", superToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var roles []struct {
		Role    string `json:"role"`
		Builtin bool   `json:"builtin"`
	}
	decodeData(t, env, &roles)
	builtin := map[string]bool{}
	for _, role := range roles {
		builtin[role.Role] = role.Builtin
	}
	assert.True(t, builtin["role:catalog_manager"])
	assert.True(t, builtin["role:order_manager"])

	w, _ = s.do(t, http.MethodDelete, "/api/v1/admin/authz/policies", superToken, gin.H{
		"role": "catalog_manager", "object": "/admin/products/clear-inventory", "action": "POST",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCustomerProfileCannotChangeMembership(t *testing.T) {
	s := setupRouterTest(t)
	_, token := s.createUser(t, "dave@example.com", false, false)

	w, env := s.do(t, http.MethodPut, "/api/v1/customers/me", token, gin.H{"phone": "555-0100", "membership": "Premium", "birth_date": "1990-04-01"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var customer struct {
		Phone      string `json:"phone"`
		Membership string `json:"membership"`
	}
	decodeData(t, env, &customer)
	assert.Equal(t, "555-0100", customer.Phone)
	assert.Equal(t, constants.MembershipBasic, customer.Membership)

	w, _ = s.do(t, http.MethodPut, "/api/v1/customers/me", token, gin.H{"membership": "Gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	s := setupRouterTest(t)

	w, _ := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")

	w, _ = s.do(t, http.MethodGet, "/api/v1/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
