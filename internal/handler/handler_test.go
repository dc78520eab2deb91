package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
	"github.com/easygroceries/grocery-api/internal/domain/order"
	"github.com/easygroceries/grocery-api/internal/domain/product"
)

// --- Mock implementations ---

type mockCustomerRepo struct {
	nextID  int64
	byEmail map[string]int64
	byID    map[int64]*customer.Customer
	listErr error
}

func newCustomerRepo(customers ...customer.Customer) *mockCustomerRepo {
	m := &mockCustomerRepo{
		nextID:  1,
		byEmail: make(map[string]int64),
		byID:    make(map[int64]*customer.Customer),
	}
	for i := range customers {
		c := customers[i]
		m.byID[c.ID] = &c
		if c.Email != "" {
			m.byEmail[c.Email] = c.ID
		}
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
	return m
}

func (m *mockCustomerRepo) Add(_ context.Context, c *customer.Customer) (int64, error) {
	if c.Email != "" {
		if id, ok := m.byEmail[c.Email]; ok {
			return id, nil
		}
	}
	id := m.nextID
	m.nextID++
	stored := *c
	stored.ID = id
	stored.IsActive = true
	m.byID[id] = &stored
	if c.Email != "" {
		m.byEmail[c.Email] = id
	}
	return id, nil
}

func (m *mockCustomerRepo) List(_ context.Context) ([]customer.Customer, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]customer.Customer, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

type mockProductRepo struct {
	nextID int64
	byID   map[int64]*product.Product
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	m := &mockProductRepo{nextID: 1, byID: make(map[int64]*product.Product)}
	for i := range products {
		p := products[i]
		m.byID[p.ID] = &p
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
	}
	return m
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) Add(_ context.Context, p *product.Product) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *p
	stored.ID = id
	m.byID[id] = &stored
	return id, nil
}

func (m *mockProductRepo) Update(_ context.Context, p *product.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return product.ErrNotFound
	}
	stored := *p
	m.byID[p.ID] = &stored
	return nil
}

type mockOrderRepo struct {
	nextID   int64
	orders   map[int64]*order.Order
	items    []order.OrderItem
	products map[int64]*product.Product
}

func newOrderRepo(products *mockProductRepo) *mockOrderRepo {
	return &mockOrderRepo{
		nextID:   100,
		orders:   make(map[int64]*order.Order),
		products: products.byID,
	}
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *o
	stored.ID = id
	m.orders[id] = &stored
	return id, nil
}

func (m *mockOrderRepo) CreateItems(_ context.Context, items []order.OrderItem) error {
	m.items = append(m.items, items...)
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListPhysicalItems(_ context.Context, orderID int64) ([]order.ShippingSlipItem, error) {
	var out []order.ShippingSlipItem
	for _, it := range m.items {
		if it.OrderID != orderID {
			continue
		}
		p, ok := m.products[it.ProductID]
		if !ok || !p.IsPhysical {
			continue
		}
		out = append(out, order.ShippingSlipItem{
			ProductName: p.Name,
			Description: p.Description,
			Quantity:    it.Quantity,
		})
	}
	return out, nil
}

// --- Helpers ---

type testEnv struct {
	router    *gin.Engine
	customers *mockCustomerRepo
	products  *mockProductRepo
	orders    *mockOrderRepo
}

func newTestEnv(products ...product.Product) *testEnv {
	gin.SetMode(gin.TestMode)

	customers := newCustomerRepo()
	productRepo := newProductRepo(products...)
	orders := newOrderRepo(productRepo)
	svc := order.NewService(customers, productRepo, orders)

	r := gin.New()
	NewHandler(customers, productRepo, svc).Routes(r)

	return &testEnv{router: r, customers: customers, products: productRepo, orders: orders}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func testProduct(id int64, name, price string, physical bool) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		IsPhysical:  physical,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
}

// --- Customer routes ---

func TestAddNewCustomer(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/customers/addnew",
		`{"name":"Ada","email":"ada@example.com","address":"1 Main Street"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got CustomerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.CustomerID)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestAddNewCustomer_SameEmailReturnsSameID(t *testing.T) {
	env := newTestEnv()

	first := env.do(t, http.MethodPost, "/api/customers/addnew",
		`{"name":"Ada","email":"ada@example.com"}`)
	second := env.do(t, http.MethodPost, "/api/customers/addnew",
		`{"name":"Someone Else","email":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b CustomerDTO
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.CustomerID, b.CustomerID)
}

func TestAddNewCustomer_EmptyBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/customers/addnew", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomerByID_NotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/customers/getbyid/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer with ID 42 not found.", rec.Body.String())
}

func TestGetAllCustomers_Empty(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/customers/getall", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// --- Product routes ---

func TestProductsList(t *testing.T) {
	env := newTestEnv(testProduct(1, "Milk", "1.55", true))

	rec := env.do(t, http.MethodGet, "/api/products/productslist", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Milk", got[0].Name)
	assert.InDelta(t, 1.55, got[0].Price, 1e-9)
}

func TestGetProductByID_NotFound(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/products/getbyid/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product with ID 7 not found.", rec.Body.String())
}

func TestAddNewProduct(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/products/addnew",
		`{"name":"Coffee","description":"Ground coffee","price":4.90,"isPhysical":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ProductID)
	assert.Equal(t, "Coffee", got.Name)
}

func TestAddNewProduct_NegativePrice(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/products/addnew",
		`{"name":"Coffee","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestUpdateProduct_NotFoundReturnsNull(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPut, "/api/products/update",
		`{"productId":99,"name":"Ghost","price":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(testProduct(1, "Milk", "1.55", true))

	rec := env.do(t, http.MethodPut, "/api/products/update",
		`{"productId":1,"name":"Whole Milk","price":1.75,"isPhysical":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Whole Milk", got.Name)
}

// --- Order routes ---

func TestCheckout(t *testing.T) {
	env := newTestEnv(
		testProduct(1, "Product A", "10.00", true),
		testProduct(2, "Product B", "20.00", true),
	)

	rec := env.do(t, http.MethodPost, "/api/orders/checkout", `{
		"basketItems": [
			{"productId": 1, "quantity": 2},
			{"productId": 2, "quantity": 1}
		],
		"includeLoyaltyMembership": false,
		"shippingAddress": "1 Main Street",
		"customer": {"name": "Ada", "email": "ada@example.com"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.OrderResponse)
	assert.InDelta(t, 40.0, got.OrderResponse.Total, 1e-9)
	require.Equal(t, []ItemLineDTO{
		{Name: "Product A", Quantity: 2},
		{Name: "Product B", Quantity: 1},
	}, got.OrderResponse.ItemLines)

	require.NotNil(t, got.ShippingSlip)
	assert.Equal(t, got.OrderResponse.OrderNumber, got.ShippingSlip.OrderID)
	assert.Len(t, got.ShippingSlip.Items, 2)
}

func TestCheckout_WithLoyalty(t *testing.T) {
	env := newTestEnv(testProduct(1, "Product A", "10.00", true))

	rec := env.do(t, http.MethodPost, "/api/orders/checkout", `{
		"basketItems": [{"productId": 1, "quantity": 2}],
		"includeLoyaltyMembership": true,
		"shippingAddress": "1 Main Street",
		"customer": {"name": "Ada", "email": "ada@example.com"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	// 10.00*0.8*2 + 5.00
	assert.InDelta(t, 21.0, got.OrderResponse.Total, 1e-9)
	require.NotEmpty(t, got.OrderResponse.ItemLines)
	last := got.OrderResponse.ItemLines[len(got.OrderResponse.ItemLines)-1]
	assert.Equal(t, ItemLineDTO{Name: "EasyGroceries loyalty membership", Quantity: 1}, last)
}

func TestCheckout_MissingProduct(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/orders/checkout", `{
		"basketItems": [{"productId": 42, "quantity": 1}],
		"customer": {"email": "ada@example.com"}
	}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error processing order: product 42 not found")
}

func TestCheckout_EmptyBody(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/orders/checkout", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_MissingProductID(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/orders/checkout", `{
		"basketItems": [{"quantity": 1}]
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fields")
}

func TestGetShippingSlip(t *testing.T) {
	env := newTestEnv(
		testProduct(1, "Milk", "1.55", true),
		testProduct(2, "Recipe Book", "6.00", false),
	)

	checkout := env.do(t, http.MethodPost, "/api/orders/checkout", `{
		"basketItems": [
			{"productId": 1, "quantity": 3},
			{"productId": 2, "quantity": 1}
		],
		"shippingAddress": "1 Main Street",
		"customer": {"name": "Ada", "email": "ada@example.com"}
	}`)
	require.Equal(t, http.StatusOK, checkout.Code)

	var res CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(checkout.Body.Bytes(), &res))

	rec := env.do(t, http.MethodGet,
		"/api/orders/getshippingslip/"+strconv.FormatInt(res.OrderResponse.OrderNumber, 10), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var slip order.ShippingSlip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slip))
	require.Len(t, slip.Items, 1)
	assert.Equal(t, "Milk", slip.Items[0].ProductName)
	assert.Equal(t, "Ada", slip.CustomerName)
}

func TestGetShippingSlip_MissReturnsNull(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/orders/getshippingslip/404", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}
