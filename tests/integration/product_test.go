//go:build integration

package integration

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestProductsList(t *testing.T) {
	resp := doGet(t, "/api/products/productslist")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) < 9 {
		t.Fatalf("expected at least 9 products, got %d", len(products))
	}

	byName := make(map[string]productResponse, len(products))
	for _, p := range products {
		byName[p.Name] = p
	}

	milk, ok := byName["Semi-Skimmed Milk 2L"]
	if !ok {
		t.Fatal("seeded milk product missing from list")
	}
	if milk.Price != 1.55 {
		t.Errorf("milk price: got %v, want 1.55", milk.Price)
	}
	if !milk.IsPhysical {
		t.Error("milk should be physical")
	}

	book, ok := byName["Digital Recipe Book"]
	if !ok {
		t.Fatal("seeded recipe book missing from list")
	}
	if book.IsPhysical {
		t.Error("recipe book should not be physical")
	}
}

func TestGetProductByID(t *testing.T) {
	list := doGet(t, "/api/products/productslist")
	products := decodeJSON[[]productResponse](t, list)
	list.Body.Close()
	if len(products) == 0 {
		t.Fatal("no products seeded")
	}

	want := products[0]
	resp := doGet(t, fmt.Sprintf("/api/products/getbyid/%d", want.ProductID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[productResponse](t, resp)
	if got.Name != want.Name {
		t.Errorf("name: got %q, want %q", got.Name, want.Name)
	}
}

func TestGetProductByID_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/getbyid/999999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if want := "Product with ID 999999 not found."; string(body) != want {
		t.Errorf("body: got %q, want %q", body, want)
	}
}

func TestAddAndUpdateProduct(t *testing.T) {
	created := doPost(t, "/api/products/addnew", map[string]any{
		"name":        "Integration Test Tea 80ct",
		"description": "Everyday tea bags",
		"price":       2.85,
		"isPhysical":  true,
	})
	defer created.Body.Close()

	if created.StatusCode != http.StatusOK {
		t.Fatalf("addnew: expected 200, got %d", created.StatusCode)
	}

	p := decodeJSON[productResponse](t, created)
	if p.ProductID == 0 {
		t.Fatal("addnew: expected non-zero product ID")
	}

	updated := doPut(t, "/api/products/update", map[string]any{
		"productId":   p.ProductID,
		"name":        "Integration Test Tea 160ct",
		"description": "Everyday tea bags, big box",
		"price":       4.95,
		"isPhysical":  true,
	})
	defer updated.Body.Close()

	if updated.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", updated.StatusCode)
	}

	got := decodeJSON[productResponse](t, updated)
	if got.Name != "Integration Test Tea 160ct" {
		t.Errorf("updated name: got %q", got.Name)
	}
}

func TestUpdateProduct_UnknownIDReturnsNull(t *testing.T) {
	resp := doPut(t, "/api/products/update", map[string]any{
		"productId": 999999,
		"name":      "Ghost Product",
		"price":     1.00,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "null" {
		t.Errorf("body: got %q, want null", body)
	}
}
