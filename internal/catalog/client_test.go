package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestGetSendsFixedHeaders(t *testing.T) {
	var gotUA, gotAccept, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "es-ES,es;q=0.9", testLogger())
	if _, err := client.Get(context.Background(), "/categories/"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if gotUA != userAgent {
		t.Errorf("Expected User-Agent %q, got %q", userAgent, gotUA)
	}
	if gotAccept != acceptHeader {
		t.Errorf("Expected Accept %q, got %q", acceptHeader, gotAccept)
	}
	if gotLang != "es-ES,es;q=0.9" {
		t.Errorf("Expected Accept-Language 'es-ES,es;q=0.9', got %q", gotLang)
	}
}

func TestGetReturnsNonOKAsValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", testLogger())
	resp, err := client.Get(context.Background(), "/products/1")
	if err != nil {
		t.Fatalf("Expected no error for a received response, got %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "down" {
		t.Errorf("Expected body 'down', got %q", resp.Body)
	}
}

func TestGetReturnsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force a connection error

	client := NewClient(server.URL, "", testLogger())
	if _, err := client.Get(context.Background(), "/categories/"); err == nil {
		t.Error("Expected a transport error, got nil")
	}
}

func TestCategoriesParsesTree(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": [
			{"id": 12, "name": "Aceite y vinagre", "categories": [
				{"id": 112, "name": "Aceite de oliva"},
				{"id": 113, "name": "Vinagre"}
			]},
			{"id": 13, "name": "Agua y refrescos", "categories": [
				{"id": 115, "name": "Agua"}
			]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", testLogger())
	roots, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories failed: %v", err)
	}

	if len(roots) != 2 {
		t.Fatalf("Expected 2 root categories, got %d", len(roots))
	}
	if roots[0].ID != "12" || roots[0].Name != "Aceite y vinagre" {
		t.Errorf("Unexpected first category: %+v", roots[0])
	}
	if len(roots[0].Children) != 2 {
		t.Errorf("Expected 2 subcategories, got %d", len(roots[0].Children))
	}
	if roots[1].Children[0].ID != "115" {
		t.Errorf("Expected subcategory id '115', got %q", roots[1].Children[0].ID)
	}
}

func TestCategoriesNonOKIsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", testLogger())
	_, err := client.Categories(context.Background())

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", httpErr.StatusCode)
	}
}

func TestCategoryDetailBothLevels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 112,
			"products": [{"id": "4240"}, {"id": "4241"}],
			"categories": [
				{"id": 977, "products": [{"id": "9100"}]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", testLogger())
	node, err := client.CategoryDetail(context.Background(), "112")
	if err != nil {
		t.Fatalf("CategoryDetail failed: %v", err)
	}

	if len(node.Products) != 2 || node.Products[0] != "4240" || node.Products[1] != "4241" {
		t.Errorf("Unexpected direct products: %v", node.Products)
	}
	if len(node.Children) != 1 {
		t.Fatalf("Expected 1 nested subcategory, got %d", len(node.Children))
	}
	if len(node.Children[0].Products) != 1 || node.Children[0].Products[0] != "9100" {
		t.Errorf("Unexpected nested products: %v", node.Children[0].Products)
	}
}

func TestProductSnapshotParsing(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantName  string
		wantPrice float64
		wantSize  *float64
	}{
		{
			name:      "full payload with string price",
			body:      `{"display_name": "Aceite de oliva virgen extra", "price_instructions": {"unit_price": "4.75", "unit_size": 0.5}}`,
			wantName:  "Aceite de oliva virgen extra",
			wantPrice: 4.75,
			wantSize:  ptr(0.5),
		},
		{
			name:      "numeric price",
			body:      `{"display_name": "Agua mineral", "price_instructions": {"unit_price": 0.60}}`,
			wantName:  "Agua mineral",
			wantPrice: 0.60,
			wantSize:  nil,
		},
		{
			name:      "missing display_name defaults to placeholder",
			body:      `{"price_instructions": {"unit_price": "1.20"}}`,
			wantName:  "unnamed",
			wantPrice: 1.20,
			wantSize:  nil,
		},
		{
			name:      "missing unit_price defaults to zero",
			body:      `{"display_name": "Sal fina"}`,
			wantName:  "Sal fina",
			wantPrice: 0,
			wantSize:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "", testLogger())
			snap, err := client.ProductSnapshot(context.Background(), "1")
			if err != nil {
				t.Fatalf("ProductSnapshot failed: %v", err)
			}

			if snap.Name != tt.wantName {
				t.Errorf("Expected name %q, got %q", tt.wantName, snap.Name)
			}
			if snap.UnitPrice != tt.wantPrice {
				t.Errorf("Expected price %v, got %v", tt.wantPrice, snap.UnitPrice)
			}
			if (snap.UnitSize == nil) != (tt.wantSize == nil) {
				t.Fatalf("Expected unit size %v, got %v", tt.wantSize, snap.UnitSize)
			}
			if tt.wantSize != nil && *snap.UnitSize != *tt.wantSize {
				t.Errorf("Expected unit size %v, got %v", *tt.wantSize, *snap.UnitSize)
			}
		})
	}
}

func ptr(f float64) *float64 { return &f }
