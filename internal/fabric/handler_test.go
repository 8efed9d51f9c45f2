package fabric

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/stash"
	"shrusti-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func branchToken(t *testing.T, branchID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"branch_id": branchID})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func fakeBackend(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/api/receipts/suppliers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]upstream.Supplier{
			{ID: 4, SupplierName: "Shree Fabrics", SupplierShortName: "SHREE"},
		})
	})
	mux.HandleFunc("/api/receipts/fabric-types", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]upstream.FabricType{
			{ID: 1, FabricTypeName: "Cotton Lycra"},
		})
	})
	return srv, mux
}

func newApp(api *upstream.Client, store stash.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Unexpected server error"})
		},
	})
	g := app.Group("/screens")
	g.Use(session.Middleware())
	g.Get("/fabric-receipt", ScreenHandler(api, store))
	g.Post("/fabric-receipt", CreateReceiptHandler(api, store))
	g.Post("/fabric-receipt/duplicate", DuplicateHandler(api, store))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestScreenAssemblesAllParts(t *testing.T) {
	srv, mux := fakeBackend(t)
	mux.HandleFunc("/api/receipts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("branchId") != "7" {
			t.Errorf("branchId = %q, want 7", r.URL.Query().Get("branchId"))
		}
		json.NewEncoder(w).Encode([]upstream.Receipt{{ID: 1, UniqueNumber: "1234567890"}})
	})

	app := newApp(upstream.New(srv.URL), stash.NewMemory())
	resp := doJSON(t, app, "GET", "/screens/fabric-receipt", branchToken(t, "7"), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var screen ScreenResponse
	if err := json.NewDecoder(resp.Body).Decode(&screen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(screen.Receipts) != 1 || len(screen.Suppliers) != 1 || len(screen.FabricTypes) != 1 {
		t.Errorf("screen = %+v, want one of each", screen)
	}
	if len(screen.Defaults.UniqueNumber) != 10 {
		t.Errorf("default unique number = %q", screen.Defaults.UniqueNumber)
	}
	if screen.Defaults.Date == "" {
		t.Error("default date missing")
	}
	if screen.Prefill != nil {
		t.Error("unexpected prefill on a fresh screen")
	}
}

func TestScreenWithoutTokenRedirects(t *testing.T) {
	srv, _ := fakeBackend(t)
	app := newApp(upstream.New(srv.URL), stash.NewMemory())

	req := httptest.NewRequest("GET", "/screens/fabric-receipt", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["redirect"] != "/login" {
		t.Errorf("redirect = %q, want /login", body["redirect"])
	}
}

func TestCreateReceiptForwardsResolvedSupplier(t *testing.T) {
	srv, mux := fakeBackend(t)
	var created map[string]any
	mux.HandleFunc("/api/receipts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&created)
		w.WriteHeader(http.StatusCreated)
	})

	app := newApp(upstream.New(srv.URL), stash.NewMemory())
	resp := doJSON(t, app, "POST", "/screens/fabric-receipt", branchToken(t, "7"), CreateReceiptRequest{
		UniqueNumber:     "1234567890",
		SupplierName:     "shree fabrics",
		InvoiceNo:        "INV-9",
		Date:             "15032024",
		WeightOfMaterial: "25.5",
		FabricType:       "Cotton Lycra",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if created["supplierId"] != float64(4) {
		t.Errorf("supplierId = %v, want 4", created["supplierId"])
	}
	if created["supplierShortName"] != "SHREE" {
		t.Errorf("supplierShortName = %v", created["supplierShortName"])
	}
	if created["date"] != "2024-03-15" {
		t.Errorf("date = %v, want ISO form", created["date"])
	}
	if created["branchId"] != "7" {
		t.Errorf("branchId = %v", created["branchId"])
	}
}

func TestCreateReceiptValidation(t *testing.T) {
	srv, _ := fakeBackend(t)
	app := newApp(upstream.New(srv.URL), stash.NewMemory())
	token := branchToken(t, "7")

	base := CreateReceiptRequest{
		UniqueNumber:     "1234567890",
		SupplierName:     "Shree Fabrics",
		InvoiceNo:        "INV-9",
		Date:             "15/03/2024",
		WeightOfMaterial: "25.5",
		FabricType:       "Cotton Lycra",
	}

	tests := []struct {
		name   string
		mutate func(*CreateReceiptRequest)
		want   string
	}{
		{"short number", func(r *CreateReceiptRequest) { r.UniqueNumber = "123" }, "10 digits"},
		{"bad weight", func(r *CreateReceiptRequest) { r.WeightOfMaterial = "25.5kg" }, "Weight"},
		{"bad date", func(r *CreateReceiptRequest) { r.Date = "2024-03-15x" }, "DD/MM/YYYY"},
		{"unknown supplier", func(r *CreateReceiptRequest) { r.SupplierName = "Nobody" }, "not registered"},
		{"unknown fabric", func(r *CreateReceiptRequest) { r.FabricType = "Nylon" }, "not registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			resp := doJSON(t, app, "POST", "/screens/fabric-receipt", token, req)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var body map[string]string
			json.NewDecoder(resp.Body).Decode(&body)
			if !strings.Contains(body["error"], tt.want) {
				t.Errorf("error = %q, want mention of %q", body["error"], tt.want)
			}
		})
	}
}

func TestDuplicateCreateParksPrefill(t *testing.T) {
	srv, mux := fakeBackend(t)
	mux.HandleFunc("/api/receipts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "Receipt already exists"})
		default:
			json.NewEncoder(w).Encode([]upstream.Receipt{})
		}
	})

	store := stash.NewMemory()
	app := newApp(upstream.New(srv.URL), store)
	token := branchToken(t, "7")

	resp := doJSON(t, app, "POST", "/screens/fabric-receipt", token, CreateReceiptRequest{
		UniqueNumber:     "1234567890",
		SupplierName:     "Shree Fabrics",
		InvoiceNo:        "INV-9",
		Date:             "15/03/2024",
		WeightOfMaterial: "25.5",
		FabricType:       "Cotton Lycra",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want upstream 409 forwarded", resp.StatusCode)
	}

	// The reloaded screen offers the parked values back, exactly once, with
	// a fresh number and today's date in place of the rejected ones.
	resp = doJSON(t, app, "GET", "/screens/fabric-receipt", token, nil)
	var screen ScreenResponse
	json.NewDecoder(resp.Body).Decode(&screen)
	if screen.Prefill == nil {
		t.Fatal("no prefill after duplicate rejection")
	}
	if screen.Prefill.InvoiceNo != "INV-9" || screen.Prefill.SupplierName != "Shree Fabrics" || screen.Prefill.WeightOfMaterial != "25.5" {
		t.Errorf("prefill = %+v", screen.Prefill)
	}
	if screen.Prefill.UniqueNumber != screen.Defaults.UniqueNumber {
		t.Errorf("prefill number = %q, want the fresh default", screen.Prefill.UniqueNumber)
	}
	if screen.Prefill.Date != screen.Defaults.Date {
		t.Errorf("prefill date = %q, want today", screen.Prefill.Date)
	}

	resp = doJSON(t, app, "GET", "/screens/fabric-receipt", token, nil)
	screen = ScreenResponse{}
	json.NewDecoder(resp.Body).Decode(&screen)
	if screen.Prefill != nil {
		t.Error("prefill survived a second load, want consume-on-read")
	}
}

func TestDuplicateActionParksReceipt(t *testing.T) {
	srv, mux := fakeBackend(t)
	mux.HandleFunc("/api/receipts/1234567890", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(upstream.Receipt{
			UniqueNumber:     "1234567890",
			SupplierName:     "Shree Fabrics",
			InvoiceNo:        "INV-9",
			Date:             "2024-03-15",
			WeightOfMaterial: "25.5",
			FabricType:       "Cotton Lycra",
		})
	})
	mux.HandleFunc("/api/receipts", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]upstream.Receipt{})
	})

	store := stash.NewMemory()
	app := newApp(upstream.New(srv.URL), store)
	token := branchToken(t, "7")

	resp := doJSON(t, app, "POST", "/screens/fabric-receipt/duplicate", token, DuplicateRequest{UniqueNumber: "1234567890"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "GET", "/screens/fabric-receipt", token, nil)
	var screen ScreenResponse
	json.NewDecoder(resp.Body).Decode(&screen)
	if screen.Prefill == nil {
		t.Fatal("no prefill after duplicate action")
	}
	if screen.Prefill.SupplierName != "Shree Fabrics" || screen.Prefill.FabricType != "Cotton Lycra" {
		t.Errorf("prefill = %+v", screen.Prefill)
	}
	if screen.Prefill.UniqueNumber == "1234567890" {
		t.Error("duplicated receipt kept its number, want a fresh one")
	}
}
