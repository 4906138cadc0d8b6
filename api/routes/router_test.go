package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/angelvillar/pawmart-backend/internal/auth"
	cartsvc "github.com/angelvillar/pawmart-backend/internal/cart"
	mediasvc "github.com/angelvillar/pawmart-backend/internal/media"
	ordersvc "github.com/angelvillar/pawmart-backend/internal/orders"
	productsvc "github.com/angelvillar/pawmart-backend/internal/products"
	profilesvc "github.com/angelvillar/pawmart-backend/internal/profiles"
	settingsvc "github.com/angelvillar/pawmart-backend/internal/settings"
	pkgauth "github.com/angelvillar/pawmart-backend/pkg/auth"
	"github.com/angelvillar/pawmart-backend/pkg/auth/session"
	"github.com/angelvillar/pawmart-backend/pkg/config"
	"github.com/angelvillar/pawmart-backend/pkg/enums"
	"github.com/angelvillar/pawmart-backend/pkg/logger"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, input authsvc.RefreshInput) (*authsvc.RefreshResult, error) {
	return &authsvc.RefreshResult{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (stubAuthService) CreateAdmin(ctx context.Context, input authsvc.CreateAdminInput) (*authsvc.UserSummary, error) {
	return &authsvc.UserSummary{}, nil
}

type stubProductsService struct{}

func (stubProductsService) List(ctx context.Context) ([]productsvc.ProductView, error) {
	return []productsvc.ProductView{}, nil
}

func (stubProductsService) Get(ctx context.Context, id uuid.UUID) (*productsvc.ProductView, error) {
	return &productsvc.ProductView{ID: id}, nil
}

func (stubProductsService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.ProductView, error) {
	return &productsvc.ProductView{}, nil
}

func (stubProductsService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateInput) (*productsvc.ProductView, error) {
	return &productsvc.ProductView{ID: id}, nil
}

func (stubProductsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) View(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) SetQuantity(ctx context.Context, input cartsvc.SetQuantityInput) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubOrdersService struct{}

func (stubOrdersService) Submit(ctx context.Context, userID uuid.UUID) (*ordersvc.OrderView, error) {
	return &ordersvc.OrderView{}, nil
}

func (stubOrdersService) Get(ctx context.Context, userID, orderID uuid.UUID) (*ordersvc.OrderView, error) {
	return &ordersvc.OrderView{ID: orderID}, nil
}

func (stubOrdersService) ListForUser(ctx context.Context, userID uuid.UUID) ([]ordersvc.OrderView, error) {
	return []ordersvc.OrderView{}, nil
}

func (stubOrdersService) ListAll(ctx context.Context, limit, offset int) ([]ordersvc.AdminOrderView, error) {
	return []ordersvc.AdminOrderView{}, nil
}

func (stubOrdersService) Decide(ctx context.Context, input ordersvc.DecisionInput) (*ordersvc.OrderView, error) {
	return &ordersvc.OrderView{ID: input.OrderID}, nil
}

type stubProfilesService struct{}

func (stubProfilesService) Get(ctx context.Context, userID uuid.UUID) (*profilesvc.ProfileView, error) {
	return &profilesvc.ProfileView{UserID: userID}, nil
}

func (stubProfilesService) UpdateEmail(ctx context.Context, input profilesvc.UpdateEmailInput) (*profilesvc.ProfileView, error) {
	return &profilesvc.ProfileView{UserID: input.UserID}, nil
}

type stubSettingsService struct{}

func (stubSettingsService) ContactInfo(ctx context.Context) (*settingsvc.ContactInfoView, error) {
	return &settingsvc.ContactInfoView{}, nil
}

func (stubSettingsService) UpdateContactInfo(ctx context.Context, input settingsvc.ContactInfoInput) (*settingsvc.ContactInfoView, error) {
	return &settingsvc.ContactInfoView{}, nil
}

func (stubSettingsService) AdminSettings(ctx context.Context) (*settingsvc.AdminSettingsView, error) {
	return &settingsvc.AdminSettingsView{}, nil
}

func (stubSettingsService) UpdateAdminSettings(ctx context.Context, input settingsvc.AdminSettingsInput) (*settingsvc.AdminSettingsView, error) {
	return &settingsvc.AdminSettingsView{}, nil
}

func (stubSettingsService) AdminSignupHidden(ctx context.Context) (bool, error) {
	return false, nil
}

type stubMediaService struct{}

func (stubMediaService) UploadImage(ctx context.Context, input mediasvc.UploadInput) (*mediasvc.UploadOutput, error) {
	return &mediasvc.UploadOutput{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "pawmart",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Media: config.MediaConfig{MaxUploadBytes: 1 << 20},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Session:  stubSessionChecker{},
		Auth:     stubAuthService{},
		Products: stubProductsService{},
		Cart:     stubCartService{},
		Orders:   stubOrdersService{},
		Profiles: stubProfilesService{},
		Settings: stubSettingsService{},
		Media:    stubMediaService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/api/v1/products", "/api/v1/products/" + uuid.NewString(), "/api/v1/contact"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestCartRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestProductWritesAreAdminOnly(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	body := `{"name":"Chew Toy","price":"9.99","discount_percentage":0}`

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer create got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin create got %d", resp.Code)
	}
}

func TestOrderSubmitRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token got %d", resp.Code)
	}
}

func TestMetricsEndpointIsMounted(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}
