package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository/memory"
	"github.com/Kerhoff/RepBoT/internal/session"
	"github.com/Kerhoff/RepBoT/internal/transport"
	"github.com/Kerhoff/RepBoT/pkg/logger"
)

type harness struct {
	srv    *Server
	store  *session.Store
	client *client.Client
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	if opts.Secret == "" {
		opts.Secret = "test-secret"
	}
	log := logger.Discard()
	srv := NewServer(opts, log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	store := session.NewStore(memory.NewSessionRepository(), "test", log)
	hc := &http.Client{Transport: transport.New(store, ts.Client().Transport, nil, log)}
	return &harness{
		srv:    srv,
		store:  store,
		client: client.New(ts.URL+"/api", hc, log),
	}
}

func (h *harness) registerAndLogin(t *testing.T, email string) models.Session {
	t.Helper()
	ctx := context.Background()
	_, err := h.client.Auth.Register(ctx, models.RegisterData{
		RepresentativeInput: models.RepresentativeInput{
			FullName:  "Maria Lopez",
			BirthDate: models.MustDate("1985-07-14"),
			Country:   "CO",
			Email:     email,
		},
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := h.client.Auth.Login(ctx, models.Credentials{Username: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := h.store.Set(ctx, res.Session()); err != nil {
		t.Fatal(err)
	}
	return res.Session()
}

func TestChildRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	sess := h.registerAndLogin(t, "maria@example.com")

	created, err := h.client.Children.Create(ctx, models.ChildInput{
		FullName:  "Ana",
		BirthDate: models.MustDate("2015-03-02"),
		Country:   "CO",
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	children, err := h.client.Children.List(ctx)
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(children))
	}
	got := children[0]
	if got.ID == 0 || got.ID != created.ID {
		t.Errorf("expected server-assigned id %d, got %d", created.ID, got.ID)
	}
	if got.FullName != "Ana" || got.BirthDate.String() != "2015-03-02" || got.Country != "CO" {
		t.Errorf("unexpected child %+v", got)
	}
	if got.RepresentativeID != sess.UserID {
		t.Errorf("expected representative_id %d, got %d", sess.UserID, got.RepresentativeID)
	}
}

func TestLogoutSendsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	if _, err := h.client.Products.List(ctx); err != nil {
		t.Fatalf("authenticated list: %v", err)
	}
	if err := h.store.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	_, err := h.client.Products.List(ctx)
	if !client.IsUnauthorized(err) || client.Detail(err) != "Not authenticated" {
		t.Errorf("expected unauthenticated request, got %v", err)
	}
}

func TestOwnerScoping(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "first@example.com")

	p, err := h.client.Products.Create(ctx, models.ProductInput{Name: "Soap", Description: "Lavender", Price: 2.5, Stock: 4})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	h.registerAndLogin(t, "second@example.com")
	products, err := h.client.Products.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Errorf("expected no products for second owner, got %d", len(products))
	}
	if _, err := h.client.Products.Get(ctx, p.ID); !client.IsValidation(err) || client.Detail(err) != "Product not found" {
		t.Errorf("expected 404 for foreign product, got %v", err)
	}
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	p, err := h.client.Products.Create(ctx, models.ProductInput{Name: "Soap", Description: "Lavender", Price: 2.5, Stock: 4})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := h.client.Products.Update(ctx, p.ID, models.ProductInput{Name: "Soap", Description: "Rose", Price: 3, Stock: 0})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Description != "Rose" || updated.Stock != 0 {
		t.Errorf("unexpected update %+v", updated)
	}
	if err := h.client.Products.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := h.client.Products.Get(ctx, p.ID); !client.IsValidation(err) {
		t.Errorf("expected deleted product to be gone, got %v", err)
	}
}

func TestNegativePriceRejected(t *testing.T) {
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	_, err := h.client.Products.Create(context.Background(), models.ProductInput{Name: "Soap", Description: "x", Price: -1})
	if !client.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if client.Detail(err) != "price: must be 0 or more" {
		t.Errorf("unexpected detail %q", client.Detail(err))
	}
}

func TestInvitationLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	inv, err := h.client.Invitations.Create(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if inv.Code == "" || inv.IsUsed || !inv.Consistent() {
		t.Fatalf("unexpected new invitation %+v", inv)
	}
	if _, err := h.client.Invitations.Validate(ctx, inv.Code); err != nil {
		t.Errorf("validate: %v", err)
	}
	if err := h.store.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := h.client.Invitations.Validate(ctx, inv.Code); err != nil {
		t.Errorf("validate without session: %v", err)
	}
	if _, err := h.client.Invitations.Use(ctx, inv.Code); !client.IsUnauthorized(err) {
		t.Errorf("expected use without session to be rejected, got %v", err)
	}
	h.registerAndLogin(t, "guest@example.com")
	used, err := h.client.Invitations.Use(ctx, inv.Code)
	if err != nil {
		t.Fatalf("use: %v", err)
	}
	if !used.IsUsed || !used.Consistent() {
		t.Errorf("unexpected used invitation %+v", used)
	}
	if !used.CreatedAt.Equal(inv.CreatedAt.Time) {
		t.Errorf("created_at changed from %v to %v", inv.CreatedAt, used.CreatedAt)
	}

	_, err = h.client.Invitations.Use(ctx, inv.Code)
	if !client.IsValidation(err) || client.Detail(err) != "Invitation not found or already used" {
		t.Errorf("expected second use to be rejected, got %v", err)
	}
	if s, _ := h.store.Get(ctx); s == nil {
		t.Error("validation failure must not touch the session")
	}
}

func TestDuplicateEmail(t *testing.T) {
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	_, err := h.client.Auth.Register(context.Background(), models.RegisterData{
		RepresentativeInput: models.RepresentativeInput{FullName: "Other", Country: "PE", Email: "Maria@example.com"},
		Password:            "secret123",
	})
	if !client.IsValidation(err) || client.Detail(err) != "Email already registered" {
		t.Errorf("expected duplicate rejection, got %v", err)
	}
}

func TestExpiredAndRevokedTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := newHarness(t, Options{TokenTTL: time.Minute, Now: func() time.Time { return now }})
	sess := h.registerAndLogin(t, "maria@example.com")

	if _, err := h.client.Auth.Me(ctx); err != nil {
		t.Fatalf("me: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := h.client.Auth.Me(ctx); !client.IsUnauthorized(err) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}

	now = now.Add(-2 * time.Minute)
	h.srv.Revoke(sess.UserID)
	if _, err := h.client.Auth.Me(ctx); !client.IsUnauthorized(err) {
		t.Errorf("expected revoked token to be rejected, got %v", err)
	}
}

func TestWrongPassword(t *testing.T) {
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	_, err := h.client.Auth.Login(context.Background(), models.Credentials{Username: "maria@example.com", Password: "nope"})
	if client.Detail(err) != "Incorrect email or password" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Options{})
	h.registerAndLogin(t, "maria@example.com")

	if _, err := h.client.Children.Create(ctx, models.ChildInput{FullName: "Ana", Country: "CO"}); err != nil {
		t.Fatal(err)
	}
	if _, err := h.client.Invitations.Create(ctx); err != nil {
		t.Fatal(err)
	}
	phone := "+57 300 000 0000"
	rep, err := h.client.Auth.UpdateMe(ctx, models.RepresentativeInput{
		FullName: "Maria L.", Country: "CO", Email: "maria@example.com", Phone: &phone,
	})
	if err != nil {
		t.Fatalf("update me: %v", err)
	}
	if rep.FullName != "Maria L." || rep.Phone == nil || *rep.Phone != phone {
		t.Errorf("unexpected representative %+v", rep)
	}

	profile, err := h.client.Auth.Me(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(profile.Children) != 1 || len(profile.Invitations) != 1 || len(profile.Products) != 0 {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestCreateStatusCodes(t *testing.T) {
	h := newHarness(t, Options{})
	sess := h.registerAndLogin(t, "maria@example.com")

	tests := []struct {
		path string
		body string
		want int
	}{
		{"/api/representatives/", `{"full_name":"Luis","birth_date":"1990-01-01","country":"CO","email":"luis@example.com","password":"secret123"}`, http.StatusOK},
		{"/api/children/", `{"full_name":"Ana","birth_date":"2015-03-02","country":"CO"}`, http.StatusOK},
		{"/api/products/", `{"name":"Soap","description":"Lavender","price":2.5,"stock":3}`, http.StatusCreated},
		{"/api/invites/", ``, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+sess.Token)
			rec := httptest.NewRecorder()
			h.srv.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}
