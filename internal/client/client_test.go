package client_test

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kerhoff/RepBoT/internal/client"
	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/pkg/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/api", srv.Client(), logger.Discard())
}

func TestLoginSendsForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/representatives/token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.PostForm.Get("username") != "ana@example.com" || r.PostForm.Get("password") != "secret1" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		io.WriteString(w, `{"access_token":"abc","token_type":"bearer","user":{"id":7,"email":"ana@example.com"}}`)
	})

	res, err := c.Auth.Login(context.Background(), models.Credentials{Username: "ana@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	s := res.Session()
	if s.Token != "abc" || s.UserID != 7 {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestLoginWithoutTokenIsUnexpected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"token_type":"bearer"}`)
	})
	_, err := c.Auth.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	if !client.IsUnexpected(err) {
		t.Errorf("expected unexpected-response error, got %v", err)
	}
}

func TestRegisterSurfacesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Email already registered"}`)
	})
	_, err := c.Auth.Register(context.Background(), models.RegisterData{})
	if !client.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if client.Detail(err) != "Email already registered" {
		t.Errorf("unexpected detail %q", client.Detail(err))
	}
}

func TestCreateChildSendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/children/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatal(err)
		}
		if in["birth_date"] != "2015-03-02" || in["country"] != "CO" {
			t.Errorf("unexpected body %v", in)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":11,"full_name":"Ana","birth_date":"2015-03-02","country":"CO","representative_id":7}`)
	})

	child, err := c.Children.Create(context.Background(), models.ChildInput{
		FullName:  "Ana",
		BirthDate: models.MustDate("2015-03-02"),
		Country:   "CO",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if child.ID != 11 || child.RepresentativeID != 7 {
		t.Errorf("unexpected child %+v", child)
	}
}

func TestDeleteAcceptsEmptyAndMessageBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/3":
			w.WriteHeader(http.StatusNoContent)
		case "/api/children/4":
			io.WriteString(w, `{"message":"Child deleted"}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()
	if err := c.Products.Delete(ctx, 3); err != nil {
		t.Errorf("product delete: %v", err)
	}
	if err := c.Children.Delete(ctx, 4); err != nil {
		t.Errorf("child delete: %v", err)
	}
}

func TestInvitationCodeIsPathEscaped(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Invitation not found or already used"}`)
	})
	_, err := c.Invitations.Use(context.Background(), "a/b c")
	if got != "/api/invites/use/a%2Fb%20c" {
		t.Errorf("unexpected path %q", got)
	}
	if !client.IsValidation(err) || client.Detail(err) != "Invitation not found or already used" {
		t.Errorf("unexpected error %v", err)
	}
}

func TestUnauthorizedAndServerErrors(t *testing.T) {
	status := http.StatusUnauthorized
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})
	ctx := context.Background()

	if _, err := c.Products.List(ctx); !client.IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	status = http.StatusBadGateway
	if _, err := c.Products.List(ctx); !client.IsTransient(err) {
		t.Errorf("expected transient, got %v", err)
	}
}

func TestMalformedSuccessIsUnexpected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>oops</html>`)
	})
	if _, err := c.Invitations.List(context.Background()); !client.IsUnexpected(err) {
		t.Errorf("expected unexpected-response error, got %v", err)
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.New(url, &http.Client{Timeout: time.Second}, logger.Discard())
	if _, err := c.Children.List(context.Background()); !client.IsTransient(err) {
		t.Errorf("expected transient, got %v", err)
	}
}

func TestUnencodableBodyIsNotSent(t *testing.T) {
	var hits int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
	})

	_, err := c.Products.Create(context.Background(), models.ProductInput{Name: "Soap", Price: math.Inf(1), Stock: 1})
	if err == nil {
		t.Fatal("expected an encoding error")
	}
	if client.IsUnexpected(err) || client.IsTransient(err) || client.IsValidation(err) || client.IsUnauthorized(err) {
		t.Errorf("local encoding failure classified as an API error: %v", err)
	}
	if hits != 0 {
		t.Errorf("server was called %d times", hits)
	}
}
