package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/meetuphub/internal/domain/user"
	"github.com/geocoder89/meetuphub/internal/http/handlers"
	"github.com/geocoder89/meetuphub/internal/security"
	"github.com/gin-gonic/gin"
)

type fakeUsers struct {
	byEmail map[string]user.User
	nextID  int64
	getErr  error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]user.User{}}
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getErr != nil {
		return user.User{}, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}
	f.nextID++
	u := user.User{ID: f.nextID, Name: name, Email: email, PasswordHash: passwordHash}
	f.byEmail[email] = u
	return u, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID int64, email string) (string, error) {
	return "token-for-" + email, nil
}

func setupAuthRouter(users *fakeUsers) *gin.Engine {
	r := gin.New()
	h := handlers.NewAuthHandler(users, users, security.NewPasswordHasher(4), fakeTokens{}, nil)

	r.POST("/users", h.SignUp)
	r.POST("/sessions", h.Login)

	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type sessionBody struct {
	User        user.User `json:"user"`
	AccessToken string    `json:"accessToken"`
}

func TestSignUpThenLogin(t *testing.T) {
	users := newFakeUsers()
	r := setupAuthRouter(users)

	w := postJSON(r, "/users", `{"name":"Ana","email":"Ana@Example.com","password":"supersecret"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	var signup sessionBody
	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if signup.User.Email != "ana@example.com" || signup.AccessToken == "" {
		t.Fatalf("unexpected signup body %+v", signup)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("supersecret")) || bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("password material leaked: %s", w.Body.String())
	}

	w = postJSON(r, "/sessions", `{"email":"ana@example.com","password":"supersecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d body=%s", w.Code, w.Body.String())
	}

	var login sessionBody
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if login.User.ID != signup.User.ID || login.AccessToken != "token-for-ana@example.com" {
		t.Fatalf("unexpected login body %+v", login)
	}
}

func TestSignUp_EmailTaken(t *testing.T) {
	users := newFakeUsers()
	r := setupAuthRouter(users)

	body := `{"name":"Ana","email":"ana@example.com","password":"supersecret"}`
	if w := postJSON(r, "/users", body); w.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", w.Code)
	}

	w := postJSON(r, "/users", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		getErr error
		want   int
	}{
		{"wrong password", `{"email":"ana@example.com","password":"nope-nope"}`, nil, http.StatusUnauthorized},
		{"unknown email", `{"email":"bob@example.com","password":"supersecret"}`, nil, http.StatusUnauthorized},
		{"lookup error", `{"email":"ana@example.com","password":"supersecret"}`, errors.New("db down"), http.StatusUnauthorized},
		{"invalid body", `{"email":"not-an-email"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUsers()
			r := setupAuthRouter(users)

			if w := postJSON(r, "/users", `{"name":"Ana","email":"ana@example.com","password":"supersecret"}`); w.Code != http.StatusCreated {
				t.Fatalf("signup: %d", w.Code)
			}
			users.getErr = tt.getErr

			w := postJSON(r, "/sessions", tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d body=%s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
