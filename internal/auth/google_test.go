package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginURL(t *testing.T) {
	p := NewGoogleProvider(GoogleConfig{
		ClientID:    "client-123",
		RedirectURL: "http://localhost:8460/api/auth/google/callback",
	})

	raw := p.LoginURL("state-abc")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Contains(t, q.Get("scope"), "email")
}

func TestExchangeCode(t *testing.T) {
	var gotCode, gotAuth string

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotCode = r.FormValue("code")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sub":"g-42","email":"hero@example.com","name":"Hero"}`)
	}))
	defer userSrv.Close()

	p := NewGoogleProvider(GoogleConfig{
		ClientID:     "client-123",
		ClientSecret: "secret",
		TokenURL:     tokenSrv.URL,
		UserInfoURL:  userSrv.URL,
	})

	info, err := p.ExchangeCode(context.Background(), "code-xyz")
	require.NoError(t, err)

	assert.Equal(t, "code-xyz", gotCode)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "g-42", info.Sub)
	assert.Equal(t, "hero@example.com", info.Email)
}

func TestExchangeCodeTokenFailure(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer tokenSrv.Close()

	p := NewGoogleProvider(GoogleConfig{ClientID: "c", ClientSecret: "s", TokenURL: tokenSrv.URL})
	_, err := p.ExchangeCode(context.Background(), "bad-code")
	assert.Error(t, err)
}

func TestExchangeCodeEmptyToken(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer tokenSrv.Close()

	p := NewGoogleProvider(GoogleConfig{ClientID: "c", ClientSecret: "s", TokenURL: tokenSrv.URL})
	_, err := p.ExchangeCode(context.Background(), "code")
	assert.ErrorContains(t, err, "empty access token")
}
