package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"see-eat-backend/pkg/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoTrueClient(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "correct-horse" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_at":1700000000,"user":{"id":"u1","email":"ana@example.com"}}`))
	})
	mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u2","email":"` + body["email"] + `"}`))
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/v1/recover", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "http://app.test/reset", r.URL.Query().Get("redirect_to"))
		_, _ = w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := auth.NewGoTrueClient(srv.URL+"/", "anon")

	t.Run("password sign-in returns a session", func(t *testing.T) {
		s, err := client.SignInWithPassword(ctx, "ana@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "at", s.AccessToken)
		assert.Equal(t, "u1", s.UserID)
		assert.Equal(t, int64(1700000000), s.ExpiresAt.Unix())
	})

	t.Run("wrong password maps to invalid credentials", func(t *testing.T) {
		_, err := client.SignInWithPassword(ctx, "ana@example.com", "nope")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		var apiErr *auth.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	})

	t.Run("sign-up pending confirmation still yields the user id", func(t *testing.T) {
		s, err := client.SignUp(ctx, "new@example.com", "long-password")
		require.NoError(t, err)
		assert.Equal(t, "u2", s.UserID)
		assert.Empty(t, s.AccessToken)
	})

	t.Run("sign-up with a taken email", func(t *testing.T) {
		_, err := client.SignUp(ctx, "taken@example.com", "long-password")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("sign-out and password reset", func(t *testing.T) {
		assert.NoError(t, client.SignOut(ctx, "at"))
		assert.NoError(t, client.SendPasswordReset(ctx, "ana@example.com", "http://app.test/reset"))
	})

	t.Run("oauth url", func(t *testing.T) {
		raw, err := client.OAuthURL("google", "http://app.test/callback")
		require.NoError(t, err)
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "/auth/v1/authorize", u.Path)
		assert.Equal(t, "google", u.Query().Get("provider"))
		assert.Equal(t, "http://app.test/callback", u.Query().Get("redirect_to"))
	})
}

func TestProviderKeyFunc(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		_ = json.NewEncoder(w).Encode(auth.JWKS{Keys: []auth.JSONWebKey{{
			Kid: "k1",
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	provider := auth.NewProvider(srv.URL)

	sign := func(kid string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "u1"})
		tok.Header["kid"] = kid
		s, err := tok.SignedString(key)
		require.NoError(t, err)
		return s
	}

	t.Run("verifies a token signed with a published key", func(t *testing.T) {
		tok, err := jwt.Parse(sign("k1"), provider.KeyFunc)
		require.NoError(t, err)
		assert.True(t, tok.Valid)

		_, err = jwt.Parse(sign("k1"), provider.KeyFunc)
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	})

	t.Run("unknown kid fails", func(t *testing.T) {
		_, err := jwt.Parse(sign("k2"), provider.KeyFunc)
		assert.Error(t, err)
	})

	t.Run("HMAC tokens are rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
		s, err := tok.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = jwt.Parse(s, provider.KeyFunc)
		assert.Error(t, err)
	})
}
