package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"see-eat-backend/internal/domain"
)

// APIError is a non-2xx answer from the identity service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider: %d %s", e.Status, e.Message)
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// GoTrueClient talks to the Supabase Auth REST API.
type GoTrueClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

func NewGoTrueClient(projectURL, anonKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL: strings.TrimRight(projectURL, "/") + "/auth/v1",
		apiKey:  anonKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		now:     time.Now,
	}
}

var _ domain.IdentityProvider = (*GoTrueClient)(nil)

type goTrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type goTrueSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         *goTrueUser `json:"user"`

	// Present when sign-up returns the bare user because email
	// confirmation is pending.
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s *goTrueSession) toDomain(now time.Time) *domain.AuthSession {
	out := &domain.AuthSession{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		UserID:       s.ID,
		Email:        s.Email,
	}
	if s.User != nil {
		out.UserID = s.User.ID
		out.Email = s.User.Email
	}
	switch {
	case s.ExpiresAt > 0:
		out.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	case s.ExpiresIn > 0:
		out.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	}
	return out
}

type goTrueError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	ErrorCode        string `json:"error_code"`
	Code             string `json:"code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (c *GoTrueClient) do(ctx context.Context, method, path string, query url.Values, body interface{}, bearer string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var e goTrueError
	_ = json.NewDecoder(resp.Body).Decode(&e)

	apiErr := &APIError{Status: resp.StatusCode, Code: firstNonEmpty(e.ErrorCode, e.Code, e.Error)}
	apiErr.Message = firstNonEmpty(e.ErrorDescription, e.Msg, e.Message, e.Error, http.StatusText(resp.StatusCode))

	lower := strings.ToLower(apiErr.Message + " " + apiErr.Code)
	switch {
	case strings.Contains(lower, "invalid login credentials"), apiErr.Code == "invalid_grant", apiErr.Code == "invalid_credentials":
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, apiErr)
	case strings.Contains(lower, "already registered"), apiErr.Code == "user_already_exists", apiErr.Code == "email_exists":
		return fmt.Errorf("%w: %w", ErrEmailTaken, apiErr)
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var s goTrueSession
	err := c.do(ctx, http.MethodPost, "/signup", nil, map[string]string{
		"email":    email,
		"password": password,
	}, "", &s)
	if err != nil {
		return nil, err
	}
	return s.toDomain(c.now()), nil
}

func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var s goTrueSession
	err := c.do(ctx, http.MethodPost, "/token", url.Values{"grant_type": {"password"}}, map[string]string{
		"email":    email,
		"password": password,
	}, "", &s)
	if err != nil {
		return nil, err
	}
	return s.toDomain(c.now()), nil
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, accessToken, nil)
}

func (c *GoTrueClient) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	var q url.Values
	if redirectTo != "" {
		q = url.Values{"redirect_to": {redirectTo}}
	}
	return c.do(ctx, http.MethodPost, "/recover", q, map[string]string{"email": email}, "", nil)
}

// OAuthURL is the browser redirect that starts an OAuth sign-in.
func (c *GoTrueClient) OAuthURL(provider, redirectTo string) (string, error) {
	if provider == "" {
		return "", errors.New("oauth provider required")
	}
	q := url.Values{"provider": {provider}}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/authorize?" + q.Encode(), nil
}
