package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/models"
)

// ErrInvalidTheme is returned by SetTheme for anything but light or dark.
var ErrInvalidTheme = errors.New("theme must be light or dark")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, strings.Join(e.Errors, ", "))
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to the portfolio API and keeps the session in a SessionStore.
type Client struct {
	baseURL string
	http    *http.Client
	store   SessionStore
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func New(baseURL string, store SessionStore, opts ...Option) *Client {
	if store == nil {
		store = &MemoryStore{}
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		logger:  log.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the stored session.
func (c *Client) Session() (Session, error) {
	return c.store.Load()
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// ListResponse is one page of a listing.
type ListResponse[T any] struct {
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Data        []T   `json:"data"`
}

// ListOptions are the paging and filter query parameters.
type ListOptions struct {
	Page    int
	Limit   int
	Filters map[string]string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	for k, v := range o.Filters {
		q.Set(k, v)
	}
	return q
}

// Login signs in and stores the token and user.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	return c.authenticate(ctx, Signin, map[string]string{"email": email, "password": password})
}

// Signup registers a new account and stores the token and user.
func (c *Client) Signup(ctx context.Context, name, email, password string) (User, error) {
	return c.authenticate(ctx, Signup, map[string]string{"name": name, "email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, op string, body any) (User, error) {
	var resp authResponse
	if err := c.do(ctx, Endpoints[op], "", nil, body, &resp); err != nil {
		return User{}, err
	}

	s, err := c.store.Load()
	if err != nil {
		return User{}, err
	}
	s.Token = resp.Token
	s.User = &resp.User
	if err := c.store.Save(s); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Logout revokes the token on the server and clears it locally. The local
// session is cleared even when the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	s, err := c.store.Load()
	if err != nil {
		return err
	}

	var remote error
	if s.Authenticated() {
		remote = c.do(ctx, Endpoints[Signout], "", nil, nil, nil)
		if remote != nil {
			c.logger.Warn().Err(remote).Msg("Signout request failed, clearing local session anyway")
		}
	}

	if err := c.clearAuth(); err != nil {
		return err
	}
	return remote
}

// IsAdmin reports whether the stored user has the admin role.
func (c *Client) IsAdmin() bool {
	s, err := c.store.Load()
	if err != nil {
		return false
	}
	return s.User != nil && s.User.Role == models.RoleAdmin
}

// Theme returns the stored theme, light when none was chosen.
func (c *Client) Theme() string {
	s, err := c.store.Load()
	if err != nil || s.Theme == "" {
		return ThemeLight
	}
	return s.Theme
}

func (c *Client) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	s, err := c.store.Load()
	if err != nil {
		return err
	}
	s.Theme = theme
	return c.store.Save(s)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (c *Client) ToggleTheme() (string, error) {
	next := ThemeDark
	if c.Theme() == ThemeDark {
		next = ThemeLight
	}
	return next, c.SetTheme(next)
}

func (c *Client) ListProjects(ctx context.Context, opts ListOptions) (ListResponse[models.Project], error) {
	var page ListResponse[models.Project]
	err := c.do(ctx, Endpoints[ListProjects], "", opts.query(), nil, &page)
	return page, err
}

func (c *Client) GetProject(ctx context.Context, id string) (models.Project, error) {
	var resp envelope[models.Project]
	err := c.do(ctx, Endpoints[GetProject], id, nil, nil, &resp)
	return resp.Data, err
}

func (c *Client) ListQualifications(ctx context.Context, opts ListOptions) (ListResponse[models.Qualification], error) {
	var page ListResponse[models.Qualification]
	err := c.do(ctx, Endpoints[ListQualifications], "", opts.query(), nil, &page)
	return page, err
}

// ContactMessage is what a visitor submits through the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (c *Client) SendContact(ctx context.Context, msg ContactMessage) (models.ContactReceipt, error) {
	var resp envelope[models.ContactReceipt]
	err := c.do(ctx, Endpoints[SendContact], "", nil, msg, &resp)
	return resp.Data, err
}

func (c *Client) clearAuth() error {
	s, err := c.store.Load()
	if err != nil {
		return err
	}
	s.Token = ""
	s.User = nil
	return c.store.Save(s)
}

// do sends one request with the stored bearer token and decodes a 2xx body
// into out. A 401 on an authenticated request ends the local session.
func (c *Client) do(ctx context.Context, ep Endpoint, id string, query url.Values, body, out any) error {
	target := c.baseURL + ep.Expand(id)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	session, err := c.store.Load()
	if err != nil {
		return err
	}
	if session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Message string   `json:"message"`
			Errors  []string `json:"errors"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Message
			apiErr.Errors = e.Errors
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized && session.Authenticated() {
			c.logger.Info().Msg("Session rejected by server, signing out locally")
			if err := c.clearAuth(); err != nil {
				return errors.Join(apiErr, err)
			}
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
