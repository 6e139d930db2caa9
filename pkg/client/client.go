// Package client is a typed Go client for the articlegate API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNotAuthenticated is returned by calls needing a session when none exists.
var ErrNotAuthenticated = errors.New("articlegate: not authenticated")

// Client talks to one articlegate API base URL, e.g. http://localhost:5000/api.
type Client struct {
	baseURL string
	doer    Doer
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces http.DefaultClient.
func WithDoer(d Doer) Option {
	return func(c *Client) { c.doer = d }
}

// WithSession shares an existing session, e.g. one restored from disk.
func WithSession(s *Session) Option {
	return func(c *Client) { c.session = s }
}

// New creates a client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		doer:    http.DefaultClient,
	}

	for _, o := range opts {
		o(c)
	}

	if c.session == nil {
		c.session = NewSession()
	}

	return c
}

// Session returns the session updated by Login, Register, Refresh and Logout.
func (c *Client) Session() *Session {
	return c.session
}

type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

func (c *Client) store(res authResponse) *User {
	u := res.User
	c.session.Replace(State{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken, User: &u})

	return &u
}

// Login signs in and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var res authResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &res); err != nil {
		return nil, err
	}

	return c.store(res), nil
}

// Register creates an account and stores the session.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	var res authResponse
	if err := c.call(ctx, http.MethodPost, "/auth/register", "", in, &res); err != nil {
		return nil, err
	}

	return c.store(res), nil
}

// Refresh exchanges the stored refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	token := c.session.Current().RefreshToken
	if token == "" {
		return ErrNotAuthenticated
	}

	var res authResponse
	if err := c.call(ctx, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": token}, &res); err != nil {
		return err
	}

	c.store(res)

	return nil
}

// Logout revokes the refresh token and clears the session, also when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	token := c.session.Current().RefreshToken
	defer c.session.Clear()

	if token == "" {
		return nil
	}

	return c.call(ctx, http.MethodPost, "/auth/logout", "", map[string]string{"refreshToken": token}, nil)
}

// Me returns the user behind the current access token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var res struct {
		User User `json:"user"`
	}
	if err := c.authed(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, err
	}

	return &res.User, nil
}

// ListArticles returns the articles visible to the user, newest first.
func (c *Client) ListArticles(ctx context.Context) ([]Article, error) {
	var res struct {
		Articles []Article `json:"articles"`
	}
	if err := c.authed(ctx, http.MethodGet, "/articles", nil, &res); err != nil {
		return nil, err
	}

	return res.Articles, nil
}

type articleResponse struct {
	Article Article `json:"article"`
}

// GetArticle returns a single article.
func (c *Client) GetArticle(ctx context.Context, id uint) (*Article, error) {
	var res articleResponse
	if err := c.authed(ctx, http.MethodGet, articlePath(id), nil, &res); err != nil {
		return nil, err
	}

	return &res.Article, nil
}

// CreateArticle stores a new draft.
func (c *Client) CreateArticle(ctx context.Context, title, body string, image *string) (*Article, error) {
	in := map[string]any{"title": title, "body": body}
	if image != nil {
		in["image"] = *image
	}

	var res articleResponse
	if err := c.authed(ctx, http.MethodPost, "/articles", in, &res); err != nil {
		return nil, err
	}

	return &res.Article, nil
}

// UpdateArticle applies a partial update.
func (c *Client) UpdateArticle(ctx context.Context, id uint, upd ArticleUpdate) (*Article, error) {
	var res articleResponse
	if err := c.authed(ctx, http.MethodPut, articlePath(id), upd.body(), &res); err != nil {
		return nil, err
	}

	return &res.Article, nil
}

// SetPublished publishes or unpublishes an article.
func (c *Client) SetPublished(ctx context.Context, id uint, published bool) (*Article, error) {
	var res articleResponse
	if err := c.authed(ctx, http.MethodPatch, articlePath(id)+"/publish",
		map[string]bool{"isPublished": published}, &res); err != nil {
		return nil, err
	}

	return &res.Article, nil
}

// DeleteArticle permanently removes an article.
func (c *Client) DeleteArticle(ctx context.Context, id uint) error {
	return c.authed(ctx, http.MethodDelete, articlePath(id), nil, nil)
}

// AccessMatrix returns every role with its permissions.
func (c *Client) AccessMatrix(ctx context.Context) (*AccessMatrix, error) {
	var res AccessMatrix
	if err := c.authed(ctx, http.MethodGet, "/roles/access-matrix", nil, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

func articlePath(id uint) string {
	return "/articles/" + strconv.FormatUint(uint64(id), 10)
}

// authed sends an authenticated request. A 401 triggers one refresh and retry,
// a failing refresh clears the session.
func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	st := c.session.Current()
	if !st.Authenticated() {
		return ErrNotAuthenticated
	}

	err := c.call(ctx, method, path, st.AccessToken, in, out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}

	if st.RefreshToken == "" || c.Refresh(ctx) != nil {
		c.session.Clear()

		return err
	}

	return c.call(ctx, method, path, c.session.Current().AccessToken, in, out)
}

func (c *Client) call(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader

	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}

		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}
