package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	memorystorage "github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/articlegate/articlegate/internal/auth"
	"github.com/articlegate/articlegate/internal/config"
	"github.com/articlegate/articlegate/internal/daemon"
	"github.com/articlegate/articlegate/internal/db/controller/role"
	"github.com/articlegate/articlegate/internal/db/dbtest"
	"github.com/articlegate/articlegate/internal/web"
	"github.com/articlegate/articlegate/pkg/client"
)

// appDoer sends requests through fiber's in-memory test transport.
type appDoer struct {
	app *fiber.App
}

func (d appDoer) Do(req *http.Request) (*http.Response, error) {
	return d.app.Test(req, -1)
}

func newClient(t *testing.T) (*client.Client, func(name string) uint) {
	t.Helper()

	gdb := dbtest.New(t)

	cfg := &config.Config{
		Title:     "articlegate-test",
		Webserver: config.Webserver{BasePath: "/api"},
		JWT: config.JWT{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
		},
		Seed: config.Seed{DefaultRole: auth.RoleViewer, DemoUsers: true},
	}

	require.NoError(t, daemon.Seed(context.Background(), gdb, cfg.Seed))

	deps, _, err := daemon.Wire(cfg, gdb, memorystorage.New())
	require.NoError(t, err)

	svc, err := web.New(deps)
	require.NoError(t, err)

	roleID := func(name string) uint {
		r, err := role.GetByName(context.Background(), gdb, name)
		require.NoError(t, err)

		return r.ID
	}

	return client.New("http://articlegate.test/api", client.WithDoer(appDoer{app: svc.App})), roleID
}

func TestClientArticleLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	_, err := c.ListArticles(ctx)
	require.ErrorIs(t, err, client.ErrNotAuthenticated)

	u, err := c.Login(ctx, "contributor@test.com", daemon.DemoPassword)
	require.NoError(t, err)
	assert.Equal(t, daemon.RoleContributor, u.Role)
	assert.True(t, c.Session().HasPermission("create"))
	assert.False(t, c.Session().HasPermission("publish"))

	img := "cover.png"
	a, err := c.CreateArticle(ctx, "Hello", "World", &img)
	require.NoError(t, err)
	assert.False(t, a.IsPublished)
	assert.Equal(t, "contributor@test.com", a.Author.Email)

	_, err = c.SetPublished(ctx, a.ID, true)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "publish", apiErr.RequiredPermission)

	title := "Hello again"
	a, err = c.UpdateArticle(ctx, a.ID, client.ArticleUpdate{Title: &title, ClearImage: true})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", a.Title)
	assert.Equal(t, "World", a.Body)
	assert.Nil(t, a.Image)

	_, err = c.Login(ctx, "manager@test.com", daemon.DemoPassword)
	require.NoError(t, err)

	a, err = c.SetPublished(ctx, a.ID, true)
	require.NoError(t, err)
	assert.True(t, a.IsPublished)

	_, err = c.Login(ctx, "superadmin@test.com", daemon.DemoPassword)
	require.NoError(t, err)
	assert.True(t, c.Session().IsSuperAdmin())

	require.NoError(t, c.DeleteArticle(ctx, a.ID))

	_, err = c.GetArticle(ctx, a.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	m, err := c.AccessMatrix(ctx)
	require.NoError(t, err)
	assert.Len(t, m.Roles, 4)
	assert.Len(t, m.AvailablePermissions, 5)

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Session().Current().Authenticated())
}

func TestClientRegisterRefreshMe(t *testing.T) {
	ctx := context.Background()
	c, roleID := newClient(t)

	u, err := c.Register(ctx, client.RegisterRequest{
		FullName: "Vera Viewer",
		Email:    "vera@example.com",
		Password: "pw",
		RoleID:   roleID(auth.RoleViewer),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"view"}, u.Permissions)

	before := c.Session().Current().RefreshToken
	require.NoError(t, c.Refresh(ctx))
	assert.NotEqual(t, before, c.Session().Current().RefreshToken)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "vera@example.com", me.Email)
}

// scriptedDoer answers requests from a queue and records the paths.
type scriptedDoer struct {
	responses []*http.Response
	paths     []string
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	d.paths = append(d.paths, req.Method+" "+req.URL.Path)

	if len(d.responses) == 0 {
		return nil, errors.New("no scripted response")
	}

	resp := d.responses[0]
	d.responses = d.responses[1:]

	return resp, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClientRefreshesOnUnauthorized(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		jsonResponse(http.StatusUnauthorized, `{"success":false,"message":"Token expired. Please login again."}`),
		jsonResponse(http.StatusOK, `{"success":true,"accessToken":"a2","refreshToken":"r2","user":{"id":1,"role":"Viewer","permissions":["view"]}}`),
		jsonResponse(http.StatusOK, `{"success":true,"count":0,"articles":[]}`),
	}}

	session := client.NewSession()
	session.Replace(client.State{AccessToken: "a1", RefreshToken: "r1", User: &client.User{ID: 1}})

	c := client.New("http://x/api/", client.WithDoer(doer), client.WithSession(session))

	articles, err := c.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
	assert.Equal(t, []string{"GET /api/articles", "POST /api/auth/refresh", "GET /api/articles"}, doer.paths)
	assert.Equal(t, "a2", session.Current().AccessToken)
}

func TestClientClearsSessionWhenRefreshFails(t *testing.T) {
	doer := &scriptedDoer{responses: []*http.Response{
		jsonResponse(http.StatusUnauthorized, `{"success":false,"message":"Role not found. Please login again."}`),
		jsonResponse(http.StatusUnauthorized, `{"success":false,"message":"Refresh token has been revoked. Please login again."}`),
	}}

	session := client.NewSession()
	session.Replace(client.State{AccessToken: "a1", RefreshToken: "r1"})

	c := client.New("http://x/api", client.WithDoer(doer), client.WithSession(session))

	_, err := c.ListArticles(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Role not found. Please login again.", apiErr.Message)
	assert.False(t, session.Current().Authenticated())
}
