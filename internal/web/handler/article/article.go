// Package article provides the article CRUD and publish endpoints.
package article

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/articlegate/articlegate/internal/auth"
	store "github.com/articlegate/articlegate/internal/db/controller/article"
	"github.com/articlegate/articlegate/internal/db/models"
	"github.com/articlegate/articlegate/internal/web/handler"
)

const (
	// Path is the route group of the article endpoints.
	Path = "/articles"

	// RouteItem addresses a single article.
	RouteItem = "/:" + handler.ParamID
	// RoutePublish toggles the publish flag.
	RoutePublish = RouteItem + "/publish"

	msgMissingFields      = "Please provide title and body"
	msgInvalidPublishFlag = "Please provide isPublished as boolean"
	msgPublishedOnly      = "Access denied. You can only view published articles."
)

// Service is the article handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the article handler.
var Handler = Service{}

type createInput struct {
	Title string  `json:"title"`
	Body  string  `json:"body"`
	Image *string `json:"image"`
}

type updateInput struct {
	Title *string  `json:"title"`
	Body  *string  `json:"body"`
	Image Nullable `json:"image"`
}

type publishInput struct {
	IsPublished *bool `json:"isPublished"`
}

// Init initializes the article handler.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || !deps.Valid() {
		return handler.ErrNilDeps
	}

	s.db = deps.DB

	g := router.Group(Path, deps.Authenticate)
	g.Get(handler.RootPath, auth.RequirePermission(auth.KeyView), s.List)
	g.Get(RouteItem, auth.RequirePermission(auth.KeyView), s.Get)
	g.Post(handler.RootPath, auth.RequirePermission(auth.KeyCreate), s.Create)
	g.Put(RouteItem, auth.RequirePermission(auth.KeyEdit), s.Update)
	g.Patch(RoutePublish, auth.RequirePermission(auth.KeyPublish), s.Publish)
	g.Delete(RouteItem, auth.RequirePermission(auth.KeyDelete), s.Delete)

	return nil
}

// List returns all articles visible to the principal, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	p := auth.PrincipalFrom(c)

	articles, err := store.List(c.UserContext(), s.db, p.IsViewOnly())
	if err != nil {
		return handler.Fail(c, err, "Error fetching articles")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"count":    len(articles),
		"articles": articles,
	})
}

// Get returns a single article. View-only principals cannot read drafts.
func (s *Service) Get(c *fiber.Ctx) error {
	a, ok, err := s.load(c)
	if !ok {
		return err
	}

	if !a.IsPublished && auth.PrincipalFrom(c).IsViewOnly() {
		return handler.Error(c, fiber.StatusForbidden, msgPublishedOnly)
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{"article": a})
}

// Create stores a new draft authored by the principal.
func (s *Service) Create(c *fiber.Ctx) error {
	var in createInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, msgMissingFields)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)

	if in.Title == "" || in.Body == "" {
		return handler.Error(c, fiber.StatusBadRequest, msgMissingFields)
	}

	a, err := store.Create(c.UserContext(), s.db, &models.Article{
		Title:    in.Title,
		Body:     in.Body,
		Image:    emptyToNil(in.Image),
		AuthorID: auth.PrincipalFrom(c).UserID,
	})
	if err != nil {
		return handler.Fail(c, err, "Error creating article")
	}

	return handler.OK(c, fiber.StatusCreated, fiber.Map{
		"message": "Article created successfully",
		"article": a,
	})
}

// Update applies the supplied fields. Empty title or body keep the stored value,
// a present image always overwrites.
func (s *Service) Update(c *fiber.Ctx) error {
	var in updateInput
	if err := decodeJSON(c, &in); err != nil && len(c.Body()) > 0 {
		return handler.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	a, ok, err := s.load(c)
	if !ok {
		return err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		a.Title = strings.TrimSpace(*in.Title)
	}

	if in.Body != nil && strings.TrimSpace(*in.Body) != "" {
		a.Body = strings.TrimSpace(*in.Body)
	}

	if in.Image.Set {
		a.Image = emptyToNil(in.Image.Value)
	}

	a, err = store.Save(c.UserContext(), s.db, a)
	if err != nil {
		return handler.Fail(c, err, "Error updating article")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"message": "Article updated successfully",
		"article": a,
	})
}

// Publish sets the publish flag. The body must carry a JSON boolean.
func (s *Service) Publish(c *fiber.Ctx) error {
	var in publishInput
	if err := decodeJSON(c, &in); err != nil || in.IsPublished == nil {
		return handler.Error(c, fiber.StatusBadRequest, msgInvalidPublishFlag)
	}

	id, ok := handler.IDParam(c)
	if !ok {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgArticleNotFound)
	}

	a, err := store.SetPublished(c.UserContext(), s.db, id, *in.IsPublished)
	if err != nil {
		return handler.Fail(c, err, "Error updating article publish status")
	}

	state := "unpublished"
	if a.IsPublished {
		state = "published"
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{
		"message": "Article " + state + " successfully",
		"article": a,
	})
}

// Delete permanently removes an article.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.IDParam(c)
	if !ok {
		return handler.Error(c, fiber.StatusNotFound, handler.MsgArticleNotFound)
	}

	if err := store.Delete(c.UserContext(), s.db, id); err != nil {
		return handler.Fail(c, err, "Error deleting article")
	}

	return handler.OK(c, fiber.StatusOK, fiber.Map{"message": "Article deleted successfully"})
}

// load fetches the article named by the route. When ok is false the response is already written.
func (s *Service) load(c *fiber.Ctx) (a *models.Article, ok bool, err error) {
	id, valid := handler.IDParam(c)
	if !valid {
		return nil, false, handler.Error(c, fiber.StatusNotFound, handler.MsgArticleNotFound)
	}

	a, err = store.Get(c.UserContext(), s.db, id)
	if err != nil {
		return nil, false, handler.Fail(c, err, "Error fetching article")
	}

	return a, true, nil
}

// decodeJSON decodes the raw body regardless of the content type, rejecting mistyped fields.
func decodeJSON(c *fiber.Ctx, v any) error {
	return c.App().Config().JSONDecoder(c.Body(), v) //nolint:wrapcheck
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}

	return s
}
