// Package article provides persistence for articles.
package article

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/articlegate/articlegate/internal/db/models"
)

const authorAssociation = "Author"

// ErrNotFound is returned when an article is not found.
var ErrNotFound = errors.New("article not found")

// List returns articles newest first with their author loaded.
// With publishedOnly set, drafts are filtered out.
func List(ctx context.Context, db *gorm.DB, publishedOnly bool) ([]models.Article, error) {
	q := db.WithContext(ctx).Preload(authorAssociation)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}

	var articles []models.Article
	if err := q.Order("created_at DESC").Order("id DESC").Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return articles, nil
}

// Get retrieves an article with its author by ID.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Article, error) {
	var a models.Article
	if err := db.WithContext(ctx).Preload(authorAssociation).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("get article %d: %w", id, err)
	}

	return &a, nil
}

// Create stores a new draft. AuthorID must be set by the caller.
func Create(ctx context.Context, db *gorm.DB, a *models.Article) (*models.Article, error) {
	a.IsPublished = false

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(a).Error; err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	return Get(ctx, db, a.ID)
}

// Save writes all columns of an existing article.
func Save(ctx context.Context, db *gorm.DB, a *models.Article) (*models.Article, error) {
	if err := db.WithContext(ctx).Omit(clause.Associations).Save(a).Error; err != nil {
		return nil, fmt.Errorf("save article %d: %w", a.ID, err)
	}

	return Get(ctx, db, a.ID)
}

// SetPublished sets the publish flag. Setting the current value again is a no-op that succeeds.
func SetPublished(ctx context.Context, db *gorm.DB, id uint, published bool) (*models.Article, error) {
	a, err := Get(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if a.IsPublished == published {
		return a, nil
	}

	if err := db.WithContext(ctx).Model(&models.Article{ID: id}).Update("is_published", published).Error; err != nil {
		return nil, fmt.Errorf("publish article %d: %w", id, err)
	}

	return Get(ctx, db, id)
}

// Delete permanently removes an article.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete article %d: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
