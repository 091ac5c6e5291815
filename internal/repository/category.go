package repository

import (
	"context"
	"errors"

	"github.com/RYAHE/Ruche-RS/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id uint, name, description string) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A category with this name already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, id uint, name, description string) (*models.Category, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		})
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return nil, models.NewConflictError("A category with this name already exists")
		}
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFoundError("Category", id)
	}
	return r.GetByID(ctx, id)
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	// Soft-deleted posts keep their category reference, so count them too.
	var referencing int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Post{}).
		Where("category_id = ?", id).
		Count(&referencing).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	if referencing > 0 {
		return models.NewConflictError("Cannot delete this category because posts still reference it")
	}

	result := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if result.Error != nil {
		// The FK constraint remains the authority if a post was created
		// between the pre-check and the delete.
		if isForeignKeyConstraintError(result.Error) {
			return models.NewConflictError("Cannot delete this category because posts still reference it")
		}
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Category", id)
	}
	return nil
}
