package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foody/internal/models"

	"github.com/jinzhu/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = models.ErrNotFound
	// ErrDuplicate is returned when creating a record whose id is taken
	ErrDuplicate = errors.New("record already exists")
)

// Store is the gorm-backed repository for the restaurant's data
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open database
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// MenuFilter narrows ListMenuItems
type MenuFilter struct {
	Category      string
	Dietary       models.Dietary
	Search        string // name or description, case-insensitive
	AvailableOnly bool
	PopularOnly   bool
}

func wrapNotFound(err error) error {
	if gorm.IsRecordNotFoundError(err) {
		return ErrNotFound
	}
	return err
}

func (s *Store) exists(model interface{}, id string) (bool, error) {
	var count int
	if err := s.db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Catalog returns every menu item in menu order. It satisfies
// recommend.CatalogSource.
func (s *Store) Catalog(ctx context.Context) ([]models.MenuItem, error) {
	return s.ListMenuItems(ctx, MenuFilter{})
}

// ListMenuItems returns menu items in menu order
func (s *Store) ListMenuItems(_ context.Context, f MenuFilter) ([]models.MenuItem, error) {
	q := s.db.Order("position asc").Order("id asc")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Dietary != "" {
		q = q.Where("dietary = ?", f.Dietary)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.AvailableOnly {
		q = q.Where("available = ?", true)
	}
	if f.PopularOnly {
		q = q.Where("is_popular = ?", true)
	}

	var items []models.MenuItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

// GetMenuItem returns one menu item by id
func (s *Store) GetMenuItem(_ context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &item, nil
}

// CreateMenuItem inserts a new item at the end of the menu unless it
// carries a position.
func (s *Store) CreateMenuItem(_ context.Context, item *models.MenuItem) error {
	found, err := s.exists(&models.MenuItem{}, item.ID)
	if err != nil {
		return err
	}
	if found {
		return ErrDuplicate
	}

	if item.Position == 0 {
		var last models.MenuItem
		err := s.db.Order("position desc").First(&last).Error
		if err != nil && !gorm.IsRecordNotFoundError(err) {
			return err
		}
		item.Position = last.Position + 1
	}

	return s.db.Create(item).Error
}

// UpdateMenuItem replaces an existing item, keeping its menu position
func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	current, err := s.GetMenuItem(ctx, item.ID)
	if err != nil {
		return err
	}
	item.Position = current.Position
	item.CreatedAt = current.CreatedAt
	return s.db.Save(item).Error
}

// DeleteMenuItem removes a menu item
func (s *Store) DeleteMenuItem(_ context.Context, id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.MenuItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvailability marks an item in or out of stock
func (s *Store) SetAvailability(ctx context.Context, id string, available bool) (*models.MenuItem, error) {
	return s.setFlag(ctx, id, "available", available)
}

// SetPopular flags or unflags an item as a house favourite
func (s *Store) SetPopular(ctx context.Context, id string, popular bool) (*models.MenuItem, error) {
	return s.setFlag(ctx, id, "is_popular", popular)
}

func (s *Store) setFlag(ctx context.Context, id, column string, value bool) (*models.MenuItem, error) {
	item, err := s.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	// Update with a column name writes false, which a struct update would skip
	if err := s.db.Model(item).Update(column, value).Error; err != nil {
		return nil, err
	}
	return s.GetMenuItem(ctx, id)
}

// ListCategories returns categories in menu order
func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("position asc").Order("id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category with a unique id
func (s *Store) CreateCategory(_ context.Context, c *models.Category) error {
	found, err := s.exists(&models.Category{}, c.ID)
	if err != nil {
		return err
	}
	if found {
		return ErrDuplicate
	}
	return s.db.Create(c).Error
}

// UpdateCategory replaces an existing category
func (s *Store) UpdateCategory(_ context.Context, c *models.Category) error {
	found, err := s.exists(&models.Category{}, c.ID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return s.db.Save(c).Error
}

// DeleteCategory removes a category. Items in it are left untouched.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateOrder stores an order together with its lines
func (s *Store) CreateOrder(_ context.Context, order *models.Order) error {
	tx := s.db.Begin()
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create order: %w", err)
	}
	return tx.Commit().Error
}

// GetOrder returns an order with its lines
func (s *Store) GetOrder(_ context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &order, nil
}

// ListOrdersSince returns orders placed at or after since, newest first
func (s *Store) ListOrdersSince(_ context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("created_at >= ?", since).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus persists the status and estimated ready time of order
func (s *Store) UpdateOrderStatus(_ context.Context, order *models.Order) error {
	res := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"status":               order.Status,
		"estimated_ready_time": order.EstimatedReadyTime,
		"updated_at":           time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateServiceRequest stores a new table request
func (s *Store) CreateServiceRequest(_ context.Context, req *models.ServiceRequest) error {
	return s.db.Create(req).Error
}

// ListServiceRequests returns requests newest first; resolved ones only
// when includeResolved is set.
func (s *Store) ListServiceRequests(_ context.Context, includeResolved bool) ([]models.ServiceRequest, error) {
	q := s.db.Order("created_at desc")
	if !includeResolved {
		q = q.Where("resolved = ?", false)
	}
	var reqs []models.ServiceRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list service requests: %w", err)
	}
	return reqs, nil
}

// ResolveServiceRequest marks a request resolved at the given time and
// records how long the floor took to respond. Resolving twice keeps the
// first resolution.
func (s *Store) ResolveServiceRequest(_ context.Context, id string, at time.Time) (*models.ServiceRequest, error) {
	var req models.ServiceRequest
	if err := s.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	if req.Resolved {
		return &req, nil
	}

	response := int(at.Sub(req.CreatedAt).Seconds())
	if response < 0 {
		response = 0
	}
	err := s.db.Model(&req).Updates(map[string]interface{}{
		"resolved":      true,
		"resolved_at":   at,
		"response_time": response,
	}).Error
	if err != nil {
		return nil, err
	}
	req.Resolved = true
	req.ResolvedAt = &at
	req.ResponseTime = response
	return &req, nil
}

// CreateFeedback stores a rating for an existing order
func (s *Store) CreateFeedback(_ context.Context, fb *models.Feedback) error {
	found, err := s.exists(&models.Order{}, fb.OrderID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return s.db.Create(fb).Error
}

// ListFeedbackSince returns feedback left at or after since
func (s *Store) ListFeedbackSince(_ context.Context, since time.Time) ([]models.Feedback, error) {
	var list []models.Feedback
	if err := s.db.Where("created_at >= ?", since).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return list, nil
}
