// Package catalog fronts the remote product collection with a local cached
// list. Mutations are two-phase: the remote write happens first, and the
// cache is touched only after the remote call reports success, so a failed
// call leaves local state exactly as it was.
package catalog

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/apperr"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
)

// ProductStore is the remote collection the catalog writes through to.
// *store.Store satisfies it.
type ProductStore interface {
	GetAllProducts() ([]models.Product, error)
	GetProductByID(id string) (*models.Product, error)
	CreateProduct(p *models.Product) error
	UpdateProduct(p *models.Product) error
	DeleteProduct(id string) error
	UpdateProductImage(id, image string) error
	RateProduct(id, userID string, rating int) (*models.Product, error)
	AddComment(id, user, text string) (*models.Product, error)
}

// Draft carries the fields an admin submits when creating a product.
type Draft struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Price       float64 `json:"price"`
	Sale        float64 `json:"sale"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// Patch carries a partial update; nil fields are left unchanged.
type Patch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Price       *float64 `json:"price"`
	Sale        *float64 `json:"sale"`
	Description *string  `json:"description"`
}

type Catalog struct {
	remote ProductStore

	mu       sync.RWMutex
	products []models.Product
}

func New(remote ProductStore) *Catalog {
	return &Catalog{remote: remote}
}

// Refresh reloads the cached list from the remote collection.
func (c *Catalog) Refresh() error {
	products, err := c.remote.GetAllProducts()
	if err != nil {
		return apperr.NewRemoteError("catalog.refresh", err)
	}
	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
	return nil
}

// List returns a copy of the cached snapshot.
func (c *Catalog) List() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Product(nil), c.products...)
}

// Get reads from the cache, falling back to the remote collection for ids
// not yet cached.
func (c *Catalog) Get(id string) (*models.Product, error) {
	c.mu.RLock()
	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			c.mu.RUnlock()
			return &p, nil
		}
	}
	c.mu.RUnlock()

	p, err := c.remote.GetProductByID(id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.NewRemoteError("catalog.get", err)
	}
	return p, nil
}

// Add validates a draft, writes it remotely, and only then appends it to
// the cache.
func (c *Catalog) Add(draft Draft) (*models.Product, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &models.Product{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Category:    draft.Category,
		Subcategory: draft.Subcategory,
		Price:       draft.Price,
		Sale:        draft.Sale,
		Image:       draft.Image,
		Description: draft.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.remote.CreateProduct(p); err != nil {
		return nil, apperr.NewRemoteError("catalog.add", err)
	}

	c.mu.Lock()
	c.products = append([]models.Product{*p}, c.products...)
	c.mu.Unlock()
	return p, nil
}

// Update applies a partial patch: remote write first, cache merge after.
// The merge is keyed by id and re-runnable, so a caller that saw the remote
// write succeed can retry it without re-issuing the write.
func (c *Catalog) Update(id string, patch Patch) (*models.Product, error) {
	current, err := c.Get(id)
	if err != nil {
		return nil, err
	}

	updated := *current
	applyPatch(&updated, patch)
	if err := validateDraft(Draft{Name: updated.Name, Category: updated.Category, Price: updated.Price, Sale: updated.Sale}); err != nil {
		return nil, err
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := c.remote.UpdateProduct(&updated); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.NewRemoteError("catalog.update", err)
	}

	c.mergeLocal(updated)
	return &updated, nil
}

// Remove deletes remotely, then drops the cached entry.
func (c *Catalog) Remove(id string) error {
	if err := c.remote.DeleteProduct(id); err != nil {
		if apperr.IsNotFound(err) {
			return err
		}
		return apperr.NewRemoteError("catalog.remove", err)
	}

	c.mu.Lock()
	for i := range c.products {
		if c.products[i].ID == id {
			c.products = append(c.products[:i], c.products[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return nil
}

// Rate upserts a user's rating remotely and merges the result into the
// cache. One rating per user; last write wins.
func (c *Catalog) Rate(id, userID string, rating int) (*models.Product, error) {
	if userID == "" {
		return nil, apperr.RequiredError("userId")
	}
	if rating < 1 || rating > 5 {
		return nil, apperr.NewValidationError("rating", "must be between 1 and 5")
	}

	p, err := c.remote.RateProduct(id, userID, rating)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.NewRemoteError("catalog.rate", err)
	}
	c.mergeLocal(*p)
	return p, nil
}

// Comment appends a comment remotely and merges the result into the cache.
func (c *Catalog) Comment(id, user, text string) (*models.Product, error) {
	if user == "" {
		return nil, apperr.RequiredError("user")
	}
	if text == "" {
		return nil, apperr.RequiredError("text")
	}

	p, err := c.remote.AddComment(id, user, text)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.NewRemoteError("catalog.comment", err)
	}
	c.mergeLocal(*p)
	return p, nil
}

// SetImage records an uploaded image path remotely and merges the change.
func (c *Catalog) SetImage(id, image string) (*models.Product, error) {
	p, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if err := c.remote.UpdateProductImage(id, image); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, apperr.NewRemoteError("catalog.setimage", err)
	}
	updated := *p
	updated.Image = image
	updated.UpdatedAt = time.Now().UTC()
	c.mergeLocal(updated)
	return &updated, nil
}

func (c *Catalog) mergeLocal(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			return
		}
	}
	c.products = append(c.products, p)
}

func applyPatch(p *models.Product, patch Patch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Subcategory != nil {
		p.Subcategory = *patch.Subcategory
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Sale != nil {
		p.Sale = *patch.Sale
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
}

func validateDraft(d Draft) error {
	if d.Name == "" {
		return apperr.RequiredError("name")
	}
	if d.Category == "" {
		return apperr.RequiredError("category")
	}
	if d.Price < 0 {
		return apperr.NewValidationError("price", "must not be negative")
	}
	if d.Sale < 0 || d.Sale > 100 {
		return apperr.NewValidationError("sale", "must be between 0 and 100")
	}
	return nil
}
