package api

import (
	"fmt"
	"net/http"

	"foody/internal/database"
	"foody/internal/models"

	"github.com/gin-gonic/gin"
)

// Catalog handlers

func (a *FoodyAPI) ListMenu(c *gin.Context) {
	dietary := models.Dietary(c.Query("dietary"))
	if dietary != "" && !dietary.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid dietary filter %q", dietary)})
		return
	}

	items, err := a.Store.ListMenuItems(c.Request.Context(), database.MenuFilter{
		Category:      c.Query("category"),
		Dietary:       dietary,
		Search:        c.Query("q"),
		AvailableOnly: c.Query("available") == "true",
		PopularOnly:   c.Query("popular") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a *FoodyAPI) GetMenuItem(c *gin.Context) {
	item, err := a.Store.GetMenuItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *FoodyAPI) ListCategories(c *gin.Context) {
	categories, err := a.Store.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (a *FoodyAPI) CreateMenuItem(c *gin.Context) {
	// new dishes go on sale unless the body says otherwise
	item := models.MenuItem{Available: true}
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ValidateMenuItem(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.CreateMenuItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (a *FoodyAPI) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.ID = c.Param("id")
	if err := models.ValidateMenuItem(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Store.UpdateMenuItem(c.Request.Context(), &item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *FoodyAPI) DeleteMenuItem(c *gin.Context) {
	if err := a.Store.DeleteMenuItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

type flagRequest struct {
	Value *bool `json:"value"`
}

// readFlag returns the requested flag value, or the inverse of current when
// the body leaves it out
func readFlag(c *gin.Context, current bool) (bool, error) {
	var req flagRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return false, fmt.Errorf("%w: %v", errInvalidInput, err)
		}
	}
	if req.Value == nil {
		return !current, nil
	}
	return *req.Value, nil
}

func (a *FoodyAPI) SetAvailability(c *gin.Context) {
	ctx := c.Request.Context()
	item, err := a.Store.GetMenuItem(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	value, err := readFlag(c, item.Available)
	if err != nil {
		respondError(c, err)
		return
	}
	if item, err = a.Store.SetAvailability(ctx, item.ID, value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *FoodyAPI) SetPopular(c *gin.Context) {
	ctx := c.Request.Context()
	item, err := a.Store.GetMenuItem(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	value, err := readFlag(c, item.IsPopular)
	if err != nil {
		respondError(c, err)
		return
	}
	if item, err = a.Store.SetPopular(ctx, item.ID, value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *FoodyAPI) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := models.ValidateCategory(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Store.CreateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (a *FoodyAPI) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category.ID = c.Param("id")
	if err := models.ValidateCategory(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Store.UpdateCategory(c.Request.Context(), &category); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (a *FoodyAPI) DeleteCategory(c *gin.Context) {
	if err := a.Store.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
