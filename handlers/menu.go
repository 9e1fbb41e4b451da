package handlers

import (
	"log"
	"net/http"
	"strconv"

	"bistro-backend/models"
	"bistro-backend/storage"
	"bistro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuHandler struct {
	DB      *gorm.DB
	Storage storage.Client
}

// GetMenuItems lists active menu items, optionally filtered by category name.
func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	query := h.DB.Preload("Category").Where("menu_items.active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = menu_items.category_id").
			Where("categories.name = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("menu_items.name").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var existing models.Category
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}

	category := models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	var itemCount int64
	h.DB.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&itemCount)
	if itemCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has menu items"})
		return
	}

	result := h.DB.Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// CreateMenuItem accepts a multipart form. The image arrives either as a
// direct file upload or as an image_key previously uploaded through the
// presigned-URL flow.
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	name := c.PostForm("name")
	priceStr := c.PostForm("price")
	categoryStr := c.PostForm("category_id")

	if name == "" || priceStr == "" || categoryStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, price and category_id are required"})
		return
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a positive number"})
		return
	}

	categoryID, err := uuid.Parse(categoryStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
		return
	}

	var category models.Category
	if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	imageKey := c.PostForm("image_key")
	var imageURL string

	if file, fh, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()

		if err := utils.ValidateFileUpload(fh); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		url, key, err := h.Storage.UploadMenuImage(file, fh.Filename, fh.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
			return
		}
		imageURL = url
		imageKey = key
	} else if imageKey != "" {
		imageURL = h.Storage.PublicURL(imageKey)
	}

	item := models.MenuItem{
		ID:         uuid.New(),
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
		ImageKey:   imageKey,
		ImageURL:   imageURL,
		Active:     true,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu item"})
		return
	}

	h.DB.Preload("Category").First(&item, item.ID)
	c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	id := c.Param("id")

	var item models.MenuItem
	if err := h.DB.Where("id = ?", id).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	var req struct {
		Name       *string  `json:"name"`
		Price      *float64 `json:"price"`
		CategoryID *string  `json:"category_id"`
		Active     *bool    `json:"active"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a positive number"})
			return
		}
		item.Price = *req.Price
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		var category models.Category
		if err := h.DB.Where("id = ?", categoryID).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		item.CategoryID = categoryID
	}
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := h.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update menu item"})
		return
	}

	h.DB.Preload("Category").First(&item, item.ID)
	c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")

	var item models.MenuItem
	if err := h.DB.Where("id = ?", id).First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}

	// Older rows may only carry the public URL.
	imageKey := item.ImageKey
	if imageKey == "" && item.ImageURL != "" {
		if key, err := utils.ExtractObjectPath(item.ImageURL); err == nil {
			imageKey = key
		}
	}
	if imageKey != "" {
		if err := h.Storage.Delete(imageKey); err != nil {
			log.Printf("Warning: failed to delete image %s: %v", imageKey, err)
		}
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
