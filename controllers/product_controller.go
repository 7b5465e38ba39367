package controllers

import (
	"errors"
	"net/http"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const recommendationSampleSize = 4

// ProductController handles the catalog surface. The featured listing is
// served from Redis where possible and re-cached after every change.
type ProductController struct {
	products repository.ProductRepository
	cache    repository.ProductCache
}

// NewProductController creates a new ProductController.
func NewProductController(products repository.ProductRepository, cache repository.ProductCache) *ProductController {
	return &ProductController{products: products, cache: cache}
}

// GetAllProducts returns the whole catalog. Admin only.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	products, err := pc.products.FindAll(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetFeaturedProducts serves the featured listing, preferring the cache.
// A cache miss or error falls through to Mongo and repopulates the cache.
func (pc *ProductController) GetFeaturedProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := pc.cache.GetFeatured(ctx); err == nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, err := pc.products.FindFeatured(ctx)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := pc.cache.SetFeatured(ctx, products); err != nil {
		logger.Warn(c, "Failed to cache featured products", zap.Error(err))
	}
	c.JSON(http.StatusOK, products)
}

// GetProductsByCategory returns all products in a category.
func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	products, err := pc.products.FindByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetRecommendedProducts returns a random sample of the catalog.
func (pc *ProductController) GetRecommendedProducts(c *gin.Context) {
	products, err := pc.products.Sample(c.Request.Context(), recommendationSampleSize)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct adds a catalog entry. The image is expected to already be
// hosted; only its URL is stored. Admin only.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid JSON body"))
		return
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	}
	if err := pc.products.Create(c.Request.Context(), product); err != nil {
		logger.Error(c, "Failed to create product", err)
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusCreated, product)
}

// DeleteProduct removes a catalog entry. Admin only.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid product id"))
		return
	}

	if err := pc.products.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrNotFound, "Product not found"))
			return
		}
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	// The deleted product may have been featured.
	if err := pc.cache.InvalidateFeatured(c.Request.Context()); err != nil {
		logger.Warn(c, "Failed to invalidate featured products cache", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// ToggleFeaturedProduct flips the featured flag and refreshes the cached
// featured listing. Admin only.
func (pc *ProductController) ToggleFeaturedProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrValidation, "Invalid product id"))
		return
	}

	product, err := pc.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			apperrors.Respond(c, apperrors.WithMessage(apperrors.ErrNotFound, "Product not found"))
			return
		}
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	updated, err := pc.products.SetFeatured(ctx, id, !product.IsFeatured)
	if err != nil {
		apperrors.Respond(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	featured, err := pc.products.FindFeatured(ctx)
	if err == nil {
		if err := pc.cache.SetFeatured(ctx, featured); err != nil {
			logger.Warn(c, "Failed to refresh featured products cache", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, updated)
}
