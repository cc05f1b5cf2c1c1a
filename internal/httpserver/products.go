package httpserver

import (
	"net/http"
	"strconv"

	"healside/internal/domain"
	productrepo "healside/internal/repository/product"
	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Products.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.deps.Products.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Categories())
}

type createProductRequest struct {
	Name              string `json:"name" binding:"required"`
	PriceCents        int64  `json:"priceCents" binding:"required"`
	Description       string `json:"description"`
	Category          string `json:"category" binding:"required"`
	ImageURL          string `json:"imageUrl"`
	Supplier          string `json:"supplier"`
	Origin            string `json:"origin"`
	StockQuantity     int    `json:"stockQuantity"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

func (h *handlers) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name, priceCents, and category are required")
		return
	}
	p, err := h.deps.Products.Create(c.Request.Context(), domain.Product{
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		Description:       req.Description,
		Category:          domain.Category(req.Category),
		ImageURL:          req.ImageURL,
		Supplier:          req.Supplier,
		Origin:            req.Origin,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type updateProductRequest struct {
	Name              *string `json:"name"`
	PriceCents        *int64  `json:"priceCents"`
	Description       *string `json:"description"`
	Category          *string `json:"category"`
	ImageURL          *string `json:"imageUrl"`
	Supplier          *string `json:"supplier"`
	Origin            *string `json:"origin"`
	StockQuantity     *int    `json:"stockQuantity"`
	LowStockThreshold *int    `json:"lowStockThreshold"`
}

func (h *handlers) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in := productrepo.UpdateInput{
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		Supplier:          req.Supplier,
		Origin:            req.Origin,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
	}
	if req.Category != nil {
		cat := domain.Category(*req.Category)
		in.Category = &cat
	}
	p, err := h.deps.Products.Update(c.Request.Context(), id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Products.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listLowStock(c *gin.Context) {
	products, err := h.deps.Products.LowStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, products)
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *handlers) adjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "delta required and must be non-zero")
		return
	}
	p, err := h.deps.Products.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.deps.Reviews.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (h *handlers) createReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "rating required")
		return
	}
	rv, err := h.deps.Reviews.Create(c.Request.Context(), domain.Review{
		ProductID: id,
		UserID:    currentUser(c).ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// pathID parses a numeric path parameter, answering 400 itself on garbage.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
