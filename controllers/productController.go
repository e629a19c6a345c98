package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"pos-api/dtos"
	"pos-api/services"
)

type ProductController struct {
	products services.ProductService
}

func NewProductController(products services.ProductService) *ProductController {
	return &ProductController{products: products}
}

func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.products.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input dtos.ProductCreate
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		respondValidation(c, err)
		return
	}

	product, err := pc.products.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// SearchProduct answers 200 with null when no product has the code.
func (pc *ProductController) SearchProduct(c *gin.Context) {
	var query dtos.ProductSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidation(c, err)
		return
	}

	product, err := pc.products.FindByCode(c.Request.Context(), *query.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.NewProductSearchResult(product))
}
