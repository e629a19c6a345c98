package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"pos-api/dtos"
	"pos-api/services"
)

type PurchaseController struct {
	purchases services.PurchaseService
}

func NewPurchaseController(purchases services.PurchaseService) *PurchaseController {
	return &PurchaseController{purchases: purchases}
}

// CreatePurchase records one receipt. Nothing reaches the store unless the
// whole body validates.
func (pc *PurchaseController) CreatePurchase(c *gin.Context) {
	var req dtos.PurchaseRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondValidation(c, err)
		return
	}

	resp, err := pc.purchases.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
