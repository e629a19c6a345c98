package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pos-api/services"
	"pos-api/utils/pagination"
)

type TransactionController struct {
	transactions services.TransactionService
}

func NewTransactionController(transactions services.TransactionService) *TransactionController {
	return &TransactionController{transactions: transactions}
}

// GetTransactions lists recorded trades, newest first.
func (tc *TransactionController) GetTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(pagination.DefaultPageSize)))

	p := pagination.New(page, pageSize)

	trades, total, err := tc.transactions.ListTransactions(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": trades,
		"meta": pagination.BuildMeta(p.Page, p.PageSize, total),
	})
}

func (tc *TransactionController) GetTransactionByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	trade, err := tc.transactions.GetTransaction(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}
