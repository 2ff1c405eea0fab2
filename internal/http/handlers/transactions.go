package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"product_dashboard/internal/domain"
	"product_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Welcome - API root
func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Product Transactions API!"})
}

// Initialize replaces the store with the latest seed dataset
func (h *Handler) Initialize(c *gin.Context) {
	result, err := h.Seeder.Initialize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Database initialized successfully",
		"fetched":  result.Fetched,
		"inserted": result.Inserted,
		"dropped":  result.Dropped,
	})
}

// ListTransactions - GET /transactions?month=&search=&page=&perPage=
func (h *Handler) ListTransactions(c *gin.Context) {
	page, err := queryInt(c, "page", service.DefaultPage)
	if err != nil {
		respondError(c, err)
		return
	}
	perPage, err := queryInt(c, "perPage", service.DefaultPerPage)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.Queries.List(c.Request.Context(), c.Query("month"), c.Query("search"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Statistics - sold total and sold/unsold counts for a month
func (h *Handler) Statistics(c *gin.Context) {
	stats, err := h.Queries.Statistics(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// BarChart - price range histogram as an ordered {range: count} object
func (h *Handler) BarChart(c *gin.Context) {
	chart, err := h.Queries.PriceHistogram(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// PieChart - [{_id: category, count}]
func (h *Handler) PieChart(c *gin.Context) {
	categories, err := h.Queries.CategoryBreakdown(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Combined - statistics, bar chart and pie chart in one response
func (h *Handler) Combined(c *gin.Context) {
	combined, err := h.Aggregator.Combined(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combined)
}

// Export downloads the month's dashboard as an XLSX workbook
func (h *Handler) Export(c *gin.Context) {
	month := c.Query("month")
	data, err := h.Exporter.Export(c.Request.Context(), month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transactions-%s.xlsx"`, month))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// queryInt reads an optional positive integer query parameter
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidPagination, key)
	}
	return n, nil
}
