package http

import (
	"math"

	"github.com/gin-gonic/gin"
)

// Pagination acompaña los listados paginados.
type Pagination struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	Total       int  `json:"total"`
	HasNextPage bool `json:"has_next_page"`
	HasPrevPage bool `json:"has_prev_page"`
}

func newPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// respondData envuelve toda respuesta exitosa en el sobre comun.
func respondData(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func respondPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(200, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

// respondError emite el sobre de error; todo fallo termina aca y nunca
// tumba el proceso.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
