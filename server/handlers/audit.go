package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resortadmin/database"
	"resortadmin/server/middleware"
)

// AuditHandler отдает журнал действий администратора
type AuditHandler struct {
	db *database.ResortDB
}

// NewAuditHandler создает новый обработчик журнала
func NewAuditHandler(db *database.ResortDB) *AuditHandler {
	return &AuditHandler{db: db}
}

// HandleList обрабатывает GET /api/audit
// @Summary Журнал действий
// @Description Последние записи журнала импортов, новые первыми
// @Tags audit
// @Produce json
// @Param limit query int false "Максимум записей" default(100)
// @Success 200 {object} map[string]interface{}
// @Router /audit [get]
func (h *AuditHandler) HandleList(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.HandleGinValidationError(c, "invalid limit parameter", err)
			return
		}
		limit = parsed
	}

	entries, err := h.db.ListAudit(limit)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
