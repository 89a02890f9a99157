package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resortadmin/matcher"
	"resortadmin/server/middleware"
	"resortadmin/server/services"
)

// ReconcileHandler обрабатывает запросы сверки и импорта курортов.
// Один эндпоинт диспетчеризует по полю action, как edge-функция каталога.
type ReconcileHandler struct {
	service *services.ReconcileService
}

// NewReconcileHandler создает новый обработчик сверки
func NewReconcileHandler(service *services.ReconcileService) *ReconcileHandler {
	return &ReconcileHandler{service: service}
}

// actionEnvelope минимальная структура для определения действия
type actionEnvelope struct {
	Action string `json:"action"`
}

// HandleReconcile обрабатывает POST /api/resorts/reconcile
// @Summary Сверка и импорт курортов
// @Description Действия: preview (сверка партии с каталогом), import (запись партии), list_placeholders (список заглушек)
// @Tags resorts
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} middleware.ErrorResponse
// @Router /resorts/reconcile [post]
func (h *ReconcileHandler) HandleReconcile(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		middleware.HandleGinValidationError(c, "failed to read request body", err)
		return
	}

	var envelope actionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		middleware.HandleGinValidationError(c, "invalid JSON body", err)
		return
	}

	switch envelope.Action {
	case "preview":
		h.handlePreview(c, body)
	case "import":
		h.handleImport(c, body)
	case "list_placeholders":
		h.handleListPlaceholders(c)
	default:
		middleware.HandleGinValidationError(c,
			fmt.Sprintf("unknown action: %q", envelope.Action), nil)
	}
}

func (h *ReconcileHandler) handlePreview(c *gin.Context, body []byte) {
	var req matcher.PreviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		middleware.HandleGinValidationError(c, "invalid preview request", err)
		return
	}

	results, err := h.service.Preview(req.Resorts)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, matcher.PreviewResponse{Results: *results})
}

func (h *ReconcileHandler) handleImport(c *gin.Context, body []byte) {
	var req matcher.ImportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		middleware.HandleGinValidationError(c, "invalid import request", err)
		return
	}

	result, err := h.service.Import(&req)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, result)
}

func (h *ReconcileHandler) handleListPlaceholders(c *gin.Context) {
	urls, err := h.service.Placeholders()
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	SendJSONResponse(c, http.StatusOK, matcher.PlaceholdersResponse{URLs: urls})
}
