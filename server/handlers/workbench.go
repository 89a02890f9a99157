package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resortadmin/committer"
	"resortadmin/importer"
	"resortadmin/matcher"
	"resortadmin/normalization"
	apperrors "resortadmin/server/errors"
	"resortadmin/server/middleware"
	"resortadmin/workbench"
)

// maxUploadSize максимальный размер загружаемого файла (50MB)
const maxUploadSize = 50 << 20

// WorkbenchHandler обрабатывает сессии сверки импорта
type WorkbenchHandler struct {
	registry     *workbench.Registry
	client       *matcher.Client
	placeholders *committer.PlaceholderCache
	audit        committer.AuditSink
}

// NewWorkbenchHandler создает новый обработчик воркбенча
func NewWorkbenchHandler(registry *workbench.Registry, client *matcher.Client, audit committer.AuditSink) *WorkbenchHandler {
	return &WorkbenchHandler{
		registry:     registry,
		client:       client,
		placeholders: committer.NewPlaceholderCache(client),
		audit:        audit,
	}
}

// workbenchState полное состояние сессии для клиента
type workbenchState struct {
	ID           string           `json:"id"`
	SourceFile   string           `json:"source_file"`
	CreatedAt    string           `json:"created_at"`
	Counts       workbench.Counts `json:"counts"`
	PushEligible bool             `json:"push_eligible"`
	Rows         []workbench.Row  `json:"rows,omitempty"`
}

func (h *WorkbenchHandler) state(wb *workbench.Workbench, withRows bool) workbenchState {
	state := workbenchState{
		ID:           wb.ID,
		SourceFile:   wb.SourceFile,
		CreatedAt:    wb.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Counts:       wb.Counts(),
		PushEligible: wb.PushEligible(),
	}
	if withRows {
		state.Rows = wb.Rows()
	}
	return state
}

// HandleUpload обрабатывает POST /api/workbench/upload
// @Summary Создание сессии сверки из файла
// @Description Принимает CSV, JSON или XLSX файл, нормализует строки и создает воркбенч
// @Tags workbench
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл импорта"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} middleware.ErrorResponse
// @Router /workbench/upload [post]
func (h *WorkbenchHandler) HandleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		middleware.HandleGinValidationError(c, "failed to get file from form", err)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		middleware.HandleGinValidationError(c,
			fmt.Sprintf("file too large: %d bytes (max %d)", header.Size, maxUploadSize), nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		middleware.HandleGinError(c, apperrors.NewInternalError("failed to read uploaded file", err))
		return
	}

	parsed, err := importer.Parse(header.Filename, data)
	if err != nil {
		middleware.HandleGinValidationError(c,
			fmt.Sprintf("failed to parse %s", header.Filename), err)
		return
	}

	records := make([]normalization.ResortRecord, 0, len(parsed.Records))
	for _, raw := range parsed.Records {
		records = append(records, normalization.Normalize(raw))
	}

	wb := workbench.New(header.Filename, records)
	h.registry.Put(wb)

	log.Printf("✓ Воркбенч %s создан из %s: %d строк, %d пропущено при разборе",
		wb.ID, header.Filename, wb.Len(), len(parsed.Issues))

	SendJSONResponse(c, http.StatusOK, gin.H{
		"workbench":    h.state(wb, true),
		"parse_issues": parsed.Issues,
	})
}

// HandleGet обрабатывает GET /api/workbench/:id
// @Summary Состояние сессии сверки
// @Tags workbench
// @Produce json
// @Param id path string true "ID воркбенча"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} middleware.ErrorResponse
// @Router /workbench/{id} [get]
func (h *WorkbenchHandler) HandleGet(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}
	SendJSONResponse(c, http.StatusOK, h.state(wb, true))
}

// HandleCounts обрабатывает GET /api/workbench/:id/counts
func (h *WorkbenchHandler) HandleCounts(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}
	SendJSONResponse(c, http.StatusOK, h.state(wb, false))
}

// editRequest запрос на правку поля строки
type editRequest struct {
	Field string      `json:"field"`
	Value interface{} `json:"value"`
}

// HandleEditField обрабатывает POST /api/workbench/:id/rows/:index/edit
// @Summary Правка поля строки
// @Description Применяет правку, перевалидирует строку и сбрасывает подтверждение сверки
// @Tags workbench
// @Accept json
// @Produce json
// @Router /workbench/{id}/rows/{index}/edit [post]
func (h *WorkbenchHandler) HandleEditField(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := h.rowIndex(c)
	if !ok {
		return
	}

	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleGinValidationError(c, "invalid edit request", err)
		return
	}
	if req.Field == "" {
		middleware.HandleGinValidationError(c, "field is required", nil)
		return
	}

	row, err := wb.Apply(index, workbench.EditField{
		Field: req.Field,
		Value: normalization.FromAny(req.Value),
	})
	if err != nil {
		middleware.HandleGinError(c, apperrors.NewNotFoundError(err.Error(), err))
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"row":    row,
		"counts": wb.Counts(),
	})
}

// actionRequest запрос выбора действия для строки
type actionRequest struct {
	Action string `json:"action"`
}

// HandleSetAction обрабатывает POST /api/workbench/:id/rows/:index/action
// @Summary Выбор действия для строки
// @Description Действия: import, merge, skip или пустая строка для сброса
// @Tags workbench
// @Accept json
// @Produce json
// @Router /workbench/{id}/rows/{index}/action [post]
func (h *WorkbenchHandler) HandleSetAction(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}
	index, ok := h.rowIndex(c)
	if !ok {
		return
	}

	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleGinValidationError(c, "invalid action request", err)
		return
	}

	action := workbench.Action(req.Action)
	switch action {
	case workbench.ActionNone, workbench.ActionImport, workbench.ActionMerge, workbench.ActionSkip:
	default:
		middleware.HandleGinValidationError(c,
			fmt.Sprintf("unknown action: %q", req.Action), nil)
		return
	}

	row, err := wb.Apply(index, workbench.SetAction{Action: action})
	if err != nil {
		middleware.HandleGinError(c, apperrors.NewNotFoundError(err.Error(), err))
		return
	}

	SendJSONResponse(c, http.StatusOK, gin.H{
		"row":    row,
		"counts": wb.Counts(),
	})
}

// HandleCheck обрабатывает POST /api/workbench/:id/check
// @Summary Сверка строк с каталогом
// @Description Прогоняет все строки через сверку дубликатов партиями
// @Tags workbench
// @Produce json
// @Router /workbench/{id}/check [post]
func (h *WorkbenchHandler) HandleCheck(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}

	err := h.client.CheckRows(c.Request.Context(), wb, func(done, total int) {
		log.Printf("[Воркбенч %s] Сверка: %d/%d строк", wb.ID, done, total)
	})
	if err != nil {
		// Частичный прогресс сохранен в строках, клиент видит его в counts
		middleware.HandleGinError(c, apperrors.NewBadGatewayError(
			fmt.Sprintf("сверка прервана: %v", err), err))
		return
	}

	SendJSONResponse(c, http.StatusOK, h.state(wb, true))
}

// HandlePush обрабатывает POST /api/workbench/:id/push
// @Summary Запись подтвержденных строк в каталог
// @Description Разбивает строки на новые и обновления и записывает партиями
// @Tags workbench
// @Produce json
// @Router /workbench/{id}/push [post]
func (h *WorkbenchHandler) HandlePush(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}

	if !wb.PushEligible() {
		counts := wb.Counts()
		middleware.HandleGinError(c, apperrors.NewUnprocessableError(
			fmt.Sprintf("импорт заблокирован: %d ошибок, %d предупреждений, %d готовых строк",
				counts.Errors, counts.Warnings, counts.Ready), nil))
		return
	}

	if c.Query("refresh_placeholders") == "true" {
		if _, err := h.placeholders.Get(c.Request.Context(), true); err != nil {
			log.Printf("⚠ Не удалось обновить кэш заглушек: %v", err)
		}
	}

	cmt := committer.New(h.client, h.placeholders, h.audit)
	result, err := cmt.Push(c.Request.Context(), wb, func(done, total int) {
		log.Printf("[Воркбенч %s] Запись: %d/%d строк", wb.ID, done, total)
	})
	if err != nil {
		if errors.Is(err, committer.ErrNothingToImport) {
			middleware.HandleGinError(c, apperrors.NewUnprocessableError("нет строк для импорта", err))
			return
		}
		// Частичный результат возвращаем вместе с ошибкой
		reqID := middleware.GetRequestIDFromGin(c)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":      true,
			"message":    fmt.Sprintf("импорт прерван: %v", err),
			"partial":    result,
			"request_id": reqID,
		})
		return
	}

	log.Printf("✓ [Воркбенч %s] Импорт завершен: вставлено %d, обновлено %d, заглушек %d, партий %d",
		wb.ID, result.Inserted, result.Updated, result.Placeholders, result.Batches)

	SendJSONResponse(c, http.StatusOK, result)
}

// HandleExport обрабатывает GET /api/workbench/:id/export
// @Summary Экспорт строк сессии
// @Description Выгружает текущее состояние строк в CSV, JSON или XLSX
// @Tags workbench
// @Produce octet-stream
// @Param format query string false "Формат: csv, json, xlsx" default(csv)
// @Router /workbench/{id}/export [get]
func (h *WorkbenchHandler) HandleExport(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}

	format := importer.Format(strings.ToLower(c.DefaultQuery("format", "csv")))
	switch format {
	case importer.FormatCSV, importer.FormatJSON, importer.FormatXLSX:
	default:
		middleware.HandleGinValidationError(c,
			fmt.Sprintf("unsupported export format: %q", format), nil)
		return
	}

	rows := wb.Rows()
	records := make([]normalization.ResortRecord, 0, len(rows))
	for _, row := range rows {
		if row.Status == workbench.StatusSkipped {
			continue
		}
		records = append(records, row.Data)
	}

	data, err := importer.Export(records, format)
	if err != nil {
		middleware.HandleGinError(c, apperrors.NewInternalError("export failed", err))
		return
	}

	filename := fmt.Sprintf("workbench_%s.%s", wb.ID, format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentTypeForFormat(format), data)
}

// HandleDelete обрабатывает DELETE /api/workbench/:id
func (h *WorkbenchHandler) HandleDelete(c *gin.Context) {
	wb, ok := h.lookup(c)
	if !ok {
		return
	}
	h.registry.Delete(wb.ID)
	SendJSONResponse(c, http.StatusOK, gin.H{"deleted": wb.ID})
}

func (h *WorkbenchHandler) lookup(c *gin.Context) (*workbench.Workbench, bool) {
	id := c.Param("id")
	wb, ok := h.registry.Get(id)
	if !ok {
		middleware.HandleGinError(c, apperrors.NewNotFoundError(
			fmt.Sprintf("воркбенч %s не найден", id), nil))
		return nil, false
	}
	return wb, true
}

func (h *WorkbenchHandler) rowIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		middleware.HandleGinValidationError(c,
			fmt.Sprintf("invalid row index: %q", c.Param("index")), err)
		return 0, false
	}
	return index, true
}

func contentTypeForFormat(format importer.Format) string {
	switch format {
	case importer.FormatJSON:
		return "application/json"
	case importer.FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}
