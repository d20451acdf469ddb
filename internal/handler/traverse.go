package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"traverse-api/internal/export"
	"traverse-api/internal/models"
	"traverse-api/internal/reader"
	"traverse-api/internal/traverse"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TraverseHandler handles traverse computation requests
type TraverseHandler struct {
	service        TraverseService
	maxUploadBytes int64
}

// TraverseService interface for dependency injection
type TraverseService interface {
	Compute(context.Context, models.AdjustRequest) (*models.Traverse, error)
	Submit(context.Context, models.AdjustRequest) (*models.Traverse, error)
	Get(context.Context, uuid.UUID) (*models.Traverse, error)
	List(context.Context, int) ([]models.TraverseSummary, error)
}

// NewTraverseHandler creates a new traverse handler
func NewTraverseHandler(svc TraverseService, maxUploadBytes int64) *TraverseHandler {
	return &TraverseHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// AdjustRequest is the JSON body of compute and submit requests.
// Cells may be strings or numbers.
type AdjustRequest struct {
	Name      string          `json:"name"`
	Columns   []string        `json:"columns" binding:"required"`
	Rows      [][]interface{} `json:"rows"`
	StartX    float64         `json:"start_x"`
	StartY    float64         `json:"start_y"`
	CloseLoop bool            `json:"close_loop"`
}

// TraverseResponse is a traverse together with its closure summary
type TraverseResponse struct {
	*models.Traverse
	Summary ClosureSummary `json:"summary"`
}

// ClosureSummary holds the closure figures derived from an adjustment.
// PrecisionRatio is omitted when the closure is perfect or the traverse has no length.
type ClosureSummary struct {
	LinearMisclosure float64  `json:"linear_misclosure"`
	PrecisionRatio   *float64 `json:"precision_ratio,omitempty"`
	PerfectClosure   bool     `json:"perfect_closure"`
	Warning          string   `json:"warning,omitempty"`
}

func newTraverseResponse(t *models.Traverse) TraverseResponse {
	summary := ClosureSummary{LinearMisclosure: t.LinearMisclosure()}
	if err := t.Check(); err != nil {
		summary.Warning = err.Error()
	} else if ratio, perfect := t.PrecisionRatio(); perfect {
		summary.PerfectClosure = true
	} else {
		summary.PrecisionRatio = &ratio
	}
	return TraverseResponse{Traverse: t, Summary: summary}
}

func (r AdjustRequest) toModel() models.AdjustRequest {
	rows := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = cellString(v)
		}
	}
	return models.AdjustRequest{
		Name:      r.Name,
		Table:     models.Table{Columns: r.Columns, Rows: rows},
		Start:     models.Coordinate{Easting: r.StartX, Northing: r.StartY},
		CloseLoop: r.CloseLoop,
	}
}

func cellString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Compute handles POST /traverses/compute requests
//
//	@Summary	Adjust a traverse without storing it
//	@Tags		traverses
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AdjustRequest	true	"Survey table"
//	@Success	200		{object}	TraverseResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	422		{object}	map[string]interface{}
//	@Router		/traverses/compute [post]
func (h *TraverseHandler) Compute(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.Compute(c.Request.Context(), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newTraverseResponse(t))
}

// Submit handles POST /traverses requests
//
//	@Summary	Adjust and store a traverse
//	@Tags		traverses
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AdjustRequest	true	"Survey table"
//	@Success	201		{object}	TraverseResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	422		{object}	map[string]interface{}
//	@Router		/traverses [post]
func (h *TraverseHandler) Submit(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	t, err := h.service.Submit(c.Request.Context(), req.toModel())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTraverseResponse(t))
}

// Upload handles POST /traverses/upload requests
//
//	@Summary	Adjust and store a traverse from a CSV, XLSX or DXF file
//	@Tags		traverses
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file		formData	file	true	"Survey file"
//	@Param		name		formData	string	false	"Traverse name"
//	@Param		start_x		formData	number	false	"Start easting"
//	@Param		start_y		formData	number	false	"Start northing"
//	@Param		close_loop	formData	boolean	false	"Close the traverse back to start"
//	@Success	201			{object}	TraverseResponse
//	@Failure	400			{object}	map[string]string
//	@Failure	413			{object}	map[string]string
//	@Failure	415			{object}	map[string]string
//	@Failure	422			{object}	map[string]interface{}
//	@Router		/traverses/upload [post]
func (h *TraverseHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required form file 'file'"})
		return
	}

	req := models.AdjustRequest{Name: c.PostForm("name")}
	for _, p := range []struct {
		key string
		dst *float64
	}{
		{"start_x", &req.Start.Easting},
		{"start_y", &req.Start.Northing},
	} {
		if s := c.PostForm(p.key); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s format", p.key)})
				return
			}
			*p.dst = v
		}
	}
	if s := c.PostForm("close_loop"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid close_loop format"})
			return
		}
		req.CloseLoop = v
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
		return
	}
	defer f.Close()

	req.Table, err = reader.Read(fh.Filename, f)
	if err != nil {
		if errors.Is(err, reader.ErrUnsupportedFormat) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported file type, expected csv, xlsx or dxf"})
			return
		}
		log.Warn().Err(err).Str("file", fh.Filename).Msg("unreadable upload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	if req.Name == "" {
		req.Name = fh.Filename
	}

	t, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTraverseResponse(t))
}

// Get handles GET /traverses/:id requests
//
//	@Summary	Fetch a stored traverse
//	@Tags		traverses
//	@Produce	json
//	@Param		id	path		string	true	"Traverse ID"
//	@Success	200	{object}	TraverseResponse
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/traverses/{id} [get]
func (h *TraverseHandler) Get(c *gin.Context) {
	t, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newTraverseResponse(t))
}

// List handles GET /traverses requests
//
//	@Summary	List recently stored traverses
//	@Tags		traverses
//	@Produce	json
//	@Param		limit	query		int	false	"Maximum number of results"
//	@Success	200		{array}		models.TraverseSummary
//	@Failure	400		{object}	map[string]string
//	@Router		/traverses [get]
func (h *TraverseHandler) List(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit format"})
			return
		}
		limit = v
	}

	summaries, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Export handles GET /traverses/:id/export/:format requests
//
//	@Summary	Download a stored traverse as csv, xlsx, dxf, geojson or pdf
//	@Tags		traverses
//	@Produce	octet-stream
//	@Param		id		path	string	true	"Traverse ID"
//	@Param		format	path	string	true	"Export format"
//	@Success	200
//	@Failure	400	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/traverses/{id}/export/{format} [get]
func (h *TraverseHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format"})
		return
	}

	t, ok := h.lookup(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(format, &buf, t); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName(t)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *TraverseHandler) lookup(c *gin.Context) (*models.Traverse, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid traverse id"})
		return nil, false
	}

	t, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "traverse not found"})
		return nil, false
	}

	return t, true
}

func (h *TraverseHandler) fail(c *gin.Context, err error) {
	var missing *traverse.MissingColumnsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "unrecognized table columns",
			"missing": missing,
		})
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
