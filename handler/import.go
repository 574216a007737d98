package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/importer"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/pkg/logger"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/service"
)

// PayloadArchiver stores raw import payloads for auditing. Archiving is
// best effort; a failure never blocks the import itself.
type PayloadArchiver interface {
	SavePayload(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}

// URLFetcher retrieves remote spreadsheet text for the URL entry point.
type URLFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ImportHandler exposes the three import entry points; all of them
// converge on the same importer pipeline.
type ImportHandler struct {
	importer  *importer.Importer
	fetcher   URLFetcher
	archive   PayloadArchiver // nil disables archiving
	maxUpload int64
}

func NewImportHandler(imp *importer.Importer, fetcher URLFetcher, archive PayloadArchiver, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{
		importer:  imp,
		fetcher:   fetcher,
		archive:   archive,
		maxUpload: maxUploadBytes,
	}
}

type ImportTextRequest struct {
	CSV string `json:"csv" binding:"required"`
}

type ImportURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ImportText ingests CSV data pasted directly into the request body.
func (h *ImportHandler) ImportText(c *gin.Context) {
	var req ImportTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida: campo csv obrigatório"})
		return
	}

	respond(c, h.importer.Import(c.Request.Context(), req.CSV))
}

// ImportFile ingests an uploaded spreadsheet. CSV and plain-text files go
// through text decoding; XLSX workbooks are read sheet-first into the same
// grid pipeline.
func (h *ImportHandler) ImportFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum arquivo enviado"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Arquivo excede o tamanho máximo permitido"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".txt" && ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Apenas arquivos CSV, TXT ou XLSX são permitidos"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falha ao ler o arquivo"})
		return
	}

	ctx := c.Request.Context()
	h.archivePayload(ctx, header.Filename, data, header.Header.Get("Content-Type"))

	var report *importer.Report
	if ext == ".xlsx" {
		grid, err := importer.GridFromXLSX(bytes.NewReader(data))
		if err != nil {
			logger.Warn(ctx, "failed to parse xlsx upload", "error", err, "filename", header.Filename)
			c.JSON(http.StatusUnprocessableEntity, importer.Report{
				Success: false,
				Message: "Planilha XLSX inválida",
			})
			return
		}
		report = h.importer.ImportGrid(ctx, grid)
	} else {
		report = h.importer.Import(ctx, importer.DecodeText(data))
	}

	respond(c, report)
}

// ImportURL fetches a published spreadsheet (e.g. a sheet exported as CSV)
// and ingests it.
func (h *ImportHandler) ImportURL(c *gin.Context) {
	var req ImportURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requisição inválida: campo url obrigatório"})
		return
	}

	ctx := c.Request.Context()

	text, err := h.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		logger.Warn(ctx, "failed to fetch import URL", "error", err, "url", req.URL)
		c.JSON(http.StatusBadGateway, importer.Report{
			Success: false,
			Message: "Erro ao buscar dados da URL. Verifique se a URL está correta e acessível.",
		})
		return
	}

	respond(c, h.importer.Import(ctx, text))
}

func (h *ImportHandler) archivePayload(ctx context.Context, filename string, data []byte, contentType string) {
	if h.archive == nil {
		return
	}
	object, err := h.archive.SavePayload(ctx, filename, data, contentType)
	if err != nil {
		logger.Warn(ctx, "failed to archive import payload", "error", err, "filename", filename)
		return
	}
	logger.Debug(ctx, "import payload archived", "object", object)
}

// respond maps the report onto HTTP: 200 for success, 422 when the
// document was rejected. Row-level errors ride along inside the report
// either way.
func respond(c *gin.Context, report *importer.Report) {
	status := http.StatusOK
	if !report.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, report)
}

var _ URLFetcher = (*service.CSVFetcher)(nil)
var _ PayloadArchiver = (*service.ImportArchive)(nil)
