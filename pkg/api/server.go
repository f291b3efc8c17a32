// Package api provides the REST API server for gig2sfz
package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/gig2sfz/pkg/converter"
	"github.com/james-see/gig2sfz/pkg/gig"
)

// @title gig2sfz API
// @version 1.0
// @description API for converting GigaSampler .gig instruments to SFZ
// @host localhost:8080
// @BasePath /api/v1

// maxUploadSize bounds multipart uploads held in memory
const maxUploadSize = 64 << 20

// StartServer starts the API server on the specified port
func StartServer(port int, conv *converter.Converter) error {
	return NewRouter(conv).Run(fmt.Sprintf(":%d", port))
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(conv *converter.Converter) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = maxUploadSize

	// CORS middleware
	r.Use(corsMiddleware())

	h := &handler{conv: conv}

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.POST("/convert", h.handleConvert)
		v1.POST("/inspect", h.handleInspect)
		v1.POST("/preview", h.handlePreview)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

type handler struct {
	conv *converter.Converter
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "gig2sfz",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the input format and the supported dimension types
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"input":      []string{"gig"},
		"output":     []string{"sfz", "mid"},
		"dimensions": []string{gig.DimensionVelocity.String(), gig.DimensionReleaseTrigger.String()},
	})
}

// handleConvert godoc
// @Summary Convert .gig to SFZ
// @Description Upload a .gig file and receive one SFZ document per instrument
// @Tags convert
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true ".gig file to convert"
// @Success 200 {object} map[string][]converter.OutputFile
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert [post]
func (h *handler) handleConvert(c *gin.Context) {
	f, ok := h.readUpload(c)
	if !ok {
		return
	}

	sink := &converter.MemorySink{}
	if _, err := h.conv.ConvertFile(f, sink); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": sink.Files})
}

// handleInspect godoc
// @Summary Describe a .gig file
// @Description Upload a .gig file and receive its instrument, region and dimension layout
// @Tags info
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true ".gig file to inspect"
// @Success 200 {object} map[string][]converter.InstrumentSummary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/inspect [post]
func (h *handler) handleInspect(c *gin.Context) {
	f, ok := h.readUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"instruments": h.conv.Summarize(f)})
}

// handlePreview godoc
// @Summary Render an audition MIDI file
// @Description Upload a .gig file and receive a MIDI file playing every zone of one instrument
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true ".gig file"
// @Param instrument query int false "Instrument index (default: 0)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/preview [post]
func (h *handler) handlePreview(c *gin.Context) {
	index, err := strconv.Atoi(c.DefaultQuery("instrument", "0"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid instrument index"})
		return
	}

	f, ok := h.readUpload(c)
	if !ok {
		return
	}
	if index >= len(f.Instruments) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Instrument %d not found", index)})
		return
	}

	ins := f.Instruments[index]
	result, err := converter.NewPreviewGenerator().GeneratePreview(ins)
	if err != nil {
		respondError(c, err)
		return
	}

	outputName := strings.ReplaceAll(h.conv.InstrumentName(ins), `"`, "'") + ".mid"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputName))
	c.Data(http.StatusOK, "audio/midi", result)
}

// readUpload decodes the uploaded file, writing an error response on failure
func (h *handler) readUpload(c *gin.Context) (*gig.File, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, false
	}

	f, err := gig.Parse(bytes.NewReader(data))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return f, true
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, gig.ErrDecode) || errors.Is(err, converter.ErrUnsupportedDimension) {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
