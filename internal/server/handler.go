package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hyperifyio/tagscrape/internal/report"
	"github.com/hyperifyio/tagscrape/internal/scrape"
)

// Health returns a handler for GET /api/v1/health.
func Health(version string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Version: version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}

// Tags returns a handler for GET /api/v1/tags.
func Tags() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, TagsResponse{Tags: scrape.CommonTags, Default: scrape.DefaultTag})
	}
}

// Extract returns a handler for POST /api/v1/extract. Each call is
// independent; nothing is kept between requests.
func Extract(ex *scrape.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		res, err := ex.Extract(c.Request.Context(), scrape.Request{URL: req.URL, Tag: req.Tag})
		if err != nil {
			status, code := mapExtractError(err)
			respondError(c, status, code, err)
			return
		}

		items := res.Items
		if items == nil {
			items = []string{}
		}
		c.JSON(http.StatusOK, ExtractResponse{
			Success: true,
			URL:     res.URL,
			Tag:     res.Tag,
			Count:   res.Count(),
			Items:   items,
		})
	}
}

// Report returns a handler for POST /api/v1/report that streams the PDF
// built from the posted items.
func Report() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
		if len(req.Items) == 0 {
			respondError(c, http.StatusUnprocessableEntity, ErrCodeNoData, report.ErrNoData)
			return
		}
		if !report.ValidPageSize(req.PageSize) {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidInput, errors.New("page_size must be Letter, A4 or Legal"))
			return
		}

		var buf bytes.Buffer
		if err := report.Write(&buf, req.Items, report.Options{Title: req.Title, PageSize: req.PageSize}); err != nil {
			respondError(c, http.StatusInternalServerError, ErrCodeInternal, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="scraped-data.pdf"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

// respondBindError reports an unreadable request body: 413 past the size
// cap, 400 otherwise.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, ErrCodeTooLarge, err)
		return
	}
	respondError(c, http.StatusBadRequest, ErrCodeInvalidInput, err)
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   &ErrorDetail{Code: code, Message: err.Error()},
	})
}

// mapExtractError translates extraction failures to HTTP status codes.
func mapExtractError(err error) (int, string) {
	switch {
	case errors.Is(err, scrape.ErrEmptyURL):
		return http.StatusBadRequest, ErrCodeInvalidInput
	case errors.Is(err, scrape.ErrHTTP):
		return http.StatusBadGateway, ErrCodeHTTP
	case errors.Is(err, scrape.ErrParse):
		return http.StatusUnprocessableEntity, ErrCodeParse
	case errors.Is(err, scrape.ErrNetwork):
		return http.StatusBadGateway, ErrCodeNetwork
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
