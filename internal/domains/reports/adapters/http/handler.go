// Package http exposes sales reports over gin.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cafepos/cafe-api-server/internal/domains/reports/application"
	"github.com/cafepos/cafe-api-server/internal/domains/reports/domain"
	sharederrors "github.com/cafepos/cafe-api-server/internal/shared/errors"
)

// Handler serves the reporting endpoints.
type Handler struct {
	service   *application.Service
	responder *sharederrors.Responder
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service, responder: sharederrors.NewResponder("")}
}

// Register mounts the report routes, normally behind admin auth.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/reports/daily", h.daily)
	r.GET("/reports/monthly", h.monthly)
}

type reportResponse struct {
	From        string            `json:"from"`
	To          string            `json:"to"`
	Orders      int64             `json:"orders"`
	GrossSales  int64             `json:"grossSales"`
	Discounts   int64             `json:"discounts"`
	NetSales    int64             `json:"netSales"`
	TopProducts []productResponse `json:"topProducts"`
}

type productResponse struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

func (h *Handler) daily(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			h.responder.BadRequest(c, "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}
	report, err := h.service.DailyReport(c.Request.Context(), day)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(report))
}

func (h *Handler) monthly(c *gin.Context) {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.responder.BadRequest(c, "year must be an integer")
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			h.responder.BadRequest(c, "month must be between 1 and 12")
			return
		}
		month = time.Month(parsed)
	}
	report, err := h.service.MonthlyReport(c.Request.Context(), year, month, time.Local)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(report))
}

func toResponse(report *domain.Report) reportResponse {
	products := make([]productResponse, 0, len(report.TopProducts))
	for _, p := range report.TopProducts {
		products = append(products, productResponse{Name: p.ProductName, Quantity: p.Quantity, Revenue: p.Revenue})
	}
	return reportResponse{
		From:        report.From.Format(time.RFC3339),
		To:          report.To.Format(time.RFC3339),
		Orders:      report.Summary.OrdersClosed,
		GrossSales:  report.Summary.GrossSales,
		Discounts:   report.Summary.Discounts,
		NetSales:    report.Summary.NetSales,
		TopProducts: products,
	}
}
