package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/pos-app/apperrors"
	"github.com/yeremiapane/pos-app/middlewares"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/reports"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
)

const dateLayout = "2006-01-02"

type SalesReportController struct {
	reports  *services.ReportService
	renderer reports.Renderer
	loc      *time.Location
}

func NewSalesReportController(reportService *services.ReportService, renderer reports.Renderer, loc *time.Location) *SalesReportController {
	if loc == nil {
		loc = time.Local
	}
	return &SalesReportController{reports: reportService, renderer: renderer, loc: loc}
}

// reportQuery reads the shared report filters and the cashier scope for the caller.
func (rc *SalesReportController) reportQuery(c *gin.Context) (*uint, services.ReportFilters, error) {
	var f services.ReportFilters
	actor, err := CurrentActor(c)
	if err != nil {
		return nil, f, err
	}

	if f.StartDate, err = rc.dateQuery(c, "startDate"); err != nil {
		return nil, f, err
	}
	if f.EndDate, err = rc.dateQuery(c, "endDate"); err != nil {
		return nil, f, err
	}
	if f.CategoryID, err = optionalUintQuery(c, "categoryId"); err != nil {
		return nil, f, err
	}
	f.OrderType = c.Query("orderType")

	requested, err := optionalUintQuery(c, "cashierId")
	if err != nil {
		return nil, f, err
	}
	return actor.ScopeCashier(requested), f, nil
}

func (rc *SalesReportController) dateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, rc.loc)
	if err != nil {
		return nil, apperrors.Validation(name + " must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func (rc *SalesReportController) GetSalesReport(c *gin.Context) {
	cashierID, filters, err := rc.reportQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	page, err := paginationQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	report, err := rc.reports.GenerateReport(c.Request.Context(), cashierID, filters, page)
	middlewares.RecordOrderOperation("report", err == nil)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales report", report)
}

func (rc *SalesReportController) ExportExcel(c *gin.Context) {
	rc.export(c, "export_excel", "xlsx", reports.ContentTypeExcel, rc.renderer.RenderExcel)
}

func (rc *SalesReportController) ExportPDF(c *gin.Context) {
	rc.export(c, "export_pdf", "pdf", reports.ContentTypePDF, rc.renderer.RenderPDF)
}

func (rc *SalesReportController) export(c *gin.Context, operation, ext, contentType string, render func(*models.SalesReportExport) ([]byte, error)) {
	cashierID, filters, err := rc.reportQuery(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	report, err := rc.reports.FullReport(c.Request.Context(), cashierID, filters)
	if err != nil {
		middlewares.RecordOrderOperation(operation, false)
		utils.RespondError(c, err)
		return
	}
	data, err := render(report)
	middlewares.RecordOrderOperation(operation, err == nil)
	if err != nil {
		utils.RespondError(c, apperrors.Internal("failed to render report", err))
		return
	}

	fileName := reports.FileName(report.GeneratedAt, ext)
	utils.InfoLogger.WithFields(logrus.Fields{
		"file":   fileName,
		"orders": len(report.Orders),
		"bytes":  len(data),
	}).Info("report exported")

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, contentType, data)
}
