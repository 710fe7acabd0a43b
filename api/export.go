package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"cashlog/database"
	"cashlog/middleware"
	"cashlog/models"
	"cashlog/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	budgets  *repository.BudgetRepository
	expenses *repository.ExpenseRepository
}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{
		budgets:  repository.NewBudgetRepository(database.DB),
		expenses: repository.NewExpenseRepository(database.DB),
	}
}

// exportRow 导出的一行
type exportRow struct {
	ID          uint
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Budget      string
}

type exportData struct {
	start, end string
	rows       []exportRow
	total      decimal.Decimal
}

var exportHeaders = []string{"ID", "Date", "Description", "Amount", "Budget"}

// load 读取 start、end（都包含当天）范围内的记录
func (h *ExportHandler) load(c *gin.Context) (*exportData, bool) {
	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" || endStr == "" {
		BadRequest(c, "start and end are required")
		return nil, false
	}
	start, err := models.ParseDate(startStr)
	if err != nil {
		BadRequest(c, "start must be YYYY-MM-DD")
		return nil, false
	}
	end, err := models.ParseDate(endStr)
	if err != nil {
		BadRequest(c, "end must be YYYY-MM-DD")
		return nil, false
	}
	if end.Before(start) {
		BadRequest(c, repository.ErrInvalidPeriod.Error())
		return nil, false
	}

	ctx := c.Request.Context()
	owner := repository.ForUser(middleware.GetCurrentUserID(c))
	expenses, _, err := h.expenses.List(ctx, owner, repository.ExpenseFilter{From: &start, To: &end}, repository.Page{})
	if err != nil {
		respondRepoError(c, err, "failed to load expenses")
		return nil, false
	}
	budgets, err := h.budgets.List(ctx, owner, repository.BudgetFilter{})
	if err != nil {
		respondRepoError(c, err, "failed to load budgets")
		return nil, false
	}
	labels := make(map[uint]string, len(budgets))
	for _, b := range budgets {
		labels[b.ID] = b.Label
	}

	data := &exportData{start: startStr, end: endStr, total: decimal.Zero}
	for _, e := range expenses {
		row := exportRow{ID: e.ID, Date: e.Date, Description: e.Description, Amount: e.Amount}
		if e.BudgetID != nil {
			row.Budget = labels[*e.BudgetID]
		}
		data.rows = append(data.rows, row)
		data.total = data.total.Add(e.Amount)
	}
	return data, true
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出 CSV
// @Description 导出 start 到 end（包含）的消费记录
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param start query string true "开始日期 (2025-10-01)"
// @Param end query string true "结束日期 (2025-10-31)"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	data, ok := h.load(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM，Excel 打开时按 UTF-8 识别
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	if err := writer.Write(exportHeaders); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}
	for _, row := range data.rows {
		record := []string{
			fmt.Sprintf("%d", row.ID),
			models.FormatDate(row.Date),
			row.Description,
			row.Amount.StringFixed(2),
			row.Budget,
		}
		if err := writer.Write(record); err != nil {
			InternalError(c, "failed to generate CSV")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "failed to generate CSV")
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.csv", data.start, data.end)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func cellBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
}

// buildWorkbook 表头、数据和合计行
func buildWorkbook(data *exportData) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Expenses"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    cellBorder(),
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    cellBorder(),
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Border: cellBorder(),
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 40)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 24)

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, row := range data.rows {
		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), models.FormatDate(row.Date))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), row.Amount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.Budget)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("E%d", r), dataStyle)
	}

	summaryRow := len(data.rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", summaryRow), data.total.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%d rows", len(data.rows)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow), summaryStyle)

	return f, nil
}

// ExportExcel 导出消费记录为 Excel
// @Summary 导出 Excel
// @Description 导出 start 到 end（包含）的消费记录，末行为合计
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param start query string true "开始日期 (2025-10-01)"
// @Param end query string true "结束日期 (2025-10-31)"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	data, ok := h.load(c)
	if !ok {
		return
	}

	f, err := buildWorkbook(data)
	if err != nil {
		InternalError(c, "failed to generate Excel")
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, "failed to generate Excel")
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.xlsx", data.start, data.end)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
