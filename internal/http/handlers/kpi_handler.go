package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/badziek/logitrans-app/internal/http/middleware"
	"github.com/badziek/logitrans-app/internal/kpi"
	"github.com/badziek/logitrans-app/internal/utils"
)

type KPIHandler struct{}

func NewKPIHandler() *KPIHandler {
	return &KPIHandler{}
}

func (h *KPIHandler) View(c *gin.Context) {
	c.HTML(http.StatusOK, "kpi.html", gin.H{
		"Results":     nil,
		"CurrentUser": middleware.CurrentUser(c),
		"Flashes":     utils.TakeFlashes(c),
	})
}

// Upload ingests one workbook and renders its summary. Nothing is
// persisted; every upload is a fresh transform.
func (h *KPIHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("excel")
	if err != nil {
		utils.SetFlash(c, "error", "please attach an Excel file")
		c.Redirect(http.StatusFound, "/kpi")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SetFlash(c, "error", "could not read the uploaded file")
		c.Redirect(http.StatusFound, "/kpi")
		return
	}
	defer func() { _ = file.Close() }()

	summary, err := kpi.Process(file)
	if err != nil {
		utils.SetFlash(c, "error", err.Error())
		c.Redirect(http.StatusFound, "/kpi")
		return
	}

	c.HTML(http.StatusOK, "kpi.html", gin.H{
		"Results":     summary,
		"CurrentUser": middleware.CurrentUser(c),
		"Flashes":     utils.TakeFlashes(c),
	})
}
