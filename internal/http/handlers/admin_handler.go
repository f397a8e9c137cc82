package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/badziek/logitrans-app/internal/http/middleware"
	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
)

// AdminHandler serves the maintenance endpoints.
type AdminHandler struct {
	loads *repo.LoadRepo
}

func NewAdminHandler(loads *repo.LoadRepo) *AdminHandler {
	return &AdminHandler{loads: loads}
}

func (h *AdminHandler) ClearAllData(c *gin.Context) {
	deleted, err := h.loads.DeleteAll(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "could not clear data")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "Cleared %d records. <a href='/loads'>Back to the board</a>", deleted)
}

// AddTestData seeds the sample board when the loads table is empty.
func (h *AdminHandler) AddTestData(c *gin.Context) {
	count, err := h.loads.Count(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "could not check existing data")
		return
	}
	if count > 0 {
		c.String(http.StatusOK, "Database already holds %d records, skipping.", count)
		return
	}

	user := middleware.CurrentUser(c)
	samples := sampleLoads(user.ID)
	if err := h.loads.CreateBatch(c.Request.Context(), samples); err != nil {
		c.String(http.StatusInternalServerError, "could not insert test data")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "Added %d sample records. <a href='/loads'>Back to the board</a>", len(samples))
}

func sampleLoads(userID uint) []models.Load {
	seq1, seq2 := 1, 2
	planned100, planned50, planned75, planned200 := 100, 50, 75, 200
	done0, done25 := 0, 25

	return []models.Load{
		{
			TimeSlot: "17:00", Lane: "L01", TrailerNo: "TR001", Status: "PL",
			ShipDate: "04.10.2025", Area: "J01", Seq: &seq1, Planned: &planned100,
			Done: &done0, LoCode: "LO001", Picker: "Jan Kowalski",
			Shift: models.ShiftA, CreatedByID: userID,
		},
		{
			TimeSlot: "17:00", Lane: "L01", TrailerNo: "TR001", Status: "PL",
			ShipDate: "04.10.2025", Area: "J02", Seq: &seq2, Planned: &planned50,
			Done: &done0, LoCode: "LO002", Picker: "Anna Nowak",
			Shift: models.ShiftA, CreatedByID: userID,
		},
		{
			TimeSlot: "17:00", Lane: "L02", TrailerNo: "TR002", Status: "PA",
			ShipDate: "04.10.2025", Area: "J03", Seq: &seq1, Planned: &planned75,
			Done: &done25, LoCode: "LO003", Picker: "Piotr Wiśniewski",
			Shift: models.ShiftA, CreatedByID: userID,
		},
		{
			TimeSlot: "18:00", Lane: "L01", TrailerNo: "TR003", Status: "PL",
			ShipDate: "05.10.2025", Area: "J01", Seq: &seq1, Planned: &planned200,
			Done: &done0, LoCode: "LO004", Picker: "Maria Kowalczyk",
			Shift: models.ShiftB, CreatedByID: userID,
		},
	}
}
