package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/badziek/logitrans-app/internal/board"
	"github.com/badziek/logitrans-app/internal/http/middleware"
	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
	"github.com/badziek/logitrans-app/internal/utils"
)

type LoadHandler struct {
	loads *repo.LoadRepo
}

func NewLoadHandler(loads *repo.LoadRepo) *LoadHandler {
	return &LoadHandler{loads: loads}
}

// Board renders the dashboard, optionally filtered to one time slot.
func (h *LoadHandler) Board(c *gin.Context) {
	filterTime := c.Query("time_slot")

	rows, err := h.loads.List(c.Request.Context(), filterTime)
	if err != nil {
		utils.SetFlash(c, "error", "could not load the board")
		rows = nil
	}

	b := board.Assemble(rows)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Board":       b,
		"FixedLanes":  board.FixedLanes,
		"FilterTime":  filterTime,
		"CurrentUser": middleware.CurrentUser(c),
		"Flashes":     utils.TakeFlashes(c),
	})
}

func (h *LoadHandler) Create(c *gin.Context) {
	timeSlot := strings.TrimSpace(c.PostForm("time_slot"))
	if timeSlot == "" {
		timeSlot = board.DefaultTimeSlot
	}
	lane := strings.ToUpper(strings.TrimSpace(c.PostForm("lane")))
	if lane == "" {
		lane = "L01"
	}

	user := middleware.CurrentUser(c)
	load := models.Load{
		TimeSlot:    timeSlot,
		Lane:        lane,
		Area:        strings.TrimSpace(c.PostForm("area")),
		TrailerNo:   strings.TrimSpace(c.PostForm("trailer_no")),
		Status:      strings.TrimSpace(c.PostForm("status")),
		ShipDate:    strings.TrimSpace(c.PostForm("ship_date")),
		Seq:         parseDigits(c.PostForm("seq")),
		Planned:     parseDigits(c.PostForm("planned")),
		Done:        parseDigits(c.PostForm("done")),
		LoCode:      strings.TrimSpace(c.PostForm("lo_code")),
		Picker:      strings.TrimSpace(c.PostForm("picker")),
		Shift:       models.ShiftA,
		CreatedByID: user.ID,
	}

	if err := h.loads.Create(c.Request.Context(), &load); err != nil {
		utils.SetFlash(c, "error", "could not create load")
	}

	redirectToBoard(c, timeSlot)
}

func (h *LoadHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		utils.SetFlash(c, "error", "record not found")
		redirectToBoard(c, "")
		return
	}

	if err := h.loads.Delete(c.Request.Context(), id); err != nil {
		utils.SetFlash(c, "error", "record not found")
	} else {
		utils.SetFlash(c, "success", "record deleted")
	}
	redirectToBoard(c, "")
}

// loadPatch is the enumerated editable field set for one load. A nil
// field was not submitted; a submitted empty string clears the value.
type loadPatch struct {
	Seq       *string
	Planned   *string
	Done      *string
	LoCode    *string
	Picker    *string
	Status    *string
	TimeSlot  *string
	Lane      *string
	TrailerNo *string
	ShipDate  *string
}

func patchFromForm(c *gin.Context) loadPatch {
	field := func(name string) *string {
		if val, ok := c.GetPostForm(name); ok {
			return &val
		}
		return nil
	}
	return loadPatch{
		Seq:       field("seq"),
		Planned:   field("planned"),
		Done:      field("done"),
		LoCode:    field("lo_code"),
		Picker:    field("picker"),
		Status:    field("status"),
		TimeSlot:  field("time_slot"),
		Lane:      field("lane"),
		TrailerNo: field("trailer_no"),
		ShipDate:  field("ship_date"),
	}
}

// columns maps the patch onto column updates. Numeric fields that fail
// integer parsing become NULL rather than erroring; text fields store
// the submitted value, empty meaning cleared.
func (p loadPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}

	setInt := func(name string, v *string) {
		if v == nil {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(*v)); err == nil {
			cols[name] = n
		} else {
			cols[name] = nil
		}
	}
	setStr := func(name string, v *string) {
		if v == nil {
			return
		}
		cols[name] = strings.TrimSpace(*v)
	}

	setInt("seq", p.Seq)
	setInt("planned", p.Planned)
	setInt("done", p.Done)
	setStr("lo_code", p.LoCode)
	setStr("picker", p.Picker)
	setStr("status", p.Status)
	setStr("time_slot", p.TimeSlot)
	setStr("trailer_no", p.TrailerNo)
	setStr("ship_date", p.ShipDate)
	if p.Lane != nil {
		cols["lane"] = strings.ToUpper(strings.TrimSpace(*p.Lane))
	}

	return cols
}

func (h *LoadHandler) Edit(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.editNotFound(c)
		return
	}

	load, err := h.loads.GetByID(c.Request.Context(), id)
	if err != nil {
		h.editNotFound(c)
		return
	}

	patch := patchFromForm(c)
	if err := h.loads.Update(c.Request.Context(), id, patch.columns()); err != nil {
		if err == repo.ErrNotFound {
			h.editNotFound(c)
			return
		}
		utils.SetFlash(c, "error", "could not save changes")
		redirectToBoard(c, load.TimeSlot)
		return
	}

	if isAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "saved"})
		return
	}

	// land on the slot the row now belongs to
	target := load.TimeSlot
	if patch.TimeSlot != nil && strings.TrimSpace(*patch.TimeSlot) != "" {
		target = strings.TrimSpace(*patch.TimeSlot)
	}
	redirectToBoard(c, target)
}

func (h *LoadHandler) editNotFound(c *gin.Context) {
	if isAJAX(c) {
		utils.RespondJSONError(c, utils.NewAppError(http.StatusNotFound, "NOT_FOUND", "record not found"))
		return
	}
	utils.SetFlash(c, "error", "record not found")
	redirectToBoard(c, "")
}

// UpdateHeader rewrites the shared header fields on every row of the
// original (time_slot, lane) column. Only non-empty submitted values
// overwrite; a new time_slot moves the whole column.
func (h *LoadHandler) UpdateHeader(c *gin.Context) {
	origTimeSlot := strings.TrimSpace(c.PostForm("orig_time_slot"))
	lane := strings.ToUpper(strings.TrimSpace(c.PostForm("lane")))
	if lane == "" {
		lane = "L01"
	}
	newTimeSlot := strings.TrimSpace(c.PostForm("time_slot"))
	trailerNo := strings.TrimSpace(c.PostForm("trailer_no"))
	status := strings.TrimSpace(c.PostForm("status"))
	shipDate := strings.TrimSpace(c.PostForm("ship_date"))

	if origTimeSlot == "" || lane == "" {
		utils.SetFlash(c, "error", "missing header identification")
		redirectToBoard(c, origTimeSlot)
		return
	}

	updates := map[string]interface{}{}
	if trailerNo != "" {
		updates["trailer_no"] = trailerNo
	}
	if newTimeSlot != "" {
		updates["time_slot"] = newTimeSlot
	}
	if status != "" {
		updates["status"] = status
	}
	if shipDate != "" {
		updates["ship_date"] = shipDate
	}

	affected, err := h.loads.UpdateHeader(c.Request.Context(), origTimeSlot, lane, updates)
	if err != nil {
		utils.SetFlash(c, "error", "could not update header")
	} else if affected == 0 {
		utils.SetFlash(c, "warning", "no rows to update for this column")
	} else {
		utils.SetFlash(c, "success", fmt.Sprintf("updated header of column %s (%d rows)", lane, affected))
	}

	target := newTimeSlot
	if target == "" {
		target = origTimeSlot
	}
	redirectToBoard(c, target)
}

// ClearLane resets planned/done/lo_code/picker on every row of the
// column, keeping header fields and row identity.
func (h *LoadHandler) ClearLane(c *gin.Context) {
	timeSlot := strings.TrimSpace(c.PostForm("time_slot"))
	lane := strings.ToUpper(strings.TrimSpace(c.PostForm("lane")))

	if timeSlot == "" || lane == "" {
		utils.SetFlash(c, "error", "missing column identification")
		redirectToBoard(c, "")
		return
	}

	affected, err := h.loads.ClearLane(c.Request.Context(), timeSlot, lane)
	if err != nil {
		utils.SetFlash(c, "error", "could not clear column")
	} else if affected == 0 {
		utils.SetFlash(c, "warning", fmt.Sprintf("no data to clear in column %s", lane))
	} else {
		utils.SetFlash(c, "success", fmt.Sprintf("cleared column %s (%d rows)", lane, affected))
	}

	redirectToBoard(c, timeSlot)
}

func redirectToBoard(c *gin.Context, timeSlot string) {
	target := "/loads"
	if timeSlot != "" {
		target += "?time_slot=" + url.QueryEscape(timeSlot)
	}
	c.Redirect(http.StatusFound, target)
}

func isAJAX(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// parseDigits accepts only all-digit input; anything else is absent.
func parseDigits(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return nil
		}
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
