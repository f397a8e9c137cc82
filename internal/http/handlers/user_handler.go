package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/badziek/logitrans-app/internal/http/middleware"
	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/services"
	"github.com/badziek/logitrans-app/internal/utils"
)

// UserHandler serves the account management page. All actions arrive
// as POSTs to /users dispatched on the "action" form field.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	h.render(c)
}

func (h *UserHandler) Manage(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	switch c.PostForm("action") {
	case "add":
		h.add(c, actor)
	case "edit":
		h.edit(c, actor)
	case "change_password":
		h.changePassword(c, actor)
	case "delete":
		h.delete(c, actor)
	default:
		utils.SetFlash(c, "error", "unknown action")
	}

	c.Redirect(http.StatusFound, "/users")
}

func (h *UserHandler) add(c *gin.Context, actor *models.User) {
	email := c.PostForm("email")
	fullName := c.PostForm("full_name")
	password := c.PostForm("password")
	role := models.ParseRole(c.PostForm("role"))

	if _, err := h.users.CreateUser(c.Request.Context(), actor, email, fullName, password, role); err != nil {
		utils.SetFlash(c, "error", err.Error())
		return
	}
	utils.SetFlash(c, "success", "user added")
}

func (h *UserHandler) edit(c *gin.Context, actor *models.User) {
	id, err := parseID(c.PostForm("user_id"))
	if err != nil {
		utils.SetFlash(c, "error", "user not found")
		return
	}

	email := c.PostForm("email")
	fullName := c.PostForm("full_name")
	role := models.ParseRole(c.PostForm("role"))

	if err := h.users.UpdateUser(c.Request.Context(), actor, id, email, fullName, role); err != nil {
		utils.SetFlash(c, "error", err.Error())
		return
	}
	utils.SetFlash(c, "success", "user updated")
}

func (h *UserHandler) changePassword(c *gin.Context, actor *models.User) {
	id, err := parseID(c.PostForm("user_id"))
	if err != nil {
		utils.SetFlash(c, "error", "user not found")
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), actor, id, c.PostForm("new_password")); err != nil {
		utils.SetFlash(c, "error", err.Error())
		return
	}
	utils.SetFlash(c, "success", "password changed")
}

func (h *UserHandler) delete(c *gin.Context, actor *models.User) {
	id, err := parseID(c.PostForm("user_id"))
	if err != nil {
		utils.SetFlash(c, "error", "user not found")
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), actor, id); err != nil {
		utils.SetFlash(c, "error", err.Error())
		return
	}
	utils.SetFlash(c, "success", "user deleted")
}

func (h *UserHandler) render(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		utils.SetFlash(c, "error", "could not list users")
	}

	c.HTML(http.StatusOK, "users.html", gin.H{
		"Users":       users,
		"CurrentUser": middleware.CurrentUser(c),
		"Flashes":     utils.TakeFlashes(c),
	})
}
