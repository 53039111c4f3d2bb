package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"wayfinder/internal/middleware"
	"wayfinder/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminAccountHandler serves admin-account management (root only) and the
// admin profile self-service.
type AdminAccountHandler struct {
	admins *services.AdminService
	logger *logrus.Logger
}

func NewAdminAccountHandler(admins *services.AdminService, logger *logrus.Logger) *AdminAccountHandler {
	return &AdminAccountHandler{admins: admins, logger: logger}
}

// List returns every admin account.
func (h *AdminAccountHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list admins", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"admins":  admins,
		"notices": middleware.TakeFlashes(c),
	})
}

// NewPage returns the creation form payload.
func (h *AdminAccountHandler) NewPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "create_admin",
		"notices": middleware.TakeFlashes(c),
	})
}

// Create adds an admin account.
func (h *AdminAccountHandler) Create(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	role := c.DefaultPostForm("role", "regular")

	if username == "" || password == "" {
		redirectWithFlash(c, "Username and password are required", "/admin/user/new")
		return
	}

	_, err := h.admins.Create(c.Request.Context(), username, password, role)
	switch {
	case errors.Is(err, services.ErrAdminExists):
		redirectWithFlash(c, "Admin username already exists", "/admin/user/new")
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create admin", Message: err.Error()})
	default:
		redirectWithFlash(c, "Admin account created successfully", "/admin/users")
	}
}

// EditPage returns the admin being edited.
func (h *AdminAccountHandler) EditPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	admin, err := h.admins.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Admin not found", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"admin":   admin,
		"notices": middleware.TakeFlashes(c),
	})
}

// Edit applies the posted form to an admin account. A root admin editing
// themselves cannot drop the root role.
func (h *AdminAccountHandler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := middleware.CurrentIdentity(c)

	req := &services.AdminUpdateRequest{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
		Role:     c.DefaultPostForm("role", "regular"),
	}
	if req.Username == "" {
		redirectWithFlash(c, "Username is required", fmt.Sprintf("/admin/user/%d/edit", id))
		return
	}

	_, err := h.admins.Update(c.Request.Context(), id, identity.AdminID, req)
	switch {
	case errors.Is(err, services.ErrRootDemotion):
		redirectWithFlash(c, "Root admins cannot change their role", fmt.Sprintf("/admin/user/%d/edit", id))
	case err != nil:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Admin not found", Message: err.Error()})
	default:
		redirectWithFlash(c, "Admin account updated successfully", "/admin/users")
	}
}

// Delete removes another admin's account.
func (h *AdminAccountHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	identity := middleware.CurrentIdentity(c)

	err := h.admins.Delete(c.Request.Context(), id, identity.AdminID)
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		redirectWithFlash(c, "You can't delete your own account", "/admin/users")
	case err != nil:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Admin not found", Message: err.Error()})
	default:
		redirectWithFlash(c, "Admin account deleted successfully", "/admin/users")
	}
}

// ProfilePage returns the caller's own admin account.
func (h *AdminAccountHandler) ProfilePage(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	admin, err := h.admins.Get(c.Request.Context(), identity.AdminID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Admin not found", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"admin":   admin,
		"notices": middleware.TakeFlashes(c),
	})
}

// ChangePassword updates the caller's credential after checking the current
// password and the confirmation.
func (h *AdminAccountHandler) ChangePassword(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	currentPassword := c.PostForm("current_password")
	newPassword := c.PostForm("new_password")
	confirmPassword := c.PostForm("confirm_password")

	if newPassword == "" || newPassword != confirmPassword {
		redirectWithFlash(c, "New passwords do not match", "/admin/profile")
		return
	}

	err := h.admins.ChangePassword(c.Request.Context(), identity.AdminID, currentPassword, newPassword)
	switch {
	case errors.Is(err, services.ErrWrongPassword):
		redirectWithFlash(c, "Current password is incorrect", "/admin/profile")
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update password", Message: err.Error()})
	default:
		redirectWithFlash(c, "Password updated successfully", "/admin/profile")
	}
}

// DeleteOwn lets a regular admin remove their own account, ending the
// session. Root accounts are refused.
func (h *AdminAccountHandler) DeleteOwn(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	err := h.admins.DeleteOwn(c.Request.Context(), identity.AdminID)
	switch {
	case errors.Is(err, services.ErrRootSelfService):
		redirectWithFlash(c, "Root admins cannot delete their account from this page", "/admin/profile")
	case err != nil:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete account", Message: err.Error()})
	default:
		middleware.ClearAll(c)
		redirectWithFlash(c, "Your admin account has been deleted successfully", "/")
	}
}

// RegisterAdminAccountRoutes wires account management (root only) and the
// admin profile self-service (any admin).
func RegisterAdminAccountRoutes(r *gin.Engine, handler *AdminAccountHandler) {
	root := r.Group("/admin", middleware.RequireRoot())
	{
		root.GET("/users", handler.List)
		root.GET("/user/new", handler.NewPage)
		root.POST("/user/new", handler.Create)
		root.GET("/user/:id/edit", handler.EditPage)
		root.POST("/user/:id/edit", handler.Edit)
		root.POST("/user/:id/delete", handler.Delete)
	}

	self := r.Group("/admin", middleware.RequireAdmin())
	{
		self.GET("/profile", handler.ProfilePage)
		self.POST("/profile", handler.ChangePassword)
		self.POST("/profile/delete", handler.DeleteOwn)
	}
}
