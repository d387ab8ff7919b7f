// Package router wires HTTP routes to their handlers. Read endpoints are
// public so the festival site can render schedules without credentials;
// every mutating endpoint sits behind JWT plus a role check.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/affcms/festival-api/internal/handler"
	"github.com/affcms/festival-api/internal/middleware"
	"github.com/affcms/festival-api/internal/models"
	"github.com/affcms/festival-api/internal/service"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth        *service.AuthService
	Plans       *handler.PlanHandler
	Categories  *handler.CategoryHandler
	Attachments *handler.AttachmentHandler
	AuthHandler *handler.AuthHandler
}

// Register mounts the API under the given prefix, e.g. /api/v1.
func Register(r *gin.Engine, prefix string, deps Deps) {
	api := r.Group(prefix)

	api.POST("/auth/login", deps.AuthHandler.Login)

	registerPublic(api, deps)
	registerEditorial(api, deps)
}

func registerPublic(api *gin.RouterGroup, deps Deps) {
	api.GET("/plans", deps.Plans.List)
	api.GET("/plans/:planId", deps.Plans.Get)
	api.GET("/plans/:planId/pdf", deps.Attachments.PlanPDF)
	api.GET("/plans/:planId/days", deps.Plans.ListDays)
	api.GET("/plans/:planId/days/:dayId", deps.Plans.GetDay)
	api.GET("/plans/:planId/days/:dayId/pdf", deps.Attachments.DayPDF)
	api.GET("/plans/:planId/days/:dayId/export", deps.Attachments.ExportDay)
	api.GET("/plans/:planId/days/:dayId/screens", deps.Plans.ListScreens)
	api.GET("/plans/:planId/days/:dayId/screens/:screenId", deps.Plans.GetScreen)
	api.GET("/plans/:planId/days/:dayId/screens/:screenId/slots", deps.Plans.ListSlots)
	api.GET("/plans/:planId/days/:dayId/screens/:screenId/slots/:slotId", deps.Plans.GetSlot)

	api.GET("/categories", deps.Categories.List)
	api.GET("/categories/:categoryId", deps.Categories.Get)
}

func registerEditorial(api *gin.RouterGroup, deps Deps) {
	secured := api.Group("",
		middleware.JWT(deps.Auth),
		middleware.RequireRoles(models.RoleAdmin, models.RoleEditor),
	)

	secured.POST("/plans", deps.Plans.Create)
	secured.PUT("/plans/:planId", deps.Plans.Update)
	secured.DELETE("/plans/:planId", deps.Plans.Delete)
	secured.POST("/plans/:planId/pdf", deps.Attachments.UploadPlanPDF)

	secured.POST("/plans/:planId/days", deps.Plans.CreateDay)
	secured.PUT("/plans/:planId/days/:dayId", deps.Plans.UpdateDay)
	secured.DELETE("/plans/:planId/days/:dayId", deps.Plans.DeleteDay)
	secured.POST("/plans/:planId/days/:dayId/pdf", deps.Attachments.UploadDayPDF)

	secured.POST("/plans/:planId/days/:dayId/screens", deps.Plans.CreateScreen)
	secured.PUT("/plans/:planId/days/:dayId/screens/:screenId", deps.Plans.UpdateScreen)
	secured.DELETE("/plans/:planId/days/:dayId/screens/:screenId", deps.Plans.DeleteScreen)

	secured.POST("/plans/:planId/days/:dayId/screens/:screenId/slots", deps.Plans.CreateSlot)
	secured.PUT("/plans/:planId/days/:dayId/screens/:screenId/slots/:slotId", deps.Plans.UpdateSlot)
	secured.DELETE("/plans/:planId/days/:dayId/screens/:screenId/slots/:slotId", deps.Plans.DeleteSlot)

	secured.POST("/categories", deps.Categories.Create)
	secured.PUT("/categories/:categoryId", deps.Categories.Update)
	secured.DELETE("/categories/:categoryId", deps.Categories.Delete)
}
