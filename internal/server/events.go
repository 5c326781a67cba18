package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sodacandy/candybot/internal/events"
)

// Lifecycle event ingestion from the gateway process. The dispatcher
// isolates handler failures, so the gateway always gets 202 for a
// well-formed payload; delivery is at-least-once and the handlers are
// idempotent.
func (s *Server) registerEventRoutes(group *gin.RouterGroup) {
	group.POST("/tenant_add", ingest(s, func(c *gin.Context, ev events.TenantAddEvent) {
		s.dispatch.TenantAdd(c.Request.Context(), ev)
	}))
	group.POST("/tenant_remove", ingest(s, func(c *gin.Context, ev events.TenantRemoveEvent) {
		s.dispatch.TenantRemove(c.Request.Context(), ev)
	}))
	group.POST("/member_add", ingest(s, func(c *gin.Context, ev events.MemberAddEvent) {
		s.dispatch.MemberAdd(c.Request.Context(), ev)
	}))
	group.POST("/member_remove", ingest(s, func(c *gin.Context, ev events.MemberRemoveEvent) {
		s.dispatch.MemberRemove(c.Request.Context(), ev)
	}))
	group.POST("/channel_add", ingest(s, func(c *gin.Context, ev events.ChannelAddEvent) {
		s.dispatch.ChannelAdd(c.Request.Context(), ev)
	}))
	group.POST("/channel_remove", ingest(s, func(c *gin.Context, ev events.ChannelRemoveEvent) {
		s.dispatch.ChannelRemove(c.Request.Context(), ev)
	}))
	group.POST("/role_add", ingest(s, func(c *gin.Context, ev events.RoleAddEvent) {
		s.dispatch.RoleAdd(c.Request.Context(), ev)
	}))
	group.POST("/role_remove", ingest(s, func(c *gin.Context, ev events.RoleRemoveEvent) {
		s.dispatch.RoleRemove(c.Request.Context(), ev)
	}))
	group.POST("/message_add", ingest(s, func(c *gin.Context, ev events.MessageAddEvent) {
		s.dispatch.MessageAdd(c.Request.Context(), ev)
	}))
	group.POST("/message_remove", ingest(s, func(c *gin.Context, ev events.MessageRemoveEvent) {
		s.dispatch.MessageRemove(c.Request.Context(), ev)
	}))
}

func ingest[E any](s *Server, fn func(*gin.Context, E)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ev E
		if err := c.ShouldBindJSON(&ev); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fn(c, ev)
		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	}
}
