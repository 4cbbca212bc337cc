package transport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PiyushDatta/senseboard/internal/room"
)

type personalizationAppendRequest struct {
	Name string `json:"name"`
	Line string `json:"line"`
}

// getPersonalizationContext handles GET /personalization/context?name=.
func (rt *Router) getPersonalizationContext(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_name"})
		return
	}

	profile, err := rt.Personalization.Get(c.Request.Context(), room.NormalizeName(name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// appendPersonalizationContext handles POST /personalization/context.
func (rt *Router) appendPersonalizationContext(c *gin.Context) {
	var req personalizationAppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	line := strings.TrimSpace(req.Line)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_name"})
		return
	}
	if line == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing line"})
		return
	}

	profile, err := rt.Personalization.Append(c.Request.Context(), room.NormalizeName(name), name, line)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}
