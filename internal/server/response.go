package server

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
)

// ok sends a 200 response. Slices are wrapped in {data: [...]}.
func ok(c *gin.Context, data interface{}) {
	if data != nil && reflect.ValueOf(data).Kind() == reflect.Slice {
		c.JSON(http.StatusOK, gin.H{"data": data})
		return
	}
	c.JSON(http.StatusOK, data)
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"ok": 0, "code": status, "message": message})
}

func badRequest(c *gin.Context, message string) { fail(c, http.StatusBadRequest, message) }

func notFound(c *gin.Context) { fail(c, http.StatusNotFound, "deck not found") }

func internalError(c *gin.Context, err error) {
	fail(c, http.StatusInternalServerError, err.Error())
}

func unavailable(c *gin.Context) {
	fail(c, http.StatusServiceUnavailable, "deck storage is not configured")
}

// invalid sends 422 with the validator issues.
func invalid(c *gin.Context, issues []string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"ok":      0,
		"code":    http.StatusUnprocessableEntity,
		"message": issues[0],
		"issues":  issues,
	})
}
