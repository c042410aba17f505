package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/kjanuda/Blogme/api"
)

func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")

		message := "internal server error"
		if err, ok := recovered.(error); ok {
			message = err.Error()
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Message: message})
	}
}
