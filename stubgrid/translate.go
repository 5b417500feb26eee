package stubgrid

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerTranslateRoutes(r *gin.Engine) {
	r.GET("/translate_a/single", s.handleTranslate)
}

// handleTranslate mimics the unofficial web translation endpoint: the
// response is a nested array whose first element holds the translated
// segments. Text not in the translations map comes back unchanged.
func (s *Server) handleTranslate(c *gin.Context) {
	q := c.Query("q")
	translated, ok := s.translations[q]
	if !ok {
		translated = q
	}
	segments := []interface{}{
		[]interface{}{translated, q, nil, nil, 10},
	}
	c.JSON(http.StatusOK, []interface{}{segments, nil, c.DefaultQuery("sl", "es")})
}
