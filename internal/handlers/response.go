package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/learnscope/learnscope-backend/internal/apierr"
)

var productionMode bool

// SetProductionMode makes error responses generic for upstream and server
// failures; validation and auth messages stay verbatim in both modes.
func SetProductionMode(on bool) {
  productionMode = on
}

func RespondError(c *gin.Context, err error) {
  apiErr := apierr.From(err)
  msg := apiErr.Error()
  if productionMode && (apiErr.Code == apierr.CodeUpstream || apiErr.Code == apierr.CodeServer) {
    msg = "Internal server error"
  }
  c.JSON(apiErr.Status, gin.H{"success": false, "message": msg, "code": apiErr.Code})
}
