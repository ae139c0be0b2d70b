// Package handler exposes the services over HTTP.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-center-api/internal/models"
	appErrors "github.com/noah-isme/tutor-center-api/pkg/errors"
	"github.com/noah-isme/tutor-center-api/pkg/response"
)

// pathID reads a numeric route parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (models.ID, bool) {
	id, err := models.ParseID(c.Param(name))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+name))
		return 0, false
	}
	return id, true
}

// bindPatch reads a JSON object body as a field patch.
func bindPatch(c *gin.Context, what string) (models.Patch, bool) {
	var patch models.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+what+" payload"))
		return nil, false
	}
	if patch == nil {
		patch = models.Patch{}
	}
	return patch, true
}

// bindJSON decodes a typed request body.
func bindJSON(c *gin.Context, dest interface{}, what string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+what+" payload"))
		return false
	}
	return true
}

func deleted(c *gin.Context, entity string) {
	response.Message(c, entity+" deleted successfully")
}
