package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	apierrors "github.com/yukikurage/campus-works/internal/errors"
	"github.com/yukikurage/campus-works/internal/middleware"
)

// bindJSON decodes the request body into obj, rejecting unknown fields, and
// runs the binding validator. It writes a 400 and returns false on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil {
		apierrors.BadRequest(c, "Request body is required")
		return false
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(obj); err != nil {
		if errors.Is(err, io.EOF) {
			apierrors.BadRequest(c, "Request body is required")
			return false
		}
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return false
	}
	if decoder.More() {
		apierrors.BadRequest(c, "Invalid request body")
		return false
	}

	if err := binding.Validator.ValidateStruct(obj); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", fmt.Sprint(err))
		return false
	}
	return true
}

// currentUserID returns the signed-in user id or writes a 401
func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return "", false
	}
	return userID, true
}
