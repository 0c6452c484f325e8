package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/farmwise/farmwise/internal/feature"
	"github.com/farmwise/farmwise/internal/middleware"
	"github.com/farmwise/farmwise/internal/mlmodel"
	appErr "github.com/farmwise/farmwise/internal/pkg/errors"
	"github.com/farmwise/farmwise/internal/pkg/response"
)

func getUserID(c *gin.Context) string {
	value, _ := c.Get(middleware.ContextUserIDKey)
	userID, _ := value.(string)
	return userID
}

// handleError maps pipeline failures onto the documented response bodies.
// Validation and inference failures are client errors; anything unexpected
// becomes an opaque 500.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var validationErr *feature.ValidationError
	var missingErr *feature.MissingFieldError
	var categoryErr *feature.UnknownCategoryError
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &missingErr),
		errors.As(err, &categoryErr):
		response.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, mlmodel.ErrCodeOutOfRange):
		// the model emitted a class outside its training range; log the
		// invariant violation, keep the body opaque
		logError(c, err)
		response.Fail(c, http.StatusBadRequest, "prediction failed")
	case errors.Is(err, mlmodel.ErrInference):
		logError(c, err)
		response.Fail(c, http.StatusBadRequest, "prediction failed")
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Fail(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, appErr.ErrConflict):
		response.Fail(c, http.StatusConflict, "conflict")
	default:
		logError(c, err)
		response.Fail(c, http.StatusInternalServerError, "internal error")
	}
}

func logError(c *gin.Context, err error) {
	requestID, _ := c.Get("request_id")
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("user_id", getUserID(c)),
		zap.Error(err),
	)
}
