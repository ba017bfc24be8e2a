package httputil

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pawclinic/vet-api/pkg/apperror"
)

// ErrorBody is the wire shape of all error responses.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Page is the pagination envelope returned by list endpoints.
type Page struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// NewPage builds a pagination envelope; totalPages = ceil(total/limit).
func NewPage(data interface{}, total, page, limit int) Page {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ParsePagination reads the page and limit query params, rejecting
// non-numeric or non-positive values. Zero means the param was absent and
// the service applies its defaults.
func ParsePagination(c *gin.Context) (page, limit int, err error) {
	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, apperror.Validation("invalid page")
		}
	}
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return 0, 0, apperror.Validation("invalid limit")
		}
	}
	return page, limit, nil
}

// RespondError maps an application error to its HTTP status and writes the
// structured error body. Unrecognized errors are logged and returned as 500.
func RespondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("unhandled error")
		appErr = apperror.Internal(err)
	}

	c.JSON(statusFor(appErr.Code), ErrorBody{
		Error: ErrorDetail{
			Code:    string(appErr.Code),
			Message: appErr.Message,
		},
	})
}

func statusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeValidation:
		return http.StatusBadRequest
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeInvalidTransition, apperror.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
