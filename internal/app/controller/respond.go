package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
)

// redirectField names the form field that turns a JSON answer into a 303.
const redirectField = "_redirect"

// SuccessResponse is the success half of the {ok, data} envelope.
type SuccessResponse struct {
	OK      bool        `json:"ok"`
	Data    interface{} `json:"data,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

type failure struct {
	status  int
	code    string
	message string
	fields  map[string]string
}

// sentinel service errors and the answer each one gets
var failures = []struct {
	err error
	failure
}{
	{service.ErrPageNotFound, failure{status: http.StatusNotFound, code: apperrors.PageNotFound}},
	{service.ErrSectionNotFound, failure{status: http.StatusNotFound, code: apperrors.SectionNotFound}},
	{service.ErrProductNotFound, failure{status: http.StatusNotFound, code: apperrors.ProductNotFound}},
	{service.ErrTagNotFound, failure{status: http.StatusNotFound, code: apperrors.TagNotFound}},
	{service.ErrCategoryNotFound, failure{status: http.StatusNotFound, code: apperrors.CategoryNotFound}},
	{service.ErrTagGroupNotFound, failure{status: http.StatusNotFound, code: apperrors.ResourceNotFound}},
	{service.ErrImageNotFound, failure{status: http.StatusNotFound, code: apperrors.ImageNotFound}},

	{service.ErrDefaultPageDelete, failure{status: http.StatusBadRequest, code: apperrors.PageDefaultLocked}},
	{service.ErrPageSlugExists, failure{status: http.StatusConflict, code: apperrors.PageSlugExists}},
	{service.ErrProductSlugExists, failure{status: http.StatusConflict, code: apperrors.ProductSlugTaken}},
	{service.ErrTagSlugExists, failure{status: http.StatusConflict, code: apperrors.ResourceAlreadyExists}},
	{service.ErrCategorySlugExists, failure{status: http.StatusConflict, code: apperrors.ResourceAlreadyExists}},

	{service.ErrInvalidPageType, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidEnum}},
	{service.ErrInvalidSectionType, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidEnum}},
	{service.ErrInvalidCategory, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidEnum}},
	{service.ErrInvalidStatus, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidEnum}},
	{service.ErrInvalidToggle, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidEnum}},
	{service.ErrInvalidDirection, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidEnum}},
	{service.ErrInvalidGiftSetItem, failure{status: http.StatusBadRequest, code: apperrors.ValidationInvalidInput}},
	{model.ErrInvalidPayload, failure{status: http.StatusBadRequest, code: apperrors.ValidationPayload}},

	{service.ErrEmptyUpload, failure{status: http.StatusBadRequest, code: apperrors.UploadMissingFile}},
	{service.ErrInvalidImageType, failure{status: http.StatusBadRequest, code: apperrors.UploadInvalidFileType}},
	{service.ErrFileTooLarge, failure{status: http.StatusRequestEntityTooLarge, code: apperrors.UploadFileTooLarge}},

	{service.ErrInvalidCredentials, failure{status: http.StatusUnauthorized, code: apperrors.AuthInvalidCredentials}},
	{service.ErrEmptyTranslation, failure{status: http.StatusBadRequest, code: apperrors.ValidationRequired}},
	{service.ErrTranslationDisabled, failure{status: http.StatusServiceUnavailable, code: apperrors.TranslateDisabled}},
	{service.ErrTranslationFailed, failure{status: http.StatusBadGateway, code: apperrors.TranslateFailed}},
}

func classify(err error, context string) failure {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			fields[field] = ferr.Error()
		}
		return failure{
			status:  http.StatusBadRequest,
			code:    apperrors.ValidationInvalidInput,
			message: verrs.Error(),
			fields:  fields,
		}
	}

	for _, f := range failures {
		if errors.Is(err, f.err) {
			out := f.failure
			out.message = err.Error()
			return out
		}
	}

	info := apperrors.ParseError(err, context)
	status := http.StatusInternalServerError
	switch info.Code {
	case apperrors.ResourceNotFound:
		status = http.StatusNotFound
	case apperrors.ResourceAlreadyExists:
		status = http.StatusConflict
	case apperrors.ResourceConflict:
		status = http.StatusConflict
	}
	return failure{status: status, code: info.Code, message: info.Message}
}

// respondOK writes {ok, data}, or redirects when the form asked for it.
func respondOK(c *gin.Context, status int, data interface{}) {
	respondWarning(c, status, data, "")
}

func respondWarning(c *gin.Context, status int, data interface{}, warning string) {
	if target := redirectTarget(c); target != "" {
		if warning != "" {
			target = appendQuery(target, "warning", warning)
		}
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	c.JSON(status, SuccessResponse{OK: true, Data: data, Warning: warning})
}

// respondError maps err to a status and writes the failure envelope.
// Form submissions with _redirect get a 303 carrying ?error=.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)
	f := classify(err, context)

	if f.status >= http.StatusInternalServerError {
		log.Error("Failed to "+context, err)
	} else {
		log.Warn("Rejected request to "+context, map[string]interface{}{
			"status": f.status,
			"code":   f.code,
			"error":  err.Error(),
		})
	}

	if target := redirectTarget(c); target != "" {
		c.Redirect(http.StatusSeeOther, appendQuery(target, "error", f.message))
		return
	}

	if f.fields != nil {
		c.JSON(f.status, apperrors.ValidationError{
			OK:     false,
			Error:  f.message,
			Code:   f.code,
			Fields: f.fields,
		})
		return
	}
	apperrors.RespondWithError(c, f.status, f.code, f.message)
}

// respondBadRequest answers malformed bodies and params.
func respondBadRequest(c *gin.Context, code, message string) {
	middleware.GetLoggerFromContext(c).Warn("Bad request", map[string]interface{}{
		"code":    code,
		"message": message,
	})
	if target := redirectTarget(c); target != "" {
		c.Redirect(http.StatusSeeOther, appendQuery(target, "error", message))
		return
	}
	apperrors.BadRequest(c, code, message)
}

// redirectTarget returns a same-site _redirect path from a form body.
func redirectTarget(c *gin.Context) string {
	if isJSON(c) {
		return ""
	}
	target := strings.TrimSpace(c.PostForm(redirectField))
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	return target
}

func appendQuery(target, key, value string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}
