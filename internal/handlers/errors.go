package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/hunt-assistant/internal/auth"
	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/services"
)

// fieldErrors maps a request field to what is wrong with it.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (f fieldErrors) Is(target error) bool { return target == services.ErrValidation }

// bindError converts a gin binding failure into fieldErrors when the
// validator produced it.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	details := make(fieldErrors, len(ve))
	for _, fe := range ve {
		details[fe.Field()] = fieldMessage(fe)
	}
	return details
}

var errMalformedBody = errors.New("malformed request body")

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

func generationMessage(err error) string {
	var ge *services.GenerationError
	if errors.As(err, &ge) {
		return "Failed to generate " + ge.Operation
	}
	return "Failed to generate content"
}

// respondError writes the response for err and aborts the chain. Anything
// unrecognised is a 500 and gets logged with its cause.
func respondError(c *gin.Context, log logger.Logger, err error) {
	var details fieldErrors

	switch {
	case errors.As(err, &details):
		log.Debug("request_invalid", logger.String("path", c.FullPath()), logger.Any("details", map[string]string(details)))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
	case errors.Is(err, errMalformedBody):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
	case errors.Is(err, services.ErrUnsupportedFormat):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Please upload a PDF or DOCX file."})
	case errors.Is(err, services.ErrExtractionFailed):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not read text from the resume"})
	case errors.Is(err, services.ErrGenerationFailed):
		log.Error("generation_failed", logger.String("path", c.FullPath()), logger.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": generationMessage(err)})
	case errors.Is(err, services.ErrJourneyNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Journey not found"})
	case errors.Is(err, services.ErrAccessDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, auth.ErrEmailNotVerified):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Google account email is not verified"})
	case errors.Is(err, auth.ErrSessionNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	default:
		log.Error("request_failed", logger.String("path", c.FullPath()), logger.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
