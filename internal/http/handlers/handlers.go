package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"event_org/internal/audit"
	"event_org/internal/auth"
	"event_org/internal/http/middleware"
	"event_org/internal/http/response"
	"event_org/internal/repository"
)

// Deps is what the handlers close over.
type Deps struct {
	Orgs      *repository.OrganizationRepository
	Users     *repository.UserRepository
	Events    *repository.EventRepository
	AuditLogs repository.AuditStore
	Audit     *audit.Recorder
	Tokens    *auth.Tokens
	Log       *zap.Logger
}

// fail maps a repository outcome onto the response envelope. Anything not
// recognised is a 500 carrying fallback and the error text.
func fail(c *gin.Context, log *zap.Logger, err error, fallback string) {
	var (
		verr *repository.ValidationError
		dup  *repository.DuplicateOrganizationError
		nf   *repository.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		msg := "Validation failed"
		if errors.Is(err, repository.ErrMissingFields) {
			msg = "Required fields are missing"
		}
		response.Invalid(c, msg, verr.Violations)
	case errors.As(err, &dup):
		response.FailWithData(c, http.StatusBadRequest, sentence(dup.Error())+". You can join it instead.", dup.Existing)
	case errors.As(err, &nf):
		response.NotFound(c, sentence(nf.Entity)+" not found")
	case errors.Is(err, repository.ErrIDRequired):
		response.BadRequest(c, "ID is required")
	case errors.Is(err, repository.ErrAlreadyMember):
		response.Advisory(c, sentence(err.Error()))
	case errors.Is(err, repository.ErrUserExists), errors.Is(err, repository.ErrRoleExists):
		response.BadRequest(c, sentence(err.Error()))
	case errors.Is(err, repository.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, "Invalid username/email or password", "")
	case errors.Is(err, repository.ErrSeedRoleMissing):
		log.Warn("default role missing, run the seeder", zap.String("request_id", c.GetString(middleware.RequestIDKey)))
		response.Fail(c, http.StatusInternalServerError, "System configuration error: Default role not found", "")
	default:
		log.Error(fallback, zap.Error(err), zap.String("request_id", c.GetString(middleware.RequestIDKey)))
		response.Fail(c, http.StatusInternalServerError, fallback, err.Error())
	}
}

// failDelete is fail for deletes, where a missing row may already have been
// removed by an earlier request.
func failDelete(c *gin.Context, log *zap.Logger, err error, fallback string) {
	var nf *repository.NotFoundError
	if errors.As(err, &nf) {
		response.NotFound(c, sentence(nf.Entity)+" not found or already deleted")
		return
	}
	fail(c, log, err, fallback)
}

// bind decodes the JSON body, answering 400 itself on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

func sentence(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// outcome labels err for the domain counters.
func outcome(err error, ok string) string {
	switch {
	case err == nil:
		return ok
	case errors.Is(err, repository.ErrValidation), errors.Is(err, repository.ErrIDRequired):
		return "invalid"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrAlreadyMember):
		return "already_member"
	case errors.Is(err, repository.ErrOrganizationExists), errors.Is(err, repository.ErrUserExists):
		return "duplicate"
	case errors.Is(err, repository.ErrSeedRoleMissing):
		return "seed_missing"
	}
	return "error"
}
