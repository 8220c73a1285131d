package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"library_circulation/app"
	"library_circulation/db"
	"library_circulation/models"
	"library_circulation/session"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Srv bundles the dependencies shared by all controllers.
type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID string) error {
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}

func (s *Srv) clearAppCookie(w http.ResponseWriter) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}

// respondErr maps domain errors to HTTP responses. Conflicts are
// expected business outcomes, not server failures.
func respondErr(c *app.Ctx, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusUnprocessableEntity, app.H{"error": "validation failed", "fields": verrs})
	case errors.Is(err, db.ErrNotEligible):
		c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrNoCopiesAvailable),
		errors.Is(err, db.ErrDuplicateActiveLoan),
		errors.Is(err, db.ErrLoanAlreadyReturned):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusUnprocessableEntity, app.H{"error": "validation failed", "fields": app.H{"email": "has already been taken"}})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

func userJSON(u *models.User) app.H {
	return app.H{
		"id":        u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}
