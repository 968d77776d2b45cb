package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"event_org/internal/audit"
	"event_org/internal/http/response"
	"event_org/internal/models"
)

type loginRequest struct {
	// Login is a username or an email; Username and Email are accepted as aliases.
	Login    string `json:"Login"`
	Username string `json:"Username"`
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

func (r loginRequest) login() string {
	switch {
	case r.Login != "":
		return r.Login
	case r.Email != "":
		return r.Email
	}
	return r.Username
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// LoginHandler authenticates the user and returns a JWT, also set as the
// "token" cookie.
func LoginHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bind(c, &req) {
			return
		}

		user, err := d.Users.Authenticate(c.Request.Context(), req.login(), req.Password)
		if err != nil {
			fail(c, d.Log, err, "Failed to log in")
			return
		}

		token, exp, err := d.Tokens.Issue(user)
		if err != nil {
			fail(c, d.Log, err, "Failed to create token")
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie("token", token, int(time.Until(exp).Seconds()), "/", "", false, true)

		d.Audit.Record(c, audit.Entry{
			Action:     "user.login",
			EntityType: "user",
			EntityID:   user.UserID,
			Metadata:   map[string]any{"username": user.Username},
		})
		response.OK(c, "Login successful", loginResponse{Token: token, ExpiresAt: exp, User: user})
	}
}
