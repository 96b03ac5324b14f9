package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plank-app/plank-backend/internal/pkg/model"
	"github.com/plank-app/plank-backend/internal/pkg/reject"
	"github.com/plank-app/plank-backend/internal/user"
	"github.com/rs/zerolog/log"
)

const (
	errorTokenMissing string = "error.auth.token.missing"
	errorTokenInvalid string = "error.auth.token.invalid"
	errorEmailMissing string = "error.auth.email.missing"
)

type authHandler struct {
	auth *Service
}

func RegisterRoutes(router *gin.Engine, verifier TokenVerifier, users user.Store) {
	handler := &authHandler{auth: NewService(verifier, users)}

	routes := router.Group("/auth")
	routes.POST("/verify", handler.verifyAuth)
}

type verifiedUserResponse struct {
	User *model.User `json:"user"`
}

func (h *authHandler) verifyAuth(c *gin.Context) {
	verified, err := h.auth.VerifyAndReconcile(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		problem := problemFor(err)
		c.JSON(problem.Status, problem)
		return
	}

	c.JSON(http.StatusOK, verifiedUserResponse{User: verified})
}

// problemFor collapses the internal error taxonomy into the deliberately
// small set of client responses. Verifier internals never leak.
func problemFor(err error) reject.Problem {
	switch {
	case errors.Is(err, ErrNoToken):
		return reject.NewProblem().
			WithMessage("No token provided").
			WithStatus(http.StatusUnauthorized).
			WithCode(errorTokenMissing).
			Build()
	case errors.Is(err, ErrMissingEmail):
		return reject.NewProblem().
			WithMessage("Email not found in Privy user").
			WithStatus(http.StatusBadRequest).
			WithCode(errorEmailMissing).
			Build()
	default:
		log.Warn().Err(err).Msg("Auth verification failed")
		return reject.NewProblem().
			WithMessage("Invalid token").
			WithStatus(http.StatusUnauthorized).
			WithCode(errorTokenInvalid).
			Build()
	}
}
