package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plank-app/plank-backend/internal/pkg/model"
	"github.com/plank-app/plank-backend/internal/privy"
	"github.com/plank-app/plank-backend/internal/user"
	"github.com/rs/zerolog/log"
)

// TokenVerifier is the identity oracle the reconciler trusts. Privy in
// production, fakes in tests.
type TokenVerifier interface {
	VerifyAuthToken(ctx context.Context, token string) (string, error)
	UserProfile(ctx context.Context, subjectId string) (privy.Profile, error)
}

type Service struct {
	verifier TokenVerifier
	users    user.Store
}

func NewService(verifier TokenVerifier, users user.Store) *Service {
	return &Service{verifier: verifier, users: users}
}

// VerifyAndReconcile validates the bearer token from the raw Authorization
// header, resolves the verified identity against the provider and aligns the
// local user row with it. At most one create or one wallet update happens per
// call.
func (s *Service) VerifyAndReconcile(ctx context.Context, authHeader string) (*model.User, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, ErrNoToken
	}

	subjectId, err := s.verifier.VerifyAuthToken(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("Token verification failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	profile, err := s.verifier.UserProfile(ctx, subjectId)
	if err != nil {
		log.Warn().Err(err).Str("subjectId", subjectId).Msg("Fetching verified user failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if profile.Email == nil || *profile.Email == "" {
		return nil, ErrMissingEmail
	}

	return s.reconcile(ctx, *profile.Email, profile.WalletAddress)
}

func (s *Service) reconcile(ctx context.Context, email string, wallet *string) (*model.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if existing == nil {
		created, createErr := s.users.Create(ctx, &model.User{
			Email:         email,
			WalletAddress: wallet,
		})
		if createErr == nil {
			log.Info().Str("email", email).Uint64("userId", created.Id).Msg("Created user for verified identity")
			return created, nil
		}
		if !errors.Is(createErr, user.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrInternal, createErr)
		}

		// Lost a create race for a fresh email. The row exists by now, so
		// re-query and fall through to the update path.
		existing, err = s.users.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	if wallet == nil || (existing.WalletAddress != nil && *existing.WalletAddress == *wallet) {
		return existing, nil
	}

	updated, err := s.users.UpdateWalletAddress(ctx, existing.Id, *wallet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	log.Info().Uint64("userId", updated.Id).Msg("Updated wallet address for verified identity")
	return updated, nil
}

// bearerToken extracts the token from a "Bearer <token>" header. The prefix
// is case sensitive and the token is the second space separated segment.
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.Split(header, " ")[1]
	if token == "" {
		return "", false
	}
	return token, true
}
