package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/campus-works/internal/identity"
	"github.com/yukikurage/campus-works/internal/models"
)

// ErrInvalidIdentityToken is returned when the identity provider's token
// cannot be verified. It has no kind; handlers answer 401.
var ErrInvalidIdentityToken = errors.New("invalid identity token")

// AuthService signs users in with identity provider tokens.
type AuthService struct {
	verifier identity.Verifier
	users    *UserService
}

// NewAuthService creates a new AuthService.
func NewAuthService(verifier identity.Verifier, users *UserService) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
	}
}

// SignIn verifies the ID token and syncs the user it names. The boolean
// reports whether the user was created.
func (s *AuthService) SignIn(ctx context.Context, idToken string) (*models.User, bool, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, false, validationError("id_token is required")
	}

	id, err := s.verifier.Verify(idToken)
	if err != nil {
		return nil, false, ErrInvalidIdentityToken
	}

	return s.users.SyncUser(ctx, *id)
}
