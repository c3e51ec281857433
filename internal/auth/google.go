package auth

import (
	"context"
	"fmt"

	"finease/internal/core"

	"google.golang.org/api/idtoken"
)

// GoogleVerifier validates Google ID tokens issued for this app's OAuth
// client and maps their claims onto a user.
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify checks the token signature and audience, then extracts the profile.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (core.User, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return core.User{}, fmt.Errorf("validate google id token: %w", err)
	}

	u := core.User{
		Email:    claimString(payload.Claims, "email"),
		Name:     claimString(payload.Claims, "name"),
		PhotoURL: claimString(payload.Claims, "picture"),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, fmt.Errorf("incomplete google profile: %w", err)
	}

	return u, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}
