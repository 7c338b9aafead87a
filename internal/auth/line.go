package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

const defaultProfileURL = "https://api.line.me/v2/profile"

// LineVerifier exchanges a LINE access token for the LINE profile behind
// it, proving the caller controls that LINE account.
type LineVerifier struct {
	client     *http.Client
	profileURL string
}

type LineVerifierOption func(*LineVerifier)

// WithProfileURL overrides the LINE endpoint (tests).
func WithProfileURL(url string) LineVerifierOption {
	return func(v *LineVerifier) {
		v.profileURL = url
	}
}

func NewLineVerifier(opts ...LineVerifierOption) *LineVerifier {
	v := &LineVerifier{
		client:     &http.Client{Timeout: 10 * time.Second},
		profileURL: defaultProfileURL,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Profile is the subset of the LINE profile response we use.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl"`
	Email       string `json:"email"`
}

func (v *LineVerifier) Verify(ctx context.Context, accessToken string) (Profile, error) {
	if accessToken == "" {
		return Profile{}, domain.ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.profileURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("fetch line profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Profile{}, domain.ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("line profile returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("decode line profile: %w", err)
	}
	if profile.UserID == "" {
		return Profile{}, domain.ErrUnauthenticated
	}
	return profile, nil
}
