package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/findmyroom/findmyroom-api/internal/domain/entity"
	repo "github.com/findmyroom/findmyroom-api/internal/domain/repository"
	"github.com/findmyroom/findmyroom-api/pkg/helpers"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// CallbackOutcome is the terminal state of one OAuth callback. Each outcome
// maps to exactly one client-visible redirect.
type CallbackOutcome string

const (
	OutcomeSuccess          CallbackOutcome = "success"
	OutcomeNoCode           CallbackOutcome = "no_code"
	OutcomeOAuthFailed      CallbackOutcome = "oauth_failed"
	OutcomeEmailNotVerified CallbackOutcome = "email_not_verified"
)

type CallbackResult struct {
	Outcome CallbackOutcome
	Token   string
	Profile *Profile
}

// GoogleProfile is the provider's userinfo payload; its shape is a versioned
// external contract.
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

// NewGoogleOAuthConfig builds the oauth2 config for the Google sign-in flow.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

// GoogleAuthService exchanges an authorization code for provider profile
// claims, reconciles them against the credential store, and issues a session.
type GoogleAuthService struct {
	OAuth  *oauth2.Config
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger

	// UserInfoURL and HTTPClient are overridable for tests.
	UserInfoURL string
	HTTPClient  *http.Client
}

func NewGoogleAuthService(oauthCfg *oauth2.Config, r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *GoogleAuthService {
	return &GoogleAuthService{
		OAuth:       oauthCfg,
		Repo:        r,
		JWT:         jwt,
		Logger:      logger,
		UserInfoURL: googleUserInfoURL,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the consent-screen URL to start the flow.
func (s *GoogleAuthService) AuthCodeURL(state string) string {
	return s.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// HandleCallback runs the callback state machine: token exchange, profile
// fetch, verified-email check, reconciliation, session issuance. Every return
// is one of the four terminal outcomes.
func (s *GoogleAuthService) HandleCallback(ctx context.Context, code string) *CallbackResult {
	if code == "" {
		return &CallbackResult{Outcome: OutcomeNoCode}
	}

	exCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	token, err := s.OAuth.Exchange(exCtx, code)
	if err != nil {
		s.logErr("google token exchange failed", err)
		return &CallbackResult{Outcome: OutcomeOAuthFailed}
	}

	gp, err := s.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		s.logErr("google userinfo fetch failed", err)
		return &CallbackResult{Outcome: OutcomeOAuthFailed}
	}

	if !gp.VerifiedEmail {
		return &CallbackResult{Outcome: OutcomeEmailNotVerified}
	}

	u, err := s.reconcile(ctx, gp)
	if err != nil {
		s.logErr("google account reconciliation failed", err)
		return &CallbackResult{Outcome: OutcomeOAuthFailed}
	}

	sessionToken, _, err := s.JWT.Issue(u.ID, u.Email, u.FirstName, u.LastName)
	if err != nil {
		s.logErr("session issue failed", err)
		return &CallbackResult{Outcome: OutcomeOAuthFailed}
	}

	return &CallbackResult{
		Outcome: OutcomeSuccess,
		Token:   sessionToken,
		Profile: profileOf(u),
	}
}

// reconcile resolves the provider profile to a local user: create a federated
// account, attach the link to an existing local account, or proceed unchanged
// when the link is already set. Calling it twice for the same provider subject
// resolves to the same user.
func (s *GoogleAuthService) reconcile(ctx context.Context, gp *GoogleProfile) (*entity.User, error) {
	email := SanitizeEmail(gp.Email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		u = &entity.User{
			FirstName:      gp.GivenName,
			LastName:       gp.FamilyName,
			Email:          email,
			GoogleID:       gp.ID,
			ProfilePicture: gp.Picture,
			IsVerified:     true,
		}
		if cErr := s.Repo.Create(ctx, u); cErr != nil {
			if errors.Is(cErr, repo.ErrDuplicateUser) {
				// lost a race with a concurrent callback; re-read and continue
				return s.Repo.GetByEmail(ctx, email)
			}
			return nil, cErr
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}

	if !u.HasGoogleLink() {
		if aErr := s.Repo.AttachGoogleID(ctx, u.ID, gp.ID, gp.Picture); aErr != nil {
			return nil, aErr
		}
		return s.Repo.GetByID(ctx, u.ID)
	}

	// link already set; never reassigned
	return u, nil
}

func (s *GoogleAuthService) fetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.UserInfoURL+"?alt=json", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", res.StatusCode)
	}
	gp := &GoogleProfile{}
	if err := json.NewDecoder(res.Body).Decode(gp); err != nil {
		return nil, err
	}
	if gp.ID == "" || gp.Email == "" {
		return nil, errors.New("userinfo payload missing id or email")
	}
	return gp, nil
}

func (s *GoogleAuthService) logErr(msg string, err error) {
	if s.Logger != nil {
		s.Logger.WithError(err).Error(msg)
	}
}
