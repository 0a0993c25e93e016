package deviceauth

import (
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/orbital-cli/orbital/clients"
	"github.com/orbital-cli/orbital/internal/utils"
	"github.com/orbital-cli/orbital/oauth2"
	"github.com/orbital-cli/orbital/sessions"
	"github.com/orbital-cli/orbital/token"
	"github.com/orbital-cli/orbital/users"
)

const (
	defaultDeviceCodeTTL    = 10 * time.Minute
	defaultPollInterval     = 5 * time.Second
	defaultDeviceCodeLength = 32
	defaultSessionTTL       = 7 * 24 * time.Hour
)

// Service implements the provider side of the device authorization grant:
// issuing code pairs, answering device-code polls, and recording the user's
// approve/deny decision.
type Service struct {
	repo        Repo
	clientRepo  clients.Repo
	userRepo    users.UserRepo
	sessionRepo sessions.Repo
	tokens      *token.Manager

	verificationURI  string
	deviceCodeTTL    time.Duration
	pollInterval     time.Duration
	deviceCodeLength int
	sessionTTL       time.Duration
	nowTime          func() time.Time
}

// ServiceOption configures optional Service parameters
type ServiceOption func(*Service)

// WithDeviceCodeTTL overrides the lifetime of an issued code pair.
func WithDeviceCodeTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.deviceCodeTTL = ttl
	}
}

// WithPollInterval overrides the minimum poll spacing advertised to clients.
func WithPollInterval(interval time.Duration) ServiceOption {
	return func(s *Service) {
		s.pollInterval = interval
	}
}

// WithDeviceCodeLength overrides the random byte length of device codes.
func WithDeviceCodeLength(length int) ServiceOption {
	return func(s *Service) {
		s.deviceCodeLength = length
	}
}

// WithSessionTTL overrides the lifetime of sessions created on approval.
func WithSessionTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.sessionTTL = ttl
	}
}

// WithNowTime allows the current time to be stubbed in tests.
func WithNowTime(nowTime func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowTime
	}
}

// NewService creates a device authorization service. verificationURI is the
// absolute URL of the page where users enter their code.
func NewService(
	repo Repo,
	clientRepo clients.Repo,
	userRepo users.UserRepo,
	sessionRepo sessions.Repo,
	tokens *token.Manager,
	verificationURI string,
	options ...ServiceOption,
) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[deviceauth.NewService] repo cannot be nil")
	}
	if clientRepo == nil {
		return nil, errors.New("[deviceauth.NewService] clientRepo cannot be nil")
	}
	if userRepo == nil {
		return nil, errors.New("[deviceauth.NewService] userRepo cannot be nil")
	}
	if sessionRepo == nil {
		return nil, errors.New("[deviceauth.NewService] sessionRepo cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("[deviceauth.NewService] tokens cannot be nil")
	}
	if verificationURI == "" {
		return nil, errors.New("[deviceauth.NewService] verificationURI cannot be empty")
	}

	s := &Service{
		repo:             repo,
		clientRepo:       clientRepo,
		userRepo:         userRepo,
		sessionRepo:      sessionRepo,
		tokens:           tokens,
		verificationURI:  verificationURI,
		deviceCodeTTL:    defaultDeviceCodeTTL,
		pollInterval:     defaultPollInterval,
		deviceCodeLength: defaultDeviceCodeLength,
		sessionTTL:       defaultSessionTTL,
		nowTime:          time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// Issue starts a device authorization for the given client and returns the
// code pair the client relays to its user.
func (s *Service) Issue(clientID, scope string) (*oauth2.DeviceAuthorizationResponse, error) {
	client, err := s.clientRepo.Get(clientID)
	if err != nil {
		return nil, ErrInvalidClient
	}
	if err := client.ValidateScopes(scope); err != nil {
		return nil, errors.Wrap(err, "[Service.Issue]")
	}

	deviceCode, err := generateDeviceCode(s.deviceCodeLength)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Issue]")
	}
	userCode, err := GenerateUserCode()
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Issue]")
	}

	now := s.nowTime()
	authorization := &Authorization{
		DeviceCode: deviceCode,
		UserCode:   userCode,
		ClientID:   clientID,
		Scope:      scope,
		Status:     StatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.deviceCodeTTL),
		Interval:   s.pollInterval,
	}
	if err := s.repo.Upsert(authorization); err != nil {
		return nil, errors.Wrap(err, "[Service.Issue] repo.Upsert")
	}

	formatted := FormatUserCode(userCode)
	return &oauth2.DeviceAuthorizationResponse{
		DeviceCode:              deviceCode,
		UserCode:                formatted,
		VerificationURI:         s.verificationURI,
		VerificationURIComplete: s.verificationURI + "?user_code=" + url.QueryEscape(formatted),
		ExpiresIn:               int(s.deviceCodeTTL.Seconds()),
		Interval:                int(s.pollInterval.Seconds()),
	}, nil
}

// Exchange answers one device-code poll. While the user has not decided it
// returns ErrAuthorizationPending (or ErrSlowDown when the client polls
// faster than the advertised interval). On approval it mints an access token
// backed by a server session, deletes the authorization record and returns
// the token response; every later poll with the same code sees
// ErrInvalidGrant.
func (s *Service) Exchange(deviceCode, clientID string) (*oauth2.TokenResponse, error) {
	authorization, err := s.repo.GetByDeviceCode(deviceCode)
	if err != nil {
		return nil, ErrInvalidGrant
	}
	if authorization.ClientID != clientID {
		return nil, ErrInvalidGrant
	}

	now := s.nowTime()
	if authorization.Expired(now) {
		_ = s.repo.Delete(deviceCode)
		return nil, ErrExpiredToken
	}

	switch authorization.Status {
	case StatusDenied:
		_ = s.repo.Delete(deviceCode)
		return nil, ErrAccessDenied

	case StatusPending:
		tooFast := !authorization.LastPolledAt.IsZero() &&
			now.Sub(authorization.LastPolledAt) < authorization.Interval
		authorization.LastPolledAt = now
		if err := s.repo.Upsert(authorization); err != nil {
			return nil, errors.Wrap(err, "[Service.Exchange] repo.Upsert")
		}
		if tooFast {
			return nil, ErrSlowDown
		}
		return nil, ErrAuthorizationPending

	case StatusApproved:
		// Approved records are exchanged regardless of poll pacing.
		return s.completeExchange(authorization, now)

	default:
		return nil, errors.Errorf("[Service.Exchange] unexpected status %q", authorization.Status)
	}
}

func (s *Service) completeExchange(authorization *Authorization, now time.Time) (*oauth2.TokenResponse, error) {
	user, err := s.userRepo.GetByID(authorization.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.completeExchange] userRepo.GetByID")
	}

	signedToken, _, err := s.tokens.CreateAccessToken(user, authorization.ClientID, authorization.Scope)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.completeExchange] CreateAccessToken")
	}

	// The bearer credential is valid for as long as the session backing it:
	// resolution looks the session up by token rather than verifying claims,
	// so expires_in reflects the session lifetime.
	session := &sessions.ServerSession{
		ID:        uuid.NewString(),
		Token:     signedToken,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, errors.Wrap(err, "[Service.completeExchange] sessionRepo.Create")
	}

	// The device code is single use.
	if err := s.repo.Delete(authorization.DeviceCode); err != nil {
		return nil, errors.Wrap(err, "[Service.completeExchange] repo.Delete")
	}

	return &oauth2.TokenResponse{
		AccessToken: utils.Ptr(signedToken),
		TokenType:   oauth2.BearerTokenType,
		ExpiresIn:   int(s.sessionTTL.Seconds()),
		Scope:       authorization.Scope,
	}, nil
}

// Approve records the user's consent for the authorization matching
// userCode. The code must be canonical (see NormalizeUserCode); the Gate
// handles raw input.
func (s *Service) Approve(userCode, approverID string) error {
	return s.decide(userCode, approverID, StatusApproved)
}

// Deny records the user's rejection for the authorization matching userCode.
func (s *Service) Deny(userCode, approverID string) error {
	return s.decide(userCode, approverID, StatusDenied)
}

func (s *Service) decide(userCode, approverID string, decision Status) error {
	authorization, err := s.repo.GetByUserCode(userCode)
	if err != nil {
		return ErrInvalidUserCode
	}
	if _, err := s.userRepo.GetByID(approverID); err != nil {
		return errors.Wrap(err, "[Service.decide] userRepo.GetByID")
	}

	now := s.nowTime()
	if authorization.Expired(now) || authorization.Status != StatusPending {
		return ErrInvalidState
	}

	authorization.Status = decision
	authorization.UserID = approverID
	authorization.DecidedAt = utils.Ptr(now)
	if err := s.repo.Upsert(authorization); err != nil {
		return errors.Wrap(err, "[Service.decide] repo.Upsert")
	}
	return nil
}

func generateDeviceCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "[generateDeviceCode] rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
