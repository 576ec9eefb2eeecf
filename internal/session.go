package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

const defaultTimeout = 15 * time.Second

// Option configures a Session.
type Option func(*options)

type options struct {
	httpClient *http.Client
	endpoints  Endpoints
	logger     *slog.Logger
}

// WithHTTPClient sets the HTTP client used for every request of the session.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithEndpoints overrides the vendor and AWS endpoints.
func WithEndpoints(endpoints Endpoints) Option {
	return func(o *options) {
		o.endpoints = endpoints
	}
}

// WithLogger sets a structured logger. Nothing is logged by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// shadowCredentials is one result of the token exchange and federation steps.
// It is replaced as a whole, never mutated.
type shadowCredentials struct {
	federated   FederatedIdentity
	credentials aws.Credentials
}

// Session holds the login state of one account and the credentials used to
// sign shadow requests.
//
// Only the signing credentials change after NewSession returns. They are
// published as an immutable snapshot, so concurrent readers always see a
// consistent access key, secret and session token.
type Session struct {
	httpClient *http.Client
	endpoints  Endpoints
	logger     *slog.Logger

	region        string
	user          UserToken
	cloud         CloudRoute
	dataPlaneHost string

	refreshMu sync.Mutex
	current   atomic.Pointer[shadowCredentials]
}

// NewSession runs the login chain for the given identity: primary login,
// cloud routing, token exchange and federated credentials. The password is
// not retained.
func NewSession(ctx context.Context, id Identity, opts ...Option) (*Session, error) {
	if strings.TrimSpace(id.Username) == "" {
		return nil, &ValidationError{Field: "username", Value: id.Username, Reason: "required"}
	}
	if id.Password == "" {
		return nil, &ValidationError{Field: "password", Value: "", Reason: "required"}
	}
	if strings.TrimSpace(id.Region) == "" {
		return nil, &ValidationError{Field: "region", Value: id.Region, Reason: "required"}
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		httpClient: wrapHTTPClient(o.httpClient, o.logger),
		endpoints:  o.endpoints.withDefaults(),
		logger:     o.logger,
		region:     id.Region,
	}

	user, err := s.primaryLogin(ctx, id)
	if err != nil {
		return nil, err
	}
	s.user = user

	cloud, err := s.resolveCloud(ctx, user)
	if err != nil {
		return nil, err
	}
	s.cloud = cloud

	snap, host, err := s.renew(ctx)
	if err != nil {
		return nil, err
	}
	s.dataPlaneHost = host
	s.publish(snap)

	s.logger.Info("logged in",
		slog.String("account", user.AccountID),
		slog.String("cloud_region", cloud.Region),
		slog.String("data_plane", host),
	)
	return s, nil
}

// RefreshShadowCredentials re-runs the token exchange and federation steps
// and replaces the signing credentials. The account token and cloud route
// are kept. On failure the previous credentials stay in place.
func (s *Session) RefreshShadowCredentials(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	snap, host, err := s.renew(ctx)
	observeRefresh(err)
	if err != nil {
		return fmt.Errorf("refresh shadow credentials: %w", err)
	}
	if host != s.dataPlaneHost {
		s.logger.Warn("token exchange returned a different data-plane host; keeping the original",
			slog.String("current", s.dataPlaneHost),
			slog.String("returned", host),
		)
	}

	s.publish(snap)
	s.logger.Debug("shadow credentials refreshed",
		slog.String("access_key_id", snap.credentials.AccessKeyID),
		slog.Time("expires", snap.credentials.Expires),
	)
	return nil
}

// renew performs steps 3 and 4.
func (s *Session) renew(ctx context.Context) (*shadowCredentials, string, error) {
	federated, host, err := s.exchangeToken(ctx, s.user)
	if err != nil {
		return nil, "", err
	}

	creds, err := s.federatedCredentials(ctx, federated)
	if err != nil {
		return nil, "", err
	}

	return &shadowCredentials{federated: federated, credentials: creds}, host, nil
}

func (s *Session) publish(snap *shadowCredentials) {
	s.current.Store(snap)
	if snap.credentials.CanExpire {
		credentialExpiry.Set(float64(snap.credentials.Expires.Unix()))
	}
}

// Credentials returns the current signing credentials.
func (s *Session) Credentials() aws.Credentials {
	snap := s.current.Load()
	if snap == nil {
		return aws.Credentials{}
	}
	return snap.credentials
}

// Retrieve implements aws.CredentialsProvider.
func (s *Session) Retrieve(ctx context.Context) (aws.Credentials, error) {
	snap := s.current.Load()
	if snap == nil {
		return aws.Credentials{}, ErrNotLoggedIn
	}
	return snap.credentials, nil
}

// FederatedIdentityID returns the identity-pool id behind the current credentials.
func (s *Session) FederatedIdentityID() string {
	snap := s.current.Load()
	if snap == nil {
		return ""
	}
	return snap.federated.IdentityID
}

// AccountID returns the vendor account id from the primary login.
func (s *Session) AccountID() string { return s.user.AccountID }

// Region returns the cloud region the credentials are valid in.
func (s *Session) Region() string { return s.cloud.Region }

// CloudEndpoint returns the account's cloud base URL.
func (s *Session) CloudEndpoint() string { return s.cloud.Endpoint }

// DataPlaneHost returns the host serving device shadows.
func (s *Session) DataPlaneHost() string { return s.dataPlaneHost }

// HTTPClient returns the client used by the session, user agent included.
func (s *Session) HTTPClient() *http.Client { return s.httpClient }

// Logger returns the session logger.
func (s *Session) Logger() *slog.Logger { return s.logger }
