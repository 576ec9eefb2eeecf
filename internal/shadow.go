package internal

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

// maxCredentialRetries bounds how many times one call refreshes credentials.
const maxCredentialRetries = 1

// CredentialSource supplies signing credentials and can renew them.
// *Session implements it.
type CredentialSource interface {
	Retrieve(ctx context.Context) (aws.Credentials, error)
	RefreshShadowCredentials(ctx context.Context) error
	Region() string
	DataPlaneHost() string
}

// ShadowOption configures a ShadowClient.
type ShadowOption func(*ShadowClient)

// WithShadowBaseURL replaces https://<data-plane host> as the request base.
func WithShadowBaseURL(baseURL string) ShadowOption {
	return func(c *ShadowClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSigner replaces the SigV4 signer.
func WithSigner(signer v4.HTTPSigner) ShadowOption {
	return func(c *ShadowClient) {
		c.signer = signer
	}
}

// WithShadowHTTPClient sets the HTTP client. By default the session's client is reused.
func WithShadowHTTPClient(client *http.Client) ShadowOption {
	return func(c *ShadowClient) {
		c.httpClient = client
	}
}

// WithShadowLogger sets the logger. By default the session's logger is reused.
func WithShadowLogger(logger *slog.Logger) ShadowOption {
	return func(c *ShadowClient) {
		c.logger = logger
	}
}

// ShadowClient reads and writes device shadows with signed requests.
type ShadowClient struct {
	source     CredentialSource
	httpClient *http.Client
	signer     v4.HTTPSigner
	baseURL    string
	logger     *slog.Logger
	now        func() time.Time
}

// NewShadowClient returns a client signing with the credentials of source.
func NewShadowClient(source CredentialSource, opts ...ShadowOption) *ShadowClient {
	c := &ShadowClient{
		source: source,
		signer: v4.NewSigner(),
		now:    time.Now,
	}
	if s, ok := source.(*Session); ok {
		c.httpClient = s.HTTPClient()
		c.logger = s.Logger()
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.httpClient == nil {
		c.httpClient = wrapHTTPClient(nil, c.logger)
	}
	return c
}

type shadowRequest struct {
	op       string
	deviceID string
	method   string
	path     string
	query    url.Values
	body     []byte
}

type shadowResponse struct {
	status  int
	body    []byte
	message *string
}

type shadowUpdate struct {
	State struct {
		Desired map[string]any `json:"desired"`
	} `json:"state"`
	ClientToken string `json:"clientToken"`
}

// GetShadow fetches the shadow document of a device.
func (c *ShadowClient) GetShadow(ctx context.Context, deviceID string) (*ShadowDocument, error) {
	if deviceID == "" {
		return nil, &ValidationError{Field: "device id", Value: deviceID, Reason: "required"}
	}

	resp, err := c.do(ctx, shadowRequest{
		op:       "get",
		deviceID: deviceID,
		method:   http.MethodGet,
		path:     "/things/" + url.PathEscape(deviceID) + "/shadow",
	})
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, &APIError{StatusCode: resp.status, Message: messageOf(resp.body)}
	}

	doc := &ShadowDocument{Raw: json.RawMessage(resp.body)}
	dec := json.NewDecoder(bytes.NewReader(resp.body))
	dec.UseNumber()
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decode shadow of %s: %w", deviceID, err)
	}
	return doc, nil
}

// UpdateShadow merges patch into the desired state of a device.
//
// Every response other than 403 counts as accepted; the payload is not
// checked. Error statuses are logged and reported through StatusCode.
func (c *ShadowClient) UpdateShadow(ctx context.Context, deviceID string, patch map[string]any) (UpdateResult, error) {
	if deviceID == "" {
		return UpdateResult{}, &ValidationError{Field: "device id", Value: deviceID, Reason: "required"}
	}
	if len(patch) == 0 {
		return UpdateResult{}, &ValidationError{Field: "desired patch", Value: patch, Reason: "empty"}
	}

	var update shadowUpdate
	update.State.Desired = patch
	update.ClientToken = shadowClientTok
	body, err := json.Marshal(update)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("marshal shadow update: %w", err)
	}

	resp, err := c.do(ctx, shadowRequest{
		op:       "update",
		deviceID: deviceID,
		method:   http.MethodPost,
		path:     "/topics/$aws/things/" + url.PathEscape(deviceID) + "/shadow/update",
		query:    url.Values{"qos": {"0"}},
		body:     body,
	})
	if err != nil {
		return UpdateResult{}, err
	}

	if resp.status >= 400 {
		c.logger.Warn("shadow update answered with an error status",
			slog.String("device", deviceID),
			slog.Int("status", resp.status),
			slog.String("message", messageOf(resp.body)),
		)
	}
	return UpdateResult{Accepted: true, StatusCode: resp.status}, nil
}

// do sends r and handles 403 responses: a message means the device id was
// refused, no message means the credentials went stale. Stale credentials are
// refreshed and the request is sent again, at most maxCredentialRetries times.
func (c *ShadowClient) do(ctx context.Context, r shadowRequest) (*shadowResponse, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, r)
		if err != nil {
			return nil, err
		}
		shadowRequests.WithLabelValues(r.op, strconv.Itoa(resp.status)).Inc()

		if resp.status != http.StatusForbidden {
			return resp, nil
		}
		if resp.message != nil {
			return nil, fmt.Errorf("%w %q: %s", ErrInvalidDevice, r.deviceID, *resp.message)
		}
		if attempt >= maxCredentialRetries {
			return nil, ErrCredentialsRejected
		}

		c.logger.Info("shadow credentials rejected; refreshing",
			slog.String("op", r.op),
			slog.String("device", r.deviceID),
		)
		shadowRetries.WithLabelValues(r.op).Inc()
		if err := c.source.RefreshShadowCredentials(ctx); err != nil {
			return nil, err
		}
	}
}

func (c *ShadowClient) send(ctx context.Context, r shadowRequest) (*shadowResponse, error) {
	creds, err := c.source.Retrieve(ctx)
	if err != nil {
		return nil, err
	}

	target := c.endpoint() + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", shadowJSONType)

	sum := sha256.Sum256(r.body)
	if err := c.signer.SignHTTP(ctx, creds, req, hex.EncodeToString(sum[:]), shadowService, c.source.Region(), c.now()); err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s shadow of %s: %w", r.op, r.deviceID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	out := &shadowResponse{status: resp.StatusCode, body: data}
	if resp.StatusCode == http.StatusForbidden {
		out.message = payloadMessage(data)
	}
	return out, nil
}

func (c *ShadowClient) endpoint() string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + c.source.DataPlaneHost()
}

// payloadMessage returns the "message" field of a JSON body, nil when absent or null.
func payloadMessage(body []byte) *string {
	var payload struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return payload.Message
}

func messageOf(body []byte) string {
	if m := payloadMessage(body); m != nil {
		return *m
	}
	return strings.TrimSpace(string(body))
}
