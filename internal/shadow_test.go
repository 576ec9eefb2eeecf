package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu         sync.Mutex
	generation int
	refreshes  int
	refreshErr error
}

func (s *stubSource) Retrieve(context.Context) (aws.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return aws.Credentials{
		AccessKeyID:     fmt.Sprintf("AKID%d", s.generation+1),
		SecretAccessKey: "secret",
		SessionToken:    fmt.Sprintf("session%d", s.generation+1),
	}, nil
}

func (s *stubSource) RefreshShadowCredentials(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshes++
	if s.refreshErr != nil {
		return s.refreshErr
	}
	s.generation++
	return nil
}

func (s *stubSource) Region() string        { return testCloudRegion }
func (s *stubSource) DataPlaneHost() string { return testDataPlaneHost }

// fakeShadowService keeps desired state per device and can answer 403s.
type fakeShadowService struct {
	*httptest.Server

	mu       sync.Mutex
	desired  map[string]map[string]any
	requests []*http.Request
	bodies   []string

	// staleFor answers this many requests with a 403 and no message.
	staleFor int
	// status, when set, is returned instead of a normal response.
	status int
}

func newFakeShadowService(t *testing.T) *fakeShadowService {
	t.Helper()
	f := &fakeShadowService{desired: map[string]map[string]any{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /things/{id}/shadow", func(w http.ResponseWriter, r *http.Request) {
		if f.intercept(w, r, "") {
			return
		}
		f.mu.Lock()
		desired := maps.Clone(f.desired[r.PathValue("id")])
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{
			"state":     map[string]any{"desired": desired, "reported": map[string]any{"currentTemperature": 25}},
			"version":   7,
			"timestamp": 1700000000,
		})
	})
	mux.HandleFunc("POST /topics/$aws/things/{id}/shadow/update", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			State struct {
				Desired map[string]any `json:"desired"`
			} `json:"state"`
			ClientToken string `json:"clientToken"`
		}
		raw, err := io.ReadAll(r.Body)
		if err == nil {
			err = json.Unmarshal(raw, &body)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if f.intercept(w, r, string(raw)) {
			return
		}
		f.mu.Lock()
		id := r.PathValue("id")
		if f.desired[id] == nil {
			f.desired[id] = map[string]any{}
		}
		maps.Copy(f.desired[id], body.State.Desired)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"message": "OK"})
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeShadowService) intercept(w http.ResponseWriter, r *http.Request, body string) bool {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, body)
	stale := f.staleFor > 0
	if stale {
		f.staleFor--
	}
	status := f.status
	f.mu.Unlock()

	switch {
	case r.PathValue("id") == "unknown-device":
		writeJSON(w, http.StatusForbidden, map[string]any{"message": "Forbidden"})
		return true
	case stale:
		writeJSON(w, http.StatusForbidden, map[string]any{"message": nil})
		return true
	case status != 0:
		writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
		return true
	}
	return false
}

func (f *fakeShadowService) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeShadowService) request(i int) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

func newTestShadowClient(src CredentialSource, svc *fakeShadowService) *ShadowClient {
	return NewShadowClient(src, WithShadowBaseURL(svc.URL))
}

func TestUpdateThenGetShadow(t *testing.T) {
	svc := newFakeShadowService(t)
	client := newTestShadowClient(&stubSource{}, svc)
	ctx := context.Background()

	res, err := client.UpdateShadow(ctx, "CB0AzBFAAAE", map[string]any{"powerSwitch": 1})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	doc, err := client.GetShadow(ctx, "CB0AzBFAAAE")
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), doc.State.Desired["powerSwitch"])
	assert.Equal(t, json.Number("25"), doc.State.Reported["currentTemperature"])
	assert.Equal(t, int64(7), doc.Version)
	assert.Equal(t, int64(1700000000), doc.UpdatedAt().Unix())
	assert.NotEmpty(t, doc.Raw)

	assert.JSONEq(t, `{"state":{"desired":{"powerSwitch":1}},"clientToken":"mqtt_ios"}`, svc.bodies[0])

	update := svc.request(0)
	assert.Equal(t, "0", update.URL.Query().Get("qos"))
	assert.Equal(t, "/topics/$aws/things/CB0AzBFAAAE/shadow/update", update.URL.Path)
}

func TestShadowRequestsAreSigned(t *testing.T) {
	svc := newFakeShadowService(t)
	client := newTestShadowClient(&stubSource{}, svc)

	_, err := client.GetShadow(context.Background(), "dev1")
	require.NoError(t, err)

	r := svc.request(0)
	auth := r.Header.Get("Authorization")
	assert.True(t, strings.HasPrefix(auth, "AWS4-HMAC-SHA256 Credential=AKID1/"), auth)
	assert.Contains(t, auth, "/"+testCloudRegion+"/iotdata/aws4_request")
	assert.Equal(t, "session1", r.Header.Get("X-Amz-Security-Token"))
	assert.NotEmpty(t, r.Header.Get("X-Amz-Date"))
	assert.Equal(t, "application/x-amz-json-1.0", r.Header.Get("Content-Type"))
	assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
}

func TestStaleCredentialsRefreshOnce(t *testing.T) {
	svc := newFakeShadowService(t)
	svc.staleFor = 1
	src := &stubSource{}
	client := newTestShadowClient(src, svc)
	retriesBefore := testutil.ToFloat64(shadowRetries.WithLabelValues("get"))

	_, err := client.GetShadow(context.Background(), "dev1")
	require.NoError(t, err)

	assert.Equal(t, 1, src.refreshes)
	require.Equal(t, 2, svc.requestCount())
	assert.Contains(t, svc.request(1).Header.Get("Authorization"), "Credential=AKID2/")
	assert.Equal(t, retriesBefore+1, testutil.ToFloat64(shadowRetries.WithLabelValues("get")))
}

func TestStaleCredentialsTwiceIsFatal(t *testing.T) {
	svc := newFakeShadowService(t)
	svc.staleFor = 10
	src := &stubSource{}
	client := newTestShadowClient(src, svc)

	_, err := client.UpdateShadow(context.Background(), "dev1", map[string]any{"powerSwitch": 0})
	require.ErrorIs(t, err, ErrCredentialsRejected)

	assert.Equal(t, 1, src.refreshes)
	assert.Equal(t, 2, svc.requestCount())
}

func TestForbiddenWithMessageIsInvalidDevice(t *testing.T) {
	svc := newFakeShadowService(t)
	src := &stubSource{}
	client := newTestShadowClient(src, svc)

	_, err := client.GetShadow(context.Background(), "unknown-device")
	require.ErrorIs(t, err, ErrInvalidDevice)

	_, err = client.UpdateShadow(context.Background(), "unknown-device", map[string]any{"powerSwitch": 1})
	require.ErrorIs(t, err, ErrInvalidDevice)

	assert.Zero(t, src.refreshes)
	assert.Equal(t, 2, svc.requestCount())
}

func TestRefreshErrorStopsRetry(t *testing.T) {
	svc := newFakeShadowService(t)
	svc.staleFor = 1
	boom := errors.New("exchange down")
	client := newTestShadowClient(&stubSource{refreshErr: boom}, svc)

	_, err := client.GetShadow(context.Background(), "dev1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, svc.requestCount())
}

func TestUpdateAcceptsErrorStatus(t *testing.T) {
	svc := newFakeShadowService(t)
	svc.status = http.StatusInternalServerError
	client := newTestShadowClient(&stubSource{}, svc)

	res, err := client.UpdateShadow(context.Background(), "dev1", map[string]any{"workMode": 1})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestGetReturnsAPIError(t *testing.T) {
	svc := newFakeShadowService(t)
	svc.status = http.StatusNotFound
	client := newTestShadowClient(&stubSource{}, svc)

	_, err := client.GetShadow(context.Background(), "dev1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestShadowValidation(t *testing.T) {
	svc := newFakeShadowService(t)
	client := newTestShadowClient(&stubSource{}, svc)
	ctx := context.Background()

	_, err := client.GetShadow(ctx, "")
	assert.True(t, IsValidation(err))
	_, err = client.UpdateShadow(ctx, "dev1", nil)
	assert.True(t, IsValidation(err))
	_, err = client.UpdateShadow(ctx, "", map[string]any{"powerSwitch": 1})
	assert.True(t, IsValidation(err))

	assert.Zero(t, svc.requestCount())
}

func TestShadowRetryRefreshesSession(t *testing.T) {
	cloud := newFakeCloud(t)
	s := cloud.session(t)
	svc := newFakeShadowService(t)
	svc.staleFor = 1

	client := NewShadowClient(s, WithShadowBaseURL(svc.URL))
	_, err := client.UpdateShadow(context.Background(), "dev1", map[string]any{"targetTemperature": 22})
	require.NoError(t, err)

	assert.Equal(t, 1, cloud.count("login"))
	assert.Equal(t, 1, cloud.count("routing"))
	assert.Equal(t, 2, cloud.count("exchange"))
	assert.Equal(t, 2, cloud.count("cognito"))
	assert.Contains(t, svc.request(1).Header.Get("Authorization"), "Credential=AKID2/")
}
