package internal

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

type loginRequest struct {
	CaptchaRule int    `json:"captchaRule"`
	Channel     string `json:"channel"`
	CountryAbbr string `json:"countryAbbr"`
	Password    string `json:"password"`
	Username    string `json:"username"`
}

type loginResponse struct {
	User *struct {
		Username string `json:"username"`
	} `json:"user"`
	Token string `json:"token"`
}

type cloudRouteRequest struct {
	SSOID    string `json:"ssoId"`
	SSOToken string `json:"ssoToken"`
}

type cloudRouteResponse struct {
	Data *struct {
		CloudURL    string `json:"cloud_url"`
		CloudRegion string `json:"cloud_region"`
	} `json:"data"`
}

type tokenExchangeRequest struct {
	AppID    string `json:"appId"`
	SSOToken string `json:"ssoToken"`
	Lang     string `json:"lang"`
	UserID   string `json:"userId"`
}

type tokenExchangeResponse struct {
	Data *struct {
		CognitoID    string `json:"cognitoId"`
		CognitoToken string `json:"cognitoToken"`
		MQTTEndpoint string `json:"mqttEndpoint"`
	} `json:"data"`
}

// passwordDigest is the legacy MD5 hex form the account service expects.
func passwordDigest(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// primaryLogin is step 1.
func (s *Session) primaryLogin(ctx context.Context, id Identity) (UserToken, error) {
	query := url.Values{"clientId": {accountClientID}}
	req := loginRequest{
		CaptchaRule: 3,
		Channel:     "web",
		CountryAbbr: id.Region,
		Password:    passwordDigest(id.Password),
		Username:    id.Username,
	}

	var resp loginResponse
	err := s.postJSON(ctx, s.endpoints.AccountLogin, query, req, &resp)
	if err == nil {
		switch {
		case resp.User == nil:
			err = ErrAuthentication
		case resp.User.Username == "":
			err = &LoginStepError{Step: 1, Name: "login", Field: "user.username"}
		case resp.Token == "":
			err = &LoginStepError{Step: 1, Name: "login", Field: "token"}
		}
	}
	s.stepDone(ctx, 1, "login", err)
	if err != nil {
		return UserToken{}, err
	}

	return UserToken{AccountID: resp.User.Username, Token: resp.Token}, nil
}

// resolveCloud is step 2.
func (s *Session) resolveCloud(ctx context.Context, user UserToken) (CloudRoute, error) {
	req := cloudRouteRequest{SSOID: user.AccountID, SSOToken: user.Token}

	var resp cloudRouteResponse
	err := s.postJSON(ctx, s.endpoints.CloudRouting, nil, req, &resp)
	if err == nil {
		switch {
		case resp.Data == nil:
			err = &LoginStepError{Step: 2, Name: "cloud routing", Field: "data"}
		case resp.Data.CloudURL == "":
			err = &LoginStepError{Step: 2, Name: "cloud routing", Field: "data.cloud_url"}
		case resp.Data.CloudRegion == "":
			err = &LoginStepError{Step: 2, Name: "cloud routing", Field: "data.cloud_region"}
		}
	}
	s.stepDone(ctx, 2, "cloud routing", err)
	if err != nil {
		return CloudRoute{}, err
	}

	return CloudRoute{Endpoint: resp.Data.CloudURL, Region: resp.Data.CloudRegion}, nil
}

// exchangeToken is step 3. It returns the federated identity and the data-plane host.
func (s *Session) exchangeToken(ctx context.Context, user UserToken) (FederatedIdentity, string, error) {
	req := tokenExchangeRequest{
		AppID:    appID,
		SSOToken: user.Token,
		Lang:     strings.ToLower(s.region),
		UserID:   user.AccountID,
	}

	var (
		resp tokenExchangeResponse
		host string
	)
	err := s.postJSON(ctx, tokenExchangeURL(s.cloud.Endpoint), nil, req, &resp)
	if err == nil {
		switch {
		case resp.Data == nil:
			err = &LoginStepError{Step: 3, Name: "token exchange", Field: "data"}
		case resp.Data.CognitoID == "":
			err = &LoginStepError{Step: 3, Name: "token exchange", Field: "data.cognitoId"}
		case resp.Data.CognitoToken == "":
			err = &LoginStepError{Step: 3, Name: "token exchange", Field: "data.cognitoToken"}
		default:
			host, err = hostFromEndpoint(resp.Data.MQTTEndpoint)
			if err != nil {
				err = &LoginStepError{Step: 3, Name: "token exchange", Field: "data.mqttEndpoint"}
			}
		}
	}
	s.stepDone(ctx, 3, "token exchange", err)
	if err != nil {
		return FederatedIdentity{}, "", err
	}

	return FederatedIdentity{IdentityID: resp.Data.CognitoID, Token: resp.Data.CognitoToken}, host, nil
}

func (s *Session) stepDone(ctx context.Context, step int, name string, err error) {
	observeStep(step, err)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "login step failed",
			slog.Int("step", step),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "login step done",
		slog.Int("step", step),
		slog.String("name", name),
	)
}

// postJSON posts body as JSON and decodes the response into out. The vendor
// services report failures in the payload, so the status code alone is not
// treated as an error when the body decodes.
func (s *Session) postJSON(ctx context.Context, endpoint string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s (status %d): %w", endpoint, resp.StatusCode, err)
	}
	return nil
}
