package internal

import (
	"fmt"
	"strings"
)

const (
	// UserAgent is the mobile client the vendor API expects to talk to.
	UserAgent = "aws-sdk-iOS/2.26.2 iOS/16.4.1 ru_RU"

	accountClientID = "19426210"
	appID           = "f6hek6hdpt64jrw596"
	shadowService   = "iotdata"
	shadowClientTok = "mqtt_ios"
	shadowJSONType  = "application/x-amz-json-1.0"

	cognitoLoginProvider = "cognito-identity.amazonaws.com"
)

// Endpoints lists the base URLs used by the login chain.
// Empty AWS endpoints resolve to the SDK defaults for the cloud region.
type Endpoints struct {
	AccountLogin string
	CloudRouting string
	Cognito      string
	STS          string
}

// DefaultEndpoints returns the production vendor endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		AccountLogin: "https://rus.account.tcl.com/account/login",
		CloudRouting: "https://prod-center.aws.tcljd.com/v2/global/cloud_url_get",
	}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.AccountLogin == "" {
		e.AccountLogin = d.AccountLogin
	}
	if e.CloudRouting == "" {
		e.CloudRouting = d.CloudRouting
	}
	return e
}

func tokenExchangeURL(cloudEndpoint string) string {
	return strings.TrimRight(cloudEndpoint, "/") + "/v3/auth/refresh_tokens"
}

// hostFromEndpoint strips the scheme, port and path from an endpoint such as
// "wss://abc-ats.iot.eu-central-1.amazonaws.com:443/mqtt".
func hostFromEndpoint(endpoint string) (string, error) {
	host := strings.TrimSpace(endpoint)
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return "", fmt.Errorf("no host in endpoint %q", endpoint)
	}
	return host, nil
}
