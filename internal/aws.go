package internal

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// awsConfig builds an SDK config for the cloud region that shares the
// session's HTTP client. The host's shared config files and AWS_* variables
// are not consulted.
// SDK retries are off; the shadow client owns the only retry in the system.
func (s *Session) awsConfig(provider aws.CredentialsProvider) aws.Config {
	return aws.Config{
		Region:      s.cloud.Region,
		Credentials: provider,
		HTTPClient:  s.httpClient,
		Retryer:     func() aws.Retryer { return aws.NopRetryer{} },
	}
}

// federatedCredentials is step 4: exchange the identity-pool token for
// short-lived credentials.
func (s *Session) federatedCredentials(ctx context.Context, fed FederatedIdentity) (creds aws.Credentials, err error) {
	defer func() { s.stepDone(ctx, 4, "federated credentials", err) }()

	client := cognitoidentity.NewFromConfig(s.awsConfig(aws.AnonymousCredentials{}), func(o *cognitoidentity.Options) {
		if s.endpoints.Cognito != "" {
			o.BaseEndpoint = aws.String(s.endpoints.Cognito)
		}
	})

	out, err := client.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: aws.String(fed.IdentityID),
		Logins: map[string]string{
			cognitoLoginProvider: fed.Token,
		},
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("get credentials for identity: %w", err)
	}

	c := out.Credentials
	switch {
	case c == nil:
		return aws.Credentials{}, &LoginStepError{Step: 4, Name: "federated credentials", Field: "Credentials"}
	case aws.ToString(c.AccessKeyId) == "":
		return aws.Credentials{}, &LoginStepError{Step: 4, Name: "federated credentials", Field: "Credentials.AccessKeyId"}
	case aws.ToString(c.SecretKey) == "":
		return aws.Credentials{}, &LoginStepError{Step: 4, Name: "federated credentials", Field: "Credentials.SecretKey"}
	case aws.ToString(c.SessionToken) == "":
		return aws.Credentials{}, &LoginStepError{Step: 4, Name: "federated credentials", Field: "Credentials.SessionToken"}
	}

	creds = aws.Credentials{
		AccessKeyID:     aws.ToString(c.AccessKeyId),
		SecretAccessKey: aws.ToString(c.SecretKey),
		SessionToken:    aws.ToString(c.SessionToken),
		Source:          "CognitoIdentity",
	}
	if c.Expiration != nil {
		creds.CanExpire = true
		creds.Expires = *c.Expiration
	}
	return creds, nil
}

// CallerIdentity asks STS who the current signing credentials belong to.
func (s *Session) CallerIdentity(ctx context.Context) (*CallerIdentity, error) {
	creds, err := s.Retrieve(ctx)
	if err != nil {
		return nil, err
	}

	cfg := s.awsConfig(credentials.NewStaticCredentialsProvider(
		creds.AccessKeyID,
		creds.SecretAccessKey,
		creds.SessionToken,
	))
	svc := sts.NewFromConfig(cfg, func(o *sts.Options) {
		if s.endpoints.STS != "" {
			o.BaseEndpoint = aws.String(s.endpoints.STS)
		}
	})
	out, err := svc.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("get caller identity: %w", err)
	}

	return &CallerIdentity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}
