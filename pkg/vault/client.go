package vault

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health/grpc_health_v1"

	httpclient "github.com/rithmic-go/rithmic/pkg/http/client"
	"github.com/rithmic-go/rithmic/pkg/plant"
)

// Client fetches broker connection secrets from a credential vault. The
// vault's gRPC endpoint is only used for a liveness check before the
// secret fetch; the fetch itself is a JWT-bearer-authenticated HTTPS
// call, so no custom protobuf service needs to be defined or fabricated
// for it.
type Client struct {
	baseURL  string
	issuer   string
	key      *jwtSigningKey
	grpcConn *grpc.ClientConn
}

type jwtSigningKey struct {
	pem string
}

// New constructs a Client. baseURL is the vault's HTTPS API root;
// grpcHealthAddr is its gRPC health-check endpoint; issuer and
// privateKeyPEM identify the caller for bearer-token signing.
func New(ctx context.Context, baseURL, grpcHealthAddr, issuer, privateKeyPEM string, creds credentials.TransportCredentials) (*Client, error) {
	conn, err := grpc.NewClient(grpcHealthAddr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to dial vault gRPC health endpoint: %w", err)
	}

	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		issuer:   issuer,
		key:      &jwtSigningKey{pem: privateKeyPEM},
		grpcConn: conn,
	}

	if err := c.Ping(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// Ping verifies the vault is reachable, using the standard gRPC health
// checking protocol rather than a bespoke RPC.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(c.grpcConn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("vault is not serving: %s", resp.GetStatus())
	}

	return nil
}

// Close releases the vault's gRPC connection.
func (c *Client) Close() error {
	return c.grpcConn.Close()
}

// secretResponse mirrors the JSON body the vault returns for a
// connection-secret lookup.
type secretResponse struct {
	User       string `json:"user"`
	Password   string `json:"password"`
	FCMID      string `json:"fcm_id"`
	IBID       string `json:"ib_id"`
	AccountID  string `json:"account_id"`
}

// ConnectionSecrets fetches the username, password, and session
// identifiers for linkID. It folds the username and password into
// connInfo and returns the session identifiers separately.
func (c *Client) ConnectionSecrets(ctx context.Context, linkID string, connInfo plant.ConnectionInfo) (plant.ConnectionInfo, plant.SessionIdentity, error) {
	token, err := c.bearerToken()
	if err != nil {
		return connInfo, plant.SessionIdentity{}, err
	}

	u := fmt.Sprintf("%s/v1/links/%s/secrets", c.baseURL, url.PathEscape(linkID))
	body, err := httpclient.HTTPRequest(ctx, "GET", u, token, url.Values{})
	if err != nil {
		return connInfo, plant.SessionIdentity{}, fmt.Errorf("failed to fetch connection secrets: %w", err)
	}

	var secret secretResponse
	if err := json.Unmarshal(body, &secret); err != nil {
		return connInfo, plant.SessionIdentity{}, fmt.Errorf("failed to decode connection secrets: %w", err)
	}

	connInfo.User = secret.User
	connInfo.Password = secret.Password

	identity := plant.SessionIdentity{
		FCMID:     secret.FCMID,
		IBID:      secret.IBID,
		AccountID: secret.AccountID,
	}

	return connInfo, identity, nil
}

// bearerToken signs a short-lived RS256 JWT identifying the caller,
// the same approach the app-level API clients use against their own
// providers.
func (c *Client) bearerToken() (string, error) {
	if c.issuer == "" {
		return "", errors.New("missing credential: issuer")
	}
	if c.key.pem == "" {
		return "", errors.New("missing credential: private_key")
	}

	pemText := strings.ReplaceAll(c.key.pem, "\\n", "\n")
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return "", errors.New("failed to decode PEM private key")
	}

	pk, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(10 * time.Minute).Unix(),
		"iss": c.issuer,
	})

	signed, err := token.SignedString(pk)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return signed, nil
}
