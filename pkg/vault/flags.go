package vault

import (
	"log/slog"

	"github.com/lithammer/shortuuid/v4"
	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

// DefaultHTTPBaseURL and DefaultGRPCHealthAddress are the vault's
// default endpoints in a local development setup.
const (
	DefaultHTTPBaseURL      = "https://localhost:8443"
	DefaultGRPCHealthAddress = "localhost:14461"
)

// Flags defines CLI flags to configure the vault client. These flags
// can also be set using environment variables and the application's
// configuration file.
func Flags(configFilePath altsrc.StringSourcer) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "vault-http-base-url",
			Usage: "credential vault's HTTPS API base URL",
			Value: DefaultHTTPBaseURL,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_HTTP_BASE_URL"),
				toml.TOML("vault.http_base_url", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "vault-grpc-health-address",
			Usage: "credential vault's gRPC health-check address",
			Value: DefaultGRPCHealthAddress,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_GRPC_HEALTH_ADDRESS"),
				toml.TOML("vault.grpc_health_address", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "vault-issuer",
			Usage: "JWT issuer identifying this client to the vault",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_ISSUER"),
				toml.TOML("vault.issuer", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "vault-private-key",
			Usage: "PEM-encoded RSA private key for JWT bearer signing",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_PRIVATE_KEY"),
				toml.TOML("vault.private_key", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "vault-client-cert",
			Usage: "vault gRPC client's public certificate PEM file (mTLS only)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_CLIENT_CERT"),
				toml.TOML("vault.client_cert", configFilePath),
			),
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "vault-client-key",
			Usage: "vault gRPC client's private key PEM file (mTLS only)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_CLIENT_KEY"),
				toml.TOML("vault.client_key", configFilePath),
			),
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "vault-server-ca-cert",
			Usage: "vault gRPC server's CA certificate PEM file (TLS and mTLS)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_SERVER_CA_CERT"),
				toml.TOML("vault.server_ca_cert", configFilePath),
			),
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  "vault-server-name-override",
			Usage: "vault gRPC server's name override (for testing)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_SERVER_NAME_OVERRIDE"),
				toml.TOML("vault.server_name_override", configFilePath),
			),
		},
		&cli.StringFlag{
			Name:  "vault-link-id",
			Usage: "vault link ID identifying this connection's stored secrets",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("VAULT_LINK_ID"),
				toml.TOML("vault.link_id", configFilePath),
			),
		},
	}
}

// LinkID extracts and checks the configured vault link ID.
func LinkID(l *slog.Logger, cmd *cli.Command) (string, bool) {
	id := cmd.String("vault-link-id")
	if id == "" {
		l.Warn("vault link ID not configured")
		return "", false
	}

	if _, err := shortuuid.DefaultEncoder.Decode(id); err != nil {
		l.Error("invalid vault link ID configured", slog.Any("error", err))
		return "", false
	}

	return id, true
}
