// Package vault is a client for the credential vault that hands out a
// broker connection's username, password, and session identifiers at
// startup, so they never need to live in a config file or environment
// variable on the machine running the plant.
package vault

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rithmic-go/rithmic/internal/logger"
)

// TransportCreds builds gRPC client credentials for the vault's
// reachability check, using TLS or mTLS per CLI flags, or insecure
// credentials when "--dev" is set.
func TransportCreds(ctx context.Context, cmd *cli.Command) credentials.TransportCredentials {
	if cmd.Bool("dev") {
		return insecure.NewCredentials()
	}

	caPath := cmd.String("vault-server-ca-cert")
	nameOverride := cmd.String("vault-server-name-override")
	certPath := cmd.String("vault-client-cert")
	keyPath := cmd.String("vault-client-key")

	if caPath == "" {
		logger.Fatal(ctx, "missing server CA cert file for vault gRPC client with m/TLS")
	}

	if certPath == "" && keyPath != "" {
		logger.Fatal(ctx, "missing client public cert file for vault gRPC client with mTLS")
	}
	if certPath != "" && keyPath == "" {
		logger.Fatal(ctx, "missing client private key file for vault gRPC client with mTLS")
	}

	if certPath == "" && keyPath == "" {
		return clientTLSFromFile(ctx, caPath, nameOverride, nil)
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		logger.FatalErrorContext(ctx, "failed to load client PEM key pair for vault gRPC client with mTLS",
			err, slog.String("cert", certPath), slog.String("key", keyPath))
	}

	return clientTLSFromFile(ctx, caPath, nameOverride, []tls.Certificate{cert})
}

// clientTLSFromFile is based on [credentials.NewClientTLSFromFile], but
// uses TLS 1.3 as the minimum version (instead of 1.2) and supports mTLS.
func clientTLSFromFile(ctx context.Context, caPath, serverNameOverride string, certs []tls.Certificate) credentials.TransportCredentials {
	b, err := os.ReadFile(caPath) //gosec:disable G304 // Specified by admin by design.
	if err != nil {
		logger.FatalErrorContext(ctx, "failed to read server CA cert file for vault gRPC client",
			err, slog.String("path", caPath))
	}

	cp := x509.NewCertPool()
	if !cp.AppendCertsFromPEM(b) {
		logger.Fatal(ctx, "failed to parse server CA cert file for vault gRPC client", slog.String("path", caPath))
	}

	cfg := &tls.Config{
		RootCAs:    cp,
		ServerName: serverNameOverride,
		MinVersion: tls.VersionTLS13,
	}
	if len(certs) > 0 {
		cfg.Certificates = certs
	}

	return credentials.NewTLS(cfg)
}
