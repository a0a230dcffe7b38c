// Package tlstest writes throwaway self-signed certificates for tests.
package tlstest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ServerName is the DNS name on generated server certificates.
const ServerName = "localhost"

// Files are PEM paths in a temp directory.
type Files struct {
	ServerCert, ServerKey string
	ClientCert, ClientKey string
}

// Write generates a server and a client certificate, each self-signed.
func Write(t testing.TB) Files {
	t.Helper()
	dir := t.TempDir()
	var f Files
	f.ServerCert, f.ServerKey = writePair(t, dir, "server", x509.ExtKeyUsageServerAuth)
	f.ClientCert, f.ClientKey = writePair(t, dir, "client", x509.ExtKeyUsageClientAuth)
	return f
}

// WriteClient generates one extra self-signed client pair.
func WriteClient(t testing.TB, name string) (certFile, keyFile string) {
	t.Helper()
	return writePair(t, t.TempDir(), name, x509.ExtKeyUsageClientAuth)
}

func writePair(t testing.TB, dir, name string, usage x509.ExtKeyUsage) (string, string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: name},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{usage},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{ServerName},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certPath := filepath.Join(dir, name+".crt")
	keyPath := filepath.Join(dir, name+".key")
	writePEM(t, certPath, "CERTIFICATE", der)
	writePEM(t, keyPath, "EC PRIVATE KEY", keyDER)
	return certPath, keyPath
}

func writePEM(t testing.TB, path, typ string, der []byte) {
	t.Helper()
	b := pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der})
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
