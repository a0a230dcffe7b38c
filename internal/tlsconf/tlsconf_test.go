package tlsconf

import (
	"crypto/tls"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/wordle-tls/internal/tlsconf/tlstest"
)

// handshake dials ln with cfg and reports both sides' handshake errors.
func handshake(t *testing.T, ln net.Listener, cfg *tls.Config) (clientErr, serverErr error) {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			done <- err
			return
		}
		defer c.Close()
		_ = c.SetDeadline(time.Now().Add(5 * time.Second))
		err = c.(*tls.Conn).Handshake()
		if err == nil {
			_, err = c.Write([]byte{'k'})
		}
		done <- err
	}()

	conn, err := tls.Dial("tcp", ln.Addr().String(), cfg)
	if err == nil {
		// TLS 1.3 reports client-cert rejection on first read
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, err = conn.Read(make([]byte, 1))
		_ = conn.Close()
	}
	return err, <-done
}

func TestMutualTLS(t *testing.T) {
	f := tlstest.Write(t)

	srvCfg, err := Server(f.ServerCert, f.ServerKey, f.ClientCert)
	require.NoError(t, err)
	assert.Equal(t, tls.RequireAndVerifyClientCert, srvCfg.ClientAuth)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", srvCfg)
	require.NoError(t, err)
	defer ln.Close()

	t.Run("trusted client", func(t *testing.T) {
		cliCfg, err := Client(f.ClientCert, f.ClientKey, f.ServerCert, tlstest.ServerName)
		require.NoError(t, err)
		cErr, sErr := handshake(t, ln, cliCfg)
		assert.NoError(t, cErr)
		assert.NoError(t, sErr)
	})

	t.Run("unknown client certificate", func(t *testing.T) {
		cert, key := tlstest.WriteClient(t, "stranger")
		cliCfg, err := Client(cert, key, f.ServerCert, tlstest.ServerName)
		require.NoError(t, err)
		_, sErr := handshake(t, ln, cliCfg)
		assert.Error(t, sErr)
	})

	t.Run("wrong server name", func(t *testing.T) {
		cliCfg, err := Client(f.ClientCert, f.ClientKey, f.ServerCert, "Someone Else")
		require.NoError(t, err)
		cErr, _ := handshake(t, ln, cliCfg)
		assert.Error(t, cErr)
	})
}

func TestLoadErrors(t *testing.T) {
	f := tlstest.Write(t)

	_, err := Server("missing.crt", "missing.key", f.ClientCert)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.pem")
	require.NoError(t, os.WriteFile(empty, []byte("not a cert"), 0o600))
	_, err = Server(f.ServerCert, f.ServerKey, empty)
	assert.ErrorIs(t, err, ErrNoCertificates)

	_, err = Client(f.ClientCert, f.ClientKey, filepath.Join(t.TempDir(), "nope.pem"), "x")
	assert.Error(t, err)
}
