package smtp

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-tracker/internal/config"
)

// fakeServer отвечает на минимальный диалог SMTP без STARTTLS.
func fakeServer(t *testing.T, extensions ...string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 fake ESMTP\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"):
				reply := "250-fake\r\n"
				for _, ext := range extensions {
					reply += "250-" + ext + "\r\n"
				}
				_, _ = conn.Write([]byte(reply + "250 OK\r\n"))
			case strings.HasPrefix(cmd, "QUIT"):
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			default:
				_, _ = conn.Write([]byte("250 OK\r\n"))
			}
		}
	}()
	return ln.Addr().String()
}

func TestTransport_ConnectPlain(t *testing.T) {
	host, port, err := net.SplitHostPort(fakeServer(t))
	require.NoError(t, err)

	tr := NewTransport(config.SMTP{Host: host, Port: port, From: "gym@example.com", Insecure: true})
	client, err := tr.Connect()
	require.NoError(t, err)
	assert.NoError(t, client.Quit())
	assert.Equal(t, "gym@example.com", tr.Sender())
}

func TestTransport_ConnectRequiresStartTLS(t *testing.T) {
	host, port, err := net.SplitHostPort(fakeServer(t))
	require.NoError(t, err)

	_, err = NewTransport(config.SMTP{Host: host, Port: port, Insecure: true}).Connect()
	assert.ErrorContains(t, err, "STARTTLS")
}

func TestTransport_ConnectUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, _ := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, ln.Close())

	_, err = NewTransport(config.SMTP{Host: host, Port: port, Insecure: true}).Connect()
	assert.Error(t, err)
}
