package mailer

import (
	"context"
	"io"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"loan-intake/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSMTPServer accepts one session and records the envelope and DATA.
type fakeSMTPServer struct {
	ln   net.Listener
	wg   sync.WaitGroup
	mu   sync.Mutex
	from string
	rcpt []string
	data string
	auth bool

	dataCount int

	// stall makes the server stop answering after the greeting.
	stall bool
	// quitReply replaces the 221 answer to QUIT when set.
	quitReply string
}

func startFakeSMTP(t *testing.T, stall bool) *fakeSMTPServer {
	return startFakeSMTPWith(t, &fakeSMTPServer{stall: stall})
}

func startFakeSMTPWith(t *testing.T, s *fakeSMTPServer) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s.ln = ln
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(func() {
		ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *fakeSMTPServer) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) serve() {
	defer s.wg.Done()
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP")
	if s.stall {
		_, _ = io.Copy(io.Discard, conn)
		return
	}

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"):
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case strings.HasPrefix(cmd, "AUTH"):
			s.mu.Lock()
			s.auth = true
			s.mu.Unlock()
			_ = tp.PrintfLine("235 Authentication successful")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			s.mu.Lock()
			s.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			s.mu.Lock()
			s.rcpt = append(s.rcpt, strings.Trim(line[len("RCPT TO:"):], "<> "))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			lines, err := tp.ReadDotLines()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = strings.Join(lines, "\n")
			s.dataCount++
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case cmd == "QUIT":
			if s.quitReply != "" {
				_ = tp.PrintfLine("%s", s.quitReply)
				return
			}
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func TestSMTPTransport_Send(t *testing.T) {
	srv := startFakeSMTP(t, false)

	tr := NewSMTPTransport(SMTPOptions{
		Host:     "127.0.0.1",
		Port:     srv.port(),
		Username: "loans@example.com",
		Password: "app-password",
		Logger:   logger.NewTestLogger(t),
	})
	assert.Equal(t, "smtp", tr.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, tr.Send(ctx, testMessage()))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.True(t, srv.auth)
	assert.Equal(t, "loans@example.com", srv.from)
	assert.Equal(t, []string{"ops@example.com"}, srv.rcpt)
	assert.Contains(t, srv.data, "Content-Type: multipart/mixed")
	assert.Contains(t, srv.data, `filename="pan.pdf"`)
}

func TestSMTPTransport_QuitFailureAfterAcceptance(t *testing.T) {
	srv := startFakeSMTPWith(t, &fakeSMTPServer{quitReply: "421 closing abruptly"})

	tr := NewSMTPTransport(SMTPOptions{
		Host:   "127.0.0.1",
		Port:   srv.port(),
		Logger: logger.NewTestLogger(t),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, tr.Send(ctx, testMessage()))

	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Equal(t, 1, srv.dataCount)
	assert.Contains(t, srv.data, `filename="pan.pdf"`)
}

func TestSMTPTransport_Timeout(t *testing.T) {
	srv := startFakeSMTP(t, true)

	tr := NewSMTPTransport(SMTPOptions{Host: "127.0.0.1", Port: srv.port()})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := tr.Send(ctx, testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSMTPTransport_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	tr := NewSMTPTransport(SMTPOptions{Host: "127.0.0.1", Port: port})
	err = tr.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to SMTP server")
}
