package mail

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("SneakVerse <shop@sneakverse.test>", "a@x.com", "Hi", "line1\nline2")

	assert.Contains(t, msg, "From: SneakVerse <shop@sneakverse.test>\r\n")
	assert.Contains(t, msg, "To: a@x.com\r\n")
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	assert.Contains(t, msg, "line1\r\nline2\r\n")
}

func TestEnvelopeAddr(t *testing.T) {
	assert.Equal(t, "shop@sneakverse.test", envelopeAddr("SneakVerse <shop@sneakverse.test>"))
	assert.Equal(t, "shop@sneakverse.test", envelopeAddr(" shop@sneakverse.test "))
}

func TestSendReportsDialFailure(t *testing.T) {
	m := &smtpMailer{
		cfg: SMTPConfig{Host: "smtp.invalid", Port: 25, From: "a@b.c"},
		dial: func(string, string) (net.Conn, error) {
			return nil, errors.New("refused")
		},
	}
	err := m.Send("x@y.z", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial smtp")
}

func TestNopAndWelcome(t *testing.T) {
	assert.NoError(t, Nop{}.Send("a", "b", "c"))

	subject, body := Welcome("Jane")
	assert.Equal(t, "Welcome to SneakVerse", subject)
	assert.Contains(t, body, "Hi Jane,")
}
