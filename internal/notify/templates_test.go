package notify

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/halkabite/internal/config"
	"github.com/Skotchmaster/halkabite/internal/models"
)

func TestOrderConfirmation(t *testing.T) {
	t.Parallel()

	order := &models.Order{
		OrderNumber: "HB2603070042",
		Items: []models.OrderItem{
			{Name: "Kacchi <Biryani>", Quantity: 2, Price: decimal.RequireFromString("180")},
			{Name: "Borhani", Quantity: 1, Price: decimal.RequireFromString("50")},
		},
		TotalAmount: decimal.RequireFromString("280"),
	}

	msg, err := OrderConfirmation("buyer@halkabite.test", order)
	require.NoError(t, err)
	assert.Equal(t, "buyer@halkabite.test", msg.To)
	assert.Equal(t, "Order Confirmed - HB2603070042", msg.Subject)
	assert.Contains(t, msg.HTML, "HB2603070042")
	assert.Contains(t, msg.HTML, "Kacchi &lt;Biryani&gt; x 2 - &#2547;180.00")
	assert.Contains(t, msg.HTML, "Total: &#2547;280.00")
}

func TestWelcome(t *testing.T) {
	t.Parallel()

	msg, err := Welcome("new@halkabite.test", "Rahim")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to HalkaBite!", msg.Subject)
	assert.Contains(t, msg.HTML, "Welcome to HalkaBite, Rahim!")
}

func TestSMTPMailer_Message(t *testing.T) {
	t.Parallel()

	m, err := NewSMTPMailer(config.SMTPSettings{
		Host: "smtp.test",
		Port: 587,
		User: "noreply@halkabite.test",
		From: "HalkaBite <noreply@halkabite.test>",
	})
	require.NoError(t, err)

	out, err := m.message(Message{To: "a@b.c", Subject: "Order Confirmed - HB1", HTML: "<p>hi</p>"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = out.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Regexp(t, `From: "?HalkaBite"? <noreply@halkabite\.test>`, raw)
	assert.Contains(t, raw, "<a@b.c>")
	assert.Contains(t, raw, "Subject: Order Confirmed - HB1")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.Contains(t, raw, "<p>hi</p>")
}

func TestSMTPMailer_RejectsBadRecipient(t *testing.T) {
	t.Parallel()

	m, err := NewSMTPMailer(config.SMTPSettings{Host: "smtp.test", Port: 587, User: "noreply@halkabite.test"})
	require.NoError(t, err)

	_, err = m.message(Message{To: "not an address", Subject: "x", HTML: "x"})
	assert.Error(t, err)
}

func TestFromConfig_FallsBackToLog(t *testing.T) {
	t.Parallel()

	m := FromConfig(config.SMTPSettings{Host: "smtp.test"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, ok := m.(LogMailer)
	assert.True(t, ok)
}
