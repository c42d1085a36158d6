package notify

import (
	"context"
	"net/smtp"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	addr string
	auth smtp.Auth
	to   []string
	msg  string
}

type outbox struct {
	mu   sync.Mutex
	sent []sentMail
}

func (o *outbox) send(addr string, a smtp.Auth, _ string, to []string, msg []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, sentMail{addr: addr, auth: a, to: to, msg: string(msg)})
	return nil
}

func newTestNotifier(cfg SMTPConfig, rdb *redis.Client) (*Notifier, *outbox) {
	box := &outbox{}
	n := New(cfg, rdb, zap.NewNop())
	n.send = box.send
	return n, box
}

var testCfg = SMTPConfig{
	Server: "smtp.test", Port: "587", From: "stock@test", To: []string{"jefe@test"}, AuthDisabled: true,
}

func TestAlertRaised_SendsMail(t *testing.T) {
	n, box := newTestNotifier(testCfg, nil)
	p := models.Product{Code: "TAL-1", Name: "Taladro", StockCurrent: 0, StockMinimum: 4}
	a := models.Alert{ID: 3, Kind: models.AlertOutOfStock, Priority: models.PriorityCritical, Message: "¡AGOTADO!"}

	n.AlertRaised(context.Background(), a, p)
	n.Wait()

	require.Len(t, box.sent, 1)
	m := box.sent[0]
	assert.Equal(t, "smtp.test:587", m.addr)
	assert.Nil(t, m.auth)
	assert.Equal(t, []string{"jefe@test"}, m.to)
	assert.Contains(t, m.msg, "Subject: ⚠️ Alerta de stock: Taladro (critical)")
	assert.Contains(t, m.msg, "Producto: Taladro [TAL-1]")
	assert.True(t, strings.HasPrefix(m.msg, "From: stock@test\r\n"))
}

func TestPasswordReset_GoesToUser(t *testing.T) {
	n, box := newTestNotifier(testCfg, nil)
	n.PasswordResetRequested(context.Background(), models.User{Name: "Ana", Email: "ana@test"}, "tok-123")
	n.AccountLocked(context.Background(), models.User{Name: "Ana", Email: "ana@test", FailedAttempts: 5}, time.Now())
	n.Wait()

	require.Len(t, box.sent, 2)
	var reset sentMail
	for _, m := range box.sent {
		if m.to[0] == "ana@test" {
			reset = m
		}
	}
	assert.Contains(t, reset.msg, "tok-123")
}

func TestMailSkippedWithoutServer(t *testing.T) {
	n, box := newTestNotifier(SMTPConfig{}, nil)
	n.AlertRaised(context.Background(), models.Alert{}, models.Product{})
	n.Wait()
	assert.Empty(t, box.sent)
	assert.NoError(t, n.SendDailySummary(context.Background()))
}

func TestSummaryHTML(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	html := SummaryHTML([]AlertLogEntry{
		{Product: "Taladro", Code: "TAL-1", Kind: models.AlertLowStock, Priority: models.PriorityHigh, Stock: 2, Time: at},
		{Product: "Taladro", Code: "TAL-1", Kind: models.AlertOutOfStock, Priority: models.PriorityCritical, Time: at},
		{Product: "Sierra", Code: "SIE-1", Kind: models.AlertLowStock, Priority: models.PriorityMedium, Stock: 3, Time: at},
	})

	assert.Contains(t, html, "Total de alertas: <strong>3</strong>")
	assert.Contains(t, html, "<li><code>low_stock</code>: 2</li>")
	assert.Contains(t, html, "<li>TAL-1: 2</li>")
	assert.Less(t, strings.Index(html, "SIE-1: 1"), strings.Index(html, "TAL-1: 2"))
}

func TestDailySummary_DrainsRedisLog(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()
	require.NoError(t, rdb.Del(ctx, DailyAlertLogKey).Err())

	n, box := newTestNotifier(testCfg, rdb)
	n.AlertRaised(ctx, models.Alert{Kind: models.AlertLowStock, Priority: models.PriorityHigh}, models.Product{Code: "A"})
	n.Wait()

	require.NoError(t, n.SendDailySummary(ctx))
	n.Wait()

	require.Len(t, box.sent, 2)
	assert.Contains(t, box.sent[1].msg, "Content-Type: text/html")
	length, err := rdb.LLen(ctx, DailyAlertLogKey).Result()
	require.NoError(t, err)
	assert.Zero(t, length)
}
