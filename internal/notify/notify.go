// Package notify emails stock alerts and security events and keeps a daily digest of
// raised alerts in Redis.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"go.uber.org/zap"
)

const DailyAlertLogKey = "stocktrack:alertlog:daily"

type SMTPConfig struct {
	Server       string
	Port         string
	User         string
	Password     string
	From         string
	To           []string
	AuthDisabled bool
}

// Enabled reports whether enough is configured to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Server != "" && c.From != ""
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Notifier struct {
	cfg    SMTPConfig
	rdb    *redis.Client
	logger *zap.Logger
	send   sendFunc
	now    func() time.Time
	wg     sync.WaitGroup
}

// New builds a Notifier. rdb may be nil, in which case no digest is kept.
func New(cfg SMTPConfig, rdb *redis.Client, logger *zap.Logger) *Notifier {
	return &Notifier{cfg: cfg, rdb: rdb, logger: logger, send: smtp.SendMail, now: time.Now}
}

type AlertLogEntry struct {
	AlertID  int                  `json:"alert_id"`
	Product  string               `json:"product"`
	Code     string               `json:"code"`
	Kind     models.AlertKind     `json:"kind"`
	Priority models.AlertPriority `json:"priority"`
	Stock    int                  `json:"stock"`
	Time     time.Time            `json:"time"`
}

func (n *Notifier) AlertRaised(ctx context.Context, a models.Alert, p models.Product) {
	subject := fmt.Sprintf("⚠️ Alerta de stock: %s (%s)", p.Name, a.Priority)
	body := fmt.Sprintf("Producto: %s [%s]\nTipo: %s\nPrioridad: %s\nStock actual: %d\nStock mínimo: %d\n\n%s\n\nFecha: %s",
		p.Name, p.Code, a.Kind, a.Priority, p.StockCurrent, p.StockMinimum, a.Message, a.CreatedAt.Format(time.RFC3339))
	n.mail(n.cfg.To, subject, "text/plain", body)
	n.logAlert(ctx, a, p)
}

func (n *Notifier) AccountLocked(_ context.Context, u models.User, until time.Time) {
	subject := fmt.Sprintf("⚠️ Cuenta bloqueada: %s", u.Email)
	body := fmt.Sprintf("Usuario: %s <%s>\nIntentos fallidos: %d\nBloqueada hasta: %s",
		u.Name, u.Email, u.FailedAttempts, until.Format(time.RFC3339))
	n.mail(n.cfg.To, subject, "text/plain", body)
}

func (n *Notifier) PasswordResetRequested(_ context.Context, u models.User, token string) {
	body := fmt.Sprintf("Hola %s,\n\nUse este código para restablecer su contraseña: %s\nEl código vence en 24 horas.", u.Name, token)
	n.mail([]string{u.Email}, "Restablecer contraseña", "text/plain", body)
}

func (n *Notifier) logAlert(ctx context.Context, a models.Alert, p models.Product) {
	if n.rdb == nil {
		return
	}
	entry := AlertLogEntry{
		AlertID:  a.ID,
		Product:  p.Name,
		Code:     p.Code,
		Kind:     a.Kind,
		Priority: a.Priority,
		Stock:    p.StockCurrent,
		Time:     n.now(),
	}
	data, _ := json.Marshal(entry)
	if err := n.rdb.RPush(ctx, DailyAlertLogKey, data).Err(); err != nil {
		n.logger.Warn("log alert for digest", zap.Error(err))
	}
}

func (n *Notifier) message(to []string, subject, contentType, body string) []byte {
	return []byte(strings.Join([]string{
		"From: " + n.cfg.From,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"", contentType),
		"",
		body,
	}, "\r\n"))
}

// mail sends in the background so callers never wait on the SMTP server.
func (n *Notifier) mail(to []string, subject, contentType, body string) {
	if !n.cfg.Enabled() || len(to) == 0 {
		n.logger.Debug("mail skipped", zap.String("subject", subject))
		return
	}

	addr := fmt.Sprintf("%s:%s", n.cfg.Server, n.cfg.Port)
	var auth smtp.Auth
	if !n.cfg.AuthDisabled {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Server)
	}
	msg := n.message(to, subject, contentType, body)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.send(addr, auth, n.cfg.From, to, msg); err != nil {
			n.logger.Error("send mail", zap.String("subject", subject), zap.Error(err))
		}
	}()
}

// Wait blocks until every queued mail has been handed to the server.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// StartDailySummary mails the alert digest every day at 23:59 until ctx is done.
func (n *Notifier) StartDailySummary(ctx context.Context) {
	for {
		now := n.now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if !now.Before(next) {
			next = next.Add(24 * time.Hour)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
			if err := n.SendDailySummary(ctx); err != nil {
				n.logger.Error("daily alert summary", zap.Error(err))
			}
		}
	}
}

// SendDailySummary drains the digest and mails it. An empty digest sends nothing.
func (n *Notifier) SendDailySummary(ctx context.Context) error {
	if n.rdb == nil {
		return nil
	}
	items, err := n.rdb.LRange(ctx, DailyAlertLogKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("read alert log: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	if err := n.rdb.Del(ctx, DailyAlertLogKey).Err(); err != nil {
		return fmt.Errorf("clear alert log: %w", err)
	}

	var entries []AlertLogEntry
	for _, item := range items {
		var e AlertLogEntry
		if err := json.Unmarshal([]byte(item), &e); err == nil {
			entries = append(entries, e)
		}
	}
	n.mail(n.cfg.To, "📊 Resumen diario de alertas", "text/html", SummaryHTML(entries))
	n.logger.Info("daily alert summary sent", zap.Int("alerts", len(entries)))
	return nil
}

func countBy[K comparable](entries []AlertLogEntry, key func(AlertLogEntry) K) map[K]int {
	out := map[K]int{}
	for _, e := range entries {
		out[key(e)]++
	}
	return out
}

func sortedKeys[K ~string](m map[K]int) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// SummaryHTML renders the digest mail body.
func SummaryHTML(entries []AlertLogEntry) string {
	byKind := countBy(entries, func(e AlertLogEntry) models.AlertKind { return e.Kind })
	byProduct := countBy(entries, func(e AlertLogEntry) string { return e.Code })

	var sb strings.Builder
	sb.WriteString("<h2>📊 Resumen diario de alertas</h2>")
	sb.WriteString(fmt.Sprintf("<p>Total de alertas: <strong>%d</strong></p>", len(entries)))

	sb.WriteString("<h3>Por tipo</h3><ul>")
	for _, k := range sortedKeys(byKind) {
		sb.WriteString(fmt.Sprintf("<li><code>%s</code>: %d</li>", k, byKind[k]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Por producto</h3><ul>")
	for _, code := range sortedKeys(byProduct) {
		sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", code, byProduct[code]))
	}
	sb.WriteString("</ul>")

	sb.WriteString("<h3>Detalle</h3><ul>")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("<li><b>%s</b> [%s] %s (%s), stock %d a las %s</li>",
			e.Product, e.Code, e.Kind, e.Priority, e.Stock, e.Time.Format(time.RFC822)))
	}
	sb.WriteString("</ul>")
	return sb.String()
}
