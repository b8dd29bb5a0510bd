package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/config"
	"payment_gateway/internal/usecase/interfaces"
)

const defaultSMTPTimeout = 10 * time.Second

type sendMailFunc func(ctx context.Context, from string, to []string, msg []byte) error

// SMTPNotifier mails a "payment completed" message to the operator address.
type SMTPNotifier struct {
	cfg      config.EmailConfig
	payments interfaces.IPaymentRepository
	send     sendMailFunc
	now      func() time.Time
}

var _ interfaces.INotifier = (*SMTPNotifier)(nil)

// NewNotifier returns the SMTP notifier when every EMAIL_* setting is present and a
// log-only notifier otherwise.
func NewNotifier(cfg config.EmailConfig, payments interfaces.IPaymentRepository) interfaces.INotifier {
	if !cfg.Enabled() {
		log.Printf("[notification] email environment variables missing; payment notifications are only logged")
		return LogNotifier{}
	}
	return NewSMTPNotifier(cfg, payments)
}

func NewSMTPNotifier(cfg config.EmailConfig, payments interfaces.IPaymentRepository) *SMTPNotifier {
	if cfg.NotifyTo == "" {
		cfg.NotifyTo = cfg.User
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	n := &SMTPNotifier{
		cfg:      cfg,
		payments: payments,
		now:      func() time.Time { return time.Now().UTC() },
	}
	n.send = n.sendMail
	return n
}

func (n *SMTPNotifier) NotifyPaymentCompleted(ctx context.Context, subjectID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrNotify, err)
	}

	rec := n.lookup(ctx, subjectID)
	if err := n.send(ctx, n.cfg.User, []string{n.cfg.NotifyTo}, n.message(subjectID, rec)); err != nil {
		log.Printf("[notification][smtp] send failed subject_id=%s err=%v", subjectID, err)
		return fmt.Errorf("%w: %w", entities.ErrNotify, err)
	}
	log.Printf("[notification][smtp] payment completed mail sent subject_id=%s to=%s", subjectID, n.cfg.NotifyTo)
	return nil
}

// lookup resolves the subject as a provider payment id and then as our external id,
// preferring the most recently updated attempt. The mail is still sent without it.
func (n *SMTPNotifier) lookup(ctx context.Context, subjectID string) entities.PaymentRecord {
	if n.payments == nil {
		return entities.PaymentRecord{}
	}
	if p, err := n.payments.GetByID(ctx, subjectID); err == nil && p.ID != "" {
		return p
	}
	recs, err := n.payments.ListByExternalID(ctx, subjectID)
	if err != nil {
		log.Printf("[notification][smtp] payment lookup failed subject_id=%s err=%v", subjectID, err)
		return entities.PaymentRecord{}
	}
	var best entities.PaymentRecord
	for _, p := range recs {
		if best.ID == "" || p.UpdatedAt.After(best.UpdatedAt) {
			best = p
		}
	}
	return best
}

// Verify opens an authenticated session and quits without sending.
func (n *SMTPNotifier) Verify(ctx context.Context) error {
	c, done, err := n.dial(ctx)
	if err != nil {
		return err
	}
	defer done()
	return c.Quit()
}

func (n *SMTPNotifier) sendMail(ctx context.Context, from string, to []string, msg []byte) error {
	c, done, err := n.dial(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// dial connects under ctx and bounds the whole session by the configured timeout.
// Port 465 uses implicit TLS; other ports upgrade with STARTTLS when offered.
func (n *SMTPNotifier) dial(ctx context.Context) (*smtp.Client, func(), error) {
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	deadline := time.Now().Add(n.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, err
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, nil, err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	tlsCfg := &tls.Config{ServerName: n.cfg.Host, MinVersion: tls.VersionTLS12}
	if n.cfg.Port == 465 {
		conn = tls.Client(conn, tlsCfg)
	}
	c, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		stop()
		conn.Close()
		return nil, nil, err
	}
	done := func() {
		stop()
		c.Close()
	}
	if err := n.handshake(c, tlsCfg); err != nil {
		done()
		return nil, nil, err
	}
	return c, done, nil
}

func (n *SMTPNotifier) handshake(c *smtp.Client, tlsCfg *tls.Config) error {
	if err := c.Hello("localhost"); err != nil {
		return err
	}
	if ok, _ := c.Extension("STARTTLS"); ok && n.cfg.Port != 465 {
		if err := c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)); err != nil {
			return err
		}
	}
	return nil
}

func (n *SMTPNotifier) message(subjectID string, rec entities.PaymentRecord) []byte {
	var body strings.Builder
	fmt.Fprintf(&body, "Payment %s was completed.\r\n", headerValue(subjectID))
	if rec.ID != "" {
		fmt.Fprintf(&body, "\r\nProvider: %s\r\nPayment id: %s\r\nExternal id: %s\r\n", rec.Provider, headerValue(rec.ID), headerValue(rec.ExternalID))
		if amount, err := entities.FromMinorUnits(rec.AmountMinorUnits, rec.Currency); err == nil {
			fmt.Fprintf(&body, "Amount: %s %s\r\n", amount.StringFixed(2), rec.Currency)
		}
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: Payment Gateway <%s>\r\n", headerValue(n.cfg.User))
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(n.cfg.NotifyTo))
	fmt.Fprintf(&msg, "Subject: Payment completed %s\r\n", headerValue(subjectID))
	fmt.Fprintf(&msg, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body.String())
	return []byte(msg.String())
}

// headerValue drops control characters so caller data cannot start a new header line.
func headerValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// LogNotifier only writes the notification to the log.
type LogNotifier struct{}

func (LogNotifier) NotifyPaymentCompleted(_ context.Context, subjectID string) error {
	log.Printf("[notification][log] payment completed subject_id=%s", subjectID)
	return nil
}
