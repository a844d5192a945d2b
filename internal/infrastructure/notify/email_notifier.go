// Package notify entrega avisos de saldo bajo (correo SMTP o log).
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger/internal/application/alerts"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

var _ alerts.Notifier = (*EmailNotifier)(nil)

// sender abstrae gomail.Dialer para pruebas.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier envía un correo por alerta nueva al destinatario configurado.
type EmailNotifier struct {
	dialer sender
	from   string
	to     string
}

// NewEmailNotifier construye el notificador desde la configuración SMTP.
func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		to:     cfg.AlertEmail,
	}
}

// NotifyLowBalance arma y envía el mensaje. El contexto solo se consulta antes de enviar.
func (n *EmailNotifier) NotifyLowBalance(ctx context.Context, alert *entity.LowBalanceAlert, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := BuildLowBalanceMessage(n.from, n.to, alert, item)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar alerta de saldo bajo: %w", err)
	}
	return nil
}

// BuildLowBalanceMessage construye el correo de alerta.
func BuildLowBalanceMessage(from, to string, alert *entity.LowBalanceAlert, item *entity.Item) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Saldo bajo: %s (%s)", item.Name, item.Code))
	m.SetBody("text/plain", fmt.Sprintf(
		"El ítem %s (%s) tiene saldo %d, en o por debajo del mínimo %d.\nAlerta: %s\nGenerada: %s\n",
		item.Name, item.Code, alert.BalanceSnapshot, alert.MinimumSnapshot,
		alert.ID, alert.CreatedAt.Format("2006-01-02 15:04:05 MST"),
	))
	return m
}
