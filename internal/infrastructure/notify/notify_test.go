package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func sampleAlert() (*entity.LowBalanceAlert, *entity.Item) {
	item := &entity.Item{ID: "item-1", Code: "TOR-001", Name: "Tornillo", Balance: 3, Minimum: 5}
	alert := &entity.LowBalanceAlert{ID: "alert-1", ItemID: item.ID, BalanceSnapshot: 3, MinimumSnapshot: 5, CreatedAt: time.Now().UTC()}
	return alert, item
}

func TestEmailNotifier_EnviaMensaje(t *testing.T) {
	fs := &fakeSender{}
	n := &EmailNotifier{dialer: fs, from: "no-reply@test", to: "ops@test"}
	alert, item := sampleAlert()

	require.NoError(t, n.NotifyLowBalance(context.Background(), alert, item))
	require.Len(t, fs.sent, 1)
	assert.Equal(t, []string{"Saldo bajo: Tornillo (TOR-001)"}, fs.sent[0].GetHeader("Subject"))
	assert.Equal(t, []string{"ops@test"}, fs.sent[0].GetHeader("To"))

	var buf bytes.Buffer
	_, err := fs.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "saldo 3")
}

func TestEmailNotifier_PropagaError(t *testing.T) {
	n := &EmailNotifier{dialer: &fakeSender{err: errors.New("smtp caído")}, from: "a@test", to: "b@test"}
	alert, item := sampleAlert()
	assert.Error(t, n.NotifyLowBalance(context.Background(), alert, item))
}

func TestLogNotifier_Registra(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.New(logger.Config{Level: "debug", Out: &buf}))
	alert, item := sampleAlert()

	require.NoError(t, n.NotifyLowBalance(context.Background(), alert, item))
	assert.Contains(t, buf.String(), "TOR-001")
	assert.Contains(t, buf.String(), "saldo bajo")
}
