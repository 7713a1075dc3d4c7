// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IBRAHIM-kd/Ib-Catalog/internal/config"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/i18n"
	"github.com/IBRAHIM-kd/Ib-Catalog/internal/services/email"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (f *fakeSender) Send(to, subject, body string) error {
	f.to = to
	f.subject = subject
	f.body = body
	return f.err
}

func TestNewService_RequiresHost(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{From: "noreply@example.com"}, "http://localhost:8080")

	assert.Error(t, err)
}

func TestNewService_RequiresFrom(t *testing.T) {
	_, err := email.NewService(&config.SMTPConfig{Host: "mail.example.com"}, "http://localhost:8080")

	assert.Error(t, err)
}

func TestSendActivation(t *testing.T) {
	sender := &fakeSender{}
	svc := email.NewServiceWithSender(sender, "http://localhost:8080")

	err := svc.SendActivation(context.Background(), "alice@example.com", "alice", "MQ", "abc-token")

	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", sender.to)
	assert.NotEmpty(t, sender.subject)
	assert.Contains(t, sender.body, "alice")
	assert.Contains(t, sender.body, "http://localhost:8080/activate/MQ/abc-token")
}

func TestSendActivation_TrimsBaseURLSlash(t *testing.T) {
	sender := &fakeSender{}
	svc := email.NewServiceWithSender(sender, "http://localhost:8080/")

	err := svc.SendActivation(context.Background(), "alice@example.com", "alice", "MQ", "abc-token")

	require.NoError(t, err)
	assert.Contains(t, sender.body, "http://localhost:8080/activate/MQ/abc-token")
}

func TestSendActivation_SenderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	svc := email.NewServiceWithSender(sender, "http://localhost:8080")

	err := svc.SendActivation(context.Background(), "alice@example.com", "alice", "MQ", "abc-token")

	assert.Error(t, err)
}
