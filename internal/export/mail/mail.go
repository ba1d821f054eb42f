// Package mail sends a batch as a CSV attachment.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"leadsearch/internal/components/chrono"
	"leadsearch/internal/components/telemetry"
	"leadsearch/internal/export"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("leadsearch/internal/export/mail")

const report_sink_write = "sink.write"

type Config struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
}

func (c Config) Validate() error {
	if c.Server == "" || c.Port == 0 {
		return errors.New("mail: smtp server is not configured")
	}
	if c.EmailAddress == "" {
		return errors.New("mail: sender address is not configured")
	}
	if len(c.To) == 0 {
		return errors.New("mail: no recipients configured")
	}
	return nil
}

type Sink struct {
	config Config
	// Subject is included in the mail subject line, usually the query.
	Subject string
	time    chrono.API
	tel     telemetry.API
}

func NewSink(config Config, subject string, time chrono.API, tel telemetry.API) (Sink, error) {
	if err := config.Validate(); err != nil {
		return Sink{}, err
	}
	return Sink{
		config:  config,
		Subject: subject,
		time:    time,
		tel:     telemetry.NewScopedAPI("mail", tel),
	}, nil
}

func (s Sink) Write(ctx context.Context, batch export.Batch) error {
	_, span := tracer.Start(ctx, "Sink.Write")
	defer span.End()

	if batch.Len() == 0 {
		return export.ErrEmptyBatch
	}

	var attachment bytes.Buffer
	if err := export.WriteCSV(&attachment, batch); err != nil {
		return err
	}

	now := s.time.Now()
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Lead Search <%s>", s.config.EmailAddress)
	mail.To = s.config.To
	mail.Subject = fmt.Sprintf("Search results: %s", s.Subject)
	mail.Text = []byte(fmt.Sprintf(
		"%d results for \"%s\" collected on %s are attached.\n",
		batch.Len(), s.Subject, now.Format("2006-01-02 15:04"),
	))
	_, err := mail.Attach(&attachment, fmt.Sprintf("leads-%s.csv", now.Format("20060102-150405")), "text/csv")
	if err != nil {
		return fmt.Errorf("mail: attach: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server, s.config.Port)
	err = mail.Send(addr, smtp.PlainAuth("", s.config.EmailAddress, s.config.Password, s.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		s.tel.ReportBroken(report_sink_write, err, addr)
		return fmt.Errorf("mail: send: %w", err)
	}

	s.tel.ReportCount(report_sink_write, int64(batch.Len()))
	return nil
}
