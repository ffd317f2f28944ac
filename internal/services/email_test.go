package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	return "subject:" + templateName, "<p>html</p>", "text", nil
}

type recordingMailer struct {
	to, subject string
}

func (m *recordingMailer) Send(to, subject, html, text string) error {
	m.to, m.subject = to, subject
	return nil
}

func TestEmailService_SendConferenceCreated(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewEmailService(mailer, fakeRenderer{})

	err := svc.SendConferenceCreated(context.Background(), &domain.ConferenceCreatedEmailData{
		Email:          "ada@example.com",
		ConferenceName: "GopherCon",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", mailer.to)
	assert.Equal(t, "subject:conference_created", mailer.subject)
}
