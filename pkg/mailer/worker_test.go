package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	args := m.Called(ctx, to, subject, text, html)
	return args.Error(0)
}

func TestProcess_Template(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, "a@x.com", "Welcome to DevConnector",
		mock.MatchedBy(func(text string) bool { return assert.Contains(t, text, "Hi Ann,") }),
		mock.MatchedBy(func(html string) bool { return assert.Contains(t, html, "Welcome to DevConnector, Ann!") }),
	).Return(nil)

	err := Process(context.Background(), []byte(`{"to":"a@x.com","template":"welcome","data":{"Name":"Ann"}}`), s)
	require.NoError(t, err)
	s.AssertExpectations(t)
}

func TestProcess_Raw(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, "a@x.com", "hello", "body", "").Return(nil)

	err := Process(context.Background(), []byte(`{"to":"a@x.com","subject":"hello","text":"body"}`), s)
	require.NoError(t, err)
	s.AssertExpectations(t)
}

func TestProcess_BadJobs(t *testing.T) {
	tests := map[string]string{
		"invalid json":     `{`,
		"no recipient":     `{"subject":"x","text":"y"}`,
		"unknown template": `{"to":"a@x.com","template":"nope"}`,
		"empty message":    `{"to":"a@x.com"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			s := &mockSender{}
			err := Process(context.Background(), []byte(body), s)
			assert.ErrorIs(t, err, ErrBadJob)
			s.AssertNotCalled(t, "Send")
		})
	}
}

func TestProcess_SendFailureIsRetryable(t *testing.T) {
	s := &mockSender{}
	s.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("mailgun down"))

	err := Process(context.Background(), []byte(`{"to":"a@x.com","template":"account_deleted","data":{"Name":"Ann","AppName":"Dev"}}`), s)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadJob)
}
