package smtp

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufCloser struct {
	*bytes.Buffer
}

func (bufCloser) Close() error { return nil }

type fakeClient struct {
	from, to string
	data     bytes.Buffer
	rcptErr  error
	quit     bool
}

func (c *fakeClient) Mail(from string) error {
	c.from = from
	return nil
}

func (c *fakeClient) Rcpt(to string) error {
	c.to = to
	return c.rcptErr
}

func (c *fakeClient) Data() (io.WriteCloser, error) {
	return bufCloser{&c.data}, nil
}

func (c *fakeClient) Quit() error {
	c.quit = true
	return nil
}

func (c *fakeClient) Close() error {
	return nil
}

type fakeTransport struct {
	client *fakeClient
	err    error
}

func (t *fakeTransport) Connect() (Client, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "noreply@music.local" }

func TestSend(t *testing.T) {
	tests := []struct {
		name      string
		msg       Message
		transport *fakeTransport
		wantErr   error
	}{
		{
			name:      "success",
			msg:       Message{To: "alice@example.com", Subject: "Покупка", Body: "line1\nline2"},
			transport: &fakeTransport{client: &fakeClient{}},
		},
		{
			name:      "empty recipient",
			msg:       Message{Subject: "x"},
			transport: &fakeTransport{client: &fakeClient{}},
			wantErr:   ErrNoRecipient,
		},
		{
			name:      "connect error",
			msg:       Message{To: "alice@example.com"},
			transport: &fakeTransport{err: errors.New("dial failed")},
		},
		{
			name:      "rcpt rejected",
			msg:       Message{To: "alice@example.com"},
			transport: &fakeTransport{client: &fakeClient{rcptErr: errors.New("550")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Send(tt.transport, tt.msg)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.transport.err != nil || tt.transport.client.rcptErr != nil:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				c := tt.transport.client
				assert.Equal(t, "noreply@music.local", c.from)
				assert.Equal(t, "alice@example.com", c.to)
				assert.True(t, c.quit)
				assert.Contains(t, c.data.String(), "To: alice@example.com\r\n")
				assert.Contains(t, c.data.String(), "line1\r\nline2")
			}
		})
	}
}
