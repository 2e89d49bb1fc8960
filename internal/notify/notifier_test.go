package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/hookbot/internal/notify/mocks"
	"github.com/mattjoyce/hookbot/internal/render"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierSend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("mock").AnyTimes()
	transport.EXPECT().
		SendMarkdown(gomock.Any(), "42", "header\n\nbody\nfooter").
		Return(nil)

	n := New(transport, discardLogger())
	err := n.Send(context.Background(), "42", render.Message{Header: "header", Body: "body", Footer: "footer"})
	require.NoError(t, err)
	assert.Equal(t, "mock", n.Transport())
}

func TestNotifierSend_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("chat not found")
	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("mock").AnyTimes()
	transport.EXPECT().SendMarkdown(gomock.Any(), "42", "hi").Return(boom)

	n := New(transport, discardLogger())
	err := n.Send(context.Background(), "42", render.Message{Header: "hi"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDelivery))
	assert.True(t, errors.Is(err, boom))
}

func TestNotifierSend_TruncatesLongBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var sent string
	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().Name().Return("mock").AnyTimes()
	transport.EXPECT().
		SendMarkdown(gomock.Any(), "42", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, text string) error {
			sent = text
			return nil
		})

	n := New(transport, discardLogger())
	err := n.Send(context.Background(), "42", render.Message{Header: "h", Body: strings.Repeat("x", 5000)})
	require.NoError(t, err)

	assert.Less(t, utf8.RuneCountInString(sent), render.DefaultLimit)
	assert.Contains(t, sent, render.TruncationMarker)
}

type limitedTransport struct {
	sent []string
}

func (l *limitedTransport) Name() string          { return "limited" }
func (l *limitedTransport) MaxMessageLength() int { return 100 }
func (l *limitedTransport) SendMarkdown(_ context.Context, _, text string) error {
	l.sent = append(l.sent, text)
	return nil
}

func TestNotifierSend_RespectsTransportLimit(t *testing.T) {
	lt := &limitedTransport{}
	n := New(lt, discardLogger())

	err := n.Send(context.Background(), "42", render.Message{Header: "h", Body: strings.Repeat("y", 500)})
	require.NoError(t, err)
	require.Len(t, lt.sent, 1)
	assert.LessOrEqual(t, utf8.RuneCountInString(lt.sent[0]), 100)
}
