package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
)

func TestNewPublisher_DisabledReturnsNil(t *testing.T) {
	p, err := NewPublisher(appcfg.EventsConfig{Enabled: false})
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestPublisher_NilReceiverIsNoOp(t *testing.T) {
	var p *Publisher

	err := p.Publish(ChatEvent{
		Type:           EventQuestionAsked,
		ConversationID: "conv-1",
		Query:          "how do I install?",
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}
