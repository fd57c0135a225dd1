package suggestions

import (
	"testing"

	"github.com/stretchr/testify/require"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
)

func newRotator(t *testing.T, questions []string, visible int) *Rotator {
	t.Helper()
	r, err := NewRotator(appcfg.SuggestionsConfig{
		Questions:      questions,
		Visible:        visible,
		RotateInterval: "1h",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Stop() })
	return r
}

func TestRotator_CurrentWindow(t *testing.T) {
	r := newRotator(t, []string{"a", "b", "c", "d"}, 2)
	require.Equal(t, []string{"a", "b"}, r.Current())
}

func TestRotator_AdvanceWraps(t *testing.T) {
	r := newRotator(t, []string{"a", "b", "c"}, 2)

	r.Advance()
	require.Equal(t, []string{"b", "c"}, r.Current())
	r.Advance()
	require.Equal(t, []string{"c", "a"}, r.Current())
	r.Advance()
	require.Equal(t, []string{"a", "b"}, r.Current())
}

func TestRotator_VisibleClampedToQuestionCount(t *testing.T) {
	r := newRotator(t, []string{"only"}, 5)
	require.Equal(t, []string{"only"}, r.Current())

	// A full window never rotates, but Advance stays safe.
	r.Advance()
	require.Equal(t, []string{"only"}, r.Current())
}

func TestRotator_NoQuestions(t *testing.T) {
	r := newRotator(t, nil, 3)
	require.Empty(t, r.Current())
	r.Advance()
	require.Empty(t, r.Current())
}
