package coach

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachgolf/go_coach/internal/engine"
	"github.com/coachgolf/go_coach/internal/kb"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("no history", func(t *testing.T) {
		got := buildPrompt(nil, "quina es la regla del fora de limits?", "")
		assert.Equal(t, "Usuari: quina es la regla del fora de limits?", got)
	})

	t.Run("with history and hint", func(t *testing.T) {
		history := []Message{
			{Role: "user", Content: "com agafo el pal?"},
			{Role: "assistant", Content: "amb el grip neutre"},
			{Role: "system", Content: "ignored"},
		}
		got := buildPrompt(history, "i el stance?", "catala")
		want := "Usuari: com agafo el pal?\n" +
			"Entrenador: amb el grip neutre\n\n" +
			"Usuari: i el stance?\n\n(Respon en catala.)"
		assert.Equal(t, want, got)
	})
}

func TestSystemPrompt(t *testing.T) {
	store := openTestStore(t)

	t.Run("empty asset falls back to persona", func(t *testing.T) {
		c := New(kb.Asset{}, store)
		assert.False(t, c.HasKnowledge())
		assert.Equal(t, kb.SystemInstruction, c.systemPrompt())
	})

	t.Run("knowledge appended after separator", func(t *testing.T) {
		asset := kb.Asset{SystemInstruction: "persona", Knowledge: "=== Video 1 ===\nhola"}
		c := New(asset, store)
		assert.True(t, c.HasKnowledge())
		got := c.systemPrompt()
		assert.True(t, strings.HasPrefix(got, "persona"))
		assert.Contains(t, got, "CONTINGUT DELS VIDEOS:")
		assert.True(t, strings.HasSuffix(got, "hola"))
	})
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	c := New(kb.Asset{}, openTestStore(t))
	_, err := c.Ask(context.Background(), "", "   \n ")
	assert.Error(t, err)
}

func TestVideoMimeType(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "swing.mp4", want: "video/mp4"},
		{path: "SWING.MOV", want: "video/quicktime"},
		{path: "clip.avi", want: "video/x-msvideo"},
		{path: "clip.webm", wantErr: true},
		{path: "noext", wantErr: true},
	}
	for _, tt := range tests {
		got, err := videoMimeType(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
}

func TestWaitForFileTerminalStates(t *testing.T) {
	c := New(kb.Asset{}, openTestStore(t))

	active := geminiFile{Name: "files/abc", State: fileStateActive}
	got, err := c.waitForFile(context.Background(), active)
	require.NoError(t, err)
	assert.Equal(t, active, got)

	failed := geminiFile{Name: "files/abc", State: "FAILED"}
	_, err = c.waitForFile(context.Background(), failed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILED")
}

// stuckProcessingTransport answers every file poll with PROCESSING.
type stuckProcessingTransport struct{ polls int }

func (s *stuckProcessingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.polls++
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"name":"files/abc","uri":"u","mimeType":"video/mp4","state":"PROCESSING"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestWaitForFileBudgetBounded(t *testing.T) {
	stub := &stuckProcessingTransport{}
	prev := *engine.Cfg
	engine.Init(engine.Config{
		GeminiAPIBase:     "https://gemini.invalid",
		VideoPollInterval: time.Millisecond,
		VideoPollBudget:   20 * time.Millisecond,
		HTTPClient:        &http.Client{Transport: stub},
	})
	t.Cleanup(func() { engine.Init(prev) })

	c := New(kb.Asset{}, openTestStore(t))
	_, err := c.waitForFile(context.Background(), geminiFile{Name: "files/abc", State: fileStateProcessing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still processing")
	assert.Greater(t, stub.polls, 0)
}

func TestResponseLangHint(t *testing.T) {
	// Detection is a best-effort hint: an unreliable read must hint
	// nothing rather than guess, and a confident read maps to the
	// three names the prompt understands.
	assert.Empty(t, responseLangHint("ok"))

	english := "Good morning, could you please explain in detail how I should " +
		"improve my golf swing technique during the next training sessions?"
	if got := responseLangHint(english); got != "" {
		assert.Equal(t, "angles", got)
	}

	catalan := "Bon dia! M'agradaria que m'expliquessis com puc millorar el meu " +
		"cop de sortida, perque sempre em surt la pilota cap a la dreta i no se " +
		"que estic fent malament amb els canells."
	if got := responseLangHint(catalan); got != "" {
		assert.Equal(t, "catala", got)
	}
}
