package batch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/senti/internal/classifier"
	"github.com/f3rmion/senti/internal/flow"
	"github.com/f3rmion/senti/internal/history"
)

const sample = `texto
Me encantó el servicio, volveré pronto

"Pésimo, nunca más ""jamás"""
corto
La app falla cada vez que la abro
`

// newService answers by keyword: encant is positive, Pésimo is negative and
// falla is a server error.
func newService(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		switch {
		case strings.Contains(req.Text, "encant"):
			w.Write([]byte(`{"success":true,"data":{"prevision":"Positivo","probabilidad":0.91}}`))
		case strings.Contains(req.Text, "Pésimo"):
			w.Write([]byte(`{"success":true,"data":{"prevision":"negativo","probabilidad":0.8}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"modelo no disponible"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestReadTexts(t *testing.T) {
	texts, err := ReadTexts(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, []Text{
		{Line: 2, Value: "Me encantó el servicio, volveré pronto"},
		{Line: 4, Value: `Pésimo, nunca más "jamás"`},
		{Line: 5, Value: "corto"},
		{Line: 6, Value: "La app falla cada vez que la abro"},
	}, texts)
}

func TestReadTextsHeaderOnlyOnFirstLine(t *testing.T) {
	texts, err := ReadTexts(strings.NewReader("Great product overall\nfeedback was requested by email\n"))
	require.NoError(t, err)
	require.Len(t, texts, 2)
	require.Equal(t, "feedback was requested by email", texts[1].Value)
}

func TestRun(t *testing.T) {
	srv, calls := newService(t)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctrl := flow.NewController(classifier.NewClient(srv.URL, time.Second), flow.Options{Recorder: store})
	texts, err := ReadTexts(strings.NewReader(sample))
	require.NoError(t, err)

	s, err := Run(context.Background(), ctrl, texts, nil)
	require.NoError(t, err)
	require.Equal(t, int32(3), calls.Load(), "short text must not be sent")
	require.Equal(t, 3, s.Total)
	require.Equal(t, 2, s.Successful)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Skipped)
	require.Equal(t, 1, s.Positive)
	require.Equal(t, 1, s.Negative)
	require.Equal(t, 0, s.Neutral)
	require.Equal(t,
		"Se procesaron 3 textos del archivo CSV (2 exitosos, 1 fallidos). Sentimientos: 1 positivos, 0 neutrales, 1 negativos",
		s.Message())

	require.Len(t, s.Items, 4)
	require.Equal(t, "Positivo", s.Items[0].Label)
	require.Equal(t, 91, s.Items[0].Percent)
	require.True(t, s.Items[2].Skipped)
	require.EqualError(t, s.Items[3].Err, "modelo no disponible")

	records, err := store.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestRunNoValidTexts(t *testing.T) {
	srv, calls := newService(t)
	ctrl := flow.NewController(classifier.NewClient(srv.URL, time.Second), flow.Options{})

	s, err := Run(context.Background(), ctrl, []Text{{Line: 1, Value: "corto"}, {Line: 2, Value: "breve"}}, nil)
	require.ErrorIs(t, err, ErrNoTexts)
	require.Equal(t, 2, s.Skipped)
	require.Zero(t, calls.Load())
}

func TestRunCanceled(t *testing.T) {
	srv, calls := newService(t)
	ctrl := flow.NewController(classifier.NewClient(srv.URL, time.Second), flow.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, ctrl, []Text{{Line: 1, Value: "Me encantó el servicio"}}, nil)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, calls.Load())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(filepath.Join(dir, "comentarios.txt"))
	require.ErrorContains(t, err, ".csv")

	empty := filepath.Join(dir, "vacio.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = Open(empty)
	require.ErrorIs(t, err, ErrEmptyFile)

	ok := filepath.Join(dir, "Comentarios.CSV")
	require.NoError(t, os.WriteFile(ok, []byte(sample), 0644))
	f, err := Open(ok)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
