package flow

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/f3rmion/senti/internal/classifier"
	"github.com/f3rmion/senti/internal/sentiment"
)

const longText = "This is a sufficiently long test sentence."

type fakeClassifier struct {
	calls  atomic.Int32
	result sentiment.Result
	err    error
	texts  chan string
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (sentiment.Result, error) {
	f.calls.Add(1)
	if f.texts != nil {
		f.texts <- text
	}
	return f.result, f.err
}

type fakeRecorder struct {
	saved  []string
	ctxErr error
	err    error
}

func (r *fakeRecorder) Save(ctx context.Context, text string, res sentiment.Result) error {
	r.saved = append(r.saved, text+"|"+res.Label)
	r.ctxErr = ctx.Err()
	return r.err
}

// slowClassifier answers only once its request context has expired.
type slowClassifier struct {
	result sentiment.Result
}

func (s slowClassifier) Classify(ctx context.Context, text string) (sentiment.Result, error) {
	<-ctx.Done()
	return s.result, nil
}

func TestInitialState(t *testing.T) {
	c := NewController(&fakeClassifier{}, Options{})
	st := c.State()
	if st.Screen != ScreenForm || st.Submission != SubmissionIdle {
		t.Errorf("initial = %v/%v", st.Screen, st.Submission)
	}
	if st.CanSubmit() {
		t.Error("empty input should not be submittable")
	}
	if st.Counter() != "0 caracteres" {
		t.Errorf("counter = %q", st.Counter())
	}
}

func TestOnInputChanged(t *testing.T) {
	c := NewController(&fakeClassifier{}, Options{})

	st := c.OnInputChanged("short")
	if st.CanSubmit() || st.Advisory == "" {
		t.Errorf("short input: can=%v advisory=%q", st.CanSubmit(), st.Advisory)
	}

	st = c.OnInputChanged("   ")
	if st.Advisory != "" {
		t.Errorf("blank input advisory = %q, want empty", st.Advisory)
	}

	st = c.OnInputChanged(longText)
	if !st.CanSubmit() || st.Advisory != "" {
		t.Errorf("long input: can=%v advisory=%q", st.CanSubmit(), st.Advisory)
	}
}

func TestSubmitSuccess(t *testing.T) {
	fc := &fakeClassifier{result: sentiment.Result{Label: "positivo", Probability: 87}, texts: make(chan string, 1)}
	rec := &fakeRecorder{}
	c := NewController(fc, Options{Recorder: rec})

	c.OnInputChanged("  " + longText + "  ")
	st, ok := c.Submit(context.Background())
	if !ok {
		t.Fatal("submit rejected")
	}

	if got := <-fc.texts; got != longText {
		t.Errorf("sent %q, want trimmed text", got)
	}
	if st.Screen != ScreenResult {
		t.Errorf("screen = %v, want result", st.Screen)
	}
	if st.Submission != SubmissionIdle || st.Advisory != "" || st.Input != "" {
		t.Errorf("state after success = %+v", st)
	}
	if st.Rendering == nil || st.Rendering.Percent != 87 || st.Rendering.Entry.Label != "Positivo" {
		t.Fatalf("rendering = %+v", st.Rendering)
	}
	if st.Rendering.Text != longText {
		t.Errorf("rendered text = %q", st.Rendering.Text)
	}
	if len(rec.saved) != 1 || rec.saved[0] != longText+"|positivo" {
		t.Errorf("recorded = %v", rec.saved)
	}
}

func TestSubmitRejectsInvalid(t *testing.T) {
	fc := &fakeClassifier{}
	c := NewController(fc, Options{})

	c.OnInputChanged("exactly10!")
	before := c.State()
	if _, ok := c.OnSubmitRequested(); ok {
		t.Fatal("10 chars accepted")
	}
	st := c.State()
	if st.Submission != before.Submission || st.Screen != before.Screen {
		t.Error("rejected submit changed state")
	}
	if !strings.Contains(st.Advisory, "10") {
		t.Errorf("advisory = %q", st.Advisory)
	}
	if fc.calls.Load() != 0 {
		t.Error("classifier called for invalid input")
	}

	c.OnInputChanged("exactly11!!")
	if _, ok := c.OnSubmitRequested(); !ok {
		t.Error("11 chars rejected")
	}
}

func TestSubmitWhilePending(t *testing.T) {
	fc := &fakeClassifier{result: sentiment.Result{Label: "neutral", Probability: 40}}
	c := NewController(fc, Options{})
	c.OnInputChanged(longText)

	a, ok := c.OnSubmitRequested()
	if !ok {
		t.Fatal("first submit rejected")
	}
	pending := c.State()
	if pending.Submission != SubmissionPending || pending.Advisory != AdvisorySending || pending.CanSubmit() {
		t.Fatalf("pending state = %+v", pending)
	}

	if _, ok := c.OnSubmitRequested(); ok {
		t.Fatal("second submit accepted while pending")
	}
	if got := c.State(); got.Submission != pending.Submission || got.Advisory != pending.Advisory {
		t.Errorf("second submit changed state: %+v", got)
	}
	if inflight, ok := c.InFlight(); !ok || inflight != a {
		t.Errorf("InFlight = %+v, %v", inflight, ok)
	}

	st := c.Complete(c.Run(context.Background(), a))
	if fc.calls.Load() != 1 {
		t.Errorf("classifier calls = %d, want 1", fc.calls.Load())
	}
	if st.Screen != ScreenResult || st.Rendering.Entry.Key != sentiment.Neutral {
		t.Errorf("state = %+v", st)
	}
}

func TestInputWhilePendingKeepsSendingAdvisory(t *testing.T) {
	c := NewController(&fakeClassifier{}, Options{})
	c.OnInputChanged(longText)
	c.OnSubmitRequested()

	st := c.OnInputChanged("tiny")
	if st.Advisory != AdvisorySending {
		t.Errorf("advisory = %q", st.Advisory)
	}
}

func TestSubmitFailure(t *testing.T) {
	fc := &fakeClassifier{err: errors.New("boom")}
	c := NewController(fc, Options{})
	c.OnInputChanged(longText)

	st, ok := c.Submit(context.Background())
	if !ok {
		t.Fatal("submit rejected")
	}
	if st.Submission != SubmissionError || st.Advisory != "❌ Error: boom" {
		t.Errorf("state = %+v", st)
	}
	if st.Screen != ScreenForm || st.Input != longText || !st.CanSubmit() {
		t.Errorf("failure should keep form and input: %+v", st)
	}

	// Retry unchanged.
	fc.err = nil
	fc.result = sentiment.Result{Label: "negativo", Probability: 66}
	st, _ = c.Submit(context.Background())
	if st.Submission != SubmissionIdle || st.Screen != ScreenResult {
		t.Errorf("retry state = %+v", st)
	}
}

func TestUnrecognizedLabelKeepsRendering(t *testing.T) {
	fc := &fakeClassifier{result: sentiment.Result{Label: "positivo", Probability: 90}}
	c := NewController(fc, Options{})
	c.OnInputChanged(longText)
	first, _ := c.Submit(context.Background())
	c.OnBackRequested()

	fc.result = sentiment.Result{Label: "foo", Probability: 12}
	c.OnInputChanged("another long enough sentence")
	st, _ := c.Submit(context.Background())

	if st.Rendering != first.Rendering {
		t.Errorf("rendering replaced: %+v", st.Rendering)
	}
	if st.Submission != SubmissionIdle || st.Advisory != "" {
		t.Errorf("state = %+v", st)
	}
}

func TestStaleOutcomeIgnored(t *testing.T) {
	c := NewController(&fakeClassifier{}, Options{})
	c.OnInputChanged(longText)
	a, _ := c.OnSubmitRequested()

	st := c.Complete(Outcome{Attempt: Attempt{ID: a.ID + 1}, Err: errors.New("late")})
	if st.Submission != SubmissionPending {
		t.Errorf("stale outcome applied: %+v", st)
	}
}

func TestOnBackRequested(t *testing.T) {
	c := NewController(&fakeClassifier{err: errors.New("x")}, Options{})
	c.OnInputChanged(longText)
	c.Submit(context.Background())

	c.state = GoTo(c.state, ScreenResult)
	st := c.OnBackRequested()
	if st.Screen != ScreenForm {
		t.Errorf("screen = %v", st.Screen)
	}
	if st.Submission != SubmissionError {
		t.Errorf("back changed submission to %v", st.Submission)
	}
}

func TestRecorderFailureNotSurfaced(t *testing.T) {
	fc := &fakeClassifier{result: sentiment.Result{Label: "positivo", Probability: 51}}
	c := NewController(fc, Options{Recorder: &fakeRecorder{err: errors.New("disk full")}})
	c.OnInputChanged(longText)

	st, _ := c.Submit(context.Background())
	if st.Advisory != "" || st.Screen != ScreenResult {
		t.Errorf("state = %+v", st)
	}
}

func TestCustomMinLength(t *testing.T) {
	c := NewController(&fakeClassifier{}, Options{MinLength: 3})
	if !c.OnInputChanged("abcd").CanSubmit() {
		t.Error("4 chars should pass threshold 3")
	}
	if c.MinLength() != 3 {
		t.Errorf("MinLength = %d", c.MinLength())
	}
}

func TestEndToEndWithHTTP(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantScreen   Screen
		wantAdvisory string
	}{
		{
			name:       "success",
			status:     200,
			body:       `{"data":{"prevision":"positivo","probabilidad":0.87}}`,
			wantScreen: ScreenResult,
		},
		{
			name:         "server message",
			status:       500,
			body:         `{"message":"server overloaded"}`,
			wantScreen:   ScreenForm,
			wantAdvisory: "❌ Error: server overloaded",
		},
		{
			name:         "status only",
			status:       503,
			wantScreen:   ScreenForm,
			wantAdvisory: "❌ Error: Error 503",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewController(classifier.NewClient(srv.URL, time.Second), Options{})
			c.OnInputChanged(longText)
			st, _ := c.Submit(context.Background())

			if st.Screen != tt.wantScreen || st.Advisory != tt.wantAdvisory {
				t.Errorf("screen=%v advisory=%q", st.Screen, st.Advisory)
			}
			if tt.wantScreen == ScreenResult && st.Rendering.Percent != 87 {
				t.Errorf("percent = %d", st.Rendering.Percent)
			}
			if tt.wantScreen == ScreenForm && !st.CanSubmit() {
				t.Error("submission not re-enabled")
			}
		})
	}
}

func TestRunTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewController(classifier.NewClient(srv.URL, 10*time.Second), Options{Timeout: 50 * time.Millisecond})
	c.OnInputChanged(longText)
	st, _ := c.Submit(context.Background())

	if st.Submission != SubmissionError || !strings.HasPrefix(st.Advisory, AdvisoryErrorPrefix) {
		t.Errorf("state = %+v", st)
	}
}

func TestSlowSuccessStillRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewController(slowClassifier{result: sentiment.Result{Label: "negativo", Probability: 64}}, Options{
		Timeout:  20 * time.Millisecond,
		Recorder: rec,
	})
	c.OnInputChanged(longText)

	st, ok := c.Submit(context.Background())
	if !ok || st.Screen != ScreenResult {
		t.Fatalf("submit: ok=%v screen=%v", ok, st.Screen)
	}
	if len(rec.saved) != 1 {
		t.Fatalf("saved = %v, want one record", rec.saved)
	}
	if rec.ctxErr != nil {
		t.Errorf("history saved with expired context: %v", rec.ctxErr)
	}
}
