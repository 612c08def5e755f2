// Package batch classifies every text of a CSV file through a flow.Controller,
// so each line gets the same validation, history and error handling as a
// text typed into the form.
package batch

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/senti/internal/flow"
	"github.com/f3rmion/senti/internal/sentiment"
)

// MaxFileSize is the largest CSV file accepted.
const MaxFileSize = 10 << 20

// Extension is the required file extension.
const Extension = ".csv"

var (
	ErrEmptyFile = errors.New("el archivo no puede estar vacío")
	ErrNoTexts   = errors.New("no se encontraron textos válidos en el archivo CSV")
)

// headerWords mark a first line as a column header.
var headerWords = []string{"texto", "text", "mensaje", "message", "comentario", "comment", "feedback"}

// Text is one candidate line of the input file.
type Text struct {
	Line  int
	Value string
}

// Item is the outcome for one Text.
type Item struct {
	Text
	Label   string // Empty unless the text was classified
	Percent int
	Skipped bool   // Rejected by validation, never sent
	Err     error  // Set when the request failed
}

// Summary aggregates a batch run. Total counts texts that were sent.
type Summary struct {
	Total      int
	Successful int
	Failed     int
	Skipped    int
	Positive   int
	Neutral    int
	Negative   int
	Items      []Item
}

// Message formats the summary the way the classification service reports a
// batch upload.
func (s Summary) Message() string {
	return fmt.Sprintf("Se procesaron %d textos del archivo CSV (%d exitosos, %d fallidos). Sentimientos: %d positivos, %d neutrales, %d negativos",
		s.Total, s.Successful, s.Failed, s.Positive, s.Neutral, s.Negative)
}

// Open checks path against the size and extension limits and opens it.
func Open(path string) (*os.File, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return nil, fmt.Errorf("el archivo debe tener extensión %s: %s", Extension, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading csv file: %w", err)
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("el archivo no puede superar los %dMB", MaxFileSize>>20)
	}

	return os.Open(path)
}

// ReadTexts returns the non-blank lines of r. A first line that names a text
// column is skipped. Fields split on unquoted commas are joined back, since
// each line is one text.
func ReadTexts(r io.Reader) ([]Text, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true

	var texts []Text
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv: %w", err)
		}
		line, _ := csvr.FieldPos(0)

		value := strings.TrimSpace(strings.Join(rec, ","))
		if value == "" {
			continue
		}
		if line == 1 && isHeader(value) {
			continue
		}
		texts = append(texts, Text{Line: line, Value: value})
	}
	return texts, nil
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Run submits each text in order. It stops early only when ctx is done, and
// returns ErrNoTexts when every text was rejected by validation.
func Run(ctx context.Context, ctrl *flow.Controller, texts []Text, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var s Summary
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return s, err
		}

		item := Item{Text: t}
		ctrl.OnInputChanged(t.Value)
		a, ok := ctrl.OnSubmitRequested()
		if !ok {
			item.Skipped = true
			s.Skipped++
			s.Items = append(s.Items, item)
			logger.Warn("batch text skipped", "line", t.Line, "chars", sentiment.Length(t.Value))
			continue
		}

		o := ctrl.Run(ctx, a)
		ctrl.Complete(o)
		s.Total++

		if o.Err != nil {
			item.Err = o.Err
			s.Failed++
			logger.Error("batch text failed", "line", t.Line, "progress", fmt.Sprintf("%d/%d", i+1, len(texts)), "error", o.Err)
		} else {
			item.Label = o.Result.Label
			item.Percent = o.Result.Probability
			s.Successful++
			switch l, _ := sentiment.ParseLabel(o.Result.Label); l {
			case sentiment.Positive:
				s.Positive++
			case sentiment.Neutral:
				s.Neutral++
			case sentiment.Negative:
				s.Negative++
			}
			logger.Info("batch text classified", "line", t.Line, "progress", fmt.Sprintf("%d/%d", i+1, len(texts)), "label", o.Result.Label)
		}
		s.Items = append(s.Items, item)
	}

	if s.Total == 0 {
		return s, ErrNoTexts
	}
	return s, nil
}
