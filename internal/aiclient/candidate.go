package aiclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/model"
)

// messageContent decodes the two shapes chat endpoints use for message
// content, in a fixed order: a plain JSON string first, then a list of
// typed parts whose text parts are concatenated. Anything else is
// malformed.
type messageContent struct {
	text string
}

func (m *messageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.text = s
		return nil
	}
	var parts []contentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		var b strings.Builder
		for _, p := range parts {
			if p.Type == "text" {
				b.WriteString(p.Text)
			}
		}
		m.text = b.String()
		return nil
	}
	return fmt.Errorf("%w: content is neither string nor parts", ErrMalformedResponse)
}

// candidateDoc is the JSON document the model is prompted to emit.
type candidateDoc struct {
	Title          string      `json:"title"`
	Date           string      `json:"date"`
	Time           string      `json:"time"`
	Amount         json.Number `json:"amount"`
	Category       string      `json:"category"`
	IsExpense      bool        `json:"isExpense"`
	RecognizedText string      `json:"recognizedText"`
}

func decodeCandidate(content string, ref time.Time) (*Candidate, error) {
	var doc candidateDoc
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &Candidate{
		Record:         doc.record(ref),
		RecognizedText: doc.RecognizedText,
	}, nil
}

// record builds the candidate. The result is deliberately not normalized:
// a blank title or missing amount stays blank so the reconciler can fill
// the gap from the locally extracted record.
func (d candidateDoc) record(ref time.Time) model.Record {
	day := model.StartOfDay(ref)
	if t, err := time.ParseInLocation("2006-01-02", d.Date, ref.Location()); err == nil {
		day = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ref.Location())
	}
	occurs := day
	if t, err := time.Parse("15:04", d.Time); err == nil {
		occurs = time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
	}

	rec := model.Record{
		ID:          id.NewRecordID(),
		Title:       strings.TrimSpace(d.Title),
		OccursAt:    occurs,
		Category:    model.Category(d.Category),
		IsExpense:   d.IsExpense,
		ShareSize:   1,
		SplitMethod: model.SplitPersonal,
	}
	if !rec.Category.Valid() {
		rec.Category = model.CategoryOther
	}
	if d.Amount != "" {
		if amt, err := decimal.NewFromString(d.Amount.String()); err == nil && !amt.IsNegative() {
			rec.Amount = &amt
		}
	}
	return rec
}
