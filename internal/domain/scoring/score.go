package scoring

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// differencePlaces bounds score differences so float noise from averaging
// cannot flip a tie into above or below par.
const differencePlaces = 9

// ScoreQuestion normalizes a selected option position to 0..100. The second
// result is false when the question counts as unanswered.
func ScoreQuestion(position, totalOptions int, answered bool) (float64, bool) {
	if !answered || totalOptions <= 0 || position < 0 || position >= totalOptions {
		return 0, false
	}
	if totalOptions == 1 {
		return 100, true
	}
	return float64(position) / float64(totalOptions-1) * 100, true
}

// Summarize scores one answer-set against the schema. Unanswered questions
// are excluded from the overall mean.
func Summarize(schema Schema, answers map[string]json.RawMessage) ScoreSummary {
	summary := ScoreSummary{
		TotalQuestions: len(schema.Questions),
		QuestionScores: make([]QuestionScore, 0, len(schema.Questions)),
	}

	var total float64
	for _, question := range schema.Questions {
		result := QuestionScore{QuestionID: question.ID, Text: question.Text}

		if raw, ok := answers[question.ID]; ok {
			position, answered := question.Position(raw)
			if score, ok := ScoreQuestion(position, len(question.Options), answered); ok {
				result.Answered = true
				result.Position = &position
				result.Score = &score
				total += score
				summary.AnsweredQuestions++
			}
		}

		summary.QuestionScores = append(summary.QuestionScores, result)
	}

	if summary.AnsweredQuestions > 0 {
		summary.OverallScore = total / float64(summary.AnsweredQuestions)
	}
	return summary
}

// ScoreSubmission parses raw response data and scores it.
func ScoreSubmission(schema Schema, responseData []byte) (ScoreSummary, error) {
	answers, err := ParseAnswers(responseData)
	if err != nil {
		return ScoreSummary{}, err
	}
	return Summarize(schema, answers), nil
}

func classify(difference float64) PerformanceLevel {
	switch {
	case difference > 0:
		return PerformanceAbovePar
	case difference < 0:
		return PerformanceBelowPar
	default:
		return PerformanceAtPar
	}
}

// difference returns a - b snapped to differencePlaces.
func difference(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(differencePlaces).InexactFloat64()
}

// percentOf returns difference relative to base in percent, or 0 for a zero base.
func percentOf(difference, base float64) float64 {
	if base == 0 {
		return 0
	}
	return difference / base * 100
}

// mean accumulates in decimal so equal inputs always average to the same value.
type mean struct {
	sum   decimal.Decimal
	count int
}

func (m *mean) add(v float64) {
	m.sum = m.sum.Add(decimal.NewFromFloat(v))
	m.count++
}

func (m mean) value() (float64, bool) {
	if m.count == 0 {
		return 0, false
	}
	return m.sum.Div(decimal.NewFromInt(int64(m.count))).InexactFloat64(), true
}

func (m mean) ptr() *float64 {
	v, ok := m.value()
	if !ok {
		return nil
	}
	return &v
}
