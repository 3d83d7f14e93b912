package aitext

import (
	"fmt"
	"strings"

	"github.com/ecospark/ewaste-server/internal/model"
)

// QuizSize is the number of questions every parsed quiz contains.
const QuizSize = 5

// quizState names where the line scanner is within a question block.
type quizState int

const (
	awaitingQuestion quizState = iota
	collectingOptions
)

var questionMarkers = []string{"1.", "2.", "3.", "4.", "5.", "Q1", "Q2", "Q3", "Q4", "Q5"}

var answerPrefixes = []string{"ANSWER:", "CORRECT:", "ANS:"}

// ParseQuiz extracts multiple-choice questions from raw provider text and
// always returns exactly QuizSize questions, each with four uniquely
// labeled options and an answer in A-D. Incomplete questions are dropped
// and the set is padded with a fixed template.
//
// Line grammar: a numbering marker (1.-5. or Q1-Q5) starts a question
// whose prompt is the text after the first "."; lines starting with
// A:/B:/C:/D: (or A)..D)) add options; an ANSWER:/CORRECT:/ANS: line sets
// the answer to the first of A, B, C, D (checked in that order) present
// anywhere in the uppercased line. The prefix letters count, so an
// ANSWER:-prefixed line always resolves to A. A question commits when
// the next marker is seen or the input ends.
func ParseQuiz(raw string) []model.QuizQuestion {
	var (
		questions []model.QuizQuestion
		current   model.QuizQuestion
		state     = awaitingQuestion
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(questions) >= QuizSize {
			break
		}
		upper := strings.ToUpper(line)

		switch {
		case isQuestionMarker(upper):
			if state == collectingOptions {
				questions = append(questions, current)
			}
			current = model.QuizQuestion{Prompt: questionPrompt(line)}
			state = collectingOptions

		case state == collectingOptions && isOptionLine(upper):
			current.Options = append(current.Options, model.QuizOption{
				Label: upper[:1],
				Text:  strings.TrimSpace(line[2:]),
			})

		case state == collectingOptions:
			if hasAnswerPrefix(upper) {
				if label, found := answerLabel(upper); found {
					current.Answer = label
				}
			}
		}
	}
	if state == collectingOptions && len(questions) < QuizSize {
		questions = append(questions, current)
	}

	questions = filterComplete(questions)
	for len(questions) < QuizSize {
		questions = append(questions, TemplateQuestion(len(questions)+1))
	}
	return questions[:QuizSize]
}

// TemplateQuestion is the fixed padding question used when generation
// yields fewer than QuizSize usable questions.
func TemplateQuestion(idx int) model.QuizQuestion {
	return model.QuizQuestion{
		Prompt: fmt.Sprintf("Which is best for e-waste? (Q%d)", idx),
		Options: []model.QuizOption{
			{Label: "A", Text: "Throw in regular trash"},
			{Label: "B", Text: "Burn to reduce volume"},
			{Label: "C", Text: "Recycle at certified center"},
			{Label: "D", Text: "Dump in river"},
		},
		Answer: "C",
	}
}

func isQuestionMarker(upper string) bool {
	for _, m := range questionMarkers {
		if strings.HasPrefix(upper, m) {
			return true
		}
	}
	return false
}

// questionPrompt returns the text after the first "." delimiter, or the
// whole line when there is no delimiter or nothing follows it.
func questionPrompt(line string) string {
	if idx := strings.IndexByte(line, '.'); idx >= 0 {
		if text := strings.TrimSpace(line[idx+1:]); text != "" {
			return text
		}
	}
	return line
}

func isOptionLine(upper string) bool {
	if len(upper) < 2 || upper[0] < 'A' || upper[0] > 'D' {
		return false
	}
	return upper[1] == ':' || upper[1] == ')'
}

func hasAnswerPrefix(upper string) bool {
	for _, p := range answerPrefixes {
		if strings.HasPrefix(upper, p) {
			return true
		}
	}
	return false
}

// answerLabel checks A through D in label order and returns the first one
// contained anywhere in the uppercased line, prefix included.
func answerLabel(upper string) (string, bool) {
	for _, label := range []string{"A", "B", "C", "D"} {
		if strings.Contains(upper, label) {
			return label, true
		}
	}
	return "", false
}

// filterComplete keeps only questions with a prompt, exactly four options
// under distinct non-empty labels, and a recognized answer.
func filterComplete(questions []model.QuizQuestion) []model.QuizQuestion {
	kept := questions[:0]
	for _, q := range questions {
		if q.Prompt == "" || len(q.Options) != 4 {
			continue
		}
		if q.Answer != "A" && q.Answer != "B" && q.Answer != "C" && q.Answer != "D" {
			continue
		}
		labels := make(map[string]bool, 4)
		valid := true
		for _, opt := range q.Options {
			if opt.Text == "" || labels[opt.Label] {
				valid = false
				break
			}
			labels[opt.Label] = true
		}
		if valid {
			kept = append(kept, q)
		}
	}
	return kept
}
