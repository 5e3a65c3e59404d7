package quiz

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtractFencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n[{\"question\":\"Q1?\",\"options\":[\"A\",\"B\"],\"correct_answer\":1,}]\n```"

	questions, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []Question{{Text: "Q1?", Options: []string{"A", "B"}, CorrectAnswer: 1}}
	if !reflect.DeepEqual(questions, want) {
		t.Errorf("questions = %+v, want %+v", questions, want)
	}
}

func TestExtractRoundTrip(t *testing.T) {
	raw := "```json\n[" +
		`{"question":"What is 2+2?","options":["3","4","5","6"],"correct_answer":1},` +
		`{"question":"Capital of France?","options":["Paris","Lyon"],"correct_answer":0}` +
		"]\n```"

	questions, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []Question{
		{Text: "What is 2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1},
		{Text: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectAnswer: 0},
	}
	if !reflect.DeepEqual(questions, want) {
		t.Errorf("questions = %+v, want %+v", questions, want)
	}
}

func TestExtractTrailingCommaEquivalence(t *testing.T) {
	clean := `[{"question":"Q?","options":["A","B"],"correct_answer":0}]`
	dirty := `[{"question":"Q?","options":["A","B"],"correct_answer":0,},]`

	qClean, err := Extract(clean)
	if err != nil {
		t.Fatalf("Extract(clean) error = %v", err)
	}
	qDirty, err := Extract(dirty)
	if err != nil {
		t.Fatalf("Extract(dirty) error = %v", err)
	}
	if !reflect.DeepEqual(qClean, qDirty) {
		t.Errorf("trailing-comma variant differs: %+v vs %+v", qClean, qDirty)
	}
}

func TestExtractNormalizationCases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			"prose-wrapped array without fences",
			`Sure! Here are your questions: [{"question":"Q?","options":["A","B"],"correct_answer":1}] Enjoy!`,
		},
		{
			"missing comma between objects",
			`[{"question":"Q1?","options":["A","B"],"correct_answer":0}{"question":"Q2?","options":["C","D"],"correct_answer":1}]`,
		},
		{
			"bare object without brackets",
			`{"question":"Q?","options":["A","B"],"correct_answer":0}`,
		},
		{
			"string correct_answer",
			`[{"question":"Q?","options":["A","B"],"correct_answer":"1"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := Extract(tt.raw)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(questions) == 0 {
				t.Error("no questions extracted")
			}
			for _, q := range questions {
				if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
					t.Errorf("correct answer out of range: %+v", q)
				}
			}
		})
	}
}

func TestExtractRejectsWholeBatch(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantIndex int
	}{
		{
			"missing options",
			`[{"question":"Q1?","options":["A","B"],"correct_answer":0},{"question":"Q2?","correct_answer":0}]`,
			1,
		},
		{
			"correct_answer out of range",
			`[{"question":"Q1?","options":["A","B"],"correct_answer":5}]`,
			0,
		},
		{
			"empty question text",
			`[{"question":"  ","options":["A","B"],"correct_answer":0}]`,
			0,
		},
		{
			"single option",
			`[{"question":"Q?","options":["A"],"correct_answer":0}]`,
			0,
		},
		{
			"duplicate options",
			`[{"question":"Q?","options":["A","A"],"correct_answer":0}]`,
			0,
		},
		{
			"non-coercible correct_answer",
			`[{"question":"Q?","options":["A","B"],"correct_answer":"first"}]`,
			0,
		},
		{
			"fractional correct_answer",
			`[{"question":"Q?","options":["A","B"],"correct_answer":0.5}]`,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := Extract(tt.raw)
			if questions != nil {
				t.Errorf("batch should be rejected entirely, got %d questions", len(questions))
			}
			var iq *InvalidQuestionError
			if !errors.As(err, &iq) {
				t.Fatalf("error = %v, want InvalidQuestionError", err)
			}
			if iq.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", iq.Index, tt.wantIndex)
			}
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"prose only", "I could not generate a quiz for this transcript, sorry."},
		{"broken json", "```json\n[{\"question\": \"Q?\", \"options\": [\"A\",\n```"},
		{"empty array", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.raw)
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("error = %v, want MalformedError", err)
			}
			if me.Raw != tt.raw {
				t.Errorf("MalformedError.Raw should carry the original output")
			}
		})
	}
}

func TestExtractPrefersFenceOverProse(t *testing.T) {
	raw := "Ignore this stray [ bracket.\n```\n[{\"question\":\"Q?\",\"options\":[\"A\",\"B\"],\"correct_answer\":0}]\n```"

	questions, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(questions) != 1 || questions[0].Text != "Q?" {
		t.Errorf("questions = %+v", questions)
	}
}
