package voteschema

import (
	"fmt"

	"factlab/internal/models"
)

// Option is one selectable answer in a trust poll.
type Option struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Marker      string `json:"marker"`
}

// Schema is the ordered option set shown for one analysis classification.
type Schema struct {
	Analysis string   `json:"analysis"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

// Contains reports whether key is a member of the schema.
func (s Schema) Contains(key string) bool {
	for _, o := range s.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the option keys in display order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Options))
	for i, o := range s.Options {
		keys[i] = o.Key
	}
	return keys
}

// Option keys of the default factual schema.
const (
	OptCompleteFact  = "complete_fact"
	OptPartialFact   = "partial_fact"
	OptSlightDoubt   = "slight_doubt"
	OptCompleteDoubt = "complete_doubt"
	OptUnknown       = "unknown"
)

var factSchema = Schema{
	Analysis: models.AnalysisFact,
	Question: "이 뉴스 사실일까요?",
	Options: []Option{
		{Key: OptCompleteFact, Label: "사실이다", Description: "제시된 내용 사실", Marker: "✅"},
		{Key: OptPartialFact, Label: "부분적으로 사실", Description: "일부만 사실", Marker: "🔸"},
		{Key: OptSlightDoubt, Label: "조금 의심스럽다", Description: "일부 내용 거짓", Marker: "🔹"},
		{Key: OptCompleteDoubt, Label: "의심스럽다", Description: "내용이 거짓", Marker: "❌"},
		{Key: OptUnknown, Label: "모르겠다", Description: "정보부족", Marker: "❓"},
	},
}

var biasSchema = Schema{
	Analysis: models.AnalysisBias,
	Question: "이 뉴스의 정치적 성향은 어떤가요?",
	Options: []Option{
		{Key: "right_bias", Label: "보수 편향", Description: "보수 쪽으로 치우침", Marker: "🟥"},
		{Key: "slight_right_bias", Label: "약간 보수 편향", Description: "다소 보수적", Marker: "🔸"},
		{Key: "slight_left_bias", Label: "약간 진보 편향", Description: "다소 진보적", Marker: "🔹"},
		{Key: "left_bias", Label: "진보 편향", Description: "진보 쪽으로 치우침", Marker: "🟦"},
		{Key: OptUnknown, Label: "모르겠다", Description: "판단 어려움", Marker: "❓"},
	},
}

var comprehensiveSchema = Schema{
	Analysis: models.AnalysisComprehensive,
	Question: "이 뉴스를 종합적으로 어떻게 평가하나요?",
	Options: []Option{
		{Key: "fact_right_bias", Label: "사실·보수 성향", Description: "사실이지만 보수 편향", Marker: "🟥"},
		{Key: "fact_left_bias", Label: "사실·진보 성향", Description: "사실이지만 진보 편향", Marker: "🟦"},
		{Key: "fact_neutral", Label: "사실·중립", Description: "사실이고 균형적", Marker: "✅"},
		{Key: "problematic", Label: "문제 있음", Description: "왜곡 또는 과장", Marker: "❌"},
		{Key: OptUnknown, Label: "모르겠다", Description: "판단 어려움", Marker: "❓"},
	},
}

var schemas = map[string]Schema{
	models.AnalysisFact:          factSchema,
	models.AnalysisBias:          biasSchema,
	models.AnalysisComprehensive: comprehensiveSchema,
}

func init() {
	for _, s := range schemas {
		mustBeValid(s)
	}
}

// mustBeValid panics on duplicate option keys. Schemas are fixed tables, so
// this runs once at construction rather than on every vote.
func mustBeValid(s Schema) {
	seen := make(map[string]bool, len(s.Options))
	for _, o := range s.Options {
		if seen[o.Key] {
			panic(fmt.Sprintf("vote schema %s: duplicate option key %q", s.Analysis, o.Key))
		}
		seen[o.Key] = true
	}
}

// Resolve maps an analysis classification to its vote schema. It is total:
// an empty or unrecognized classification (board posts, un-analyzed news)
// resolves to the default factual schema.
func Resolve(analysis string) Schema {
	if s, ok := schemas[analysis]; ok {
		return s
	}
	return factSchema
}
