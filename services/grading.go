package services

import (
	"encoding/json"
	"math"
	"strconv"

	"quizapp/models"
)

type GradeResult struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Grade scores answers against questions. answers maps a question id (as a
// decimal string, the shape of a JSON object key) to the selected choice
// index. Every question of the quiz counts toward Total; entries for unknown
// question ids are ignored.
func Grade(questions []models.Question, answers map[string]interface{}) GradeResult {
	result := GradeResult{Total: len(questions)}

	for i := range questions {
		q := &questions[i]
		raw, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if !ok {
			continue
		}
		if selection, ok := selectedIndex(raw); ok && q.IsCorrect(selection) {
			result.Score++
		}
	}

	return result
}

// selectedIndex accepts only integral JSON numbers. Strings, booleans,
// fractions and nulls never match a choice.
func selectedIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < 0 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i < 0 || i > math.MaxInt32 {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
