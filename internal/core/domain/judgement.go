package domain

import "errors"

// ResponseCount is the fixed number of candidate responses a judgement
// compares. The evaluation prompt, the parser and the mock scorer all
// assume this count.
const ResponseCount = 4

// ErrResponseCount is returned when a judgement is requested with the
// wrong number of candidates. It is the only error the evaluator ever
// surfaces; every downstream fault is absorbed into a mock judgement.
var ErrResponseCount = errors.New("judgement requires exactly four responses")

// NotProvided marks a judgement field the model text did not contain.
const NotProvided = "Not provided"

// Judgement is the ranked comparison of four candidate responses.
// Ranking holds zero-based candidate indices ordered best to worst.
// When IsMock is set the ranking came from lexical heuristics, not from
// a judge model, and must not be read as a quality signal.
type Judgement struct {
	Ranking   []int    `json:"ranking"`
	Scores    []string `json:"scores"`
	Reasoning string   `json:"reasoning"`
	RawText   string   `json:"raw_text"`
	IsMock    bool     `json:"is_mock"`
}
