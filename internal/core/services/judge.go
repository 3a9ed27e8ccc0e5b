package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/nulzo/quorum/internal/core/domain"
	"github.com/nulzo/quorum/internal/httpclient"
	"go.uber.org/zap"
)

// JudgeClient is the narrow surface the evaluator needs from the judge
// model's backend. Complete is a free-form completion call; Chat is a
// turn-based system+user call used when the model rejects Complete.
type JudgeClient interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
	Chat(ctx context.Context, model, system, user string) (string, error)
}

// taskMismatchSignatures are the literal vendor error fragments that
// identify a chat-only model rejecting the completions endpoint. This
// is a compatibility shim matching vendor error prose; the strings are
// pinned in tests because a vendor wording change silently breaks the
// fallback path.
var taskMismatchSignatures = []string{
	"not supported in the v1/completions endpoint",
	"this is a chat model",
	"only supported in the chat completions api",
}

const judgeSystemPrompt = "You are an impartial judge. Follow the output format instructions exactly."

// Judge ranks four candidate responses to one question using a
// secondary model, degrading to a heuristic mock judgement when the
// model is unreachable through both invocation paths.
type Judge struct {
	client JudgeClient
	model  string
	logger *zap.Logger
	randFn func() float64
}

type JudgeOption func(*Judge)

// WithRand replaces the mock scorer's random source, for deterministic tests.
func WithRand(fn func() float64) JudgeOption {
	return func(j *Judge) {
		j.randFn = fn
	}
}

func NewJudge(client JudgeClient, model string, logger *zap.Logger, opts ...JudgeOption) *Judge {
	j := &Judge{
		client: client,
		model:  model,
		logger: logger,
		randFn: rand.Float64,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Evaluate always returns a Judgement once the input is well-formed.
// The wrong response count is the only error it surfaces; every
// downstream fault is absorbed by the fallback and mock paths.
func (j *Judge) Evaluate(ctx context.Context, question string, responses []string) (*domain.Judgement, error) {
	if len(responses) != domain.ResponseCount {
		return nil, domain.ErrResponseCount
	}

	prompt := buildJudgePrompt(question, responses)

	raw, err := j.client.Complete(ctx, j.model, prompt)
	if err != nil {
		if !isTaskMismatch(err) {
			j.logger.Warn("Judge primary invocation failed, using mock judgement", zap.Error(err))
			return j.mock(responses), nil
		}

		j.logger.Debug("Judge model rejected completion interface, retrying as chat", zap.Error(err))
		raw, err = j.client.Chat(ctx, j.model, judgeSystemPrompt, prompt)
		if err != nil {
			j.logger.Warn("Judge fallback invocation failed, using mock judgement", zap.Error(err))
			return j.mock(responses), nil
		}
	}

	judgement := parseJudgement(raw)
	return &judgement, nil
}

func buildJudgePrompt(question string, responses []string) string {
	var b strings.Builder
	b.WriteString("You are comparing four candidate responses to the same question.\n\n")
	b.WriteString("Question:\n")
	b.WriteString(question)
	b.WriteString("\n\n")

	for i, r := range responses {
		fmt.Fprintf(&b, "Response %d:\n%s\n\n", i+1, r)
	}

	b.WriteString("Evaluate each response for accuracy, completeness, clarity and relevance.\n\n")
	b.WriteString("Reply in exactly this format:\n")
	b.WriteString("RANKING: <the four response numbers from best to worst, e.g. 2,4,1,3>\n")
	b.WriteString("SCORES: <four scores from 0 to 10, one per response in their original order, e.g. 8.5,6,9,4>\n")
	b.WriteString("REASONING: <your reasoning>\n")
	return b.String()
}

func isTaskMismatch(err error) bool {
	msg := strings.ToLower(err.Error())
	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		msg += " " + strings.ToLower(string(upstream.Body))
	}
	for _, sig := range taskMismatchSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// parseJudgement scans the model text line by line for the RANKING,
// SCORES and REASONING fields. REASONING captures everything from its
// line to the end of the text. A missing field is substituted with a
// default instead of failing the judgement.
func parseJudgement(raw string) domain.Judgement {
	judgement := domain.Judgement{
		Ranking:   nil,
		Scores:    nil,
		Reasoning: domain.NotProvided,
		RawText:   raw,
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)

		switch {
		case strings.HasPrefix(upper, "RANKING:"):
			judgement.Ranking = parseRanking(trimmed[len("RANKING:"):])
		case strings.HasPrefix(upper, "SCORES:"):
			judgement.Scores = parseScores(trimmed[len("SCORES:"):])
		case strings.HasPrefix(upper, "REASONING:"):
			rest := strings.TrimSpace(trimmed[len("REASONING:"):])
			if i+1 < len(lines) {
				tail := strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
				if tail != "" {
					if rest != "" {
						rest += "\n"
					}
					rest += tail
				}
			}
			if rest != "" {
				judgement.Reasoning = rest
			}
		}

		if judgement.Reasoning != domain.NotProvided {
			break
		}
	}

	if judgement.Ranking == nil {
		judgement.Ranking = defaultRanking()
	}
	if judgement.Scores == nil {
		judgement.Scores = defaultScores()
	}
	return judgement
}

// parseRanking extracts four 1-based response numbers and converts them
// to zero-based indices. Anything that does not yield a permutation of
// exactly four in-range indices is treated as missing.
func parseRanking(s string) []int {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r < '0' || r > '9'
	})

	var ranking []int
	seen := make(map[int]bool)
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > domain.ResponseCount {
			continue
		}
		if seen[n-1] {
			return nil
		}
		seen[n-1] = true
		ranking = append(ranking, n-1)
	}

	if len(ranking) != domain.ResponseCount {
		return nil
	}
	return ranking
}

func parseScores(s string) []string {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})

	var scores []string
	for _, tok := range tokens {
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			scores = append(scores, tok)
		}
	}

	if len(scores) != domain.ResponseCount {
		return nil
	}
	return scores
}

func defaultRanking() []int {
	ranking := make([]int, domain.ResponseCount)
	for i := range ranking {
		ranking[i] = i
	}
	return ranking
}

func defaultScores() []string {
	scores := make([]string, domain.ResponseCount)
	for i := range scores {
		scores[i] = domain.NotProvided
	}
	return scores
}

// mock synthesizes a judgement from shallow lexical signals when the
// judge model is unreachable. The ranking is a total ordering so the
// caller's UI keeps working; it carries no quality signal, which is why
// the result is explicitly tagged.
func (j *Judge) mock(responses []string) *domain.Judgement {
	scores := make([]float64, len(responses))
	for i, r := range responses {
		scores[i] = j.heuristicScore(r)
	}

	order := defaultRanking()
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	scoreStrs := make([]string, len(scores))
	for i, s := range scores {
		scoreStrs[i] = strconv.FormatFloat(s, 'f', 1, 64)
	}

	reasoning := "Judge model unavailable. Ranking produced by lexical heuristics " +
		"(length, numeric content, structure) with a small random tie-breaker; " +
		"it is not a quality assessment."

	human := make([]string, len(order))
	for i, idx := range order {
		human[i] = strconv.Itoa(idx + 1)
	}
	raw := fmt.Sprintf("RANKING: %s\nSCORES: %s\nREASONING: %s",
		strings.Join(human, ","), strings.Join(scoreStrs, ","), reasoning)

	return &domain.Judgement{
		Ranking:   order,
		Scores:    scoreStrs,
		Reasoning: reasoning,
		RawText:   raw,
		IsMock:    true,
	}
}

// heuristicScore rates one response on a 0-10 scale from word count,
// presence of digits and structural punctuation, with a bounded random
// perturbation to break ties between similar responses.
func (j *Judge) heuristicScore(response string) float64 {
	score := 5.0

	words := float64(len(strings.Fields(response)))
	lengthBonus := words / 40.0
	if lengthBonus > 2.5 {
		lengthBonus = 2.5
	}
	score += lengthBonus

	if strings.ContainsAny(response, "0123456789") {
		score += 1.0
	}
	if strings.ContainsAny(response, ":;-") || strings.Contains(response, "\n") {
		score += 0.5
	}

	score += (j.randFn() - 0.5) * 0.8

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}
