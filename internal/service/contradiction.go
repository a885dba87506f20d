package service

import (
	"context"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/llm"
	"github.com/Harshitk-cp/litsynth/internal/metrics"
	"go.uber.org/zap"
)

// PlaceholderExplanation stands in when the judge confirms a contradiction
// but cannot explain it.
const PlaceholderExplanation = "The findings make incompatible claims; no explanation was available."

// pairCheck is one (new finding, prior candidate) question for the judge.
type pairCheck struct {
	incoming  domain.Finding
	candidate Candidate
}

// ContradictionJudge asks the judge whether two same-topic findings conflict.
// It fails closed: errors and anything but a clear yes mean no contradiction.
type ContradictionJudge struct {
	judge   domain.JudgeClient
	logger  *zap.Logger
	metrics *metrics.Synthesis
}

func NewContradictionJudge(judge domain.JudgeClient, logger *zap.Logger, m *metrics.Synthesis) *ContradictionJudge {
	return &ContradictionJudge{judge: judge, logger: logger, metrics: m}
}

// Check returns a contradiction record, or nil when the pair is compatible
// or the judge could not give a clear answer. Finding A is the older one.
func (j *ContradictionJudge) Check(ctx context.Context, pc pairCheck, round int) *domain.Contradiction {
	if j.judge == nil {
		return nil
	}

	prior := pc.candidate.Finding
	answer, err := j.judge.Complete(ctx, llm.ContradictionPrompt(prior.Text, pc.incoming.Text),
		llm.ContradictionMaxTokens, llm.ContradictionTemperature)
	j.metrics.JudgeCall(metrics.KindContradiction, err)
	if err != nil {
		j.logger.Debug("contradiction check failed, treating as no contradiction",
			zap.Int64("finding_a", int64(prior.ID)),
			zap.Int64("finding_b", int64(pc.incoming.ID)),
			zap.Error(err))
		return nil
	}

	verdict := domain.ParseVerdict(answer)
	if verdict != domain.VerdictAffirmative {
		if verdict == domain.VerdictUnknown {
			j.logger.Debug("ambiguous contradiction verdict",
				zap.Int64("finding_a", int64(prior.ID)),
				zap.Int64("finding_b", int64(pc.incoming.ID)),
				zap.String("answer", answer))
		}
		return nil
	}

	return &domain.Contradiction{
		FindingA:    prior.ID,
		FindingB:    pc.incoming.ID,
		TextA:       prior.Text,
		TextB:       pc.incoming.Text,
		Explanation: j.explain(ctx, prior, pc.incoming),
		Severity:    domain.SeverityFromSimilarity(pc.candidate.Similarity),
		Similarity:  pc.candidate.Similarity,
		DetectedAt:  round,
	}
}

func (j *ContradictionJudge) explain(ctx context.Context, a, b domain.Finding) string {
	text, err := j.judge.Complete(ctx, llm.ExplanationPrompt(a.Text, b.Text),
		llm.ExplanationMaxTokens, llm.ExplanationTemperature)
	j.metrics.JudgeCall(metrics.KindExplanation, err)
	if err != nil {
		j.logger.Debug("contradiction explanation failed", zap.Error(err))
		return PlaceholderExplanation
	}
	if text == "" {
		return PlaceholderExplanation
	}
	return text
}
