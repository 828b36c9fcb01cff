package analysis

import (
	"context"

	"clementus360/study-assistant/types"
)

type CodeAnalyzer interface {
	AnalyzeCode(ctx context.Context, content string) (string, error)
}

type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, videoURL string) (types.VideoAnalysis, error)
	FollowUpVideo(ctx context.Context, analysisID, question string) (string, error)
}

// NewCodeExplainer builds the paste-code panel. It has no follow-up.
func NewCodeExplainer(api CodeAnalyzer, history Recorder) *Controller {
	return &Controller{
		submit: func(ctx context.Context, content string) (Result, error) {
			explanation, err := api.AnalyzeCode(ctx, content)
			if err != nil {
				return Result{}, err
			}
			return Result{Artifact: explanation}, nil
		},
		failure: func(err error) string {
			return "Sorry, I encountered an error: " + types.ErrorText(err)
		},
		history:   history,
		kindTitle: func(Result) string { return "Code analysis" },
	}
}

// NewVideoSummarizer builds the video-link panel. Follow-ups are scoped to the
// analysis id the backend returns with the summary.
func NewVideoSummarizer(api VideoAnalyzer, history Recorder) *Controller {
	return &Controller{
		submit: func(ctx context.Context, videoURL string) (Result, error) {
			out, err := api.AnalyzeVideo(ctx, videoURL)
			if err != nil {
				return Result{}, err
			}
			return Result{
				Artifact: out.Summary,
				Session:  &types.AnalysisSession{ID: out.AnalysisID, SummaryText: out.Summary},
				Title:    out.Title,
			}, nil
		},
		followUp: api.FollowUpVideo,
		failure:  types.ErrorText,
		history:  history,
		kindTitle: func(r Result) string {
			if r.Title == "" {
				return "YouTube: Video analysis"
			}
			return "YouTube: " + r.Title
		},
	}
}
