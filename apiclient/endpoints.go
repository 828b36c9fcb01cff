package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"clementus360/study-assistant/types"
)

const (
	EndpointProcessDocument = "/document/process"
	EndpointDocumentChat    = "/document/chat"
	EndpointCodeAnalyze     = "/code/analyze"
	EndpointVideoAnalyze    = "/youtube/analyze"
	EndpointVideoFollowUp   = "/youtube/follow-up"
	EndpointQuizGenerate    = "/quiz/generate"
)

// ProcessDocument asks the backend to ingest an uploaded file and returns
// the handle used for subsequent chat calls.
func (c *Client) ProcessDocument(ctx context.Context, ref types.ContentRef) (types.ContentHandle, error) {
	r, err := c.post(ctx, EndpointProcessDocument, types.DocumentProcessRequest{
		FilePath: ref.Path,
		FileName: ref.FileName,
	})
	if err != nil {
		return "", err
	}

	var out types.DocumentProcessResponse
	if err := decode(EndpointProcessDocument, r, &out); err != nil {
		return "", err
	}
	if out.DocumentID == "" {
		return "", missing(EndpointProcessDocument, "document_id")
	}
	return types.ContentHandle(out.DocumentID), nil
}

func (c *Client) Chat(ctx context.Context, documentID types.ContentHandle, question string) (string, error) {
	r, err := c.post(ctx, EndpointDocumentChat, types.DocumentChatRequest{
		DocumentID: string(documentID),
		Question:   question,
	})
	if err != nil {
		return "", err
	}

	var out types.DocumentChatResponse
	if err := decode(EndpointDocumentChat, r, &out); err != nil {
		return "", err
	}
	if out.Answer == "" {
		return "", missing(EndpointDocumentChat, "answer")
	}
	return out.Answer, nil
}

// AnalyzeCode returns the explanation for content. A plain-text success body
// is the explanation itself.
func (c *Client) AnalyzeCode(ctx context.Context, content string) (string, error) {
	r, err := c.post(ctx, EndpointCodeAnalyze, types.CodeAnalysisRequest{Content: content})
	if err != nil {
		return "", err
	}

	if !r.isJSON {
		if text := r.text(); text != "" {
			return text, nil
		}
		return "", missing(EndpointCodeAnalyze, "explanation")
	}

	var out types.CodeAnalysisResponse
	if err := decode(EndpointCodeAnalyze, r, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Explanation) == "" {
		return "", missing(EndpointCodeAnalyze, "explanation")
	}
	return out.Explanation, nil
}

func (c *Client) AnalyzeVideo(ctx context.Context, videoURL string) (types.VideoAnalysis, error) {
	r, err := c.post(ctx, EndpointVideoAnalyze, types.VideoAnalysisRequest{URL: videoURL})
	if err != nil {
		return types.VideoAnalysis{}, err
	}

	var out types.VideoAnalysis
	if err := decode(EndpointVideoAnalyze, r, &out); err != nil {
		return types.VideoAnalysis{}, err
	}
	if out.Summary == "" {
		return types.VideoAnalysis{}, missing(EndpointVideoAnalyze, "summary")
	}
	if out.AnalysisID == "" {
		return types.VideoAnalysis{}, missing(EndpointVideoAnalyze, "analysis_id")
	}
	return out, nil
}

func (c *Client) FollowUpVideo(ctx context.Context, analysisID, question string) (string, error) {
	r, err := c.post(ctx, EndpointVideoFollowUp, types.VideoFollowUpRequest{
		AnalysisID: analysisID,
		Question:   question,
	})
	if err != nil {
		return "", err
	}

	var out types.VideoFollowUpResponse
	if err := decode(EndpointVideoFollowUp, r, &out); err != nil {
		return "", err
	}
	if out.Answer == "" {
		return "", missing(EndpointVideoFollowUp, "answer")
	}
	return out.Answer, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, ref types.ContentRef) ([]types.QuizItem, error) {
	r, err := c.post(ctx, EndpointQuizGenerate, types.QuizGenerateRequest{
		FilePath: ref.Path,
		FileName: ref.FileName,
	})
	if err != nil {
		return nil, err
	}

	var raw struct {
		Questions json.RawMessage `json:"questions"`
	}
	if err := decode(EndpointQuizGenerate, r, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw.Questions)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, missing(EndpointQuizGenerate, "questions")
	}

	var items []types.QuizItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &types.InvalidResponse{Endpoint: EndpointQuizGenerate, Reason: err.Error()}
	}
	return items, nil
}
