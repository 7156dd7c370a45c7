package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/coachgolf/go_coach/internal/engine"
)

// Gemini Files API + multimodal generateContent, over the native REST
// surface. The chat path uses the OpenAI-compatible endpoint instead;
// only video analysis needs file upload, which that surface lacks.
//
// Upload protocol: resumable start (returns an upload URL in a header),
// then a single upload+finalize request with the bytes. Uploaded files
// are processed server-side: poll until the state leaves PROCESSING.

const (
	fileStateProcessing = "PROCESSING"
	fileStateActive     = "ACTIVE"
)

type geminiFile struct {
	Name     string `json:"name"` // "files/abc-123"
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	State    string `json:"state"`
}

type geminiFileEnvelope struct {
	File geminiFile `json:"file"`
}

type generatePart struct {
	Text     string           `json:"text,omitempty"`
	FileData *generateFileRef `json:"file_data,omitempty"`
}

type generateFileRef struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generateContentReq struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateContentResp struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// geminiDo sends one authenticated request to the native Gemini API.
func geminiDo(ctx context.Context, method, url string, headers map[string]string, body []byte) (*http.Response, error) {
	return engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		var r io.Reader
		if body != nil {
			r = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, r)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-goog-api-key", engine.Cfg.LLMAPIKey)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return engine.Cfg.HTTPClient.Do(req)
	})
}

// uploadFile pushes a local file to the Files API and returns its handle.
func uploadFile(ctx context.Context, path, mimeType string) (geminiFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return geminiFile{}, fmt.Errorf("stat video: %w", err)
	}
	if max := engine.Cfg.MaxVideoBytes; max > 0 && info.Size() > max {
		return geminiFile{}, fmt.Errorf("video too large: %d bytes (limit %d)", info.Size(), max)
	}

	startBody, err := json.Marshal(map[string]any{
		"file": map[string]any{"display_name": info.Name()},
	})
	if err != nil {
		return geminiFile{}, err
	}

	startURL := engine.Cfg.GeminiAPIBase + "/upload/v1beta/files"
	resp, err := geminiDo(ctx, http.MethodPost, startURL, map[string]string{
		"X-Goog-Upload-Protocol":              "resumable",
		"X-Goog-Upload-Command":               "start",
		"X-Goog-Upload-Header-Content-Length": fmt.Sprintf("%d", info.Size()),
		"X-Goog-Upload-Header-Content-Type":   mimeType,
		"Content-Type":                        "application/json",
	}, startBody)
	if err != nil {
		return geminiFile{}, fmt.Errorf("upload start: %w", err)
	}
	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	resp.Body.Close()
	if uploadURL == "" {
		return geminiFile{}, errors.New("upload start: no upload URL in response")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return geminiFile{}, fmt.Errorf("read video: %w", err)
	}

	resp, err = geminiDo(ctx, http.MethodPost, uploadURL, map[string]string{
		"X-Goog-Upload-Command": "upload, finalize",
		"X-Goog-Upload-Offset":  "0",
		"Content-Type":          mimeType,
	}, data)
	if err != nil {
		return geminiFile{}, fmt.Errorf("upload bytes: %w", err)
	}
	defer resp.Body.Close()

	var env geminiFileEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return geminiFile{}, fmt.Errorf("decode upload response: %w", err)
	}
	if env.File.Name == "" {
		return geminiFile{}, errors.New("upload finalize: empty file handle")
	}
	return env.File, nil
}

// getFile refreshes a file handle's server-side state.
func getFile(ctx context.Context, name string) (geminiFile, error) {
	resp, err := geminiDo(ctx, http.MethodGet, engine.Cfg.GeminiAPIBase+"/v1beta/"+name, nil, nil)
	if err != nil {
		return geminiFile{}, fmt.Errorf("get file: %w", err)
	}
	defer resp.Body.Close()

	var f geminiFile
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return geminiFile{}, fmt.Errorf("decode file: %w", err)
	}
	return f, nil
}

// deleteFile removes an uploaded file. Best-effort: the server expires
// uploads after 48h anyway.
func deleteFile(ctx context.Context, name string) error {
	resp, err := geminiDo(ctx, http.MethodDelete, engine.Cfg.GeminiAPIBase+"/v1beta/"+name, nil, nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// generateWithFile asks the model about an uploaded file.
func generateWithFile(ctx context.Context, system, prompt string, file geminiFile) (string, error) {
	reqBody, err := json.Marshal(generateContentReq{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: system}}},
		Contents: []generateContent{{
			Role: "user",
			Parts: []generatePart{
				{Text: prompt},
				{FileData: &generateFileRef{MimeType: file.MimeType, FileURI: file.URI}},
			},
		}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", engine.Cfg.GeminiAPIBase, engine.Cfg.LLMModel)
	engine.IncrLLMCalls()
	resp, err := geminiDo(ctx, http.MethodPost, url, map[string]string{
		"Content-Type": "application/json",
	}, reqBody)
	if err != nil {
		engine.IncrLLMErrors()
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		engine.IncrLLMErrors()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate content: HTTP %d: %s", resp.StatusCode, snippet)
	}

	var out generateContentResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		engine.IncrLLMErrors()
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("generate content: empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
