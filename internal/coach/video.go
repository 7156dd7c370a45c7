package coach

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/coachgolf/go_coach/internal/engine"
)

// SwingSystemInstruction configures the model for frame-by-frame swing
// biomechanics review.
const SwingSystemInstruction = "Ets un expert en biomecanica de golf. Analitza el video fotograma " +
	"a fotograma. Fixa't en el grip, l'alineacio, el backswing i el follow-through. " +
	"Dona consells concrets per corregir errors visuals."

// DefaultSwingPrompt is used when the caller supplies no instructions.
const DefaultSwingPrompt = "Analitza aquest swing de golf. Quins son els 3 errors principals i com puc corregir-los?"

// videoMimeType maps the accepted upload formats.
func videoMimeType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return "video/mp4", nil
	case ".mov":
		return "video/quicktime", nil
	case ".avi":
		return "video/x-msvideo", nil
	}
	return "", fmt.Errorf("unsupported video format %q (mp4, mov, avi)", filepath.Ext(path))
}

// AnalyzeSwing uploads a swing video, waits for server-side processing,
// asks the model for a report, and deletes the remote file.
//
// Upload → poll "PROCESSING" until ready → text+video prompt → delete.
// Polling is bounded by the configured budget so a stuck file never
// blocks the caller indefinitely.
func (c *Coach) AnalyzeSwing(ctx context.Context, videoPath, prompt string) (string, error) {
	mimeType, err := videoMimeType(videoPath)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultSwingPrompt
	}

	engine.IncrVideoUploads()
	file, err := uploadFile(ctx, videoPath, mimeType)
	if err != nil {
		engine.IncrVideoUploadErrors()
		if engine.IsQuotaErr(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		return "", err
	}
	defer func() {
		if err := deleteFile(context.WithoutCancel(ctx), file.Name); err != nil {
			slog.Warn("remote video not deleted", slog.String("file", file.Name), slog.Any("error", err))
		}
	}()

	file, err = c.waitForFile(ctx, file)
	if err != nil {
		engine.IncrVideoUploadErrors()
		return "", err
	}

	report, err := generateWithFile(ctx, SwingSystemInstruction, prompt, file)
	if err != nil {
		if engine.IsQuotaErr(err) {
			return "", fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
		return "", err
	}
	return report, nil
}

// waitForFile polls the Files API until the upload leaves PROCESSING.
func (c *Coach) waitForFile(ctx context.Context, file geminiFile) (geminiFile, error) {
	interval := engine.Cfg.VideoPollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	budget := engine.Cfg.VideoPollBudget
	if budget <= 0 {
		budget = 5 * time.Minute
	}
	deadline := time.Now().Add(budget)

	for file.State == fileStateProcessing {
		if time.Now().After(deadline) {
			return geminiFile{}, fmt.Errorf("video still processing after %s", budget)
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return geminiFile{}, ctx.Err()
		}
		refreshed, err := getFile(ctx, file.Name)
		if err != nil {
			return geminiFile{}, err
		}
		file = refreshed
	}
	if file.State != fileStateActive {
		return geminiFile{}, fmt.Errorf("video processing failed: state %s", file.State)
	}
	return file, nil
}
