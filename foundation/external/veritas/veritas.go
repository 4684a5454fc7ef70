package veritas

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	apiTimeout = 30
)

// Detect uploads the MP3 at audioPath to the voice detection endpoint.
func Detect(ctx context.Context, apiEndpoint string, apiKey string, language string, audioPath string) (Result, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return Result{}, err
	}

	return DetectBytes(ctx, apiEndpoint, apiKey, Request{
		Language:    language,
		AudioFormat: "mp3",
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
	})
}

func DetectBytes(ctx context.Context, apiEndpoint string, apiKey string, r Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout*time.Second)
	defer cancel()

	payload, err := json.Marshal(r)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiEndpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	client := http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(bytes, &result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Result{}, errors.New(string(bytes))
		}
		return Result{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("status %d: %s", resp.StatusCode, result.Message)
	}

	return result, nil
}
