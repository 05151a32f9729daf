package voxsculpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ModelGenerator turns a text prompt into a voxel model. The engine
// treats it as a black box; output is validated and normalized before
// it reaches the store.
type ModelGenerator interface {
	Generate(ctx context.Context, prompt string) ([]VoxelData, error)
}

// GeneratorFunc adapts a plain function to ModelGenerator.
type GeneratorFunc func(ctx context.Context, prompt string) ([]VoxelData, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) ([]VoxelData, error) {
	return f(ctx, prompt)
}

// HTTPGenerator posts the prompt to a JSON endpoint and decodes the
// returned voxel records.
type HTTPGenerator struct {
	Endpoint string
	Client   *http.Client
	Log      Logger
}

func NewHTTPGenerator(endpoint string, log Logger) *HTTPGenerator {
	if log == nil {
		log = NewNopLogger()
	}
	return &HTTPGenerator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 60 * time.Second},
		Log:      log,
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Voxels []VoxelRecord `json:"voxels"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) ([]VoxelData, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned %s", resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding generator response: %w", err)
	}

	voxels := Normalize(VoxelsFromRecords(decoded.Voxels, g.Log))
	if len(voxels) == 0 {
		return nil, fmt.Errorf("generator returned no usable voxels for %q", prompt)
	}
	return voxels, nil
}
