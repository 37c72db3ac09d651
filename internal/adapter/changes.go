// Package adapter implements the client side of the remote drive metadata
// API. Only the changes endpoint is covered; content up/downloads are out of
// scope for the cache.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/nabcos/acd-cli/internal/config"
	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/models"
)

type changesClient struct {
	client *resty.Client
	logger *logger.Logger
}

// NewChangesClient constructs a [ChangesClient] against the configured
// metadata endpoint. No retry or backoff is layered on top; transient
// failures surface to the caller.
func NewChangesClient(cfg config.Adapter, log *logger.Logger) ChangesClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.RequestTimeout)

	return &changesClient{client: cli, logger: log}
}

// changesRequest is the POST body of the changes endpoint. A nil checkpoint
// requests the full node set.
type changesRequest struct {
	Checkpoint    *string `json:"checkpoint,omitempty"`
	IncludePurged bool    `json:"includePurged"`
}

// changesFrame is one newline-delimited JSON value of the changes response
// stream: either a change set or the {"end": true} trailer.
type changesFrame struct {
	models.ChangeSet
	End bool `json:"end"`
}

func (c *changesClient) Changes(ctx context.Context, checkpoint string) ([]models.ChangeSet, error) {
	log := logger.FromContext(ctx)

	body := changesRequest{IncludePurged: true}
	if checkpoint != "" {
		body.Checkpoint = &checkpoint
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/changes")
	if err != nil {
		return nil, fmt.Errorf("changes request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("changes request: http %d: %s",
			resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}

	sets, err := parseChangesStream(resp.Body())
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("func", "changesClient.Changes").
		Int("change_sets", len(sets)).
		Msg("changes response parsed")

	return sets, nil
}

// parseChangesStream decodes the concatenated JSON frames of a changes
// response. Decoding stops at the {"end": true} trailer.
func parseChangesStream(body []byte) ([]models.ChangeSet, error) {
	var sets []models.ChangeSet

	dec := json.NewDecoder(bytes.NewReader(body))
	for dec.More() {
		var frame changesFrame
		if err := dec.Decode(&frame); err != nil {
			return nil, fmt.Errorf("decode changes frame: %w", err)
		}
		if frame.End {
			break
		}
		sets = append(sets, frame.ChangeSet)
	}

	return sets, nil
}
