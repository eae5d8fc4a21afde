package services

import (
	"context"
	"time"

	"github.com/stonegate/stablekeeper/internal/models"
)

// ReceiptProcessor runs the receipt ingestion pipeline: build prompt, call
// the vision model, parse the reply, validate the fields. Matching against
// the catalog is invoked separately by the caller with its own snapshot.
type ReceiptProcessor struct {
	model VisionModel
}

// NewReceiptProcessor creates a new receipt processor
func NewReceiptProcessor(model VisionModel) *ReceiptProcessor {
	return &ReceiptProcessor{model: model}
}

// Process converts one receipt image into a validated extraction. Linear,
// no retries: a failed model call is a single failed result and retry
// policy belongs to the caller. Nothing below this boundary raises; every
// failure mode degrades to the structured failure shape.
func (p *ReceiptProcessor) Process(ctx context.Context, imageBase64, mimeType, vendorHint string, expectedTotal *float64) *models.ReceiptProcessResult {
	prompt := BuildReceiptPrompt(vendorHint, expectedTotal)

	reply, err := p.model.GenerateFromImage(ctx, imageBase64, mimeType, prompt)
	if err != nil {
		return models.FailedResult(err.Error(), "")
	}

	parsed, ok := ExtractJSONObject(reply)
	if !ok {
		return models.FailedResult("parse failure", reply)
	}

	extraction := ValidateExtraction(parsed)

	return &models.ReceiptProcessResult{
		ReceiptExtraction:   extraction,
		Success:             true,
		AIProcessed:         true,
		ProcessingTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
