package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/stonegate/stablekeeper/internal/config"
	"github.com/stonegate/stablekeeper/internal/database"
	"github.com/stonegate/stablekeeper/internal/middleware"
	"github.com/stonegate/stablekeeper/internal/models"
	"github.com/stonegate/stablekeeper/internal/services"
)

// ReceiptHandler handles receipt upload and AI processing endpoints
type ReceiptHandler struct {
	db        *database.DB
	cfg       *config.Config
	storage   *services.StorageService
	processor *services.ReceiptProcessor
	matcher   *services.SupplyMatcher
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(
	db *database.DB,
	cfg *config.Config,
	storage *services.StorageService,
	processor *services.ReceiptProcessor,
	matcher *services.SupplyMatcher,
) *ReceiptHandler {
	return &ReceiptHandler{
		db:        db,
		cfg:       cfg,
		storage:   storage,
		processor: processor,
		matcher:   matcher,
	}
}

// ReceiptProcessResponse is the payload returned by ProcessReceipt. The
// extraction result is always present; the transaction and supply
// suggestions only when the extraction succeeded.
type ReceiptProcessResponse struct {
	Result            *models.ReceiptProcessResult `json:"result"`
	Transaction       *models.TransactionWithItems `json:"transaction,omitempty"`
	SuggestedSupplies []models.SupplyDraft         `json:"suggested_supplies,omitempty"`
	ImageURL          *string                      `json:"image_url,omitempty"`
}

// ProcessReceipt handles receipt image upload, AI extraction, catalog
// matching, and persistence as a supply transaction
func (h *ReceiptHandler) ProcessReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	if file.Size > 10*1024*1024 {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	vendorHint := strings.TrimSpace(c.FormValue("vendor_hint"))

	var expectedTotal *float64
	if totalStr := c.FormValue("expected_total"); totalStr != "" {
		if total, err := strconv.ParseFloat(totalStr, 64); err == nil && total > 0 {
			expectedTotal = &total
		}
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	// Store the original image before calling the model; if extraction
	// fails the object is removed again so storage holds no orphans.
	imageKey := generateImageKey(userID, file.Filename)
	var imageBucket *string
	if h.storage != nil {
		if _, err := h.storage.UploadImage(c.Context(), imageKey, imageBytes, contentType); err != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to upload image")
		}
		bucket := h.storage.GetBucketName()
		imageBucket = &bucket
	}

	encoded := base64.StdEncoding.EncodeToString(imageBytes)
	result := h.processor.Process(c.Context(), encoded, contentType, vendorHint, expectedTotal)

	response := &ReceiptProcessResponse{Result: result}

	if !result.Success {
		// Extraction failed: report the structured failure, nothing is
		// persisted beyond the stored image.
		if h.storage != nil {
			if err := h.storage.Delete(c.Context(), imageKey); err != nil {
				log.Printf("Warning: Failed to clean up image %s after extraction failure: %v", imageKey, err)
			}
		}
		return Success(c, response)
	}

	// Reconcile extracted lines against the live catalog snapshot
	catalog, err := h.db.GetActiveCatalog(c.Context())
	if err != nil {
		log.Printf("Warning: Failed to load supply catalog for matching: %v", err)
		catalog = []models.Supply{}
	}
	result.LineItems = h.matcher.MatchLineItems(result.LineItems, catalog)

	for _, item := range result.LineItems {
		if item.ManualReviewRequired {
			result.ManualReviewRequired = true
			break
		}
	}

	txn, err := h.db.CreateTransaction(c.Context(), buildTransactionRequest(userID, result, imageBucket, imageKey))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save transaction")
	}
	response.Transaction = txn

	// Matched items adjust stock; unmatched items become draft catalog
	// entries for the user to review.
	for _, item := range result.LineItems {
		if item.SupplyID != nil {
			if _, err := h.db.AdjustStock(c.Context(), *item.SupplyID, item.Quantity, item.UnitPrice); err != nil {
				log.Printf("Warning: Failed to adjust stock for supply %d: %v", *item.SupplyID, err)
			}
		} else {
			response.SuggestedSupplies = append(response.SuggestedSupplies, services.SuggestSupply(item))
		}
	}

	if h.storage != nil {
		if url, err := h.storage.GetPresignedURL(c.Context(), imageKey, 1*time.Hour); err == nil {
			response.ImageURL = &url
		}
	}

	return Success(c, response)
}

// SuggestSupplies returns draft catalog entries for ad-hoc line items
// without persisting anything. Used by the review UI when the user edits
// an unmatched line before accepting it.
func (h *ReceiptHandler) SuggestSupplies(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		Items []models.LineItem `json:"items"`
	}
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Items) == 0 {
		return Error(c, fiber.StatusBadRequest, "items are required")
	}

	drafts := make([]models.SupplyDraft, 0, len(req.Items))
	for _, item := range req.Items {
		item.Category = models.CoerceCategory(string(item.Category))
		if item.Category == models.CategoryOther {
			item.Category = services.InferCategory(item.Description)
		}
		drafts = append(drafts, services.SuggestSupply(item))
	}

	return Success(c, drafts)
}

func buildTransactionRequest(userID int, result *models.ReceiptProcessResult, imageBucket *string, imageKey string) *models.CreateTransactionRequest {
	req := &models.CreateTransactionRequest{
		UserID:               userID,
		VendorName:           result.VendorName,
		ReceiptNumber:        nullableTrimmed(result.ReceiptNumber),
		Subtotal:             result.Subtotal,
		TaxAmount:            result.TaxAmount,
		TotalAmount:          result.TotalAmount,
		AIProcessed:          result.AIProcessed,
		AIConfidence:         &result.ConfidenceScore,
		ManualReviewRequired: result.ManualReviewRequired,
		Notes:                nullableTrimmed(result.Notes),
		ImageBucket:          imageBucket,
		Items:                result.LineItems,
	}

	if imageKey != "" && imageBucket != nil {
		req.ImageKey = &imageKey
	}

	// Purchase dates are already normalized to YYYY-MM-DD upstream
	if result.PurchaseDate != nil {
		if date, err := time.Parse("2006-01-02", *result.PurchaseDate); err == nil {
			req.PurchaseDate = &date
		}
	}

	return req
}

func nullableTrimmed(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// isValidImageType checks if the content type is a valid image
func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/webp",
	}

	for _, t := range validTypes {
		if strings.EqualFold(contentType, t) {
			return true
		}
	}
	return false
}

// generateImageKey generates a unique object key for a receipt image
func generateImageKey(userID int, filename string) string {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx != -1 {
		ext = strings.ToLower(filename[idx:])
	}
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("receipts/%d/%s%s", userID, uuid.New().String(), ext)
}
