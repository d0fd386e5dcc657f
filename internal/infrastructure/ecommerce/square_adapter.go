package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/babel-30/sugarplum-backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the Square
// API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// SquareAdapter implements the CommercePlatform interface against the
// Square REST API
type SquareAdapter struct {
	config     *SquareConfig
	httpClient *http.Client

	// overrideBaseURL points the adapter at a test server when set
	overrideBaseURL string
}

// NewSquareAdapter creates a Square adapter with the given
// configuration
func NewSquareAdapter(config *SquareConfig) (*SquareAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SquareAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// ListCatalogPage returns one page of ITEM catalog objects
func (a *SquareAdapter) ListCatalogPage(ctx context.Context, cursor string) (*integration.CatalogPage, error) {
	path := "/v2/catalog/list?types=ITEM"
	if cursor != "" {
		path += "&cursor=" + url.QueryEscape(cursor)
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp squareListCatalogResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse catalog page: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, resp.message())
	}

	page := &integration.CatalogPage{
		Items:  make([]integration.CatalogObject, 0, len(resp.Objects)),
		Cursor: resp.Cursor,
	}
	for _, obj := range resp.Objects {
		if obj.Type != "ITEM" || obj.ItemData == nil {
			continue
		}
		page.Items = append(page.Items, convertSquareItem(&obj))
	}
	return page, nil
}

// RetrieveImage resolves an IMAGE catalog object to its URL
func (a *SquareAdapter) RetrieveImage(ctx context.Context, imageID string) (string, error) {
	respBody, err := a.doRequest(ctx, http.MethodGet, "/v2/catalog/object/"+url.PathEscape(imageID), nil)
	if err != nil {
		return "", err
	}

	var resp squareRetrieveObjectResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse image object: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if len(resp.Errors) > 0 {
		return "", fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, resp.message())
	}
	if resp.Object == nil || resp.Object.ImageData == nil {
		return "", fmt.Errorf("%w: object %s carries no image data", integration.ErrPlatformInvalidResponse, imageID)
	}
	return resp.Object.ImageData.URL, nil
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// BatchGetInventoryCounts returns count rows for the given variation
// ids. Square reports one row per inventory state, so a variation may
// appear several times; summation is the caller's job.
func (a *SquareAdapter) BatchGetInventoryCounts(ctx context.Context, variationIDs []string) ([]integration.InventoryCount, error) {
	if len(variationIDs) == 0 {
		return nil, nil
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/v2/inventory/counts/batch-retrieve",
		&squareBatchRetrieveCountsRequest{CatalogObjectIDs: variationIDs})
	if err != nil {
		return nil, err
	}

	var resp squareBatchRetrieveCountsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse inventory counts: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, resp.message())
	}

	counts := make([]integration.InventoryCount, 0, len(resp.Counts))
	for _, c := range resp.Counts {
		counts = append(counts, integration.InventoryCount{
			VariationID: c.CatalogObjectID,
			Quantity:    parseQuantity(c.Quantity),
		})
	}
	return counts, nil
}

// AdjustInventory applies quantity changes vendor-side. Absolute
// targets become physical counts; signed deltas become adjustments in
// or out of stock.
func (a *SquareAdapter) AdjustInventory(ctx context.Context, adjustments []integration.InventoryAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	changes := make([]squareInventoryChange, 0, len(adjustments))
	for _, adj := range adjustments {
		switch {
		case adj.Absolute != nil:
			changes = append(changes, squareInventoryChange{
				Type: "PHYSICAL_COUNT",
				PhysicalCount: &squarePhysicalCount{
					CatalogObjectID: adj.VariationID,
					State:           "IN_STOCK",
					LocationID:      a.config.LocationID,
					Quantity:        strconv.FormatInt(*adj.Absolute, 10),
					OccurredAt:      now,
				},
			})
		case adj.Delta != nil && *adj.Delta > 0:
			changes = append(changes, squareInventoryChange{
				Type: "ADJUSTMENT",
				Adjustment: &squareInventoryAdjust{
					CatalogObjectID: adj.VariationID,
					FromState:       "NONE",
					ToState:         "IN_STOCK",
					LocationID:      a.config.LocationID,
					Quantity:        strconv.FormatInt(*adj.Delta, 10),
					OccurredAt:      now,
				},
			})
		case adj.Delta != nil && *adj.Delta < 0:
			changes = append(changes, squareInventoryChange{
				Type: "ADJUSTMENT",
				Adjustment: &squareInventoryAdjust{
					CatalogObjectID: adj.VariationID,
					FromState:       "IN_STOCK",
					ToState:         "WASTE",
					LocationID:      a.config.LocationID,
					Quantity:        strconv.FormatInt(-*adj.Delta, 10),
					OccurredAt:      now,
				},
			})
		default:
			// zero delta is a no-op
		}
	}
	if len(changes) == 0 {
		return nil
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/v2/inventory/changes/batch-create",
		&squareBatchChangeRequest{
			IdempotencyKey: uuid.NewString(),
			Changes:        changes,
		})
	if err != nil {
		return err
	}

	var resp squareBatchChangeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("%w: failed to parse inventory change response: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, resp.message())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Checkout Operations
// ---------------------------------------------------------------------------

// CreatePaymentLink creates a hosted checkout page for the given order
func (a *SquareAdapter) CreatePaymentLink(ctx context.Context, req *integration.PaymentLinkRequest) (*integration.PaymentLink, error) {
	lineItems := make([]squareOrderLineItem, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lineItems = append(lineItems, squareOrderLineItem{
			Name:     li.Name,
			Quantity: strconv.FormatInt(li.Quantity, 10),
			BasePriceMoney: SquareMoney{
				Amount:   li.PriceCents,
				Currency: "USD",
			},
		})
	}

	body := &squareCreatePaymentLinkRequest{
		IdempotencyKey: req.IdempotencyKey,
		Order: squarePaymentLinkOrder{
			LocationID: a.config.LocationID,
			LineItems:  lineItems,
		},
	}
	redirect := req.RedirectURL
	if redirect == "" {
		redirect = a.config.RedirectURL
	}
	if redirect != "" {
		body.CheckoutOptions = &squareCheckoutOptions{RedirectURL: redirect}
	}
	if req.BuyerEmail != "" {
		body.PrePopulatedData = &squarePrePopulatedData{BuyerEmail: req.BuyerEmail}
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/v2/online-checkout/payment-links", body)
	if err != nil {
		return nil, err
	}

	var resp squareCreatePaymentLinkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse payment link response: %v", integration.ErrPlatformInvalidResponse, err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", integration.ErrPlatformRequestFailed, resp.message())
	}
	if resp.PaymentLink == nil || resp.PaymentLink.URL == "" {
		return nil, fmt.Errorf("%w: payment link missing from response", integration.ErrPlatformInvalidResponse)
	}

	return &integration.PaymentLink{
		ID:      resp.PaymentLink.ID,
		OrderID: resp.PaymentLink.OrderID,
		URL:     resp.PaymentLink.URL,
	}, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// doRequest performs an authenticated HTTP request against the Square
// API
func (a *SquareAdapter) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("square: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("square: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	req.Header.Set("Square-Version", squareAPIVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("square: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errBody squareErrorBody
		if json.Unmarshal(respBody, &errBody) == nil && len(errBody.Errors) > 0 {
			return nil, fmt.Errorf("%w: HTTP %d: %s", integration.ErrPlatformRequestFailed, resp.StatusCode, errBody.message())
		}
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, resp.StatusCode)
	}
	return respBody, nil
}

// baseURL allows tests to point the adapter at a local server
func (a *SquareAdapter) baseURL() string {
	if a.overrideBaseURL != "" {
		return a.overrideBaseURL
	}
	return a.config.BaseURL()
}

// convertSquareItem maps a wire catalog object to the platform-neutral
// shape, defaulting every optional field at this boundary
func convertSquareItem(obj *SquareCatalogObject) integration.CatalogObject {
	data := obj.ItemData

	item := integration.CatalogObject{
		ID:          obj.ID,
		Name:        data.Name,
		Description: data.Description,
		ImageIDs:    data.ImageIDs,
		Variations:  make([]integration.CatalogVariation, 0, len(data.Variations)),
	}
	if len(data.EcomImageURIs) > 0 {
		item.ImageURL = data.EcomImageURIs[0]
	}
	for _, v := range data.Variations {
		if v.ItemVariationData == nil {
			continue
		}
		variation := integration.CatalogVariation{
			ID:   v.ID,
			Name: v.ItemVariationData.Name,
		}
		if pm := v.ItemVariationData.PriceMoney; pm != nil {
			// minor units to dollars
			variation.Price = decimal.New(pm.Amount, -2)
		}
		item.Variations = append(item.Variations, variation)
	}
	return item
}

// Ensure SquareAdapter implements the CommercePlatform interface
var _ integration.CommercePlatform = (*SquareAdapter)(nil)
