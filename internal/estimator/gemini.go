package estimator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"

	// MaxImageSize caps uploaded meal photos.
	MaxImageSize = 10 << 20

	mealPrompt = `Analyze this food image. Estimate the total calories and protein (grams) of the whole meal.
Return ONLY a raw JSON object, with no other text, in exactly this shape:
{"food_name": "short name of the food", "calories": 0, "protein": 0}`
)

var (
	ErrUnavailable       = errors.New("meal estimator not configured")
	ErrInvalidImage      = errors.New("invalid meal image")
	ErrMalformedEstimate = errors.New("malformed meal estimate")
)

var supportedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// Estimate is what the model thinks is on the plate.
type Estimate struct {
	FoodName string  `json:"food_name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func NewGeminiClient(apiKey, baseURL, model string, httpClient *http.Client) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}
}

func (c *GeminiClient) Available() bool {
	return c != nil && c.apiKey != ""
}

// EstimateMeal asks the model for the food name, calories and protein of the pictured meal.
// It has no side effects; logging the estimate is up to the caller.
func (c *GeminiClient) EstimateMeal(ctx context.Context, image []byte, mimeType string) (_ *Estimate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "estimator.gemini.estimateMeal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !c.Available() {
		return nil, ErrUnavailable
	}

	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	span.SetAttributes(
		attribute.String("mime_type", mimeType),
		attribute.Int("image_size", len(image)),
	)

	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	if len(image) > MaxImageSize {
		return nil, fmt.Errorf("%w: image larger than %d bytes", ErrInvalidImage, MaxImageSize)
	}
	if !supportedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: unsupported mime type [%s]", ErrInvalidImage, mimeType)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: mealPrompt},
					{InlineData: &geminiInlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
	}

	text, err := c.generate(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	estimate, err := ParseEstimate(text)
	if err != nil {
		log.Debugf("gemini returned unparseable estimate: %q", text)
		return nil, err
	}

	return estimate, nil
}

func (c *GeminiClient) generate(ctx context.Context, reqBody geminiRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the url error would leak the api key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini request failed with status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: unmarshal gemini response: %w", ErrMalformedEstimate, err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates in gemini response", ErrMalformedEstimate)
	}

	return response.Candidates[0].Content.Parts[0].Text, nil
}

// ParseEstimate parses the model text, tolerating markdown code fences around the JSON.
func ParseEstimate(text string) (*Estimate, error) {
	cleaned := stripCodeFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedEstimate)
	}

	var raw struct {
		FoodName *string  `json:"food_name"`
		Calories *float64 `json:"calories"`
		Protein  *float64 `json:"protein"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEstimate, err)
	}

	if raw.FoodName == nil || raw.Calories == nil || raw.Protein == nil {
		return nil, fmt.Errorf("%w: food_name, calories and protein are required", ErrMalformedEstimate)
	}
	if *raw.Calories < 0 || *raw.Protein < 0 {
		return nil, fmt.Errorf("%w: negative amounts", ErrMalformedEstimate)
	}

	return &Estimate{
		FoodName: strings.TrimSpace(*raw.FoodName),
		Calories: *raw.Calories,
		Protein:  *raw.Protein,
	}, nil
}

func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```JSON")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
