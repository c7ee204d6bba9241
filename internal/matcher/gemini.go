package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/model"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

const verifierPrompt = `You are a strict verifier for a lost-and-found matching system.
You will receive a JSON object with a source item, up to 3 ranked candidate matches
with similarity scores, the score margin between the best two candidates, the
decision proposed by the ranking rules and any text read off the source photo
(ocr_results). The source photo itself may follow the JSON.

Decide whether any candidate is a real match.

Rules:
- Prefer strong identifiers from ocr_results or the text (person name, ID number, phone, email, pet name, serial) over the score.
- If ocr_results is empty or generic (brand only, "Made in ..."), do not treat it as identifying.
- Check that the photo is consistent with the top candidate's description.
- Judge the score by rank and separation, not by its absolute value.
- If score_margin >= 0.05 and the top candidate is consistent with the source, output "match".
- If score_margin < 0.01, output "no_match".
- If evidence conflicts, output "no_match". Otherwise output "needs_review".

Output ONLY valid JSON with exactly these keys:
{
  "decision": "match" | "no_match" | "needs_review",
  "given_id": string,
  "matched_id": string | null,
  "confidence": number,
  "reasons": [string]
}`

const gatePrompt = `You are an OCR routing gate for a lost-and-found system.
Look at the image and decide whether running OCR would likely produce useful identifying text
(person name, student ID, phone number, email, pet name, serial number, luggage label, brand name).
Do not recommend OCR if text is absent, tiny, blurred, cut off, stylized, or not identity-relevant.

Return ONLY valid JSON with exactly these keys:
{
  "should_ocr": true,
  "readability": "high" | "medium" | "low" | "none",
  "doc_type": "id_card" | "pet_tag" | "luggage_tag" | "label" | "serial" | "receipt" | "screen" | "none" | "other",
  "likely_identifiers": [string],
  "reason": string
}`

const ocrPrompt = "Extract all readable text from this image. Return only the text, nothing else."

var verdictKeys = []string{"confidence", "decision", "given_id", "matched_id", "reasons"}

// generator is the part of the genai client the verifier uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiVerifier asks a Gemini model to review the rule decision. When
// the source item has a photo, the photo goes along with the packet and a
// gate call first decides whether reading text off it is worthwhile.
type GeminiVerifier struct {
	models     generator
	model      string
	httpClient *http.Client
}

// NewGeminiVerifier creates a verifier using apiKey.
func NewGeminiVerifier(ctx context.Context, apiKey, model string) (*GeminiVerifier, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return newGeminiVerifier(client.Models, model), nil
}

func newGeminiVerifier(models generator, model string) *GeminiVerifier {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiVerifier{
		models:     models,
		model:      model,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

func (g *GeminiVerifier) Verify(ctx context.Context, p Packet) (*model.Verdict, error) {
	var photo *genai.Part
	if p.Image != "" {
		part, err := g.fetchImage(ctx, p.Image)
		if err != nil {
			slog.WarnContext(ctx, "verifying without photo", "item", p.GivenID, "error", err)
		} else {
			photo = part
			p.ShouldOCR, p.OCRText = g.readText(ctx, p.GivenID, photo)
		}
	}

	packet, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding decision packet: %w", err)
	}

	parts := []*genai.Part{genai.NewPartFromText(string(packet))}
	if photo != nil {
		parts = append(parts, photo)
	}

	raw, err := g.generate(ctx, parts, verifierPrompt, true)
	if err != nil {
		return nil, err
	}
	return parseVerdict(raw)
}

type gateResult struct {
	ShouldOCR bool   `json:"should_ocr"`
	Reason    string `json:"reason"`
}

// readText runs the OCR gate and, when it says yes, the OCR call. Both are
// best effort: a failure only means the packet carries no text.
func (g *GeminiVerifier) readText(ctx context.Context, itemID string, photo *genai.Part) (bool, string) {
	raw, err := g.generate(ctx, []*genai.Part{photo, genai.NewPartFromText(gatePrompt)}, "", true)
	if err != nil {
		slog.WarnContext(ctx, "OCR gate failed", "item", itemID, "error", err)
		return false, ""
	}
	var gate gateResult
	if err := json.Unmarshal([]byte(stripFences(raw)), &gate); err != nil {
		slog.WarnContext(ctx, "OCR gate answer unreadable", "item", itemID, "error", err)
		return false, ""
	}
	slog.DebugContext(ctx, "OCR gate", "item", itemID, "should_ocr", gate.ShouldOCR, "reason", gate.Reason)
	if !gate.ShouldOCR {
		return false, ""
	}

	text, err := g.generate(ctx, []*genai.Part{photo, genai.NewPartFromText(ocrPrompt)}, "", false)
	if err != nil {
		slog.WarnContext(ctx, "OCR failed", "item", itemID, "error", err)
		return true, ""
	}
	return true, strings.TrimSpace(text)
}

func (g *GeminiVerifier) generate(ctx context.Context, parts []*genai.Part, system string, asJSON bool) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0),
		MaxOutputTokens: 800,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if asJSON {
		cfg.ResponseMIMEType = "application/json"
		cfg.MaxOutputTokens = 400
	}

	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini request failed: %w", err)
	}
	return resp.Text(), nil
}

// fetchImage downloads the photo at url for inline use.
func (g *GeminiVerifier) fetchImage(ctx context.Context, url string) (*genai.Part, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating image request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, imaging.MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > imaging.MaxInputBytes {
		return nil, imaging.ErrTooLarge
	}
	mime, ok := imaging.Sniff(data)
	if !ok {
		return nil, fmt.Errorf("%w: %s", imaging.ErrUnsupportedFormat, mime)
	}
	return genai.NewPartFromBytes(data, mime), nil
}

// parseVerdict decodes the model's JSON answer. Code fences around the
// JSON are removed and the object must have exactly the verdict keys.
func parseVerdict(raw string) (*model.Verdict, error) {
	raw = stripFences(raw)
	if raw == "" {
		return nil, errors.New("empty model response")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decoding model response: %w", err)
	}
	if keys := slices.Sorted(maps.Keys(fields)); !slices.Equal(keys, verdictKeys) {
		return nil, fmt.Errorf("model returned unexpected keys: %v", keys)
	}

	var v model.Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decoding model verdict: %w", err)
	}
	return &v, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
