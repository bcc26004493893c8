package AI

import (
	"MediDesk/Constants"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"
)

var client *genai.Client

// Setup creates the Gemini client. Extraction endpoints stay disabled when
// GEMINI_API_KEY is not configured.
func Setup() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, prescription extraction disabled")
		return
	}

	ctx := context.Background()
	var err error
	client, err = genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	log.Println("Gemini client initialized successfully")
}

// PrescriptionDraft is the structured form extracted from a dictated
// consultation transcript.
type PrescriptionDraft struct {
	Complaints   string          `json:"complaints"`
	Diagnosis    string          `json:"diagnosis"`
	Medicines    []MedicineDraft `json:"medicines"`
	Advice       string          `json:"advice"`
	FollowUpDate string          `json:"follow_up_date"`
}

type MedicineDraft struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

const extractionPrompt = `You are a medical transcription assistant. Extract a structured prescription from the doctor's dictated transcript below.
Respond with a single JSON object with these fields:
"complaints" (string), "diagnosis" (string), "advice" (string),
"follow_up_date" (string, YYYY-MM-DD or empty),
"medicines" (array of objects with "name", "dosage", "frequency", "duration", all strings).
Leave fields empty when the transcript does not mention them. Do not invent medicines.

Transcript:
%s`

// ExtractPrescription sends the transcript to Gemini and decodes the JSON it
// returns. The decoded draft is validated before it is handed back, the model
// output is never trusted verbatim.
func ExtractPrescription(ctx context.Context, transcript string) (PrescriptionDraft, error) {
	var draft PrescriptionDraft

	if client == nil {
		return draft, errors.New("gemini client not initialized")
	}
	if strings.TrimSpace(transcript) == "" {
		return draft, errors.New("empty transcript")
	}

	result, err := client.Models.GenerateContent(ctx,
		Constants.GeminiModel,
		genai.Text(fmt.Sprintf(extractionPrompt, transcript)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return draft, fmt.Errorf("gemini request failed: %w", err)
	}

	raw := result.Text()
	if raw == "" {
		return draft, errors.New("empty model response")
	}

	if err := json.Unmarshal([]byte(stripFences(raw)), &draft); err != nil {
		return draft, fmt.Errorf("failed to decode model response: %w", err)
	}

	return ValidateDraft(draft)
}

// ValidateDraft drops medicine lines without a name and rejects drafts that
// carry no usable content at all.
func ValidateDraft(draft PrescriptionDraft) (PrescriptionDraft, error) {
	kept := draft.Medicines[:0]
	for _, line := range draft.Medicines {
		if strings.TrimSpace(line.Name) != "" {
			kept = append(kept, line)
		}
	}
	draft.Medicines = kept

	if len(draft.Medicines) == 0 && strings.TrimSpace(draft.Diagnosis) == "" && strings.TrimSpace(draft.Complaints) == "" {
		return draft, errors.New("model returned no usable prescription data")
	}
	return draft, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite the response MIME type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
