package Constants

import "os"

// WhatsappGoService is the base URL of the self-hosted WhatsApp HTTP gateway.
var WhatsappGoService = envOr("WHATSAPP_GATEWAY_URL", "http://localhost:3000")

// GeminiModel is the generative model used for prescription extraction.
var GeminiModel = envOr("GEMINI_MODEL", "gemini-2.0-flash")

const (
	PermissionStaff  = 1
	PermissionDoctor = 2
	PermissionOwner  = 3
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
