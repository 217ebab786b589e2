package config

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	ChatBaseURL string
	StudentID   string
	DataDir     string

	SpeechWSEndpoint string
	SpeechLocale     string

	SynthProvider      string // "backend" or "deepgram"
	DeepgramAPIKey     string
	DeepgramVoiceModel string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	HTTPAddress string // dev stub backend
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	baseURL := os.Getenv("CHAT_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	studentID := os.Getenv("STUDENT_ID")
	if studentID == "" {
		// fallback anonymous identity, minted once per process
		studentID = "anonymous_" + uuid.NewString()
		log.Printf("config: STUDENT_ID not set - using %s", studentID)
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	speechWS := os.Getenv("SPEECH_WS_ENDPOINT")
	if speechWS == "" {
		log.Println("Warning: SPEECH_WS_ENDPOINT not set - voice capture disabled for this session")
	}

	locale := os.Getenv("SPEECH_LOCALE")
	if locale == "" {
		locale = "fa-IR"
	}

	provider := os.Getenv("SYNTH_PROVIDER")
	if provider == "" {
		provider = "backend"
	}
	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	if provider == "deepgram" && deepgramKey == "" {
		log.Println("Warning: SYNTH_PROVIDER=deepgram but DEEPGRAM_API_KEY not set - synthesis will not work")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":5000"
	}

	return Config{
		ChatBaseURL:        baseURL,
		StudentID:          studentID,
		DataDir:            dataDir,
		SpeechWSEndpoint:   speechWS,
		SpeechLocale:       locale,
		SynthProvider:      provider,
		DeepgramAPIKey:     deepgramKey,
		DeepgramVoiceModel: os.Getenv("DEEPGRAM_VOICE_MODEL"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseKey:        os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     os.Getenv("SUPABASE_BUCKET"),
		HTTPAddress:        addr,
	}
}
