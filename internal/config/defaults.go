package config

const defaultRegion = "us-central1"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 50
	}
	if cfg.Server.RequestTimeoutSeconds == 0 {
		cfg.Server.RequestTimeoutSeconds = 180
	}
	if cfg.AI.Region == "" {
		cfg.AI.Region = defaultRegion
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-1.5-flash"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.2
	}
	if cfg.AI.MaxRetries == 0 {
		cfg.AI.MaxRetries = 3
	}
	if cfg.Speech.Provider == "" {
		cfg.Speech.Provider = "google"
	}
	if cfg.Speech.VoiceArabic == "" {
		cfg.Speech.VoiceArabic = "ar-XA-Standard-A"
	}
	if cfg.Speech.VoiceEnglish == "" {
		cfg.Speech.VoiceEnglish = "en-US-Standard-C"
	}
	if cfg.Speech.AudioEncoding == "" {
		cfg.Speech.AudioEncoding = "MP3"
	}
	if cfg.Speech.CacheSize == 0 {
		cfg.Speech.CacheSize = 256
	}
	if cfg.Speech.TranscribeModel == "" {
		cfg.Speech.TranscribeModel = cfg.AI.Model
	}
	// RenderPages defaults to true when unset (nil).
	if cfg.Extract.RenderPages == nil {
		t := true
		cfg.Extract.RenderPages = &t
	}
	if cfg.Extract.RenderDPI == 0 {
		cfg.Extract.RenderDPI = 110
	}
	if cfg.Extract.RenderWorkers == 0 {
		cfg.Extract.RenderWorkers = 4
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 50
	}
}
