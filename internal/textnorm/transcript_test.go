package textnorm

import "testing"

func TestProcessTranscript(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		lang string
		want string
	}{
		{"empty", "", "en", ""},
		{"only fillers", "um uh", "en", ""},
		{"english fillers and capitalization", "um so this is  uh the next slide", "en", "So this is the next slide."},
		{"english keeps terminal punctuation", "go to page three !", "en-US", "Go to page three!"},
		{"english filler with comma", "So, um, the answer", "english", "So, the answer."},
		{"repeated punctuation", "really??? yes!!", "en", "Really? yes!"},
		{"arabic punctuation", "ما هذا ?", "ar", "ما هذا؟"},
		{"arabic fillers", "امم الصفحة التالية , من فضلك", "arabic", "الصفحة التالية، من فضلك"},
		{"unknown language only spacing", "  um   hello ,world  ", "fr", "um hello,world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProcessTranscript(tt.raw, tt.lang); got != tt.want {
				t.Errorf("ProcessTranscript(%q, %q) = %q, want %q", tt.raw, tt.lang, got, tt.want)
			}
		})
	}
}
