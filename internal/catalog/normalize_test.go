package catalog

import "testing"

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"minutes and seconds", "PT4M13S", 253},
		{"hours minutes seconds", "PT1H30M45S", 5445},
		{"hours only", "PT2H", 7200},
		{"seconds only", "PT45S", 45},
		{"numeric seconds", "300", 300},
		{"negative clamps to zero", "-10", 0},
		{"fractional seconds truncate", "12.9", 12},
		{"garbage", "invalid", 0},
		{"empty", "", 0},
		{"bare PT", "PT", 0},
		{"whitespace around numeric", "  90 ", 90},
		{"iso with day component unsupported", "P1DT2H", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDuration(tt.raw); got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want Language
	}{
		{"no hint defaults to english", "", LanguageEnglish},
		{"bare ar", "ar", LanguageArabic},
		{"regional arabic", "arabic-eg", LanguageArabic},
		{"uppercase", "AR", LanguageArabic},
		{"english", "en", LanguageEnglish},
		{"english word", "english", LanguageEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLanguage(tt.hint); got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.hint, got, tt.want)
			}
		})
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want MediaType
	}{
		{"no hint defaults to video", "", MediaVideo},
		{"podcast", "podcast", MediaAudio},
		{"audio mime", "audio/mpeg", MediaAudio},
		{"video mime", "video/mp4", MediaVideo},
		{"uppercase podcast", "Podcast Episode", MediaAudio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMediaType(tt.hint); got != tt.want {
				t.Errorf("ParseMediaType(%q) = %q, want %q", tt.hint, got, tt.want)
			}
		})
	}
}

func TestChannelImportRequestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultChannelLimit},
		{"negative uses default", -5, DefaultChannelLimit},
		{"in range passes through", 25, 25},
		{"above cap clamps", 500, MaxChannelLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ChannelImportRequest{Limit: tt.limit}
			if got := req.ClampLimit(); got != tt.want {
				t.Errorf("ClampLimit() with %d = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}
