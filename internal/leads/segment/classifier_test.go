package segment

import "testing"

func TestClassify(t *testing.T) {
	thresholds := DefaultThresholds()

	tests := []struct {
		score int
		want  Segment
	}{
		{-5, Cold},
		{0, Cold},
		{14, Cold},
		{15, Warm},
		{29, Warm},
		{30, Hot},
		{1000, Hot},
	}

	for _, tt := range tests {
		if got := Classify(tt.score, thresholds); got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestClassifyMalformedThresholds(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
	}{
		{"zero value", Thresholds{}},
		{"hot below warm", Thresholds{HotMinScore: 10, WarmMinScore: 20}},
		{"hot equals warm", Thresholds{HotMinScore: 15, WarmMinScore: 15}},
		{"warm not positive", Thresholds{HotMinScore: 30, WarmMinScore: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.thresholds.Valid() {
				t.Fatal("thresholds unexpectedly valid")
			}
			if got := Classify(100, tt.thresholds); got != Cold {
				t.Fatalf("Classify(100) = %q, want cold for malformed thresholds", got)
			}
		})
	}
}
