package monitor

import "testing"

func TestSelectIcon(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		charging bool
		want     IconVariant
	}{
		{"critical discharging", 4, false, IconCritical},
		{"critical boundary", 5, false, IconCritical},
		{"low discharging", 10, false, IconLow},
		{"low boundary", 15, false, IconLow},
		{"just above low", 16, false, IconNormal},
		{"healthy", 80, false, IconNormal},
		{"critical but charging", 4, true, IconNormal},
		{"low but charging", 12, true, IconNormal},
		{"full", 100, false, IconNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectIcon(tt.level, tt.charging); got != tt.want {
				t.Errorf("SelectIcon(%d, %v) = %v, want %v", tt.level, tt.charging, got, tt.want)
			}
		})
	}
}

func TestIconVariantString(t *testing.T) {
	tests := []struct {
		variant IconVariant
		want    string
	}{
		{IconNormal, "normal"},
		{IconLow, "low"},
		{IconCritical, "critical"},
		{IconVariant(99), "normal"},
	}

	for _, tt := range tests {
		if got := tt.variant.String(); got != tt.want {
			t.Errorf("IconVariant(%d).String() = %q, want %q", int(tt.variant), got, tt.want)
		}
	}
}
