package contact

import "testing"

// ----------------------------------------------------------------------------
// Phone List Helper Tests
// ----------------------------------------------------------------------------

func TestCountPhones(t *testing.T) {
	tests := []struct {
		name   string
		phones string
		want   int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n ", 0},
		{"single", "0701234567", 1},
		{"multiple", "0701234567\n081234567", 2},
		{"blank lines ignored", "0701234567\n\n081234567\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountPhones(tt.phones); got != tt.want {
				t.Errorf("CountPhones(%q) = %d, want %d", tt.phones, got, tt.want)
			}
		})
	}
}

func TestFirstPhone(t *testing.T) {
	tests := []struct {
		name   string
		phones string
		want   string
	}{
		{"empty", "", ""},
		{"single", "0701234567", "0701234567"},
		{"multiple", "0701234567\n081234567", "0701234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstPhone(tt.phones); got != tt.want {
				t.Errorf("FirstPhone(%q) = %q, want %q", tt.phones, got, tt.want)
			}
		})
	}
}

func TestDetectOperator(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"telia prefix", "0701234567", "telia"},
		{"tele2 prefix", "0731234567", "tele2"},
		{"telenor prefix", "0791234567", "telenor"},
		{"landline", "081234567", "other"},
		{"formatted number", "070-123 45 67", "telia"},
		{"too short", "07", "other"},
		{"empty", "", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectOperator(tt.phone); got != tt.want {
				t.Errorf("DetectOperator(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}
