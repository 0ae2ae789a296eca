package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"json", false},
		{"geojson", false},
		{"dot", false},
		{"svg", false},
		{"table", false},
		{"", true},
		{"JSON", true},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
			}
		})
	}
}

func TestValidateAlgorithm(t *testing.T) {
	for _, name := range []string{"", "sweep", "quadratic"} {
		if err := ValidateAlgorithm(name); err != nil {
			t.Errorf("ValidateAlgorithm(%q) = %v", name, err)
		}
	}
	if err := ValidateAlgorithm("bentley"); !Is(err, ErrCodeInvalidAlgorithm) {
		t.Errorf("ValidateAlgorithm(bentley) = %v", err)
	}
}

func TestValidateTolerance(t *testing.T) {
	tests := []struct {
		name    string
		tol     float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"default", 1e-9, false},
		{"coarse", 0.5, false},
		{"negative", -1e-9, true},
		{"nan", math.NaN(), true},
		{"infinite", math.Inf(1), true},
		{"too coarse", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTolerance(tt.tol)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTolerance(%v) error = %v, wantErr %v", tt.tol, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "a", false},
		{"numeric", "42", false},
		{"unicode", "knoten-ä", false},
		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"newline", "a\nb", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "drawing.json", false},
		{"valid nested", "graphs/rome/grafo10.json", false},
		{"valid dots in name", "a..b.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "graphs/../../secret", true},
		{"backslash", "graphs\\a.json", true},
		{"null byte", "a\x00.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
