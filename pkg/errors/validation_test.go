package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	valid := []string{"x", "time", "x_i", "_t", "dim0", "X"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "0x", "x-i", "x i", "x.y", "time\n", strings.Repeat("x", 65)}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		} else if !Is(err, ErrCodeInvalidModel) {
			t.Errorf("ValidateName(%q) code = %v, want %v", name, GetCode(err), ErrCodeInvalidModel)
		}
	}
}

func TestValidateModelName(t *testing.T) {
	if err := ValidateModelName("2D heat equation"); err != nil {
		t.Errorf("spaces should be allowed in model names: %v", err)
	}
	if err := ValidateModelName(""); err == nil {
		t.Error("empty model name should be rejected")
	}
	if err := ValidateModelName("bad\x00name"); err == nil {
		t.Error("control characters should be rejected")
	}
	if err := ValidateModelName(strings.Repeat("n", 257)); err == nil {
		t.Error("overlong model name should be rejected")
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("out/report.json"); err != nil {
		t.Errorf("ValidateOutputPath = %v, want nil", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("empty path should be rejected")
	}
	if err := ValidateOutputPath("a\x00b"); err == nil {
		t.Error("null byte should be rejected")
	}
	if err := ValidateOutputPath(strings.Repeat("p", 501)); err == nil {
		t.Error("overlong path should be rejected")
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("json", "json", "dot", "svg"); err != nil {
		t.Errorf("ValidateFormat = %v, want nil", err)
	}

	err := ValidateFormat("pdf", "json", "dot", "svg")
	if err == nil {
		t.Fatal("unknown format should be rejected")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
	if !strings.Contains(err.Error(), "json, dot, svg") {
		t.Errorf("error should list allowed formats: %v", err)
	}
}
