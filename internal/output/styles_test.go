package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantBold bool
		wantFG   lipgloss.Color
		wantDim  bool
	}{
		{
			name:   "indexed returns green",
			status: StatusIndexed,
			wantFG: ColorGreen,
		},
		{
			name:   "enriched returns yellow",
			status: StatusEnriched,
			wantFG: ColorYellow,
		},
		{
			name:    "shadowed returns faint",
			status:  StatusShadowed,
			wantDim: true,
		},
		{
			name:     "failed returns bold red",
			status:   StatusFailed,
			wantBold: true,
			wantFG:   ColorBoldRed,
		},
		{
			name:   "unknown returns default unstyled",
			status: "unknown-value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := statusStyle(tt.status)
			assert.Equal(t, tt.wantBold, style.GetBold(), "bold mismatch")
			assert.Equal(t, tt.wantDim, style.GetFaint(), "faint mismatch")
			if tt.wantFG != "" {
				assert.Equal(t, tt.wantFG, style.GetForeground(), "foreground color mismatch")
			}
		})
	}
}

func TestFormatSourceLine(t *testing.T) {
	line := FormatSourceLine("coordinate", "com.acme:lib-core", StatusIndexed)

	assert.Contains(t, line, "coordinate/com.acme:lib-core")
	assert.Contains(t, line, StatusIndexed)
	assert.True(t, strings.HasPrefix(stripAnsi(line), "s:"), "should start with s: prefix")

	t.Run("alignment consistency", func(t *testing.T) {
		line1 := stripAnsi(FormatSourceLine("project", "target/classes", StatusIndexed))
		line2 := stripAnsi(FormatSourceLine("marker", "/libs/plugin.jar", StatusIndexed))

		assert.Equal(t, strings.Index(line1, StatusIndexed), strings.Index(line2, StatusIndexed),
			"status words should align to same column")
	})

	t.Run("long names keep a gap", func(t *testing.T) {
		long := strings.Repeat("x", 80)
		line := stripAnsi(FormatSourceLine("marked", long, StatusFailed))
		assert.Contains(t, line, long+"  "+StatusFailed)
	})
}

func TestFormatCheckmark(t *testing.T) {
	result := FormatCheckmark("Index assembled")
	assert.Contains(t, result, "✔", "should contain checkmark")
	assert.Contains(t, result, "Index assembled", "should contain message")
}

func TestFormatVetCheck(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		detail string
	}{
		{name: "with detail", label: "Config file found", detail: "~/.classidx/config.yaml"},
		{name: "without detail", label: "Coordinates resolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := stripAnsi(FormatVetCheck(tt.label, tt.detail))
			assert.True(t, strings.HasPrefix(result, "✔ "+tt.label))
			if tt.detail == "" {
				assert.Equal(t, "✔ "+tt.label, result)
			} else {
				assert.True(t, strings.HasSuffix(result, tt.detail))
			}
		})
	}

	t.Run("detail alignment", func(t *testing.T) {
		line1 := stripAnsi(FormatVetCheck("Config file found", "a"))
		line2 := stripAnsi(FormatVetCheck("Classpath entries exist", "b"))
		assert.Equal(t, strings.Index(line1, "a"), strings.LastIndex(line2, "b"))
	})
}

func TestFormatVetFailure(t *testing.T) {
	result := stripAnsi(FormatVetFailure("Coordinates resolved", "no artifact com.acme:missing"))
	assert.Equal(t, "✘ Coordinates resolved\n    no artifact com.acme:missing", result)
}

// stripAnsi removes ANSI escape sequences for content assertions.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}
	return result.String()
}
