package document

import (
	"math"
	"testing"

	"github.com/matzehuels/shaderdoc/pkg/shader"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		v    shader.Value
		want string
	}{
		{"scalar", shader.Scalar(0.5), "Value: 0.5000"},
		{"scalar rounding", shader.Scalar(1.23456), "Value: 1.2346"},
		{"negative", shader.Scalar(-2), "Value: -2.0000"},
		{"nan", shader.Scalar(math.NaN()), "Value: nan"},
		{"inf", shader.Scalar(math.Inf(1)), "Value: inf"},
		{"negative inf", shader.Scalar(math.Inf(-1)), "Value: -inf"},
		{"bool", shader.ValueOf(true), "Value: 1.0000"},
		{"vec3", shader.Vector(1, 0, 0), "Value: (1.0000, 0.0000, 0.0000)"},
		{"vec4", shader.Vector(0.8, 0.8, 0.8, 1), "Value: (0.8000, 0.8000, 0.8000, 1.0000)"},
		{"vec2", shader.Vector(0.5, 2), "Value: (0.5, 2)"},
		{"text", shader.Text("<bpy_struct, Object>"), "Value: <bpy_struct, Object>"},
		{"none", shader.Value{}, "Not Connected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.v); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ADD", "Add"},
		{"add", "Add"},
		{"MULTIPLY_ADD", "Multiply Add"},
		{"LINEAR_LIGHT", "Linear Light"},
		{"LOG2X", "Log2X"},
		{"", ""},
		{"__x", "  X"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TitleCase(tt.in); got != tt.want {
				t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"//textures/wood.png", "wood.png"},
		{`C:\tex\rock.exr`, "rock.exr"},
		{"plain.jpg", "plain.jpg"},
		{"dir/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := BaseName(tt.in); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
