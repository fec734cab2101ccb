package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "keeps allowed flag with value",
			args:    []string{"-a", "localhost:4000", "-x", "noise"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:4000"},
		},
		{
			name:    "keeps equals form",
			args:    []string{"--flag=value", "-other=1"},
			allowed: []string{"--flag"},
			want:    []string{"--flag=value"},
		},
		{
			name:    "drops everything when nothing allowed",
			args:    []string{"-a", "1", "-b", "2"},
			allowed: nil,
			want:    []string{},
		},
		{
			name:    "boolean flag without value",
			args:    []string{"-v", "-a", "localhost"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "value starting with dash is not swallowed",
			args:    []string{"-i", "-5"},
			allowed: []string{"-i"},
			want:    []string{"-i"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJSONConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short flag", args: []string{"cmd", "-c", "cfg.json"}, want: "cfg.json"},
		{name: "long flag", args: []string{"cmd", "-config", "cfg.json"}, want: "cfg.json"},
		{name: "equals form", args: []string{"cmd", "-config=cfg.json"}, want: "cfg.json"},
		{name: "absent", args: []string{"cmd", "-a", "localhost"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.want, JSONConfigPath())
		})
	}
}
