package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "", want: LevelInfo},
		{in: "debug", want: LevelDebug},
		{in: "Warn", want: LevelWarn},
		{in: "ERROR", want: LevelError},
		{in: "trace", wantErr: true},
		{in: "warning", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown log level")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestConfigZapLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   zapcore.Level
	}{
		{name: "empty level is info", config: Config{}, want: zapcore.InfoLevel},
		{name: "lower-case level", config: Config{Level: "warn"}, want: zapcore.WarnLevel},
		{name: "debug flag wins over level", config: Config{Debug: true, Level: LevelError}, want: zapcore.DebugLevel},
	}

	for i := range tests {
		tt := &tests[i]
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.config.toZapCoreLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&Config{Level: "loud"}).toZapCoreLevel()
	assert.Error(t, err)
	assert.Error(t, Level("loud").Validate())
	assert.Equal(t, "WARN", Level("warn").String())
}
