package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/oscarvc/kardex-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConCampoService(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Service: "kardex-api", Writer: &buf})

	log.Info().Msg("por debajo del nivel")
	log.Warn().Str("branch_id", "branch-1").Msg("visible")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "kardex-api", line["service"])
	assert.Equal(t, "branch-1", line["branch_id"])
	assert.Equal(t, "visible", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_NivelNoReconocidoCaeEnInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "verboso", Writer: &buf})

	log.Debug().Msg("filtrado")
	log.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "filtrado")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_SinServiceNoAgregaElCampo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Writer: &buf})

	log.Info().Msg("hola")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.NotContains(t, line, "service")
}
