package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "image_generation", cfg.Mongo.Database)
	assert.Equal(t, "generated_images", cfg.Mongo.Collection)
	assert.Equal(t, "disk", cfg.Storage.Backend)
	assert.Equal(t, "generated_images", cfg.Storage.DiskRoot)

	assert.Equal(t, 20, cfg.Studio.GalleryLimitDefault)
	assert.Equal(t, 5, cfg.Studio.GalleryLimitMin)
	assert.Equal(t, 50, cfg.Studio.GalleryLimitMax)
	assert.Equal(t, 1000, cfg.Studio.StatsScanCap)
}

func TestDefaultStyleSuffixes(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Styles, 5)
	assert.Equal(t, "fantasy art, magical, ethereal, mystical", cfg.Styles["fantasy"])
	assert.Equal(t, "photorealistic, high quality, detailed, 8k resolution", cfg.Styles["realistic"])
	assert.Equal(t, "cartoon style, animated, colorful, disney style", cfg.Styles["cartoon"])
	assert.Equal(t, "cyberpunk style, neon lights, futuristic, sci-fi", cfg.Styles["cyberpunk"])
	assert.Equal(t, "abstract art, artistic, creative, modern art", cfg.Styles["abstract"])
}
