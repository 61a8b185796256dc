package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempModelDir(t *testing.T) string {
	t.Helper()
	original := ModelDir
	ModelDir = t.TempDir()
	t.Cleanup(func() { ModelDir = original })
	return ModelDir
}

func TestPrepareModel(t *testing.T) {
	t.Run("Download model when it doesn't exist", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping model download in short mode")
		}
		useTempModelDir(t)

		path, err := PrepareModel("sentence-transformers/all-MiniLM-L6-v2", "onnx/model.onnx")

		// network access is not guaranteed
		if err != nil {
			assert.Contains(t, err.Error(), "failed to", "Expected error to be about download failure")
		} else {
			assert.NotEmpty(t, path, "Expected model path to be returned")
			assert.DirExists(t, path, "Expected model directory to exist")
		}
	})

	t.Run("Return existing model path with sanitized name", func(t *testing.T) {
		dir := useTempModelDir(t)
		expectedPath := filepath.Join(dir, "organization_model-name")
		require.NoError(t, os.MkdirAll(expectedPath, 0750), "Expected directory creation to succeed")

		path, err := PrepareModel("organization/model-name", "")
		assert.NoError(t, err, "Expected PrepareModel to not return an error for existing model")
		assert.Equal(t, expectedPath, path, "Expected path to use sanitized name")
	})

	t.Run("Model name without slash", func(t *testing.T) {
		dir := useTempModelDir(t)
		expectedPath := filepath.Join(dir, "simple-model")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))

		path, err := PrepareModel("simple-model", "onnx/model.onnx")
		assert.NoError(t, err, "Expected PrepareModel to not return an error")
		assert.Equal(t, expectedPath, path, "Expected path to use model name directly")
	})

	t.Run("Empty model name", func(t *testing.T) {
		useTempModelDir(t)

		_, err := PrepareModel("  ", "")
		assert.Error(t, err, "Expected error for empty model name")
		assert.Contains(t, err.Error(), "model name is empty")
	})
}
