package kubeconform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yannh/kubeconform/pkg/validator"
)

func TestSchemaLocations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     *ValidationOptions
		expected []string
	}{
		{
			name:     "defaults",
			opts:     &ValidationOptions{},
			expected: []string{"default"},
		},
		{
			name:     "crd schemas add the catalog location",
			opts:     &ValidationOptions{IncludeCRDSchemas: true},
			expected: []string{"default", CRDsCatalogSchemaLocation},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, schemaLocations(testCase.opts))
		})
	}
}

func TestValidatorOpts(t *testing.T) {
	t.Parallel()

	opts := validatorOpts(&ValidationOptions{
		Strict:               true,
		IgnoreMissingSchemas: true,
		SkipKinds:            []string{"Secret", "CustomResourceDefinition"},
	})

	assert.Equal(t, "master", opts.KubernetesVersion)
	assert.True(t, opts.Strict)
	assert.True(t, opts.IgnoreMissingSchemas)
	assert.Equal(t, map[string]struct{}{
		"Secret":                   {},
		"CustomResourceDefinition": {},
	}, opts.SkipKinds)

	_, hasSecret := validatorOpts(&ValidationOptions{}).SkipKinds["Secret"]
	assert.False(t, hasSecret)
}

func TestManifestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"a.yaml", "b.yml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("kind: Test\n"), 0o600))
	}

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "nested", "c.yaml"),
		[]byte("kind: Test\n"),
		0o600,
	))

	files, err := manifestFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)
}

func TestValidateDirectory_EmptyDirectoryFails(t *testing.T) {
	t.Parallel()

	client := NewClient()

	err := client.ValidateDirectory(t.Context(), t.TempDir(), nil)
	require.ErrorIs(t, err, ErrInvalidManifest)
	assert.Contains(t, err.Error(), "no manifests found")
}

// Compile-time check that the validator options stay compatible with the
// kubeconform API.
var _ func([]string, validator.Opts) (validator.Validator, error) = validator.New
