// Package kubeconform validates Kubernetes manifests against their schemas
// before they are applied or committed.
package kubeconform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/yannh/kubeconform/pkg/validator"
)

// CRDsCatalogSchemaLocation is the schema location template for custom
// resources such as Argo CD Applications, served from the community CRD
// catalog.
const CRDsCatalogSchemaLocation = "https://raw.githubusercontent.com/datreeio/CRDs-catalog/main/" +
	"{{.Group}}/{{.ResourceKind}}_{{.ResourceAPIVersion}}.json"

// ErrInvalidManifest is returned when one or more manifests fail validation.
var ErrInvalidManifest = errors.New("invalid manifest")

// ValidationOptions configures validation behavior.
type ValidationOptions struct {
	// SkipKinds is a list of Kubernetes kinds to skip during validation (e.g., "Secret").
	SkipKinds []string

	// Strict enables strict validation mode.
	Strict bool

	// IgnoreMissingSchemas ignores resources with missing schemas.
	IgnoreMissingSchemas bool

	// IncludeCRDSchemas adds the community CRD catalog as a schema location so
	// custom resources like Argo CD Applications validate instead of failing
	// with a missing schema.
	IncludeCRDSchemas bool
}

// Client provides kubeconform validation functionality.
type Client struct{}

// NewClient creates a new kubeconform client.
func NewClient() *Client {
	return &Client{}
}

// ValidateDirectory validates all Kubernetes manifests under a directory.
func (c *Client) ValidateDirectory(
	ctx context.Context,
	dir string,
	opts *ValidationOptions,
) error {
	if opts == nil {
		opts = &ValidationOptions{}
	}

	files, err := manifestFiles(dir)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("%w: no manifests found in %s", ErrInvalidManifest, dir)
	}

	manifestValidator, err := newValidator(opts)
	if err != nil {
		return err
	}

	var problems []string

	for _, path := range files {
		err := ctx.Err()
		if err != nil {
			return fmt.Errorf("validate manifests in %s: %w", dir, err)
		}

		problems = append(problems, validateOne(manifestValidator, path)...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(problems, "; "))
	}

	return nil
}

// ValidateFile validates a single Kubernetes manifest file.
func (c *Client) ValidateFile(ctx context.Context, filePath string, opts *ValidationOptions) error {
	if opts == nil {
		opts = &ValidationOptions{}
	}

	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("validate file %s: %w", filePath, err)
	}

	manifestValidator, err := newValidator(opts)
	if err != nil {
		return err
	}

	problems := validateOne(manifestValidator, filePath)
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidManifest, strings.Join(problems, "; "))
	}

	return nil
}

func newValidator(opts *ValidationOptions) (validator.Validator, error) {
	manifestValidator, err := validator.New(schemaLocations(opts), validatorOpts(opts))
	if err != nil {
		return nil, fmt.Errorf("initialize kubeconform: %w", err)
	}

	return manifestValidator, nil
}

// schemaLocations returns the schema sources to resolve kinds against. The
// "default" keyword resolves to the upstream JSON schema registry.
func schemaLocations(opts *ValidationOptions) []string {
	locations := []string{"default"}

	if opts.IncludeCRDSchemas {
		locations = append(locations, CRDsCatalogSchemaLocation)
	}

	return locations
}

func validatorOpts(opts *ValidationOptions) validator.Opts {
	skipKinds := make(map[string]struct{}, len(opts.SkipKinds))
	for _, kind := range opts.SkipKinds {
		skipKinds[kind] = struct{}{}
	}

	return validator.Opts{
		KubernetesVersion:    "master",
		Strict:               opts.Strict,
		IgnoreMissingSchemas: opts.IgnoreMissingSchemas,
		SkipKinds:            skipKinds,
	}
}

func validateOne(manifestValidator validator.Validator, path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", path, err)}
	}

	defer func() {
		_ = file.Close()
	}()

	var problems []string

	for _, result := range manifestValidator.Validate(path, file) {
		switch result.Status {
		case validator.Invalid, validator.Error:
			problems = append(problems, fmt.Sprintf("%s: %v", path, result.Err))
		case validator.Valid, validator.Skipped, validator.Empty:
		}
	}

	return problems
}

func manifestFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return files, nil
}
