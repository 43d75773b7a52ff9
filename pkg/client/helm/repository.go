package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	helmv4cli "helm.sh/helm/v4/pkg/cli"
	helmv4getter "helm.sh/helm/v4/pkg/getter"
	repov1 "helm.sh/helm/v4/pkg/repo/v1"
)

const (
	repoDirMode  = 0o750
	repoFileMode = 0o640
)

var (
	errRepositoryEntryRequired = errors.New("helm: repository entry is required")
	errRepositoryNameRequired  = errors.New("helm: repository name is required")
	errRepositoryCacheUnset    = errors.New("helm: repository cache path is not set")
	errRepositoryConfigUnset   = errors.New("helm: repository config path is not set")
)

// AddRepository registers a Helm repository for the current client instance
// and downloads its index.
func (c *Client) AddRepository(ctx context.Context, entry *RepositoryEntry) error {
	requestErr := validateRepositoryRequest(ctx, entry)
	if requestErr != nil {
		return requestErr
	}

	repoFile, err := ensureRepositoryConfig(c.settings)
	if err != nil {
		return err
	}

	repositoryFile := loadOrInitRepositoryFile(repoFile)
	repoEntry := &repov1.Entry{Name: entry.Name, URL: entry.URL}

	repoCache, err := ensureRepositoryCache(c.settings)
	if err != nil {
		return err
	}

	chartRepository, err := repov1.NewChartRepository(repoEntry, helmv4getter.All(c.settings))
	if err != nil {
		return fmt.Errorf("create chart repository: %w", err)
	}

	chartRepository.CachePath = repoCache

	_, err = chartRepository.DownloadIndexFile()
	if err != nil {
		return fmt.Errorf("failed to download repository index file: %w", err)
	}

	repositoryFile.Update(repoEntry)

	writeErr := repositoryFile.WriteFile(repoFile, repoFileMode)
	if writeErr != nil {
		return fmt.Errorf("write repository file: %w", writeErr)
	}

	return nil
}

func validateRepositoryRequest(ctx context.Context, entry *RepositoryEntry) error {
	if entry == nil {
		return errRepositoryEntryRequired
	}

	if entry.Name == "" {
		return errRepositoryNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("add repository context cancelled: %w", ctxErr)
	}

	return nil
}

func ensureRepositoryConfig(settings *helmv4cli.EnvSettings) (string, error) {
	repoFile := settings.RepositoryConfig

	if envRepoConfig := os.Getenv("HELM_REPOSITORY_CONFIG"); envRepoConfig != "" {
		repoFile = envRepoConfig
		settings.RepositoryConfig = envRepoConfig
	}

	if repoFile == "" {
		return "", errRepositoryConfigUnset
	}

	mkdirErr := os.MkdirAll(filepath.Dir(repoFile), repoDirMode)
	if mkdirErr != nil {
		return "", fmt.Errorf("create repository directory: %w", mkdirErr)
	}

	return repoFile, nil
}

func ensureRepositoryCache(settings *helmv4cli.EnvSettings) (string, error) {
	repoCache := settings.RepositoryCache

	if envCache := os.Getenv("HELM_REPOSITORY_CACHE"); envCache != "" {
		repoCache = envCache
		settings.RepositoryCache = envCache
	}

	if repoCache == "" {
		return "", errRepositoryCacheUnset
	}

	mkdirCacheErr := os.MkdirAll(repoCache, repoDirMode)
	if mkdirCacheErr != nil {
		return "", fmt.Errorf("create repository cache directory: %w", mkdirCacheErr)
	}

	return repoCache, nil
}

func loadOrInitRepositoryFile(repoFile string) *repov1.File {
	repositoryFile, err := repov1.LoadFile(repoFile)
	if err != nil {
		return repov1.NewFile()
	}

	return repositoryFile
}
