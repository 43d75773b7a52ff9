// Package helm installs the GitOps controller chart through the Helm v4 SDK.
package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	helmv4action "helm.sh/helm/v4/pkg/action"
	helmv4loader "helm.sh/helm/v4/pkg/chart/loader"
	chartv2 "helm.sh/helm/v4/pkg/chart/v2"
	helmv4cli "helm.sh/helm/v4/pkg/cli"
	helmv4getter "helm.sh/helm/v4/pkg/getter"
	helmv4kube "helm.sh/helm/v4/pkg/kube"
	v1 "helm.sh/helm/v4/pkg/release/v1"
	repov1 "helm.sh/helm/v4/pkg/repo/v1"
	helmv4strvals "helm.sh/helm/v4/pkg/strvals"
	"sigs.k8s.io/yaml"
)

// DefaultTimeout defines the fallback Helm chart installation timeout.
const DefaultTimeout = 5 * time.Minute

var (
	errReleaseNameRequired = errors.New("helm: release name is required")
	errChartSpecRequired   = errors.New("helm: chart spec is required")
)

// ChartSpec describes a chart installation.
type ChartSpec struct {
	ReleaseName string
	ChartName   string
	Namespace   string
	Version     string
	RepoURL     string

	CreateNamespace bool
	Wait            bool
	Atomic          bool
	Timeout         time.Duration

	// ValuesYaml is an inline YAML values document.
	ValuesYaml string

	// SetValues are --set style overrides applied after ValuesYaml.
	SetValues map[string]string
}

// RepositoryEntry describes a Helm repository to register locally before
// performing chart operations.
type RepositoryEntry struct {
	Name string
	URL  string
}

// ReleaseInfo captures metadata about a Helm release after an operation.
type ReleaseInfo struct {
	Name      string
	Namespace string
	Revision  int
	Status    string
	Chart     string
}

// Interface defines the subset of Helm functionality slipway requires.
type Interface interface {
	InstallOrUpgradeChart(ctx context.Context, spec *ChartSpec) (*ReleaseInfo, error)
	UninstallRelease(ctx context.Context, releaseName, namespace string) error
	AddRepository(ctx context.Context, entry *RepositoryEntry) error
	TemplateChart(ctx context.Context, spec *ChartSpec) (string, error)
}

// Client is the default Helm implementation.
type Client struct {
	actionConfig *helmv4action.Configuration
	settings     *helmv4cli.EnvSettings
}

var _ Interface = (*Client)(nil)

// NewClient creates a Helm client using the provided kubeconfig and context.
func NewClient(kubeConfig, kubeContext string) (*Client, error) {
	settings := helmv4cli.New()
	if kubeConfig != "" {
		settings.KubeConfig = kubeConfig
	}

	if kubeContext != "" {
		settings.KubeContext = kubeContext
	}

	actionConfig := new(helmv4action.Configuration)

	initErr := actionConfig.Init(
		settings.RESTClientGetter(),
		settings.Namespace(),
		os.Getenv("HELM_DRIVER"),
	)
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", initErr)
	}

	return &Client{actionConfig: actionConfig, settings: settings}, nil
}

// InstallOrUpgradeChart upgrades a Helm release when present and installs it otherwise.
func (c *Client) InstallOrUpgradeChart(
	ctx context.Context,
	spec *ChartSpec,
) (*ReleaseInfo, error) {
	if spec == nil {
		return nil, errChartSpecRequired
	}

	if spec.ReleaseName == "" {
		return nil, errReleaseNameRequired
	}

	histClient := helmv4action.NewHistory(c.actionConfig)
	histClient.Max = 1

	var (
		rel *v1.Release
		err error
	)

	releases, histErr := histClient.Run(spec.ReleaseName)
	if histErr == nil && len(releases) > 0 {
		rel, err = c.upgradeRelease(ctx, spec)
	} else {
		rel, err = c.installRelease(ctx, spec)
	}

	if err != nil {
		return nil, err
	}

	return releaseToInfo(rel), nil
}

// UninstallRelease removes a Helm release by name within the provided namespace.
func (c *Client) UninstallRelease(ctx context.Context, releaseName, _ string) error {
	if releaseName == "" {
		return errReleaseNameRequired
	}

	ctxErr := ctx.Err()
	if ctxErr != nil {
		return fmt.Errorf("uninstall release context cancelled: %w", ctxErr)
	}

	client := helmv4action.NewUninstall(c.actionConfig)
	client.KeepHistory = false

	_, uninstallErr := client.Run(releaseName)
	if uninstallErr != nil {
		return fmt.Errorf("uninstall release %q: %w", releaseName, uninstallErr)
	}

	return nil
}

// TemplateChart renders the chart manifests client-side without installing
// anything. Used to list the images a chart would deploy.
func (c *Client) TemplateChart(ctx context.Context, spec *ChartSpec) (string, error) {
	if spec == nil {
		return "", errChartSpecRequired
	}

	if spec.ReleaseName == "" {
		return "", errReleaseNameRequired
	}

	client := helmv4action.NewInstall(c.actionConfig)
	client.ReleaseName = spec.ReleaseName
	client.Namespace = spec.Namespace
	client.Version = spec.Version
	client.DryRunStrategy = helmv4action.DryRunClient
	client.Replace = true

	chart, err := c.locateAndLoadChart(spec, &client.ChartPathOptions)
	if err != nil {
		return "", err
	}

	vals, err := buildValues(spec)
	if err != nil {
		return "", err
	}

	releaser, err := client.RunWithContext(ctx, chart, vals)
	if err != nil {
		return "", fmt.Errorf("template chart %q: %w", spec.ChartName, err)
	}

	rel, err := assertRelease(releaser)
	if err != nil {
		return "", err
	}

	return rel.Manifest, nil
}

func (c *Client) installRelease(ctx context.Context, spec *ChartSpec) (*v1.Release, error) {
	client := helmv4action.NewInstall(c.actionConfig)
	client.ReleaseName = spec.ReleaseName
	client.Namespace = spec.Namespace
	client.CreateNamespace = spec.CreateNamespace
	client.Version = spec.Version
	// Note: Atomic is not supported in Helm v4 Install action

	if spec.Wait {
		client.WaitStrategy = helmv4kube.StatusWatcherStrategy
	}

	client.Timeout = spec.Timeout
	if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}

	chart, err := c.locateAndLoadChart(spec, &client.ChartPathOptions)
	if err != nil {
		return nil, err
	}

	vals, err := buildValues(spec)
	if err != nil {
		return nil, err
	}

	releaser, err := client.RunWithContext(ctx, chart, vals)
	if err != nil {
		return nil, fmt.Errorf("install chart %q: %w", spec.ChartName, err)
	}

	return assertRelease(releaser)
}

func (c *Client) upgradeRelease(ctx context.Context, spec *ChartSpec) (*v1.Release, error) {
	client := helmv4action.NewUpgrade(c.actionConfig)
	client.Namespace = spec.Namespace
	client.Version = spec.Version
	// Note: Atomic is not supported in Helm v4 Upgrade action

	if spec.Wait {
		client.WaitStrategy = helmv4kube.StatusWatcherStrategy
	}

	client.Timeout = spec.Timeout
	if client.Timeout == 0 {
		client.Timeout = DefaultTimeout
	}

	chart, err := c.locateAndLoadChart(spec, &client.ChartPathOptions)
	if err != nil {
		return nil, err
	}

	vals, err := buildValues(spec)
	if err != nil {
		return nil, err
	}

	releaser, err := client.RunWithContext(ctx, spec.ReleaseName, chart, vals)
	if err != nil {
		return nil, fmt.Errorf("upgrade release %q: %w", spec.ReleaseName, err)
	}

	return assertRelease(releaser)
}

func (c *Client) locateAndLoadChart(
	spec *ChartSpec,
	pathOptions *helmv4action.ChartPathOptions,
) (*chartv2.Chart, error) {
	chartPath := spec.ChartName

	if spec.RepoURL != "" {
		pathOptions.RepoURL = spec.RepoURL

		chartURL, err := repov1.FindChartInRepoURL(
			spec.RepoURL,
			spec.ChartName,
			helmv4getter.All(c.settings),
			repov1.WithChartVersion(spec.Version),
		)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to locate chart %q in repository %s: %w",
				spec.ChartName,
				spec.RepoURL,
				err,
			)
		}

		chartPath = chartURL
	}

	chartInterface, err := helmv4loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}

	chart, ok := chartInterface.(*chartv2.Chart)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected chart type %T", errChartSpecRequired, chartInterface)
	}

	return chart, nil
}

// buildValues merges the inline values document with --set style overrides.
func buildValues(spec *ChartSpec) (map[string]any, error) {
	base := map[string]any{}

	if spec.ValuesYaml != "" {
		err := yaml.Unmarshal([]byte(spec.ValuesYaml), &base)
		if err != nil {
			return nil, fmt.Errorf("parse inline values: %w", err)
		}

		if base == nil {
			base = map[string]any{}
		}
	}

	for key, value := range spec.SetValues {
		err := helmv4strvals.ParseInto(fmt.Sprintf("%s=%s", key, value), base)
		if err != nil {
			return nil, fmt.Errorf("parse set value %s: %w", key, err)
		}
	}

	return base, nil
}

func assertRelease(releaser any) (*v1.Release, error) {
	rel, ok := releaser.(*v1.Release)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected release type %T", errChartSpecRequired, releaser)
	}

	return rel, nil
}

func releaseToInfo(rel *v1.Release) *ReleaseInfo {
	if rel == nil {
		return nil
	}

	info := &ReleaseInfo{
		Name:      rel.Name,
		Namespace: rel.Namespace,
		Revision:  rel.Version,
	}

	if rel.Info != nil {
		info.Status = rel.Info.Status.String()
	}

	if rel.Chart != nil && rel.Chart.Metadata != nil {
		info.Chart = rel.Chart.Metadata.Name + "-" + rel.Chart.Metadata.Version
	}

	return info
}
