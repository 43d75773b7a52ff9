package helmutil

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/slipway-dev/slipway/pkg/client/helm"
)

// Matches image: fields in rendered manifests, tolerating list dashes,
// quoting, and trailing comments.
var imagePattern = regexp.MustCompile(`^\s*-?\s*image:\s*["']?([^\s"'#]+)["']?\s*(?:#.*)?$`)

// ImagesFromChart templates a Helm chart and extracts the container images
// from the rendered manifest.
func ImagesFromChart(
	ctx context.Context,
	client helm.Interface,
	spec *helm.ChartSpec,
) ([]string, error) {
	manifest, err := client.TemplateChart(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("template chart %s: %w", spec.ChartName, err)
	}

	images, err := ExtractImagesFromManifest(manifest)
	if err != nil {
		return nil, fmt.Errorf("extract images from %s manifest: %w", spec.ChartName, err)
	}

	return images, nil
}

// ExtractImagesFromManifest extracts all container image references from
// rendered Kubernetes manifests. Images are deduplicated in order of first
// appearance.
func ExtractImagesFromManifest(manifest string) ([]string, error) {
	if manifest == "" {
		return nil, nil
	}

	seen := make(map[string]struct{})

	var images []string

	scanner := bufio.NewScanner(strings.NewReader(manifest))
	for scanner.Scan() {
		matches := imagePattern.FindStringSubmatch(scanner.Text())
		if len(matches) < 2 {
			continue
		}

		img := strings.TrimSpace(matches[1])
		if img == "" || strings.HasPrefix(img, "{{") {
			continue
		}

		if _, exists := seen[img]; !exists {
			seen[img] = struct{}{}
			images = append(images, img)
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return images, nil
}
