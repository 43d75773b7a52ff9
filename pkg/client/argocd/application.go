package argocd

import (
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

const (
	defaultApplicationName      = "cutout-api"
	defaultDestinationNamespace = "cutout"
	defaultDestinationServer    = "https://kubernetes.default.svc"
	defaultProject              = "default"
	defaultSourcePath           = "k8s"
	defaultTargetRevision       = "HEAD"

	argoCDRefreshAnnotationKey  = "argocd.argoproj.io/refresh"
	argoCDHardRefreshAnnotation = "hard"
)

func applicationGVR() schema.GroupVersionResource {
	return schema.GroupVersionResource{
		Group:    "argoproj.io",
		Version:  "v1alpha1",
		Resource: "applications",
	}
}

func buildApplication(namespace string, opts EnsureOptions) *unstructured.Unstructured {
	name := opts.ApplicationName
	if name == "" {
		name = defaultApplicationName
	}

	sourcePath := opts.SourcePath
	if sourcePath == "" {
		sourcePath = defaultSourcePath
	}

	targetRevision := opts.TargetRevision
	if targetRevision == "" {
		targetRevision = defaultTargetRevision
	}

	destinationNamespace := opts.DestinationNamespace
	if destinationNamespace == "" {
		destinationNamespace = defaultDestinationNamespace
	}

	obj := map[string]any{
		"apiVersion": "argoproj.io/v1alpha1",
		"kind":       "Application",
		"metadata": map[string]any{
			"name":      name,
			"namespace": namespace,
		},
		"spec": map[string]any{
			"project": defaultProject,
			"source": map[string]any{
				"repoURL":        opts.RepositoryURL,
				"targetRevision": targetRevision,
				"path":           sourcePath,
			},
			"destination": map[string]any{
				"server":    defaultDestinationServer,
				"namespace": destinationNamespace,
			},
			"syncPolicy": map[string]any{
				"automated":   map[string]any{"prune": true, "selfHeal": true},
				"syncOptions": []any{"CreateNamespace=true"},
			},
		},
	}

	return &unstructured.Unstructured{Object: obj}
}
