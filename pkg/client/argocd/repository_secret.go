package argocd

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

//nolint:gosec // G101: false positive, this is a Kubernetes secret name, not a credential
const repositorySecretName = "slipway-repo"

func buildRepositorySecret(namespace string, opts EnsureOptions) *corev1.Secret {
	data := map[string]string{
		"type": "git",
		"url":  opts.RepositoryURL,
	}

	if opts.Username != "" {
		data["username"] = opts.Username
	}

	if opts.Password != "" {
		data["password"] = opts.Password
	}

	return &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      repositorySecretName,
			Namespace: namespace,
			Labels:    map[string]string{"argocd.argoproj.io/secret-type": "repository"},
		},
		StringData: data,
	}
}
