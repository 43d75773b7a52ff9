package workload

import (
	"fmt"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/io/generator"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// DeploymentGenerator generates the workload Deployment manifest.
type DeploymentGenerator struct {
	yamlGenerator generator.Generator[*appsv1.Deployment, yamlgenerator.Options]
}

// NewDeploymentGenerator creates a new DeploymentGenerator.
func NewDeploymentGenerator() *DeploymentGenerator {
	return &DeploymentGenerator{
		yamlGenerator: yamlgenerator.NewYAMLGenerator[*appsv1.Deployment](),
	}
}

// Generate creates the Deployment manifest for the workload container.
func (g *DeploymentGenerator) Generate(
	pipeline *v1alpha1.Pipeline,
	opts yamlgenerator.Options,
) (string, error) {
	workload := pipeline.Spec.Workload
	replicas := workload.Replicas

	deployment := &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      workload.Name,
			Namespace: workload.Namespace,
			Labels:    workloadLabels(pipeline),
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: selectorLabels(pipeline),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: selectorLabels(pipeline),
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						buildWorkloadContainer(pipeline),
					},
				},
			},
		},
	}

	output, err := g.yamlGenerator.Generate(deployment, opts)
	if err != nil {
		return "", fmt.Errorf("generating Deployment manifest: %w", err)
	}

	return output, nil
}

func buildWorkloadContainer(pipeline *v1alpha1.Pipeline) corev1.Container {
	workload := pipeline.Spec.Workload

	return corev1.Container{
		Name:  workload.Name,
		Image: pipeline.Spec.ImageReference(),
		Ports: []corev1.ContainerPort{
			{
				Name:          "http",
				ContainerPort: workload.TargetPort,
				Protocol:      corev1.ProtocolTCP,
			},
		},
		LivenessProbe: httpProbe("/", workload.TargetPort),
		ReadinessProbe: httpProbe(
			"/health",
			workload.TargetPort,
		),
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("100m"),
				corev1.ResourceMemory: resource.MustParse("128Mi"),
			},
			Limits: corev1.ResourceList{
				corev1.ResourceCPU:    resource.MustParse("500m"),
				corev1.ResourceMemory: resource.MustParse("512Mi"),
			},
		},
	}
}

func httpProbe(path string, port int32) *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: path,
				Port: intstr.FromInt32(port),
			},
		},
		InitialDelaySeconds: 5,
		PeriodSeconds:       10,
	}
}
