package workload

import (
	"fmt"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/io/generator"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// ServiceGenerator generates the workload Service manifest.
type ServiceGenerator struct {
	yamlGenerator generator.Generator[*corev1.Service, yamlgenerator.Options]
}

// NewServiceGenerator creates a new ServiceGenerator.
func NewServiceGenerator() *ServiceGenerator {
	return &ServiceGenerator{
		yamlGenerator: yamlgenerator.NewYAMLGenerator[*corev1.Service](),
	}
}

// Generate creates the Service manifest exposing the workload. Local providers
// get a NodePort Service because they have no load balancer controller; the
// managed provider gets a LoadBalancer Service.
func (g *ServiceGenerator) Generate(
	pipeline *v1alpha1.Pipeline,
	opts yamlgenerator.Options,
) (string, error) {
	workload := pipeline.Spec.Workload

	serviceType := corev1.ServiceTypeLoadBalancer
	if pipeline.Spec.Cluster.Provider.IsLocal() {
		serviceType = corev1.ServiceTypeNodePort
	}

	service := &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      workload.Name,
			Namespace: workload.Namespace,
			Labels:    workloadLabels(pipeline),
		},
		Spec: corev1.ServiceSpec{
			Type:     serviceType,
			Selector: selectorLabels(pipeline),
			Ports: []corev1.ServicePort{
				{
					Name:       "http",
					Protocol:   corev1.ProtocolTCP,
					Port:       workload.Port,
					TargetPort: intstr.FromInt32(workload.TargetPort),
				},
			},
		},
	}

	output, err := g.yamlGenerator.Generate(service, opts)
	if err != nil {
		return "", fmt.Errorf("generating Service manifest: %w", err)
	}

	return output, nil
}
