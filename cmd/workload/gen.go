package workload

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	argocdgenerator "github.com/slipway-dev/slipway/pkg/io/generator/argocd"
	workloadgenerator "github.com/slipway-dev/slipway/pkg/io/generator/workload"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

const (
	stdoutFlagName = "stdout"
	forceFlagName  = "force"
)

// manifestGenerator renders one manifest for the pipeline's workload.
type manifestGenerator interface {
	Generate(pipeline *v1alpha1.Pipeline, opts yamlgenerator.Options) (string, error)
}

// manifestSpec ties a gen subcommand to its generator and output file name.
type manifestSpec struct {
	use      string
	short    string
	fileName string
	newGen   func() manifestGenerator
}

func manifestSpecs() []manifestSpec {
	return []manifestSpec{
		{
			use:      "namespace",
			short:    "Generate the workload Namespace manifest",
			fileName: "namespace.yaml",
			newGen: func() manifestGenerator { //nolint:ireturn // table of generator constructors
				return workloadgenerator.NewNamespaceGenerator()
			},
		},
		{
			use:      "deployment",
			short:    "Generate the workload Deployment manifest",
			fileName: "deployment.yaml",
			newGen: func() manifestGenerator { //nolint:ireturn // table of generator constructors
				return workloadgenerator.NewDeploymentGenerator()
			},
		},
		{
			use:      "service",
			short:    "Generate the workload Service manifest",
			fileName: "service.yaml",
			newGen: func() manifestGenerator { //nolint:ireturn // table of generator constructors
				return workloadgenerator.NewServiceGenerator()
			},
		},
		{
			use:      "kustomization",
			short:    "Generate the kustomization.yaml tying the manifests together",
			fileName: "kustomization.yaml",
			newGen: func() manifestGenerator { //nolint:ireturn // table of generator constructors
				return workloadgenerator.NewKustomizationGenerator()
			},
		},
		{
			use:      "application",
			short:    "Generate the Argo CD Application manifest",
			fileName: "application.yaml",
			newGen: func() manifestGenerator { //nolint:ireturn // table of generator constructors
				return argocdgenerator.NewApplicationGenerator()
			},
		},
	}
}

// NewGenCmd creates the workload gen command group.
func NewGenCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the workload's Kubernetes manifests",
		Long: "Generate the workload's static Kubernetes manifests into the source " +
			"directory, ready to commit for the GitOps controller to sync.",
	}

	for _, spec := range manifestSpecs() {
		cmd.AddCommand(newGenSubCmd(runtimeContainer, spec))
	}

	cmd.AddCommand(newGenAllCmd(runtimeContainer))

	return cmd
}

func newGenSubCmd(runtimeContainer *runtime.Runtime, spec manifestSpec) *cobra.Command {
	cmd := &cobra.Command{
		Use:          spec.use,
		Short:        spec.short,
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultWorkloadFieldSelectors(),
	)

	addGenFlags(cmd)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleGenRunE(cmd, cfgManager, tmr, []manifestSpec{spec})
		}),
	)

	return cmd
}

func newGenAllCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "all",
		Short:        "Generate all workload manifests",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultWorkloadFieldSelectors(),
	)

	addGenFlags(cmd)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleGenRunE(cmd, cfgManager, tmr, manifestSpecs())
		}),
	)

	return cmd
}

func addGenFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(stdoutFlagName, false, "Print the manifest instead of writing a file")
	cmd.Flags().Bool(forceFlagName, false, "Overwrite existing manifest files")
}

func handleGenRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	tmr timer.Timer,
	specs []manifestSpec,
) error {
	if tmr != nil {
		tmr.Start()
	}

	pipeline, err := cfgManager.LoadConfig(cmdhelpers.MaybeTimer(cmd, tmr))
	if err != nil {
		return fmt.Errorf("failed to load pipeline configuration: %w", err)
	}

	toStdout, _ := cmd.Flags().GetBool(stdoutFlagName)
	force, _ := cmd.Flags().GetBool(forceFlagName)
	out := cmd.OutOrStdout()

	for _, spec := range specs {
		opts := yamlgenerator.Options{Force: force}
		if !toStdout {
			opts.Output = filepath.Join(pipeline.Spec.Workload.SourceDirectory, spec.fileName)
		}

		result, err := spec.newGen().Generate(pipeline, opts)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", spec.fileName, err)
		}

		if toStdout {
			fmt.Fprint(out, result)

			continue
		}

		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: "generated '%s'",
			Args:    []any{opts.Output},
			Writer:  out,
		})
	}

	return nil
}
