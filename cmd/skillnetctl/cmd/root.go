package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	skillnet "github.com/skillnet-dev/skillnet-go"
	"github.com/skillnet-dev/skillnet-go/cmd/skillnetctl/config"
	"github.com/skillnet-dev/skillnet-go/log"
)

var (
	appLogger log.Logger
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "skillnetctl is a CLI for the SkillNet learning platform",
	Long:  `A command-line client for SkillNet: sign in, browse the feed, publish skill posts, follow learning plans, and manage your profile.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		appLogger = log.NewZerologAdapter(level, true)

		if err := config.InitConfig(); err != nil {
			appLogger.Error(cmd.Context(), "failed to initialize configuration", err)
			return err
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "",
		fmt.Sprintf("config file (default is $HOME/.%s/config.yaml)", config.AppName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newClient builds an SDK client for the current context, with the session
// persisted in the per-context bbolt store.
func newClient() (*skillnet.Client, *config.Context, error) {
	currentCtx, err := config.GetCurrentContext()
	if err != nil {
		return nil, nil, err
	}
	if currentCtx.ServerEndpoint == "" {
		return nil, nil, fmt.Errorf("context %q has no server endpoint", currentCtx.Name)
	}

	sessionPath, err := config.SessionPath(config.GlobalConfig.CurrentContext)
	if err != nil {
		return nil, nil, err
	}

	client, err := skillnet.New(currentCtx.ServerEndpoint,
		skillnet.WithStorePath(sessionPath),
		skillnet.WithLoginRedirect(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Please run 'skillnetctl auth login' again.")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, currentCtx, nil
}
