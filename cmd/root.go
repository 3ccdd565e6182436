package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeroprint/waitlist/pkg/clients/waitlist"
	"github.com/zeroprint/waitlist/pkg/config"
	"github.com/zeroprint/waitlist/pkg/metrics"
	"github.com/zeroprint/waitlist/pkg/services"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "waitlist",
	Short: "Waitlist signup for the web and the terminal",
	Long: `Collects waitlist signups (name, email and interest) and forwards them
to the registration endpoint. "serve" runs the signup page, "join" runs the
same form in the terminal.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (YAML)")
	rootCmd.PersistentFlags().String("registration-url", "",
		"registration endpoint (default "+waitlist.DefaultEndpoint+")")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "",
		"write logs to this file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadConfig(cfgFile, cmd.Flags())
}

// newRegistrar wires the HTTP client behind the registration service
func newRegistrar(cfg *config.Config, m *metrics.SubmissionMetrics, logger *zap.Logger) services.RegistrationService {
	client := waitlist.NewClient(cfg.Registration.URL, waitlist.WithTimeout(cfg.Registration.Timeout))
	return services.NewRegistrationService(client, m, logger)
}
