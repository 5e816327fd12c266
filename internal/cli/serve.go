package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tradepilot/internal/advisor"
	"tradepilot/internal/logging"
	"tradepilot/internal/signals"
	"tradepilot/internal/webhook"
)

// noAdvisor stands in when no LLM is configured.
type noAdvisor struct{}

func (noAdvisor) Recommend(ctx context.Context, symbol string) advisor.Recommendation {
	return advisor.Undetermined
}

// newServeCmd creates the webhook server command.
func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the trade webhook server",
		Long: `Serve starts the HTTP server that turns incoming webhook alerts
into broker orders. POST /webhook places a single-share order for a
symbol/action pair; POST /scan runs the AI advisory flow over a list
of symbols.`,
		Example: `  tradepilot serve
  tradepilot serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Broker == nil {
				output.Error("Broker not configured. Please check your credentials.toml")
				return fmt.Errorf("broker not configured")
			}
			if !app.Broker.IsAuthenticated() {
				output.Warning("Broker session missing, orders will fail until login")
			}

			var rec webhook.Recommender
			if app.Advisor != nil {
				rec = app.Advisor
			} else {
				output.Warning("OpenAI key not configured, /scan will report every symbol undetermined")
				rec = noAdvisor{}
			}

			recorder := signals.NewRecorder(app.Config.Signals.BuyFile, app.Config.Signals.SellFile)
			server := webhook.NewServer(app.Broker, rec, recorder, app.Config.Trading.BudgetPerTrade,
				logging.WithOperation(app.Logger, "serve"))

			if addr == "" {
				addr = app.Config.Server.Addr
			}
			output.Info("Listening on %s", addr)
			return server.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
