package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/bootstrap"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/logger"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
)

const app = "matchctl"

var logLevel string

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "Operator tool for the candidate/posting matcher",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level (trace, debug, info, warn, error)")
}

// withContainer loads .env, wires the stores and runs fn. Logs go to stderr so stdout stays machine-readable.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	_ = godotenv.Load()
	log := logger.NewWithOutput(os.Stderr, logLevel)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := bootstrap.Build(ctx, log)
	if err != nil {
		log.WithError(err).Error("bootstrap failed")
		return err
	}
	defer c.Close(context.Background())

	return fn(ctx, c)
}

func parseKind(s string) (models.EntityKind, error) {
	k := models.EntityKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown kind %q (want profile or posting)", s)
	}
	return k, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fieldsFor(kind models.EntityKind, id string) logrus.Fields {
	return logrus.Fields{"owner_kind": kind, "owner_id": id}
}
