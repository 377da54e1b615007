package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Yulian302/lfusys-services-notifier/models"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bytedance/sonic"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "notifier",
		Short:        "Posts a presigned download link to a chat webhook when an object lands in S3",
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the Lambda runtime loop (default)",
			RunE:  runServe,
		},
		newInvokeCmd(),
	)

	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := SetupApp(cmd.Context())
	if err != nil {
		return err
	}

	lambda.Start(app.Services.Handler.Handle)
	return nil
}

func newInvokeCmd() *cobra.Command {
	var eventPath string

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Run the handler once against an event read from a file or stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readEvent(cmd.InOrStdin(), eventPath)
			if err != nil {
				return err
			}

			var evt models.TriggerEvent
			if err := sonic.Unmarshal(raw, &evt); err != nil {
				return fmt.Errorf("parse event: %w", err)
			}

			app, err := SetupApp(cmd.Context())
			if err != nil {
				return err
			}

			out, err := app.Services.Handler.Handle(cmd.Context(), evt)
			if err != nil {
				return err
			}

			if out == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "null")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), *out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventPath, "event", "e", "-", "path to the event JSON, - for stdin")

	return cmd
}

func readEvent(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read event from stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	return raw, nil
}
