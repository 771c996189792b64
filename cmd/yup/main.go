// Command yup validates JSON/YAML documents against a schema definition
// file and prints schema descriptions.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yogeshdas-v/yup"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yup",
		Short:         "Validate runtime values against composable schemas",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newValidateCmd(), newDescribeCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var (
		schemaPath  string
		contextPath string
		collectAll  bool
	)
	cmd := &cobra.Command{
		Use:   "validate -s schema.yaml file...",
		Short: "Validate documents against a schema definition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			s, err := loadSchemaFile(schemaPath)
			if err != nil {
				return err
			}
			if collectAll {
				s = s.AbortEarly(false)
			}

			var ctxValues map[string]any
			if contextPath != "" {
				v, err := loadValueFile(contextPath)
				if err != nil {
					return err
				}
				m, ok := v.(map[string]any)
				if !ok {
					return fmt.Errorf("context file %s must hold a mapping", contextPath)
				}
				ctxValues = m
			}

			failed := false
			for _, path := range args {
				doc, err := loadValueFile(path)
				if err != nil {
					return err
				}
				_, err = s.Validate(context.Background(), doc, yup.ValidateOpt{Context: ctxValues})
				if err == nil {
					logger.Info("valid", "file", path)
					continue
				}
				ve, ok := yup.AsValidationError(err)
				if !ok {
					return err
				}
				failed = true
				for _, msg := range ve.Errors() {
					logger.Error("invalid", "file", path, "error", msg)
				}
			}
			if failed {
				// Validation failures exit 1; loader/usage errors exit 2.
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema definition file (YAML)")
	cmd.Flags().StringVar(&contextPath, "context", "", "ambient context file for $-references")
	cmd.Flags().BoolVar(&collectAll, "collect-all", false, "report every failure instead of stopping at the first")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "describe -s schema.yaml",
		Short: "Print the schema description as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchemaFile(schemaPath)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(s.Describe(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema definition file (YAML)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
