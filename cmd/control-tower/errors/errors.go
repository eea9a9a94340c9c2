package errors

import (
	"github.com/spf13/cobra"
)

func NewErrorsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Inspect the errors which can be returned by the service",
		Long:  "Inspect the errors which can be returned by the service",
	}
	cmd.AddCommand(NewListCommand())
	return cmd
}
