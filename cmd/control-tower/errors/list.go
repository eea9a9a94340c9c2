package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hirewire/control-tower/pkg/api"
	svcErr "github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/flags"
)

const (
	FlagsSaveToFile = "save-to-file"
)

// NewListCommand creates a new command for listing the errors which can be returned by the service.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the errors which can be returned by the service",
		Long:  "List the errors which can be returned by the service",
		Run:   runList,
	}

	cmd.Flags().String(FlagsSaveToFile, "", "File path to save the list of errors in JSON format to (i.e. 'errors.json')")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) {
	filePath := flags.MustGetString(FlagsSaveToFile, cmd.Flags())

	var svcErrors []api.Error
	errors := svcErr.Errors()

	// Sort errors by code
	sort.SliceStable(errors, func(i, j int) bool {
		return errors[i].Code < errors[j].Code
	})

	// add code prefix to service error code
	for i := range errors {
		svcErrors = append(svcErrors, errors[i].AsOpenapiError(""))
	}

	// Print a table to stdout if filepath is not defined, otherwise save as JSON to the specified file
	if filePath == "" {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Code", "Reason"})
		for _, e := range svcErrors {
			table.Append([]string{e.Code, e.Reason})
		}
		table.Render()
		return
	}

	svcErrorsJson, err := json.MarshalIndent(svcErrors, "", "\t")
	if err != nil {
		glog.Fatalf("failed to marshal service errors: %v", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		glog.Fatalf("failed to create file: %v", err)
	}
	defer file.Close()

	if _, err = file.WriteString(string(svcErrorsJson)); err != nil {
		glog.Fatalf("failed to write to file: %v", err)
	}
	fmt.Printf("Service errors saved to %s\n", file.Name())
}
