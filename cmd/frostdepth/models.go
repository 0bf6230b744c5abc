package main

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/spf13/cobra"
)

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List supported climate models, scenarios, and lambda variants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			variants := make([]string, 0, 3)
			for _, v := range domain.LambdaVariants() {
				variants = append(variants, string(v))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "temperature models: %s\n", strings.Join(domain.TemperatureModels(), ", "))
			fmt.Fprintf(w, "index models:       %s\n", strings.Join(domain.IndexModels(), ", "))
			fmt.Fprintf(w, "scenarios:          %s\n", strings.Join(domain.Scenarios(), ", "))
			fmt.Fprintf(w, "lambda variants:    %s\n", strings.Join(variants, ", "))
			fmt.Fprintf(w, "years:              %d-%d\n", domain.MinProjectionYear, domain.MaxProjectionYear)
			return nil
		},
	}
}
