package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-CleaningBooking/internal/config"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
	getQuoteUC "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_quote"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
)

func newQuoteCmd(configPath *string) *cobra.Command {
	var (
		serviceID string
		hours     float64
		home      domain.HomeCounts
		office    domain.OfficeCounts
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Print an invoice for a configured service without touching the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			log := logger.NewNop()
			catalog := catalogService.NewService(nil, cfg.CatalogServices(), log)
			useCase := getQuoteUC.NewUseCase(catalog, log)

			req := &getQuoteUC.Request{ServiceID: serviceID}
			flags := cmd.Flags()
			if flags.Changed("hours") {
				req.Hours = ptr.Ptr(hours)
			}
			if flags.Changed("bedrooms") || flags.Changed("bathrooms") || flags.Changed("kitchen") || flags.Changed("living") {
				req.Home = ptr.Ptr(mergeHome(domain.DefaultHomeCounts(), home, flags.Changed))
			}
			if flags.Changed("rooms") || flags.Changed("cafeteria") || flags.Changed("desks") || flags.Changed("washrooms") {
				req.Office = ptr.Ptr(mergeOffice(domain.DefaultOfficeCounts(), office, flags.Changed))
			}

			resp, err := useCase.Execute(context.Background(), req)
			if err != nil {
				return err
			}

			return printQuote(cmd, resp)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&serviceID, "service", "s", "", "service id from the catalog")
	f.Float64Var(&hours, "hours", 0, "manual number of hours (overrides the estimator)")
	f.IntVar(&home.Bedrooms, "bedrooms", 0, "number of bedrooms")
	f.IntVar(&home.Bathrooms, "bathrooms", 0, "number of bathrooms")
	f.IntVar(&home.Kitchen, "kitchen", 0, "number of kitchens")
	f.IntVar(&home.Living, "living", 0, "number of living rooms")
	f.IntVar(&office.Rooms, "rooms", 0, "number of office rooms")
	f.IntVar(&office.Cafeteria, "cafeteria", 0, "number of cafeterias")
	f.IntVar(&office.Desks, "desks", 0, "number of desks")
	f.IntVar(&office.Washrooms, "washrooms", 0, "number of washrooms")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

// mergeHome подставляет только явно заданные флаги поверх значений по умолчанию
func mergeHome(base, set domain.HomeCounts, changed func(string) bool) domain.HomeCounts {
	if changed("bedrooms") {
		base.Bedrooms = set.Bedrooms
	}
	if changed("bathrooms") {
		base.Bathrooms = set.Bathrooms
	}
	if changed("kitchen") {
		base.Kitchen = set.Kitchen
	}
	if changed("living") {
		base.Living = set.Living
	}
	return base
}

func mergeOffice(base, set domain.OfficeCounts, changed func(string) bool) domain.OfficeCounts {
	if changed("rooms") {
		base.Rooms = set.Rooms
	}
	if changed("cafeteria") {
		base.Cafeteria = set.Cafeteria
	}
	if changed("desks") {
		base.Desks = set.Desks
	}
	if changed("washrooms") {
		base.Washrooms = set.Washrooms
	}
	return base
}

func printQuote(cmd *cobra.Command, resp *getQuoteUC.Response) error {
	out := cmd.OutOrStdout()

	source := "manual"
	if resp.Estimated {
		source = "estimated"
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Service:\t%s (%s)\n", resp.Service.Title, resp.Service.ID)
	fmt.Fprintf(w, "Hours:\t%.1f (%s)\n", resp.Hours, source)
	fmt.Fprintf(w, "Rate:\t$%s/h\n", resp.Invoice.HourlyRate.StringFixed(2))
	for _, item := range resp.Invoice.LineItems {
		fmt.Fprintf(w, "  %s\t$%s\n", item.Description, item.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "Subtotal:\t$%s\n", resp.Invoice.Subtotal.StringFixed(2))
	fmt.Fprintf(w, "Tax:\t$%s\n", resp.Invoice.Tax.StringFixed(2))
	fmt.Fprintf(w, "Total:\t$%s\n", resp.Invoice.Total.StringFixed(2))
	fmt.Fprintf(w, "Deposit due now:\t$%s\n", resp.Invoice.Deposit.StringFixed(2))
	fmt.Fprintf(w, "Remaining:\t$%s\n", resp.Invoice.Remaining.StringFixed(2))
	return w.Flush()
}
