package cli

import (
	"context"
	"strconv"

	"github.com/jrsteele09/go-flight-admin/apiclient"
	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/spf13/cobra"
)

// listCmd describes a protected "list" subcommand over one resource.
type listCmd[T flights.Resource] struct {
	Short       string
	Requirement roles.Role // empty admits any signed-in account
	Empty       string
	Headers     []string
	List        func(ctx context.Context, c *apiclient.Client) ([]T, error)
	Row         func(T) []string
}

func (l listCmd[T]) command(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: l.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authorize(l.Requirement); err != nil {
				return err
			}
			items, err := l.List(cmd.Context(), a.client)
			if err != nil {
				return a.backendError(cmd.Context(), "listing", err)
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, l.Row(item))
			}
			printTable(cmd.OutOrStdout(), l.Empty, l.Headers, rows)
			return nil
		},
	}
}

func newAirlinesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "airlines", Short: "Airline catalogue"}
	cmd.AddCommand(
		listCmd[flights.Airline]{
			Short:   "List airlines",
			Empty:   "No airlines.",
			Headers: []string{"ID", "Name", "Code", "Country"},
			List: func(ctx context.Context, c *apiclient.Client) ([]flights.Airline, error) {
				return c.Airlines().List(ctx)
			},
			Row: func(al flights.Airline) []string {
				return []string{id(al.ID), al.Nombre, al.Codigo, al.Pais}
			},
		}.command(a),
		newAirlineAddCmd(a),
		newDeleteCmd(a, "airline", func(c *apiclient.Client) flights.Repo[flights.Airline] { return c.Airlines() }),
	)
	return cmd
}

func newAirportsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "airports", Short: "Airport catalogue"}
	cmd.AddCommand(
		listCmd[flights.Airport]{
			Short:   "List airports",
			Empty:   "No airports.",
			Headers: []string{"ID", "Name", "City", "Country"},
			List: func(ctx context.Context, c *apiclient.Client) ([]flights.Airport, error) {
				return c.Airports().List(ctx)
			},
			Row: func(ap flights.Airport) []string {
				return []string{id(ap.ID), ap.Nombre, ap.Ciudad, ap.Pais}
			},
		}.command(a),
		newDeleteCmd(a, "airport", func(c *apiclient.Client) flights.Repo[flights.Airport] { return c.Airports() }),
	)
	return cmd
}

func newFlightsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "flights", Short: "Scheduled flights"}
	cmd.AddCommand(
		listCmd[flights.Flight]{
			Short:   "List flights",
			Empty:   "No flights.",
			Headers: []string{"ID", "Route", "Departure", "Duration", "Seats", "Airline", "Layovers"},
			List: func(ctx context.Context, c *apiclient.Client) ([]flights.Flight, error) {
				return c.Flights().List(ctx)
			},
			Row: func(f flights.Flight) []string {
				airline := "-"
				if f.Aerolinea != nil {
					airline = f.Aerolinea.Nombre
				}
				return []string{
					id(f.ID),
					f.Origen + " → " + f.Destino,
					f.FechaDeSalida + " " + f.HoraDeSalida,
					f.Duracion.String(),
					strconv.Itoa(f.Capacidad),
					airline,
					strconv.Itoa(len(f.Escalas)),
				}
			},
		}.command(a),
		newDeleteCmd(a, "flight", func(c *apiclient.Client) flights.Repo[flights.Flight] { return c.Flights() }),
	)
	return cmd
}

func newLayoversCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "layovers", Short: "Flight layovers (admin)"}
	cmd.AddCommand(
		listCmd[flights.Layover]{
			Short:       "List layovers",
			Requirement: roles.Admin,
			Empty:       "No layovers.",
			Headers:     []string{"ID", "Flight", "Airport", "Duration"},
			List: func(ctx context.Context, c *apiclient.Client) ([]flights.Layover, error) {
				return c.Layovers().List(ctx)
			},
			Row: func(l flights.Layover) []string {
				airport := "#" + id(l.IDAeropuerto)
				if l.Aeropuerto != nil {
					airport = l.Aeropuerto.Nombre + " (" + l.Aeropuerto.Ciudad + ")"
				}
				return []string{id(l.ID), "#" + id(l.IDVuelo), airport, l.Duracion.String()}
			},
		}.command(a),
		newDeleteCmd(a, "layover", func(c *apiclient.Client) flights.Repo[flights.Layover] { return c.Layovers() }),
	)
	return cmd
}

func newAirlineAddCmd(a *app) *cobra.Command {
	var airline flights.Airline

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an airline (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authorize(roles.Admin); err != nil {
				return err
			}
			if err := airline.Validate(); err != nil {
				return err
			}
			created, err := a.client.Airlines().Create(cmd.Context(), airline)
			if err != nil {
				return a.backendError(cmd.Context(), "adding airline", err)
			}
			printSuccess(cmd.OutOrStdout(), "Airline #%d %s added.", created.ID, created.Nombre)
			return nil
		},
	}

	cmd.Flags().StringVar(&airline.Nombre, "name", "", "Airline name")
	cmd.Flags().StringVar(&airline.Codigo, "code", "", "IATA code")
	cmd.Flags().StringVar(&airline.Pais, "country", "", "Country")
	return cmd
}

// newDeleteCmd is the admin-only "delete <id>" subcommand of a catalogue resource.
func newDeleteCmd[T flights.Resource](a *app, noun string, repo func(c *apiclient.Client) flights.Repo[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun + " (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize(roles.Admin); err != nil {
				return err
			}
			itemID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := repo(a.client).Delete(cmd.Context(), itemID); err != nil {
				return a.backendError(cmd.Context(), "deleting "+noun, err)
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s #%d.", noun, itemID)
			return nil
		},
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
