package cli

import (
	"fmt"
	"strconv"

	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/spf13/cobra"
)

func newReservationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "reservations", Short: "Your bookings (customers)"}
	cmd.AddCommand(
		newReservationsMineCmd(a),
		newReservationsCreateCmd(a),
		newReservationsUpdateCmd(a),
		newReservationsCancelCmd(a),
	)
	return cmd
}

func newReservationsMineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authorize(roles.User); err != nil {
				return err
			}
			ctx := cmd.Context()
			mine, err := a.client.Reservations().Mine(ctx)
			if err != nil {
				return a.backendError(ctx, "listing reservations", err)
			}
			all, err := a.client.Flights().List(ctx)
			if err != nil {
				return a.backendError(ctx, "listing flights", err)
			}
			byID := make(map[int64]flights.Flight, len(all))
			for _, f := range all {
				byID[f.ID] = f
			}

			rows := make([][]string, 0, len(mine))
			for _, res := range mine {
				route, departure := "#"+id(res.IDVuelo), "-"
				if f, ok := byID[res.IDVuelo]; ok {
					route = f.Origen + " → " + f.Destino
					departure = f.FechaDeSalida + " " + f.HoraDeSalida
				}
				rows = append(rows, []string{id(res.ID), route, departure, res.FechaDeReserva, strconv.Itoa(res.NumeroDePasajeros)})
			}
			printTable(cmd.OutOrStdout(), "You have no reservations yet.",
				[]string{"ID", "Flight", "Departure", "Booked on", "Passengers"}, rows)
			return nil
		},
	}
}

func newReservationsCreateCmd(a *app) *cobra.Command {
	var (
		flightID   int64
		passengers int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book seats on a flight, dated today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.authorize(roles.User); err != nil {
				return err
			}
			res := flights.NewReservation(flightID, passengers, a.nowTime())
			if err := res.Validate(); err != nil {
				return err
			}
			created, err := a.client.Reservations().Create(cmd.Context(), res)
			if err != nil {
				return a.backendError(cmd.Context(), "booking", err)
			}
			printSuccess(cmd.OutOrStdout(), "Reservation #%d: %d passenger(s) on flight #%d.",
				created.ID, created.NumeroDePasajeros, created.IDVuelo)
			return nil
		},
	}

	cmd.Flags().Int64Var(&flightID, "flight", 0, "Flight id (see `aeroctl flights list`)")
	cmd.Flags().IntVar(&passengers, "passengers", 1, "Number of passengers")
	return cmd
}

func newReservationsUpdateCmd(a *app) *cobra.Command {
	var passengers int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the number of passengers on a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize(roles.User); err != nil {
				return err
			}
			resID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			repo := a.client.Reservations()
			res, err := repo.Get(ctx, resID)
			if err != nil {
				return a.backendError(ctx, "loading reservation", err)
			}
			res.NumeroDePasajeros = passengers
			if err := res.Validate(); err != nil {
				return err
			}
			if _, err := repo.Update(ctx, resID, res); err != nil {
				return a.backendError(ctx, "updating reservation", err)
			}
			printSuccess(cmd.OutOrStdout(), "Reservation #%d now has %d passenger(s).", resID, passengers)
			return nil
		},
	}

	cmd.Flags().IntVar(&passengers, "passengers", 1, "Number of passengers")
	return cmd
}

func newReservationsCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize(roles.User); err != nil {
				return err
			}
			resID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client.Reservations().Delete(cmd.Context(), resID); err != nil {
				return a.backendError(cmd.Context(), "cancelling reservation", err)
			}
			printSuccess(cmd.OutOrStdout(), "Reservation #%d cancelled.", resID)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return v, nil
}
