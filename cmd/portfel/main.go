package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"portfel/internal/cli"
	"portfel/internal/core"
	"portfel/internal/log"
	"portfel/internal/supabase"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	app := cli.NewApp()
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Session.Restore(ctx); err != nil {
		app.Logger.Error("Failed to restore session", log.FieldError, err)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, app, os.Args[2:])
	case "logout":
		err = app.Session.Logout(ctx)
	case "expenses":
		err = runExpenses(ctx, app, os.Args[2:])
	case "crypto":
		err = runCrypto(ctx, app, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			fmt.Fprintln(os.Stderr, "invalid login or password")
		} else {
			// The generic transient notification of the original app.
			fmt.Fprintln(os.Stderr, "operation failed, please try again")
			app.Logger.Error("Command failed", log.FieldError, err)
		}
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portfel <command> [flags]

commands:
  login     -user <login> -password <password>
  logout
  expenses  list | add | edit | rm
  crypto    list | add | edit | rm`)
}

func runLogin(ctx context.Context, app *cli.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("user", "", "login name")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *user == "" || *password == "" {
		return errors.New("login requires -user and -password")
	}

	sess, err := app.Session.Login(ctx, *user, *password)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as user %d\n", sess.UserID)
	return nil
}

func requireSession(app *cli.App) (int, error) {
	sess, ok := app.Session.Current()
	if !ok {
		return 0, errors.New("not logged in, run: portfel login")
	}
	return sess.UserID, nil
}

func runExpenses(ctx context.Context, app *cli.App, args []string) error {
	if len(args) < 1 {
		return errors.New("expenses requires a subcommand: list, add, edit, rm")
	}

	switch args[0] {
	case "list":
		// Cached state renders first; the refresh then replaces it with
		// whatever the backend returns.
		if err := app.Expenses.LoadCached(ctx); err != nil {
			return err
		}
		if err := app.Expenses.Refresh(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "showing cached data (refresh failed)")
		}

		expenses := app.Expenses.Items()
		for _, e := range expenses {
			line := fmt.Sprintf("%4d  %-30s %10s", e.ID, e.Description, e.Amount.StringFixed(2))
			if e.Location != "" {
				line += "  @ " + e.Location
			}
			fmt.Println(line)
		}
		fmt.Printf("total: %s\n", core.ExpenseTotal(expenses).StringFixed(2))
		return nil

	case "add":
		fs := flag.NewFlagSet("expenses add", flag.ExitOnError)
		desc := fs.String("desc", "", "description")
		amount := fs.String("amount", "", "amount")
		location := fs.String("location", "", "location name")
		coords := fs.String("coords", "", "coordinates as lat,lng")
		fs.Parse(args[1:])

		ownerID, err := requireSession(app)
		if err != nil {
			return err
		}
		value, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("%w: %q", core.ErrInvalidAmount, *amount)
		}
		expense := core.Expense{
			Description: *desc,
			Amount:      value,
			Location:    *location,
			Coordinates: *coords,
		}
		if err := expense.Validate(); err != nil {
			return err
		}

		fields := supabase.ExpenseFields{
			Description: expense.Description,
			Amount:      expense.Amount,
			Location:    expense.Location,
			Coordinates: expense.Coordinates,
		}
		if err := app.Backend.CreateExpense(ctx, ownerID, fields); err != nil {
			return err
		}
		return app.Expenses.Refresh(ctx)

	case "edit":
		fs := flag.NewFlagSet("expenses edit", flag.ExitOnError)
		id := fs.Int("id", 0, "expense id")
		desc := fs.String("desc", "", "description")
		amount := fs.String("amount", "", "amount")
		location := fs.String("location", "", "location name")
		coords := fs.String("coords", "", "coordinates as lat,lng")
		fs.Parse(args[1:])

		if _, err := requireSession(app); err != nil {
			return err
		}
		value, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("%w: %q", core.ErrInvalidAmount, *amount)
		}

		fields := supabase.ExpenseFields{
			Description: *desc,
			Amount:      value,
			Location:    *location,
			Coordinates: *coords,
		}
		if err := app.Backend.UpdateExpense(ctx, *id, fields); err != nil {
			return err
		}
		return app.Expenses.Refresh(ctx)

	case "rm":
		fs := flag.NewFlagSet("expenses rm", flag.ExitOnError)
		id := fs.Int("id", 0, "expense id")
		fs.Parse(args[1:])

		if err := app.Expenses.LoadCached(ctx); err != nil {
			return err
		}
		return app.Expenses.Delete(ctx, *id)

	default:
		return fmt.Errorf("unknown expenses subcommand %q", args[0])
	}
}

func runCrypto(ctx context.Context, app *cli.App, args []string) error {
	if len(args) < 1 {
		return errors.New("crypto requires a subcommand: list, add, edit, rm")
	}

	switch args[0] {
	case "list":
		if err := app.Holdings.LoadCached(ctx); err != nil {
			return err
		}
		if err := app.Holdings.Refresh(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "showing cached data (refresh failed)")
		}

		values := app.Quotes.Enrich(ctx, app.Holdings.Items())
		for _, v := range values {
			fmt.Printf("%4d  %-10s amount %s  bought %s  now %s  profit %s\n",
				v.ID, v.Name, v.Amount.String(), v.PurchaseValue().StringFixed(2),
				v.CurrentValue().StringFixed(2), v.Profit().StringFixed(2))
		}
		fmt.Printf("profit: %s\n", core.PortfolioProfit(values).StringFixed(2))
		return nil

	case "add":
		fs := flag.NewFlagSet("crypto add", flag.ExitOnError)
		name := fs.String("name", "", "coin name (Bitcoin, Ethereum, XRP, Dogecoin)")
		buy := fs.String("buy", "", "buy price per unit")
		amount := fs.String("amount", "", "quantity held")
		fs.Parse(args[1:])

		ownerID, err := requireSession(app)
		if err != nil {
			return err
		}
		fields, err := parseHoldingFields(*name, *buy, *amount)
		if err != nil {
			return err
		}

		created, err := app.Backend.CreateHolding(ctx, ownerID, fields)
		if err != nil {
			return err
		}
		fmt.Printf("added holding %d\n", created.ID)
		return app.Holdings.Refresh(ctx)

	case "edit":
		fs := flag.NewFlagSet("crypto edit", flag.ExitOnError)
		id := fs.Int("id", 0, "holding id")
		name := fs.String("name", "", "coin name")
		buy := fs.String("buy", "", "buy price per unit")
		amount := fs.String("amount", "", "quantity held")
		fs.Parse(args[1:])

		if _, err := requireSession(app); err != nil {
			return err
		}
		fields, err := parseHoldingFields(*name, *buy, *amount)
		if err != nil {
			return err
		}

		if err := app.Backend.UpdateHolding(ctx, *id, fields); err != nil {
			return err
		}
		return app.Holdings.Refresh(ctx)

	case "rm":
		fs := flag.NewFlagSet("crypto rm", flag.ExitOnError)
		id := fs.Int("id", 0, "holding id")
		fs.Parse(args[1:])

		if err := app.Holdings.LoadCached(ctx); err != nil {
			return err
		}
		return app.Holdings.Delete(ctx, *id)

	default:
		return fmt.Errorf("unknown crypto subcommand %q", args[0])
	}
}

func parseHoldingFields(name, buy, amount string) (supabase.HoldingFields, error) {
	buyPrice, err := decimal.NewFromString(buy)
	if err != nil {
		return supabase.HoldingFields{}, fmt.Errorf("%w: buy price %q", core.ErrInvalidAmount, buy)
	}
	quantity, err := decimal.NewFromString(amount)
	if err != nil {
		return supabase.HoldingFields{}, fmt.Errorf("%w: amount %q", core.ErrInvalidAmount, amount)
	}

	holding := core.Holding{Name: name, BuyPrice: buyPrice, Amount: quantity}
	if err := holding.Validate(); err != nil {
		return supabase.HoldingFields{}, err
	}

	return supabase.HoldingFields{Name: name, BuyPrice: buyPrice, Amount: quantity}, nil
}
