package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"grocito/internal/config"
	"grocito/internal/domain"
	"grocito/internal/logger"
	"grocito/internal/notifyclient"
	"grocito/internal/repository"
	"grocito/internal/service"
)

const (
	defaultOrderAPI  = "http://localhost:8080/api"
	defaultNotifyAPI = "http://localhost:3001/api/email"
)

// env собирает зависимости команды: флаги важнее файла конфигурации
type env struct {
	orders  *repository.HTTPOrders
	notify  *notifyclient.Client
	logger  *zap.Logger
	limit   int
	delay   time.Duration
	timeout time.Duration
}

func pickString(c *cli.Context, flag, fromFile string) string {
	if c.IsSet(flag) || fromFile == "" {
		return c.String(flag)
	}
	return fromFile
}

func pickDuration(c *cli.Context, flag string, fromFile time.Duration) time.Duration {
	if c.IsSet(flag) || fromFile <= 0 {
		return c.Duration(flag)
	}
	return fromFile
}

func loadEnv(c *cli.Context) (*env, error) {
	fileCfg, err := config.LoadToolConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	lg, err := logger.New(c.String("log-level"), "development")
	if err != nil {
		return nil, err
	}
	timeout := pickDuration(c, "timeout", fileCfg.Timeout)
	e := &env{
		orders:  repository.NewHTTPOrders(pickString(c, "backend-url", fileCfg.OrderAPIURL), timeout),
		notify:  notifyclient.New(pickString(c, "notify-url", fileCfg.NotifyAPIURL), timeout),
		logger:  lg,
		limit:   fileCfg.Limit,
		delay:   fileCfg.Delay,
		timeout: timeout,
	}
	return e, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "notifyctl",
		Usage: "operator tools for the Grocito email service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend-url", Value: defaultOrderAPI, EnvVars: []string{"ORDER_API_URL"}, Usage: "order backend base URL"},
			&cli.StringFlag{Name: "notify-url", Value: defaultNotifyAPI, EnvVars: []string{"NOTIFY_API_URL"}, Usage: "email service base URL"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML file with defaults"},
			&cli.DurationFlag{Name: "timeout", Value: 15 * time.Second, Usage: "per-request HTTP timeout"},
			&cli.StringFlag{Name: "log-level", Value: "warn"},
		},
		Commands: []*cli.Command{
			replayCommand(),
			resendCommand(),
			placeCommand(),
			healthCommand(),
			testEmailCommand(),
		},
	}
}

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:  "replay",
		Usage: "resend confirmations for the most recent orders",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: service.DefaultReplayLimit},
			&cli.DurationFlag{Name: "delay", Value: time.Second, Usage: "pause between emails"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			limit := c.Int("limit")
			if !c.IsSet("limit") && e.limit > 0 {
				limit = e.limit
			}
			delay := pickDuration(c, "delay", e.delay)

			svc := service.NewReplayService(e.orders, e.notify, delay, e.logger)
			report, err := svc.ReplayRecent(c.Context, limit)
			if report != nil {
				w := c.App.Writer
				fmt.Fprintf(w, "processed %d orders: %d sent, %d simulated, %d failed\n",
					report.Processed, report.Sent, report.Simulated, report.Failed)
				if len(report.Recipients) > 0 {
					fmt.Fprintln(w, "check the following mailboxes:")
					for _, r := range report.Recipients {
						fmt.Fprintf(w, "  %s\n", r)
					}
				}
			}
			return err
		},
	}
}

func resendCommand() *cli.Command {
	return &cli.Command{
		Name:  "resend",
		Usage: "resend the confirmation for one order",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "order-id", Required: true},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			svc := service.NewReplayService(e.orders, e.notify, 0, e.logger)
			res, err := svc.ReplayOrder(c.Context, c.Int64("order-id"))
			if err != nil {
				return err
			}
			printResult(c, res)
			return nil
		},
	}
}

func placeCommand() *cli.Command {
	return &cli.Command{
		Name:  "place",
		Usage: "place an order from the user's cart and send the confirmation",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user-id", Required: true},
			&cli.StringFlag{Name: "address", Required: true},
			&cli.StringFlag{Name: "payment-method", Value: string(domain.PaymentMethodCOD)},
			&cli.StringFlag{Name: "payment-id"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			method := domain.PaymentMethod(strings.ToUpper(c.String("payment-method")))
			if method != domain.PaymentMethodCOD && method != domain.PaymentMethodOnline {
				return fmt.Errorf("unknown payment method %q", c.String("payment-method"))
			}
			svc := service.NewCheckoutService(e.orders, e.notify, e.timeout, e.logger)
			res, err := svc.PlaceOrder(c.Context, c.Int64("user-id"), c.String("address"), service.PaymentChoice{
				Method: method,
				ID:     c.String("payment-id"),
			})
			if err != nil {
				return err
			}
			w := c.App.Writer
			fmt.Fprintf(w, "order #%d placed, total ₹%s\n", res.Order.ID, res.Order.TotalAmount.StringFixed(2))
			if res.Warning != nil {
				fmt.Fprintf(w, "warning: %v\n", res.Warning)
			}
			return nil
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check that the order backend and the email service are reachable",
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			w := c.App.Writer
			var failed bool

			if orders, err := e.orders.All(c.Context); err != nil {
				failed = true
				fmt.Fprintf(w, "order backend: unreachable (%v)\n", err)
			} else {
				fmt.Fprintf(w, "order backend: ok, %d orders\n", len(orders))
			}

			if h, err := e.notify.Health(c.Context); err != nil {
				failed = true
				fmt.Fprintf(w, "email service: unreachable (%v)\n", err)
			} else {
				mode := "simulation"
				if h.EmailConfigValid {
					mode = "smtp"
				}
				fmt.Fprintf(w, "email service: %s, mode %s\n", h.Status, mode)
			}

			if failed {
				return errors.New("health check failed")
			}
			return nil
		},
	}
}

func testEmailCommand() *cli.Command {
	return &cli.Command{
		Name:  "test-email",
		Usage: "send a diagnostic email",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Required: true},
			&cli.StringFlag{Name: "name"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv(c)
			if err != nil {
				return err
			}
			res, err := e.notify.SendTest(c.Context, domain.TestEmailRequest{
				UserEmail: c.String("to"),
				UserName:  c.String("name"),
			})
			if err != nil {
				return err
			}
			printResult(c, res)
			return nil
		},
	}
}

func printResult(c *cli.Context, res domain.NotificationResult) {
	w := c.App.Writer
	switch {
	case !res.Success:
		fmt.Fprintf(w, "failed: %s\n", res.Error)
	case res.Simulated:
		fmt.Fprintf(w, "%s (simulated)\n", res.Message)
	default:
		fmt.Fprintf(w, "%s, message id %s\n", res.Message, res.MessageID)
	}
}
