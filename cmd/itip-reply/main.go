// Command itip-reply answers an iCalendar invitation by mail.
//
// Usage:
//
//	itip-reply -config itip.yaml -response accept invite.ics
//
// Without -send the reply mail is written to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cyp0633/libitip/i18n"
	"github.com/cyp0633/libitip/identity/memory"
	"github.com/cyp0633/libitip/itip"
	"github.com/cyp0633/libitip/transport/smtp"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain returns the process exit code so deferred cleanup runs before exit.
func realMain(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("itip-reply", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		configPath = flags.String("config", "itip.yaml", "path to the YAML configuration")
		response   = flags.String("response", "accept", "accept, decline or tentative")
		comment    = flags.String("comment", "", "note appended to the subject")
		send       = flags.Bool("send", false, "submit the reply via SMTP instead of printing it")
		verbose    = flags.Bool("v", false, "verbose logging")
	)
	if err := flags.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: itip-reply [flags] invite.ics")
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	var transport itip.Transport = &writerTransport{w: stdout}
	if *send {
		transport, err = smtp.New(smtp.Config{
			Addr:        cfg.SMTP.Addr,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			ImplicitTLS: cfg.SMTP.ImplicitTLS,
			Insecure:    cfg.SMTP.Insecure,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to set up smtp", "error", err)
			return 1
		}
	}

	f, err := os.Open(flags.Arg(0))
	if err != nil {
		logger.Error("failed to open invitation", "error", err)
		return 1
	}
	defer f.Close()

	if _, err := run(context.Background(), cfg, f, *response, *comment, transport, logger); err != nil {
		logger.Error("failed to answer invitation", "error", err)
		return 1
	}
	return 0
}

// run builds and hands off the reply for one invitation.
func run(ctx context.Context, cfg *Config, invite io.Reader, response, comment string, transport itip.Transport, logger *slog.Logger) (*itip.Message, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ev, err := itip.ParseEvent(invite)
	if err != nil {
		return nil, err
	}
	if ev.Method() != itip.MethodRequest {
		return nil, fmt.Errorf("invitation method is %s, expected %s", ev.Method(), itip.MethodRequest)
	}

	store := memory.New(memory.WithLogger(logger))
	for key, id := range cfg.Identities {
		if err := store.AddIdentity(key, id); err != nil {
			return nil, err
		}
	}
	res, err := itip.NewIdentityResource(store, cfg.FallbackAddress, cfg.Identity)
	if err != nil {
		return nil, err
	}

	resp, err := parseResponse(response, res, comment)
	if err != nil {
		return nil, err
	}

	engine, err := itip.New(ev, res,
		itip.WithLogger(logger),
		itip.WithTranslator(i18n.Lookup(cfg.Language)))
	if err != nil {
		return nil, err
	}

	opts, err := itip.NewMessageIDOptions(cfg.Charset, cfg.Hostname)
	if err != nil {
		return nil, err
	}
	opts.UserAgent = cfg.UserAgent

	if cfg.Multipart {
		return engine.SendMultipart(ctx, resp, opts, transport)
	}
	return engine.SendSinglepart(ctx, resp, opts, transport)
}

func parseResponse(name string, res itip.Resource, comment string) (*itip.Response, error) {
	var opts []itip.ResponseOption
	if comment != "" {
		opts = append(opts, itip.WithComment(comment))
	}

	switch strings.ToLower(name) {
	case "accept", "accepted":
		return itip.Accept(res, opts...), nil
	case "decline", "declined":
		return itip.Decline(res, opts...), nil
	case "tentative":
		return itip.Tentative(res, opts...), nil
	default:
		return nil, fmt.Errorf("unknown response %q", name)
	}
}

// writerTransport prints messages instead of delivering them.
type writerTransport struct {
	w io.Writer
}

func (t *writerTransport) Send(_ context.Context, msg *itip.Message) error {
	return msg.Encode(t.w)
}
