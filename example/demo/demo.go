package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/eapache/go-resiliency/retrier"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Zereker/stomp"
	"github.com/Zereker/stomp/internal/config"
)

// demo runs a consumer session and a producer session against one queue.
// The producer sends a message, then waits until the consumer has printed
// it before sending the next.
type demo struct {
	cfg    *config.Config
	out    io.Writer
	logger *slog.Logger
}

func (d *demo) run(ctx context.Context) error {
	consumer, err := d.open(ctx, "consumer")
	if err != nil {
		return err
	}
	defer consumer.Close()

	if err = consumer.Subscribe(d.cfg.Demo.SubscriptionID, d.cfg.Demo.Queue); err != nil {
		return errors.Wrap(err, "subscribe")
	}
	d.logger.Info("subscribed", "id", d.cfg.Demo.SubscriptionID, "queue", d.cfg.Demo.Queue)

	producer, err := d.open(ctx, "producer")
	if err != nil {
		return err
	}
	defer producer.Close()

	received := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.produce(ctx, producer, received)
	})
	g.Go(func() error {
		return d.consume(ctx, consumer, received)
	})
	return g.Wait()
}

// open dials the broker, retrying with a constant backoff, and performs
// the CONNECT exchange.
func (d *demo) open(ctx context.Context, role string) (*stomp.Client, error) {
	broker := d.cfg.Broker
	logger := d.logger.With("role", role)

	opts := []stomp.Option{
		stomp.ReceiptsOption(broker.Receipts),
		stomp.MaxBodySizeOption(broker.MaxBodySize),
		stomp.HostOption(broker.Host),
		stomp.LoggerOption(logger),
	}

	var client *stomp.Client
	r := retrier.New(retrier.ConstantBackoff(broker.DialAttempts-1, broker.DialBackoff), nil)
	err := r.RunCtx(ctx, func(ctx context.Context) error {
		logger.Debug("dialing broker", "addr", broker.Address)
		c, err := stomp.Dial(ctx, "tcp", broker.Address, opts...)
		if err != nil {
			logger.Warn("dial failed", "addr", broker.Address, "error", err)
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s: dial %s", role, broker.Address)
	}

	reply, err := client.Connect()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: connect", role)
	}
	if reply.Command == stomp.ERROR {
		_ = client.Close()
		msg, _ := reply.Headers.Get("message")
		return nil, errors.Errorf("%s: broker refused connection: %s", role, msg)
	}
	return client, nil
}

func (d *demo) produce(ctx context.Context, c *stomp.Client, received <-chan struct{}) error {
	count := d.cfg.Demo.Count
	for i := 1; i <= count; i++ {
		body := fmt.Sprintf("Message %d of %d", i, count)
		if err := c.Send(d.cfg.Demo.Queue, []byte(body)); err != nil {
			return errors.Wrapf(err, "producer: send message %d", i)
		}

		select {
		case <-received:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := d.disconnect(c, 0); err != nil {
		return errors.Wrap(err, "producer")
	}
	d.logger.Info("producer done", "sent", count)
	return nil
}

func (d *demo) consume(ctx context.Context, c *stomp.Client, received chan<- struct{}) error {
	// Unblock ReadFrame if the producer fails.
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	var acked uint64
	count := d.cfg.Demo.Count
	for i := 1; i <= count; {
		f, err := c.ReadFrame()
		if err != nil {
			return errors.Wrapf(err, "consumer: read message %d", i)
		}

		switch f.Command {
		case stomp.MESSAGE:
		case stomp.ERROR:
			msg, _ := f.Headers.Get("message")
			return errors.Errorf("consumer: broker error: %s", msg)
		case stomp.RECEIPT:
			acked = max(acked, receiptID(f))
			continue
		default:
			d.logger.Debug("skipping frame", "command", f.Command)
			continue
		}

		printFrame(d.out, i, f)
		i++

		select {
		case received <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := d.disconnect(c, acked); err != nil {
		return errors.Wrap(err, "consumer")
	}
	d.logger.Info("consumer done", "received", count)
	return nil
}

// disconnect waits for the receipts still owed for frames sent so far, so
// that the reply Disconnect reads is the receipt for DISCONNECT itself, then
// ends the session. acked is the highest receipt id already seen.
func (d *demo) disconnect(c *stomp.Client, acked uint64) error {
	for acked < c.Receipts() {
		f, err := c.ReadFrame()
		if err != nil {
			return errors.Wrapf(err, "await receipt %d", c.Receipts())
		}

		switch f.Command {
		case stomp.RECEIPT:
			acked = max(acked, receiptID(f))
		case stomp.ERROR:
			msg, _ := f.Headers.Get("message")
			return errors.Errorf("broker error: %s", msg)
		default:
			d.logger.Debug("skipping frame", "command", f.Command)
		}
	}

	reply, err := c.Disconnect()
	if err != nil {
		return errors.Wrap(err, "disconnect")
	}
	if d.cfg.Broker.Receipts {
		if reply.Command != stomp.RECEIPT || receiptID(reply) != c.Receipts() {
			return errors.Errorf("disconnect: unexpected reply %s receipt-id %d, want %d",
				reply.Command, receiptID(reply), c.Receipts())
		}
	}
	return nil
}

// receiptID returns the receipt-id of f, or 0 when it is missing or not a number.
func receiptID(f stomp.Frame) uint64 {
	v, _ := f.Headers.Get(stomp.HeaderReceiptID)
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

var (
	separator = color.New(color.FgHiBlack)
	title     = color.New(color.FgHiBlue, color.Underline)
	text      = color.New(color.FgWhite)
)

// printFrame writes a received frame between separator lines.
func printFrame(w io.Writer, n int, f stomp.Frame) {
	_, _ = separator.Fprintln(w, "----------")
	_, _ = title.Fprintf(w, "#%d %s\n", n, f.Command)
	_, _ = text.Fprintln(w, f.String())
	_, _ = separator.Fprintln(w, "----------")
}
