package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nutriscan/nutriscan/internal/api"
	"github.com/nutriscan/nutriscan/internal/model"
	"github.com/nutriscan/nutriscan/internal/query"
	"github.com/nutriscan/nutriscan/internal/scanner"
)

// lineCamera adapts an input stream to the scanner's Camera interface. Each
// "stream" has one track whose teardown is observed the same way a real
// camera track's would be.
type lineCamera struct{}

type lineTrack struct {
	stopped bool
	mu      sync.Mutex
}

func (t *lineTrack) ID() string { return "stdin" }

func (t *lineTrack) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

type lineStream struct {
	track *lineTrack
}

func (s *lineStream) Tracks() []scanner.Track { return []scanner.Track{s.track} }

func (s *lineStream) SetTorch(bool) error { return scanner.ErrTorchUnsupported }

func (s *lineStream) Capture(context.Context) ([]byte, error) {
	return nil, errors.New("line input has no still capture, use 'meals scan' with an image file")
}

func (c *lineCamera) Open(ctx context.Context, mode scanner.Mode) (scanner.Stream, error) {
	return &lineStream{track: &lineTrack{}}, nil
}

// lineDecoder reads one payload per input line.
type lineDecoder struct {
	r *bufio.Reader
}

func (d *lineDecoder) Next(ctx context.Context, _ scanner.Stream) (string, error) {
	type lineResult struct {
		line string
		err  error
	}
	ch := make(chan lineResult, 1)
	go func() {
		line, err := d.r.ReadString('\n')
		ch <- lineResult{strings.TrimSpace(line), err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil && res.line == "" {
			return "", res.err
		}
		return res.line, nil
	}
}

func newScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Interactive barcode session, one barcode per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			done := make(chan struct{})
			var closeOnce sync.Once
			finish := func() { closeOnce.Do(func() { close(done) }) }

			lookup := func(ctx context.Context, payload string) (any, error) {
				return app.Cache.Mutate(ctx, query.Mutation{
					Run: func(ctx context.Context) (any, error) {
						return app.API.ScanProduct(ctx, payload)
					},
					Invalidates: []query.Key{query.K("products")},
				})
			}

			screen := scanner.NewScreen(&lineCamera{}, &lineDecoder{r: bufio.NewReader(cmd.InOrStdin())}, lookup,
				scanner.OnDetected(func(r scanner.Result) {
					product := r.Value.(*model.ScannedProduct)
					fmt.Fprintf(out, "%s  %s (%s)\n", r.Payload, product.ProductName, product.Brands)
				}),
				scanner.OnError(func(err error) {
					if errors.Is(err, io.EOF) {
						finish()
						return
					}
					if errors.Is(err, api.ErrNotFound) {
						fmt.Fprintln(out, "unknown barcode, try another")
						return
					}
					fmt.Fprintf(out, "scan error: %v\n", err)
				}),
			)
			defer screen.Close()

			if err := screen.RequestPermission(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "scanning, enter barcodes (ctrl-d to quit)")
			if err := screen.Start(cmd.Context(), scanner.ModeBarcode); err != nil {
				return err
			}

			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-done:
				return nil
			}
		},
	}
}
