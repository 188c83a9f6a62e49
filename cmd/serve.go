package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"roadboard/web"
)

var (
	servePort   int
	serveNoOpen bool
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard web UI",
	Long: `Start a local HTTP server with the roadmap dashboard.

The source is read once at startup; a missing or unreadable source stops the
command before the server listens. Filters are applied per request on the
cached table.`,
	Example: `
  # Start on the configured port (default 8501)
  roadboard serve

  # Serve a different file on a custom port without opening a browser
  roadboard serve --source ./roadmap.csv --port 9090 --no-open
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSession()
		if err != nil {
			return err
		}

		port := rt.cfg.Serve.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		openBrowser := rt.cfg.Serve.OpenBrowser && !serveNoOpen

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			return fmt.Errorf("listen on port %d: %w", port, err)
		}

		return runServer(ctx, rt, listener, openBrowser)
	},
}

// runServer loads the source, then serves until ctx is cancelled.
func runServer(ctx context.Context, rt *session, listener net.Listener, openBrowser bool) error {
	if _, err := rt.source.Result(ctx); err != nil {
		listener.Close()
		return err
	}

	server := &http.Server{
		Handler:           web.NewServer(rt.source, rt.logger, rt.timelineKey()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	listenURL := "http://" + listener.Addr().String()
	fmt.Printf("Listening on %s\n", listenURL)
	rt.logger.Info("dashboard started", "url", listenURL, "source", rt.source.Source().Path)
	if openBrowser {
		if openErr := openURLInBrowser(listenURL); openErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
		}
	}

	return group.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8501, "HTTP port for the local web server (overrides serve.port)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
