package commands

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/openclaw/agentboard/internal/core/status"
	"github.com/openclaw/agentboard/internal/server"
	"github.com/openclaw/agentboard/internal/util"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve usage, task, activity and status reports over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8420",
		"Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	dir := expandPath(sessionsDir)

	tracker, err := status.NewTracker(dir)
	if err != nil {
		// Status tracking is optional; reports still work without it.
		util.LogWarnf("Status tracking disabled: %v", err)
		tracker = nil
	} else {
		defer tracker.Close()
	}

	handler := server.New(newAnalyzer(), tracker)

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	util.LogInfof("Serving reports on %s (sessions: %s)", serveAddr, dir)
	return srv.ListenAndServe()
}
