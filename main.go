package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jdujava/texlab/internal/server"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

var (
	logfile   string
	verbosity int
	tcpAddr   string
	wsAddr    string
)

var rootCmd = &cobra.Command{
	Use:           "texlab",
	Short:         "Language server for LaTeX and BibTeX",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "path to log file (default: stderr)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
	rootCmd.Flags().StringVar(&tcpAddr, "tcp", "", "listen on a TCP address instead of stdio")
	rootCmd.Flags().StringVar(&wsAddr, "websocket", "", "listen on a websocket address instead of stdio")
	rootCmd.AddCommand(dumpCmd)
}

func configureLogging() {
	var path *string
	if logfile != "" {
		path = &logfile
	}
	commonlog.Configure(verbosity, path)
}

func runServer(cmd *cobra.Command, args []string) error {
	runtime.GOMAXPROCS(4)
	configureLogging()

	s := server.NewServer(Version)
	switch {
	case tcpAddr != "":
		return s.RunTCP(tcpAddr)
	case wsAddr != "":
		return s.RunWebSocket(wsAddr)
	default:
		return s.RunStdio()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "texlab:", err)
		os.Exit(1)
	}
}
