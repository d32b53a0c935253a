package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	metaPath   string
	dataPath   string
	httpURL    string
	s3Bucket   string
	s3Key      string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "iqview",
	Short:         "Render tiled spectrograms of SigMF recordings",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML config file")
	pf.StringVarP(&metaPath, "meta", "m", "", "SigMF metadata file (.sigmf-meta)")
	pf.StringVar(&dataPath, "data", "", "SigMF data file, defaults to the one beside --meta")
	pf.StringVar(&httpURL, "http-url", "", "URL of a .sigmf-data file served with Range support")
	pf.StringVar(&s3Bucket, "s3-bucket", "", "S3 bucket holding the recording")
	pf.StringVar(&s3Key, "s3-key", "", "S3 key of the .sigmf-data object")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(newRenderCmd(), newServeCmd(), newExportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "iqview:", err)
		os.Exit(1)
	}
}
