package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/superfeelapi/goVeritas/business/detector"
	"github.com/superfeelapi/goVeritas/foundation/audio"
	"github.com/superfeelapi/goVeritas/foundation/config"
	"github.com/superfeelapi/goVeritas/foundation/external/veritas"
	"github.com/superfeelapi/goVeritas/foundation/logger"
	"go.uber.org/zap"
)

const (
	defaultEndpoint = "http://127.0.0.1:8000/api/voice-detection"
	defaultKey      = "sk_test_123456789"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "veritas",
		Short:         "Voice authenticity client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDetectCmd(), newAnalyzeCmd())
	return root
}

func newDetectCmd() *cobra.Command {
	var (
		endpoint string
		key      string
		language string
	)

	cmd := &cobra.Command{
		Use:   "detect <file.mp3>",
		Short: "Send an MP3 clip to the detection API",
		Long: `Send an MP3 clip to the detection API and print the JSON verdict.

Examples:
  veritas detect sample.mp3
  veritas detect --language Tamil --endpoint http://host:8000/api/voice-detection sample.mp3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if env := os.Getenv("VERITAS_AUTH_API_KEY"); env != "" && !cmd.Flags().Changed("key") {
				key = env
			}

			start := time.Now()
			result, err := veritas.Detect(cmd.Context(), endpoint, key, language, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Round trip: %s\n", time.Since(start).Round(time.Millisecond))
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", defaultEndpoint, "detection endpoint URL")
	cmd.Flags().StringVar(&key, "key", defaultKey, "API key (VERITAS_AUTH_API_KEY overrides the default)")
	cmd.Flags().StringVar(&language, "language", "English", "language of the clip")

	return cmd
}

type analysis struct {
	File     string               `json:"file"`
	Policy   string               `json:"policy"`
	Features *detector.FeatureSet `json:"features,omitempty"`
	Verdict  detector.Verdict     `json:"verdict"`
	Degraded bool                 `json:"degraded"`
	Error    string               `json:"error,omitempty"`
}

func newAnalyzeCmd() *cobra.Command {
	var (
		policyFile    string
		policyVersion string
		window        time.Duration
		sampleRate    int
		debug         bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Score MP3 or WAV clips locally",
		Long: `Score MP3 or WAV clips locally and print the features behind each verdict.

Examples:
  veritas analyze sample.mp3
  veritas analyze --policy-file veritas.json --policy-version v2-strict *.mp3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var log *zap.SugaredLogger
			if debug {
				l, err := logger.New("", "veritas", true)
				if err != nil {
					return err
				}
				defer l.Sync()
				log = l
			}

			cfg := detector.DefaultConfig()
			cfg.Load = audio.LoadConfig{Window: window, SampleRate: sampleRate}

			if policyFile != "" {
				p, err := config.GetPolicy(policyFile, policyVersion)
				if err != nil {
					return err
				}
				cfg.Policy = detector.PolicyFrom(p)
			}

			d, err := detector.New(log, cfg)
			if err != nil {
				return err
			}

			for _, path := range args {
				a := analysis{File: path, Policy: d.Policy().Version}

				fs, v, err := d.Inspect(path)
				if err != nil {
					a.Verdict = detector.Fallback()
					a.Error = err.Error()
				} else {
					a.Features = &fs
					a.Verdict = v
				}
				a.Degraded = a.Verdict.Degraded

				if err := writeJSON(cmd.OutOrStdout(), a); err != nil {
					return err
				}
			}

			return nil
		},
	}

	defaults := audio.DefaultLoadConfig()
	cmd.Flags().StringVar(&policyFile, "policy-file", "", "JSON policy file")
	cmd.Flags().StringVar(&policyVersion, "policy-version", "v1", "policy version inside the policy file")
	cmd.Flags().DurationVar(&window, "window", defaults.Window, "analysis window")
	cmd.Flags().IntVar(&sampleRate, "sample-rate", defaults.SampleRate, "analysis sample rate")
	cmd.Flags().BoolVar(&debug, "debug", false, "debug logging")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
