/*
Copyright © 2025 lukietee

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lukietee/LifeLine/pkg/lifeline"
	"github.com/lukietee/LifeLine/pkg/metrics"
	"github.com/lukietee/LifeLine/pkg/tui"
)

const cfgFile = "lifeline.yaml"
const cfgFilePath = ".config/lifeline/"

var debug bool
var apiBase string
var metricsAddr string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lifeline",
	Short: "TUI dashboard for the Lifeline emergency triage service",
	Long: `'lifeline' is a TUI dashboard for the Lifeline emergency
triage service. It polls the service for reported incidents,
lets you filter them by text, category, and severity, and can
submit a sample transcript to exercise the server-side analysis.
The service itself is external; this tool only speaks to its
HTTP API.`,

	Run: func(cmd *cobra.Command, args []string) {
		if debug {
			for k, v := range viper.GetViper().AllSettings() {
				log.Debug("Found key", "key", k, "value", v)
			}
		}

		api := resolveAPIBase(apiBase)
		log.Info("startup", "api", api)

		if metricsAddr != "" {
			go func() {
				if err := metrics.Serve(metricsAddr); err != nil {
					log.Error("metrics listener failed", "addr", metricsAddr, "error", err)
				}
			}()
		}

		config, err := lifeline.NewConfig(api)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}

		m, _ := tui.InitialModel(config, debug)

		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debugging output")
	rootCmd.PersistentFlags().StringVarP(&apiBase, "api", "a", "", "Lifeline API base URL; overrides `LIFELINE_API` and the config file")
	rootCmd.PersistentFlags().StringVarP(&metricsAddr, "metrics-addr", "m", "", "Address to serve Prometheus metrics on (disabled when empty)")
}

// resolveAPIBase picks the API base in priority order: the --api flag, the
// LIFELINE_API environment variable or config file key (both via viper), and
// finally the literal fallback. Resolved once at startup.
func resolveAPIBase(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if api := viper.GetString("api"); api != "" {
		return api
	}

	return lifeline.DefaultAPIBase
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	// A .env in the working directory supplies LIFELINE_API during development
	_ = godotenv.Load()

	viper.AddConfigPath(home + "/" + cfgFilePath)
	viper.SetConfigName(cfgFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("lifeline")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found: "+err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Config file error: "+err.Error())
		}
	}
}
