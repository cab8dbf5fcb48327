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
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lukietee/LifeLine/pkg/deprecation"
	"github.com/lukietee/LifeLine/pkg/lifeline"
)

const (
	exampleConfig = `
# Example lifeline configuration file
---
# This is an example configuration file for lifeline. It is intended to be
# used as a reference for the configuration options available to the user.
# The configuration file is located at ~/.config/lifeline/lifeline.yaml

# All keys are optional.

# Lifeline API base URL
# May also be set with the LIFELINE_API environment variable or --api flag,
# both of which take priority over this key.
api: http://127.0.0.1:8000

# Address to serve Prometheus metrics on; disabled when unset
# metrics_addr: 127.0.0.1:9099`
)

const description = `The config command is used to create or validate the lifeline config file.
The config file is located at ~/.config/lifeline/lifeline.yaml and is used to
store the configuration options for the lifeline dashboard.`

var (
	optionalKeys = map[string]string{
		"api":          fmt.Sprintf("Lifeline API base URL (default: %v)", lifeline.DefaultAPIBase),
		"metrics_addr": "Address to serve Prometheus metrics on (default: disabled)",
	}
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Create or validate the lifeline config file",
	Long:         description + "\n\n" + exampleConfig,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case cmd.Flag("create").Value.String() == "true":
			fmt.Println(exampleConfig)
			return nil
		case cmd.Flag("validate").Value.String() == "true":
			err := validateConfig()
			if err != nil {
				return err
			}
			fmt.Printf("Config file is valid\n")
			return nil
		default:
			err := cmd.Usage()
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolP("create", "c", false, "print a sample config file")
	configCmd.Flags().BoolP("validate", "v", false, "validate the config file")
	configCmd.MarkFlagsMutuallyExclusive("create", "validate")
}

// validateConfig checks the viper settings passed into the program
func validateConfig() error {
	errs := []error{}
	settings := viper.GetViper().AllSettings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if deprecation.Deprecated(k) {
			log.Info("Found deprecated key; use 'api' instead", "key_name", k)
			continue
		}

		log.Debug("Found key", k, fmt.Sprintf("%v", settings[k]))
	}

	if api, ok := settings["api"]; ok {
		s, ok := api.(string)
		if !ok {
			errs = append(errs, fmt.Errorf("'api' is not a string"))
		} else if u, err := url.Parse(s); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("'api' is not an absolute URL: %v", s))
		}
	}

	for k, v := range optionalKeys {
		if _, ok := settings[k]; !ok {
			log.Warn("missing optional key: " + k + "; " + v)
		}
	}

	return errors.Join(errs...)
}
